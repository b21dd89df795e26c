package event

// Keys recognised by HandleKey.
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// Carousel is a cyclic cursor over an event's gallery.
type Carousel struct {
	Images []string
	Index  int
}

// NewCarousel builds a carousel over the gallery, positioned at index.
// Out-of-range indexes wrap cyclically.
// POST: 0 <= Index < len(Images)
func NewCarousel(e Event, index int) Carousel {
	c := Carousel{Images: e.Gallery()}
	c.Index = wrap(index, len(c.Images))
	return c
}

// Current returns the image at the cursor.
func (c Carousel) Current() string {
	if len(c.Images) == 0 {
		return PlaceholderImage
	}
	return c.Images[c.Index]
}

// Next returns the carousel advanced by one, wrapping to the start.
func (c Carousel) Next() Carousel {
	c.Index = wrap(c.Index+1, len(c.Images))
	return c
}

// Prev returns the carousel moved back by one, wrapping to the end.
func (c Carousel) Prev() Carousel {
	c.Index = wrap(c.Index-1, len(c.Images))
	return c
}

// HandleKey applies arrow-key navigation. Keys are ignored while a modal is open.
func (c Carousel) HandleKey(key string, modalOpen bool) Carousel {
	if modalOpen {
		return c
	}
	switch key {
	case KeyArrowLeft:
		return c.Prev()
	case KeyArrowRight:
		return c.Next()
	}
	return c
}

// HasMany reports whether navigation controls should be shown.
func (c Carousel) HasMany() bool {
	return len(c.Images) > 1
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
