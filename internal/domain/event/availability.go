package event

import "math"

// AlmostFullThreshold is the occupancy percentage at which an event is flagged almost full.
const AlmostFullThreshold = 80

// Availability is the derived seat state for one capacity snapshot.
type Availability struct {
	AvailableSeats int
	OccupancyRate  int
	IsAlmostFull   bool
	IsSoldOut      bool
}

// ComputeAvailability derives remaining seats and occupancy flags.
// PRE: none; negative or zero capacity is tolerated
// POST: OccupancyRate is 0 when capacity <= 0
// INVARIANT: IsSoldOut == (AvailableSeats <= 0)
func ComputeAvailability(capacity, bookedSeats int) Availability {
	a := Availability{AvailableSeats: capacity - bookedSeats}
	if capacity > 0 {
		a.OccupancyRate = int(math.Round(float64(bookedSeats) / float64(capacity) * 100))
	}
	a.IsAlmostFull = a.OccupancyRate >= AlmostFullThreshold
	a.IsSoldOut = a.AvailableSeats <= 0
	return a
}
