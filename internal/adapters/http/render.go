package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"eventra/internal/adapters/http/middleware"
	"eventra/internal/application/listutil"
	"eventra/internal/domain/apierror"
	"eventra/internal/domain/reservation"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFiles embed.FS

func staticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error", "path", r.URL.Path, "request_id", middleware.RequestIDFromContext(r.Context()), "error", err)
	renderTemplate(w, r, http.StatusInternalServerError, "error.html", errorPage{
		Title:   "Something went wrong",
		Message: apierror.MsgServerFail,
		Retry:   true,
	})
}

// errorPage is the data for error.html.
type errorPage struct {
	Title   string
	Message string
	Retry   bool
}

// renderFetchError shows the error view for a failed event fetch: distinct
// copy for not found, retry copy for everything else.
func renderFetchError(w http.ResponseWriter, r *http.Request, err error) {
	if apierror.KindOf(err) == apierror.KindNotFound {
		renderTemplate(w, r, http.StatusNotFound, "error.html", errorPage{
			Title:   apierror.MsgNotFound,
			Message: "The event may have been removed or the link is incorrect.",
		})
		return
	}
	slog.Warn("event_fetch_failed", "path", r.URL.Path, "kind", apierror.KindOf(err), "error", err)
	renderTemplate(w, r, http.StatusBadGateway, "error.html", errorPage{
		Title:   "Unable to load events",
		Message: apierror.UserMessage(err),
		Retry:   true,
	})
}

func renderTemplate(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	funcMap := template.FuncMap{
		"csrfField":      func() template.HTML { return csrf.TemplateField(r) },
		"renderMarkdown": renderMarkdown,
		"amount":         reservation.FormatAmount,
		"add":            func(a, b int) int { return a + b },
		"list":           func(items ...any) []any { return items },
		"listURL": func(p listutil.ListParams, page int) template.URL {
			return template.URL("/?" + p.WithPage(page).Query().Encode())
		},
		"imageURL": func(eventID string, index int) template.URL {
			return template.URL("/events/" + url.PathEscape(eventID) + "?img=" + strconv.Itoa(index))
		},
		"currentPath": func() string { return r.URL.RequestURI() },
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		slog.Error("template_parse_failed", "template", templateName, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		slog.Error("template_render_failed", "template", templateName, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
