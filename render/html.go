package render

import (
	"embed"
	"html/template"
	"io"

	"jyu-rooms/i18n"
	"jyu-rooms/rooms"
)

//go:embed templates/*.html
var templateFS embed.FS

var gridTemplate = template.Must(template.New("grid.html").Funcs(template.FuncMap{
	"statusClass": statusClass,
}).ParseFS(templateFS, "templates/grid.html"))

func statusClass(a rooms.Availability) string {
	switch a {
	case rooms.Available:
		return "status-available"
	case rooms.Unavailable:
		return "status-unavailable"
	}
	return "status-unknown"
}

// HTML writes the complete grid markup; callers replace the old grid with it.
func HTML(w io.Writer, cards []Card, lang i18n.Lang) error {
	return gridTemplate.ExecuteTemplate(w, "grid", struct {
		Cards []Card
		Text  i18n.Strings
	}{
		Cards: cards,
		Text:  i18n.For(lang),
	})
}
