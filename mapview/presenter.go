// Package mapview keeps building markers on a map widget in step with the
// campus and building selection.
package mapview

import (
	"strings"
	"unicode/utf8"

	"jyu-rooms/rooms"
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Bounds struct {
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
}

type MarkerStyle struct {
	Size  int    `json:"size"`
	Color string `json:"color"`
}

var (
	DefaultStyle  = MarkerStyle{Size: 28, Color: "#2563eb"}
	SelectedStyle = MarkerStyle{Size: 40, Color: "#dc2626"}
)

type Marker struct {
	ID       string      `json:"id"`
	Glyph    string      `json:"glyph"`
	Title    string      `json:"title"`
	Address  string      `json:"address,omitempty"`
	Position LatLng      `json:"position"`
	Style    MarkerStyle `json:"style"`
	Visible  bool        `json:"visible"`
}

// Widget is the map surface the presenter draws on.
type Widget interface {
	AddMarker(m Marker)
	SetMarkerStyle(id string, style MarkerStyle)
	SetMarkerVisible(id string, visible bool)
	SetView(center LatLng, zoom int)
	FitBounds(b Bounds)
}

type Presenter struct {
	widget        Widget
	defaultCenter LatLng
	defaultZoom   int
	selectedZoom  int

	buildings map[string]rooms.Building
	order     []string
	selected  string
	campus    string
}

func NewPresenter(w Widget, center LatLng, zoom int) *Presenter {
	p := &Presenter{
		widget:        w,
		defaultCenter: center,
		defaultZoom:   zoom,
		selectedZoom:  17,
		buildings:     map[string]rooms.Building{},
	}
	w.SetView(center, zoom)
	return p
}

// SetBuildings adds or refreshes one marker per building with coordinates.
func (p *Presenter) SetBuildings(buildings []rooms.Building) {
	for _, b := range buildings {
		if !b.HasCoordinates() {
			continue
		}
		if _, ok := p.buildings[b.ID]; !ok {
			p.order = append(p.order, b.ID)
		}
		p.buildings[b.ID] = b

		style := DefaultStyle
		if b.ID == p.selected {
			style = SelectedStyle
		}
		p.widget.AddMarker(Marker{
			ID:       b.ID,
			Glyph:    glyph(b),
			Title:    b.Name,
			Address:  b.Address,
			Position: LatLng{Lat: b.Latitude, Lng: b.Longitude},
			Style:    style,
			Visible:  p.campus == "" || b.Campus == p.campus,
		})
	}
}

func glyph(b rooms.Building) string {
	if b.Glyph != "" {
		return b.Glyph
	}
	r, _ := utf8.DecodeRuneInString(b.Name)
	if r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}

// Select highlights the building and centers on it. An empty id clears the
// highlight and returns to the campus view.
func (p *Presenter) Select(id string) {
	if p.selected != "" && p.selected != id {
		if _, ok := p.buildings[p.selected]; ok {
			p.widget.SetMarkerStyle(p.selected, DefaultStyle)
		}
	}
	p.selected = id
	if id == "" {
		p.FilterCampus(p.campus)
		return
	}
	b, ok := p.buildings[id]
	if !ok {
		return
	}
	p.widget.SetMarkerStyle(id, SelectedStyle)
	p.widget.SetMarkerVisible(id, true)
	p.widget.SetView(LatLng{Lat: b.Latitude, Lng: b.Longitude}, p.selectedZoom)
}

// FilterCampus hides markers outside campus and fits the view to the rest.
// An empty campus shows everything and restores the default view.
func (p *Presenter) FilterCampus(campus string) {
	p.campus = campus

	var (
		bounds Bounds
		count  int
	)
	for _, id := range p.order {
		b := p.buildings[id]
		visible := campus == "" || b.Campus == campus
		p.widget.SetMarkerVisible(id, visible)
		if !visible {
			continue
		}
		pos := LatLng{Lat: b.Latitude, Lng: b.Longitude}
		if count == 0 {
			bounds = Bounds{SouthWest: pos, NorthEast: pos}
		} else {
			bounds = extend(bounds, pos)
		}
		count++
	}

	if campus == "" || count == 0 {
		p.widget.SetView(p.defaultCenter, p.defaultZoom)
		return
	}
	p.widget.FitBounds(bounds)
}

func extend(b Bounds, pos LatLng) Bounds {
	if pos.Lat < b.SouthWest.Lat {
		b.SouthWest.Lat = pos.Lat
	}
	if pos.Lng < b.SouthWest.Lng {
		b.SouthWest.Lng = pos.Lng
	}
	if pos.Lat > b.NorthEast.Lat {
		b.NorthEast.Lat = pos.Lat
	}
	if pos.Lng > b.NorthEast.Lng {
		b.NorthEast.Lng = pos.Lng
	}
	return b
}

func (p *Presenter) Selected() string {
	return p.selected
}
