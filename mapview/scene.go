package mapview

import (
	"encoding/json"
	"sync"
)

type View struct {
	Center LatLng  `json:"center"`
	Zoom   int     `json:"zoom"`
	Bounds *Bounds `json:"bounds,omitempty"`
}

// Scene is a Widget that keeps the drawn markers and view in memory. The
// page's Leaflet map is redrawn from its JSON form.
type Scene struct {
	mu      sync.RWMutex
	order   []string
	markers map[string]Marker
	view    View
}

func NewScene() *Scene {
	return &Scene{markers: map[string]Marker{}}
}

func (s *Scene) AddMarker(m Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.markers[m.ID]; !ok {
		s.order = append(s.order, m.ID)
	}
	s.markers[m.ID] = m
}

func (s *Scene) SetMarkerStyle(id string, style MarkerStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.markers[id]; ok {
		m.Style = style
		s.markers[id] = m
	}
}

func (s *Scene) SetMarkerVisible(id string, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.markers[id]; ok {
		m.Visible = visible
		s.markers[id] = m
	}
}

func (s *Scene) SetView(center LatLng, zoom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = View{Center: center, Zoom: zoom}
}

func (s *Scene) FitBounds(b Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = View{
		Center: LatLng{
			Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
			Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
		},
		Zoom:   s.view.Zoom,
		Bounds: &b,
	}
}

func (s *Scene) Markers() []Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	markers := make([]Marker, 0, len(s.order))
	for _, id := range s.order {
		markers = append(markers, s.markers[id])
	}
	return markers
}

func (s *Scene) Marker(id string) (Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.markers[id]
	return m, ok
}

func (s *Scene) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Scene) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Markers []Marker `json:"markers"`
		View    View     `json:"view"`
	}{
		Markers: s.Markers(),
		View:    s.View(),
	})
}
