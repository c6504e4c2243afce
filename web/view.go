package web

import (
	"bytes"
	"encoding/json"

	"jyu-rooms/controller"
	"jyu-rooms/i18n"
	"jyu-rooms/mapview"
	"jyu-rooms/render"
	"jyu-rooms/rooms"
	"jyu-rooms/state"
)

// View is everything the page needs to redraw itself.
type View struct {
	Language     i18n.Lang       `json:"language"`
	Ready        bool            `json:"ready"`
	Loading      bool            `json:"loading"`
	Notice       string          `json:"notice,omitempty"`
	Error        string          `json:"error,omitempty"`
	Selection    state.Selection `json:"selection"`
	Campuses     []render.Option `json:"campuses"`
	Buildings    []render.Option `json:"buildings"`
	Cards        []render.Card   `json:"cards"`
	Grid         string          `json:"grid"`
	MapsLink     string          `json:"maps_link,omitempty"`
	CheckEnabled bool            `json:"check_enabled"`
	Map          json.RawMessage `json:"map"`
	Epoch        uint64          `json:"epoch"`
}

func buildView(snap state.Snapshot, scene *mapview.Scene, reservationBase string) (View, error) {
	sel := snap.Selection
	cards := render.Cards(snap.Visible, render.Options{
		Language:           snap.Language,
		Date:               sel.Date,
		Search:             sel.Search,
		ReservationBaseURL: reservationBase,
	})

	var grid bytes.Buffer
	if err := render.HTML(&grid, cards, snap.Language); err != nil {
		return View{}, err
	}
	sceneJSON, err := json.Marshal(scene)
	if err != nil {
		return View{}, err
	}

	var mapsLink string
	if b, ok := rooms.FindBuilding(snap.Buildings, sel.BuildingID); ok {
		mapsLink = render.MapsLink(b)
	}

	return View{
		Language:     snap.Language,
		Ready:        snap.Ready,
		Loading:      snap.Loading,
		Notice:       snap.Notice,
		Error:        snap.Error,
		Selection:    sel,
		Campuses:     render.CampusOptions(snap.Buildings, sel.Campus),
		Buildings:    render.BuildingOptions(snap.Buildings, sel.Campus, sel.BuildingID),
		Cards:        cards,
		Grid:         grid.String(),
		MapsLink:     mapsLink,
		CheckEnabled: snap.Ready && controller.CheckEnabled(sel),
		Map:          sceneJSON,
		Epoch:        snap.Epoch,
	}, nil
}
