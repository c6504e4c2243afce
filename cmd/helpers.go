package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"jyu-rooms/api"
	"jyu-rooms/controller"
	"jyu-rooms/i18n"
	"jyu-rooms/mapview"
	"jyu-rooms/rooms"
	"jyu-rooms/state"
)

func newClient() *api.Client {
	c := api.NewClient()
	c.FacilitiesBaseURL = cfg.FacilitiesBaseURL
	c.ProxyURL = cfg.ProxyURL
	c.RequestTimeout = cfg.RequestTimeout
	return c
}

func language() i18n.Lang {
	if lang, ok := i18n.Parse(langFlag); ok {
		return lang
	}
	if lang, ok := i18n.Parse(cfg.Language); ok {
		return lang
	}
	return i18n.English
}

// loadController builds a session for the CLI and loads the facilities data.
func loadController(ctx context.Context) (*controller.Controller, error) {
	now := time.Now()
	scene := mapview.NewScene()
	presenter := mapview.NewPresenter(scene, mapview.LatLng{Lat: cfg.Map.CenterLat, Lng: cfg.Map.CenterLng}, cfg.Map.Zoom)
	st := state.New(state.NewBroadcaster(), language(), now)
	ctrl := controller.New(st, client, presenter, log, controller.Options{
		BatchSize:       cfg.BatchSize,
		StartupAttempts: cfg.StartupAttempts,
		StartupBackoff:  cfg.StartupBackoff,
		Now:             time.Now,
	})
	if err := ctrl.Start(ctx); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// selectTarget applies --campus and --building. A building may be given by
// id, short code or name.
func selectTarget(ctrl *controller.Controller, campus, building string) error {
	if campus == "" {
		campus = cfg.DefaultCampus
	}
	if campus == "" && building == "" {
		return fmt.Errorf("--campus or --building is required (or set default_campus in config)")
	}
	if campus != "" {
		if err := ctrl.SelectCampus(campus); err != nil {
			return err
		}
	}
	if building == "" {
		return nil
	}
	b, ok := resolveBuilding(ctrl.Snapshot().Buildings, building)
	if !ok {
		return fmt.Errorf("building %q not found", building)
	}
	return ctrl.SelectBuilding(b.ID)
}

func resolveBuilding(buildings []rooms.Building, input string) (rooms.Building, bool) {
	if b, ok := rooms.FindBuilding(buildings, input); ok {
		return b, true
	}
	for _, b := range buildings {
		if strings.EqualFold(b.Glyph, input) || strings.EqualFold(b.Name, input) {
			return b, true
		}
	}
	return rooms.Building{}, false
}

func parseDateInput(input string, now time.Time) (string, error) {
	if input == "" {
		return "", fmt.Errorf("date is required")
	}
	switch strings.ToLower(input) {
	case "today":
		return now.Format("2006-01-02"), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02"), nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", input, now.Location())
	if err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", input)
	}
	return parsed.Format("2006-01-02"), nil
}

func writeJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
