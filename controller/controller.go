// Package controller applies user actions to a session's state and drives
// the facilities fetch and the batched availability checks.
package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jyu-rooms/api"
	"jyu-rooms/i18n"
	"jyu-rooms/logger"
	"jyu-rooms/mapview"
	"jyu-rooms/rooms"
	"jyu-rooms/state"
)

// Source is the remote side of the controller: the facilities API and the
// availability proxy.
type Source interface {
	FetchAll(ctx context.Context) (api.Raw, error)
	CheckAvailability(ctx context.Context, spaces []api.Space, date, clock string, duration int) ([]api.AvailabilityResult, error)
}

type Options struct {
	BatchSize       int
	StartupAttempts int
	StartupBackoff  time.Duration
	NoticeTTL       time.Duration
	Now             func() time.Time
}

// Controller serializes all actions of one session. Its mutex is released
// while requests are in flight, so the state may change under a running
// check; epochs decide whether the results still apply.
type Controller struct {
	mu        sync.Mutex
	state     *state.State
	source    Source
	presenter *mapview.Presenter
	log       *logger.Logger
	opts      Options
	notice    noticeTask
}

func New(st *state.State, source Source, presenter *mapview.Presenter, l *logger.Logger, opts Options) *Controller {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 30
	}
	if opts.StartupAttempts <= 0 {
		opts.StartupAttempts = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if l == nil {
		l = logger.Discard()
	}
	return &Controller{
		state:     st,
		source:    source,
		presenter: presenter,
		log:       l,
		opts:      opts,
	}
}

func (c *Controller) Subscribe(l state.Listener) func() {
	return c.state.Subscribe(l)
}

// Watch hands l the current snapshot and subscribes it, under one lock, so
// no publish can reach l before the initial snapshot.
func (c *Controller) Watch(l state.Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	l(c.state.Snapshot())
	return c.state.Subscribe(l)
}

func (c *Controller) Snapshot() state.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

func (c *Controller) text() i18n.Strings {
	return i18n.For(c.state.Language())
}

// Start loads the facilities data, retrying with exponential backoff until
// StartupAttempts is exhausted or ctx is done.
func (c *Controller) Start(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= c.opts.StartupAttempts; attempt++ {
		c.mu.Lock()
		c.state.SetLoading(true)
		c.state.Publish()
		c.mu.Unlock()

		var raw api.Raw
		raw, err = c.source.FetchAll(ctx)
		if err == nil {
			c.mu.Lock()
			c.state.Load(raw)
			c.presenter.SetBuildings(c.state.Buildings())
			c.state.SetLoading(false)
			c.state.SetError("")
			c.state.Publish()
			buildings, spaces := len(c.state.Buildings()), len(c.state.Spaces())
			c.mu.Unlock()
			c.log.Info("loaded %d buildings and %d bookable spaces", buildings, spaces)
			return nil
		}

		last := attempt == c.opts.StartupAttempts || ctx.Err() != nil
		delay := c.opts.StartupBackoff * time.Duration(1<<(attempt-1))
		c.log.Warn("facilities load attempt %d/%d failed: %v", attempt, c.opts.StartupAttempts, err)

		c.mu.Lock()
		text := c.text()
		msg := text.LoadFailed
		if !last {
			msg += " " + fmt.Sprintf(text.RetryingIn, delay)
		}
		c.state.SetLoading(false)
		c.state.SetError(msg)
		c.state.Publish()
		c.mu.Unlock()

		if last {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("load facilities: %w", err)
}

// SelectCampus shows every space of campus and clears the building.
func (c *Controller) SelectCampus(campus string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Ready() {
		return ErrNotReady
	}
	if campus != "" && len(rooms.BuildingsInCampus(c.state.Buildings(), campus)) == 0 {
		return NewInputError("campus", fmt.Sprintf("unknown campus %q", campus))
	}

	c.state.SetCampus(campus)
	c.state.SetBuilding("")
	if campus == "" {
		c.state.SetVisible(nil)
	} else {
		c.state.SetVisible(rooms.SpacesInCampus(c.state.Spaces(), c.state.Buildings(), campus))
	}
	c.state.SetLoading(false)
	c.presenter.Select("")
	c.presenter.FilterCampus(campus)
	c.state.Publish()
	return nil
}

// SelectBuilding narrows the visible spaces to one building. An empty id
// falls back to the campus.
func (c *Controller) SelectBuilding(id string) error {
	if id == "" {
		return c.ClearBuilding()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Ready() {
		return ErrNotReady
	}
	b, ok := rooms.FindBuilding(c.state.Buildings(), id)
	if !ok {
		return NewInputError("building", fmt.Sprintf("unknown building %q", id))
	}
	if campus := c.state.Selection().Campus; campus != "" && b.Campus != campus {
		return NewInputError("building", fmt.Sprintf("building %q is not on campus %q", id, campus))
	}

	c.state.SetBuilding(id)
	c.state.SetVisible(rooms.SpacesInBuilding(c.state.Spaces(), id))
	c.state.SetLoading(false)
	c.presenter.Select(id)
	c.state.Publish()
	return nil
}

func (c *Controller) ClearBuilding() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Ready() {
		return ErrNotReady
	}
	campus := c.state.Selection().Campus
	c.state.SetBuilding("")
	if campus == "" {
		c.state.SetVisible(nil)
	} else {
		c.state.SetVisible(rooms.SpacesInCampus(c.state.Spaces(), c.state.Buildings(), campus))
	}
	c.state.SetLoading(false)
	c.presenter.Select("")
	c.state.Publish()
	return nil
}

// SetSearch only changes which cards are shown; availability is kept.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetSearch(term)
	c.state.Publish()
}

func (c *Controller) SetDate(date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ValidateDate(date, c.opts.Now(), c.text().DateRange); err != nil {
		return err
	}
	c.state.SetDate(date)
	c.state.Publish()
	return nil
}

func (c *Controller) SetTime(clock string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := parseClock(clock); err != nil {
		return err
	}
	c.state.SetTime(clock)
	c.state.Publish()
	return nil
}

func (c *Controller) SetDuration(minutes int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ValidateDuration(minutes, c.text().DurationRange); err != nil {
		return err
	}
	c.state.SetDuration(minutes)
	c.state.Publish()
	return nil
}

// SetLanguage relocalizes names and categories without touching the visible
// set or its availability.
func (c *Controller) SetLanguage(lang i18n.Lang) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetLanguage(lang)
	c.presenter.SetBuildings(c.state.Buildings())
	c.state.Publish()
}

func (c *Controller) ToggleLanguage() i18n.Lang {
	c.mu.Lock()
	defer c.mu.Unlock()
	lang := c.state.Language().Other()
	c.state.SetLanguage(lang)
	c.presenter.SetBuildings(c.state.Buildings())
	c.state.Publish()
	return lang
}

// Spaces returns every bookable space regardless of the selection.
func (c *Controller) Spaces() []rooms.Space {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := c.state.Spaces()
	spaces := make([]rooms.Space, len(all))
	copy(spaces, all)
	return spaces
}

// SelectedBuilding returns the building currently selected, if any.
func (c *Controller) SelectedBuilding() (rooms.Building, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.state.Selection().BuildingID
	if id == "" {
		return rooms.Building{}, false
	}
	return rooms.FindBuilding(c.state.Buildings(), id)
}

// CheckEnabled reports whether a check can be requested for sel.
func CheckEnabled(sel state.Selection) bool {
	return sel.Campus != "" || sel.BuildingID != ""
}

// Close cancels the pending notice dismissal.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice.cancel()
}
