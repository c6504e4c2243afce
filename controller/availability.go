package controller

import (
	"context"
	"fmt"

	"jyu-rooms/api"
	"jyu-rooms/rooms"
)

// CheckAvailability queries the proxy for the visible spaces in batches,
// publishing after each batch. A failed batch aborts the rest. Results for a
// visible set that was replaced meanwhile are dropped and ErrSuperseded is
// returned.
func (c *Controller) CheckAvailability(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.Ready() {
		c.mu.Unlock()
		return ErrNotReady
	}
	sel := c.state.Selection()
	if !CheckEnabled(sel) {
		c.mu.Unlock()
		return ErrNoSelection
	}
	text := c.text()
	if sel.Date == "" || sel.Time == "" || sel.Duration == 0 {
		c.state.SetError(text.MissingSlot)
		c.state.Publish()
		c.mu.Unlock()
		return NewInputError("slot", text.MissingSlot)
	}
	if err := ValidateDuration(sel.Duration, text.DurationRange); err != nil {
		c.mu.Unlock()
		return err
	}
	clock, adjusted, err := SnapTime(sel.Time)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if clock != sel.Time {
		c.state.SetTime(clock)
	}
	if adjusted {
		c.showNotice(fmt.Sprintf(text.TimeAdjusted, clock))
	}

	epoch := c.state.Epoch()
	visible := c.state.Visible()
	c.state.SetError("")
	c.state.SetLoading(len(visible) > 0)
	c.state.Publish()
	c.mu.Unlock()

	for start := 0; start < len(visible); start += c.opts.BatchSize {
		end := min(start+c.opts.BatchSize, len(visible))
		results, err := c.checkBatch(ctx, visible[start:end], sel.Date, clock, sel.Duration)

		c.mu.Lock()
		if c.state.Epoch() != epoch {
			c.mu.Unlock()
			c.log.Debug("dropping availability for epoch %d", epoch)
			return ErrSuperseded
		}
		if err != nil {
			c.state.SetLoading(false)
			c.state.SetError(text.CheckFailed)
			c.state.Publish()
			c.mu.Unlock()
			c.log.Warn("availability batch %d-%d failed: %v", start, end, err)
			return fmt.Errorf("check availability: %w", err)
		}
		c.state.ApplyAvailability(epoch, results)
		if end == len(visible) {
			c.state.SetLoading(false)
		}
		c.state.Publish()
		c.mu.Unlock()
	}
	return nil
}

// checkBatch asks for one batch and re-asks once for the spaces the proxy
// could not answer for.
func (c *Controller) checkBatch(ctx context.Context, batch []rooms.Space, date, clock string, duration int) (map[string]rooms.Availability, error) {
	raw := make([]api.Space, len(batch))
	for i, sp := range batch {
		raw[i] = sp.Raw
	}
	answers, err := c.source.CheckAvailability(ctx, raw, date, clock, duration)
	if err != nil {
		return nil, err
	}
	results := collect(answers)

	var retry []api.Space
	for _, sp := range raw {
		if results[sp.SpaceLabel] == rooms.Unknown {
			retry = append(retry, sp)
		}
	}
	if len(retry) == 0 {
		return results, nil
	}

	c.log.Debug("re-checking %d unknown spaces", len(retry))
	again, err := c.source.CheckAvailability(ctx, retry, date, clock, duration)
	if err != nil {
		c.log.Warn("re-check failed, keeping %d spaces unknown: %v", len(retry), err)
		return results, nil
	}
	for label, a := range collect(again) {
		if a != rooms.Unknown {
			results[label] = a
		}
	}
	return results, nil
}

func collect(answers []api.AvailabilityResult) map[string]rooms.Availability {
	results := make(map[string]rooms.Availability, len(answers))
	for _, r := range answers {
		results[r.SpaceLabel] = rooms.FromResult(r.IsAvailable)
	}
	return results
}
