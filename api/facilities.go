package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

const (
	ResourceBuildings = "buildings"
	ResourceFloors    = "floors"
	ResourceSpaces    = "spaces"
	ResourceConfig    = "config"
)

type itemsEnvelope[T any] struct {
	Items *[]T `json:"items"`
}

// FetchAll loads buildings, floors, spaces and config concurrently. Any
// failure cancels the remaining requests and is returned as a *FetchError.
func (c *Client) FetchAll(ctx context.Context) (Raw, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		raw      Raw
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(resource string, err error) {
		once.Do(func() {
			firstErr = &FetchError{Resource: resource, Err: err}
			cancel()
		})
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		items, err := getItems[Building](ctx, c, ResourceBuildings)
		if err != nil {
			fail(ResourceBuildings, err)
			return
		}
		raw.Buildings = items
	}()
	go func() {
		defer wg.Done()
		items, err := getItems[Floor](ctx, c, ResourceFloors)
		if err != nil {
			fail(ResourceFloors, err)
			return
		}
		raw.Floors = items
	}()
	go func() {
		defer wg.Done()
		items, err := getItems[Space](ctx, c, ResourceSpaces)
		if err != nil {
			fail(ResourceSpaces, err)
			return
		}
		raw.Spaces = items
	}()
	go func() {
		defer wg.Done()
		conf, err := c.GetConfig(ctx)
		if err != nil {
			fail(ResourceConfig, err)
			return
		}
		raw.Config = conf
	}()
	wg.Wait()

	if firstErr != nil {
		return Raw{}, firstErr
	}
	return raw, nil
}

func (c *Client) GetConfig(ctx context.Context) (Config, error) {
	var conf struct {
		Config
		Items *[]json.RawMessage `json:"items"`
	}
	err := c.doTimed(ctx, func(ctx context.Context) (*http.Request, error) {
		return c.newRequest(ctx, c.FacilitiesBaseURL, http.MethodGet, "/"+ResourceConfig, nil, nil)
	}, &conf)
	if err != nil {
		return Config{}, err
	}
	if conf.Items == nil {
		return Config{}, fmt.Errorf("%s: missing items: %w", ResourceConfig, ErrMalformedResponse)
	}
	conf.Config.Items = *conf.Items
	return conf.Config, nil
}

func getItems[T any](ctx context.Context, c *Client, resource string) ([]T, error) {
	var envelope itemsEnvelope[T]
	err := c.doTimed(ctx, func(ctx context.Context) (*http.Request, error) {
		return c.newRequest(ctx, c.FacilitiesBaseURL, http.MethodGet, "/"+resource, nil, nil)
	}, &envelope)
	if err != nil {
		return nil, err
	}
	if envelope.Items == nil {
		return nil, fmt.Errorf("%s: missing items: %w", resource, ErrMalformedResponse)
	}
	return *envelope.Items, nil
}
