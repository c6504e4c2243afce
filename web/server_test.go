package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"jyu-rooms/api"
	"jyu-rooms/config"
)

type stubSource struct {
	mu     sync.Mutex
	checks int

	// When set, checks block until their context ends.
	entered   chan struct{}
	cancelled chan struct{}
}

func (s *stubSource) FetchAll(ctx context.Context) (api.Raw, error) {
	space := func(label, floor string) api.Space {
		return api.Space{SpaceLabel: label, Capacity: 20, RentableArea: 40, FloorID: floor, SpaceCategory: &api.SpaceCategory{CustNumber: "31", Name: "Opetustila"}}
	}
	return api.Raw{
		Buildings: []api.Building{
			{ID: "ag", Name: "Agora", Campus: "Mattilanniemi", Latitude: 62.2323, Longitude: 25.7370},
			{ID: "ru", Name: "Ruusupuisto", Campus: "Seminaarinmäki", Latitude: 62.2360, Longitude: 25.7330},
		},
		Floors: []api.Floor{{ID: "f-ag", BuildingID: "ag"}, {ID: "f-ru", BuildingID: "ru"}},
		Spaces: []api.Space{space("Ag C231", "f-ag"), space("RUU D101", "f-ru"), space("RUU D102", "f-ru")},
		Config: api.Config{SpaceCategoryTranslations: map[string]api.Translation{"31": {Fi: "Opetustila", En: "Teaching space"}}},
	}, nil
}

func (s *stubSource) CheckAvailability(ctx context.Context, spaces []api.Space, date, clock string, duration int) ([]api.AvailabilityResult, error) {
	s.mu.Lock()
	s.checks++
	s.mu.Unlock()
	if s.entered != nil {
		close(s.entered)
		<-ctx.Done()
		close(s.cancelled)
		return nil, ctx.Err()
	}
	yes := true
	out := make([]api.AvailabilityResult, len(spaces))
	for i, sp := range spaces {
		out[i] = api.AvailabilityResult{SpaceLabel: sp.SpaceLabel, IsAvailable: &yes}
	}
	return out, nil
}

type testEnv struct {
	ts     *httptest.Server
	client *http.Client
	srv    *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, context.Background(), &stubSource{})
}

func newTestEnvWith(t *testing.T, ctx context.Context, source *stubSource) *testEnv {
	t.Helper()
	conf := config.Default()
	conf.StartupBackoff = time.Millisecond
	srv := New(ctx, Conf{
		Config: conf,
		Source: source,
		Now:    func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) },
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &testEnv{ts: ts, client: &http.Client{Jar: jar}, srv: srv}
}

func (e *testEnv) view(t *testing.T, res *http.Response) View {
	t.Helper()
	defer res.Body.Close()
	var v View
	if err := json.NewDecoder(res.Body).Decode(&v); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return v
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	res, err := e.client.Get(e.ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return res
}

func (e *testEnv) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	res, err := e.client.Post(e.ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return res
}

// waitFor polls /api/state until cond holds.
func (e *testEnv) waitFor(t *testing.T, cond func(View) bool) View {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		v := e.view(t, e.get(t, "/api/state"))
		if cond(v) {
			return v
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met, last view: %+v", v)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	res := env.get(t, "/health")
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK || string(body) != "OK" {
		t.Errorf("unexpected health response %d %q", res.StatusCode, body)
	}
}

func TestSessionFlow(t *testing.T) {
	env := newTestEnv(t)

	v := env.waitFor(t, func(v View) bool { return v.Ready })
	if len(v.Campuses) != 2 || v.CheckEnabled {
		t.Fatalf("unexpected initial view: %+v", v)
	}
	if env.srv.sessions.len() != 1 {
		t.Errorf("polling with the cookie should reuse one session, got %d", env.srv.sessions.len())
	}

	v = env.view(t, env.post(t, "/api/campus", `{"campus":"Seminaarinmäki"}`))
	if len(v.Cards) != 2 || !v.CheckEnabled {
		t.Fatalf("campus should show 2 cards and enable the check: %+v", v)
	}
	if len(v.Buildings) != 1 || v.Buildings[0].Value != "ru" {
		t.Errorf("building options should be narrowed: %+v", v.Buildings)
	}

	v = env.view(t, env.post(t, "/api/building", `{"building_id":"ru"}`))
	if v.MapsLink != "https://www.google.com/maps?q=62.236,25.733" {
		t.Errorf("unexpected maps link %q", v.MapsLink)
	}

	res := env.post(t, "/api/check", "")
	if res.StatusCode != http.StatusAccepted {
		t.Fatalf("check should be accepted, got %d", res.StatusCode)
	}
	res.Body.Close()

	v = env.waitFor(t, func(v View) bool {
		if v.Loading || len(v.Cards) == 0 {
			return false
		}
		for _, c := range v.Cards {
			if c.Status != "Available for selected time" {
				return false
			}
		}
		return true
	})
	if !strings.Contains(v.Grid, "status-available") {
		t.Errorf("grid should render available cards: %s", v.Grid)
	}

	v = env.view(t, env.post(t, "/api/search", `{"search":"d102"}`))
	if len(v.Cards) != 1 || v.Cards[0].Label != "RUU D102" {
		t.Errorf("search should narrow the cards: %+v", v.Cards)
	}

	v = env.view(t, env.post(t, "/api/language", ""))
	if v.Language != "fi" || v.Cards[0].Status != "Vapaana valittuna aikana" {
		t.Errorf("language toggle should keep availability: %+v", v.Cards)
	}
}

func TestInputErrors(t *testing.T) {
	env := newTestEnv(t)
	env.waitFor(t, func(v View) bool { return v.Ready })

	res := env.post(t, "/api/duration", `{"duration":45}`)
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	var fields map[string][]string
	if err := json.NewDecoder(res.Body).Decode(&fields); err != nil {
		t.Fatal(err)
	}
	if len(fields["duration"]) != 1 {
		t.Errorf("expected a duration message, got %v", fields)
	}

	res2 := env.post(t, "/api/language", `{"language":"sv"}`)
	res2.Body.Close()
	if res2.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown language should be rejected, got %d", res2.StatusCode)
	}

	res3 := env.post(t, "/api/campus", `not json`)
	res3.Body.Close()
	if res3.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body should be rejected, got %d", res3.StatusCode)
	}
}

func TestIndexLanguage(t *testing.T) {
	env := newTestEnv(t)

	res := env.get(t, "/?lang=fi")
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	page := string(body)
	if !strings.Contains(page, `<html lang="fi">`) || !strings.Contains(page, "JYU:n tilojen saatavuus") {
		t.Errorf("page should be Finnish:\n%s", page[:min(len(page), 300)])
	}

	req, _ := http.NewRequest(http.MethodGet, env.ts.URL+"/", nil)
	req.Header.Set("Accept-Language", "fi-FI,fi;q=0.9,en;q=0.5")
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res2.Body.Close()
	body2, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(body2), `<html lang="fi">`) {
		t.Error("Accept-Language fi should select Finnish for a new session")
	}
}

func TestWebsocketPushesViews(t *testing.T) {
	env := newTestEnv(t)
	env.waitFor(t, func(v View) bool { return v.Ready })

	wsURL := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/ws"
	header := http.Header{}
	for _, c := range env.client.Jar.Cookies(mustParse(t, env.ts.URL)) {
		header.Add("Cookie", c.String())
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var first View
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read initial view: %v", err)
	}
	if !first.Ready {
		t.Errorf("initial view should be ready: %+v", first)
	}

	res := env.post(t, "/api/campus", `{"campus":"Mattilanniemi"}`)
	res.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var v View
		if err := conn.ReadJSON(&v); err != nil {
			t.Fatalf("read pushed view: %v", err)
		}
		if v.Selection.Campus == "Mattilanniemi" {
			if len(v.Cards) != 1 {
				t.Errorf("expected 1 card, got %d", len(v.Cards))
			}
			return
		}
	}
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestCheckStopsWhenServerContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	source := &stubSource{entered: make(chan struct{}), cancelled: make(chan struct{})}
	env := newTestEnvWith(t, ctx, source)
	env.waitFor(t, func(v View) bool { return v.Ready })

	res := env.post(t, "/api/campus", `{"campus":"Mattilanniemi"}`)
	res.Body.Close()
	res = env.post(t, "/api/check", "")
	res.Body.Close()
	if res.StatusCode != http.StatusAccepted {
		t.Fatalf("check should be accepted, got %d", res.StatusCode)
	}

	select {
	case <-source.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("check never reached the proxy")
	}
	cancel()
	select {
	case <-source.cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight check was not cancelled with the server context")
	}
}

func TestPageEscapesMarkerText(t *testing.T) {
	env := newTestEnv(t)
	res := env.get(t, "/")
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	page := string(body)

	for _, unsafe := range []string{"+ m.glyph +", "+ m.title +", "+ m.address"} {
		if strings.Contains(page, unsafe) {
			t.Errorf("marker text %q is concatenated into markup", unsafe)
		}
	}
	for _, want := range []string{"glyph.textContent = m.glyph", "title.textContent = m.title", "address.textContent = m.address"} {
		if !strings.Contains(page, want) {
			t.Errorf("page should set %q", want)
		}
	}
}
