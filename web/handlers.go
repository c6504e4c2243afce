package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"jyu-rooms/controller"
	"jyu-rooms/i18n"
)

//go:embed templates/page.html
var pageFS embed.FS

var pageTemplate = template.Must(template.ParseFS(pageFS, "templates/page.html"))

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if lang, ok := i18n.Parse(r.URL.Query().Get("lang")); ok {
		sess.ctrl.SetLanguage(lang)
	}
	snap := sess.ctrl.Snapshot()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, struct {
		Lang i18n.Lang
		Text i18n.Strings
	}{
		Lang: snap.Language,
		Text: i18n.For(snap.Language),
	})
	if err != nil {
		s.l.Error("render page: %v", err)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) stateHandler(w http.ResponseWriter, r *http.Request) {
	s.writeView(w, s.session(w, r), http.StatusOK)
}

type actionRequest struct {
	Campus     string `json:"campus"`
	BuildingID string `json:"building_id"`
	Search     string `json:"search"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Duration   int    `json:"duration"`
	Language   string `json:"language"`
}

func (s *Server) action(apply func(*session, actionRequest) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)

		var req actionRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
		}

		if err := apply(sess, req); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeView(w, sess, http.StatusOK)
	}
}

func selectCampus(sess *session, req actionRequest) error {
	return sess.ctrl.SelectCampus(req.Campus)
}

func selectBuilding(sess *session, req actionRequest) error {
	return sess.ctrl.SelectBuilding(req.BuildingID)
}

func setSearch(sess *session, req actionRequest) error {
	sess.ctrl.SetSearch(req.Search)
	return nil
}

func setDate(sess *session, req actionRequest) error {
	return sess.ctrl.SetDate(req.Date)
}

func setTime(sess *session, req actionRequest) error {
	return sess.ctrl.SetTime(req.Time)
}

func setDuration(sess *session, req actionRequest) error {
	return sess.ctrl.SetDuration(req.Duration)
}

// setLanguage sets the requested language, or toggles when none is given.
func setLanguage(sess *session, req actionRequest) error {
	if req.Language == "" {
		sess.ctrl.ToggleLanguage()
		return nil
	}
	lang, ok := i18n.Parse(req.Language)
	if !ok {
		return controller.NewInputError("language", "language must be fi or en")
	}
	sess.ctrl.SetLanguage(lang)
	return nil
}

// checkHandler starts the check in the background; progress arrives over
// the websocket or by polling /api/state.
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	go func() {
		err := sess.ctrl.CheckAvailability(s.baseCtx)
		switch {
		case err == nil, errors.Is(err, controller.ErrSuperseded):
		case s.baseCtx.Err() != nil:
			s.l.Debug("session %s: check stopped on shutdown", sess.id)
		case controller.IsInputError(err) != nil, errors.Is(err, controller.ErrNoSelection), errors.Is(err, controller.ErrNotReady):
			s.l.Debug("session %s: check rejected: %v", sess.id, err)
		default:
			s.l.Warn("session %s: %v", sess.id, err)
		}
	}()
	s.writeView(w, sess, http.StatusAccepted)
}

func (s *Server) writeView(w http.ResponseWriter, sess *session, status int) {
	view, err := buildView(sess.ctrl.Snapshot(), sess.scene, s.conf.ReservationBaseURL)
	if err != nil {
		s.l.Error("build view: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(view); err != nil {
		s.l.Error("encode view: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if inputErr := controller.IsInputError(err); inputErr != nil {
		w.WriteHeader(http.StatusBadRequest)
		if err := json.NewEncoder(w).Encode(inputErr.Fields()); err != nil {
			s.l.Error("encode validation error: %v", err)
		}
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, controller.ErrNotReady):
		status = http.StatusServiceUnavailable
	case errors.Is(err, controller.ErrNoSelection):
		status = http.StatusConflict
	default:
		s.l.Error("action failed: %v", err)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
