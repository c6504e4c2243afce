package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"jyu-rooms/controller"
	"jyu-rooms/i18n"
	"jyu-rooms/mapview"
	"jyu-rooms/state"
)

const sessionCookie = "jyu_rooms_session"

type session struct {
	id    uuid.UUID
	ctrl  *controller.Controller
	scene *mapview.Scene

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	ttl      time.Duration
	now      func() time.Time
}

func newSessionStore(ttl time.Duration, now func() time.Time) *sessionStore {
	return &sessionStore{sessions: map[uuid.UUID]*session{}, ttl: ttl, now: now}
}

func (st *sessionStore) get(id uuid.UUID) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if ok {
		sess.touch(st.now())
	}
	return sess, ok
}

func (st *sessionStore) add(sess *session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[sess.id] = sess
	st.reapLocked()
}

// reapLocked closes sessions idle for longer than the ttl.
func (st *sessionStore) reapLocked() {
	if st.ttl <= 0 {
		return
	}
	cutoff := st.now().Add(-st.ttl)
	for id, sess := range st.sessions {
		if sess.idleSince().Before(cutoff) {
			sess.ctrl.Close()
			delete(st.sessions, id)
		}
	}
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *sessionStore) closeAll() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, sess := range st.sessions {
		sess.ctrl.Close()
		delete(st.sessions, id)
	}
}

// session returns the caller's session, creating one (and setting the
// cookie) when the request carries none or an expired one.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			if sess, ok := s.sessions.get(id); ok {
				return sess
			}
		}
	}

	lang := i18n.Detect(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	if r.URL.Query().Get("lang") == "" && r.Header.Get("Accept-Language") == "" {
		if configured, ok := i18n.Parse(s.conf.Language); ok {
			lang = configured
		}
	}
	sess := s.newSession(lang)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.id.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func (s *Server) newSession(lang i18n.Lang) *session {
	now := s.now()
	scene := mapview.NewScene()
	presenter := mapview.NewPresenter(scene, mapview.LatLng{Lat: s.conf.Map.CenterLat, Lng: s.conf.Map.CenterLng}, s.conf.Map.Zoom)
	st := state.New(state.NewBroadcaster(), lang, now)
	ctrl := controller.New(st, s.source, presenter, s.l, controller.Options{
		BatchSize:       s.conf.BatchSize,
		StartupAttempts: s.conf.StartupAttempts,
		StartupBackoff:  s.conf.StartupBackoff,
		NoticeTTL:       s.conf.NoticeTTL,
		Now:             s.now,
	})

	sess := &session{id: uuid.New(), ctrl: ctrl, scene: scene, lastSeen: now}
	s.sessions.add(sess)
	s.l.Debug("new session %s (%s)", sess.id, lang)

	go func() {
		if err := ctrl.Start(s.baseCtx); err != nil {
			s.l.Error("session %s: %v", sess.id, err)
			return
		}
		if s.conf.DefaultCampus != "" {
			if err := ctrl.SelectCampus(s.conf.DefaultCampus); err != nil {
				s.l.Warn("default campus %q: %v", s.conf.DefaultCampus, err)
			}
		}
	}()
	return sess
}
