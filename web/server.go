// Package web serves the room finder page and drives one controller per
// browser session over a small JSON action API and a websocket.
package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"jyu-rooms/config"
	"jyu-rooms/controller"
	"jyu-rooms/logger"
)

type Conf struct {
	Config config.Config
	Source controller.Source
	L      *logger.Logger
	Now    func() time.Time
}

type Server struct {
	srv      *http.Server
	router   *chi.Mux
	l        *logger.Logger
	conf     config.Config
	source   controller.Source
	sessions *sessionStore
	now      func() time.Time
	baseCtx  context.Context
}

// New builds the server. ctx bounds the background work started for
// sessions (startup loads, availability checks).
func New(ctx context.Context, conf Conf) *Server {
	if conf.Now == nil {
		conf.Now = time.Now
	}
	if conf.L == nil {
		conf.L = logger.Discard()
	}

	router := chi.NewRouter()
	s := &Server{
		router:  router,
		l:       conf.L,
		conf:    conf.Config,
		source:  conf.Source,
		now:     conf.Now,
		baseCtx: ctx,
	}
	s.sessions = newSessionStore(conf.Config.Server.SessionTTL, conf.Now)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(s.loggerMiddleware())
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   conf.Config.Server.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.addRoutes(router)

	s.srv = &http.Server{
		Addr:         net.JoinHostPort(conf.Config.Server.Host, strconv.Itoa(conf.Config.Server.Port)),
		Handler:      router,
		ReadTimeout:  conf.Config.Server.ReadTimeout,
		WriteTimeout: conf.Config.Server.WriteTimeout,
		ErrorLog:     conf.L.Std(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	return s
}

func (s *Server) addRoutes(r chi.Router) {
	r.Get("/", s.indexHandler)
	r.Get("/health", s.healthHandler)
	r.Get("/ws", s.wsHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.stateHandler)
		r.Post("/campus", s.action(selectCampus))
		r.Post("/building", s.action(selectBuilding))
		r.Post("/search", s.action(setSearch))
		r.Post("/date", s.action(setDate))
		r.Post("/time", s.action(setTime))
		r.Post("/duration", s.action(setDuration))
		r.Post("/language", s.action(setLanguage))
		r.Post("/check", s.checkHandler)
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Addr() string {
	return s.srv.Addr
}

func (s *Server) ListenAndServe() error {
	s.l.Info("listening on http://%s", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting requests and closes every session.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	s.sessions.closeAll()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
