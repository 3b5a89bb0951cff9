// Package server exposes the FinTrack views and actions over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/fintrack/internal/app"
	"github.com/bobmcallan/fintrack/internal/common"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app          *app.App
	server       *http.Server
	hub          *ChangeHub
	logger       *common.Logger
	unsubscribe  func()
	shutdownChan chan struct{}
}

// SetShutdownChannel sets the channel that will be signaled when HTTP shutdown is requested.
func (s *Server) SetShutdownChannel(ch chan struct{}) {
	s.shutdownChan = ch
}

// NewServer creates a new HTTP REST API server and starts its change hub.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:    a,
		hub:    NewChangeHub(a.Logger),
		logger: a.Logger,
	}
	go s.hub.Run()
	s.unsubscribe = a.Store.Subscribe(s.hub.Broadcast)

	handler := applyMiddleware(s.newRouter(), a.Logger)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and stops the change hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.unsubscribe()
	s.hub.Stop()
	return s.server.Shutdown(ctx)
}
