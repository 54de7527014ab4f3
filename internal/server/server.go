package server

import (
	"context"
	"net/http"
	"time"
)

// Server encapsulates the HTTP server of the application, providing
// controlled startup and shutdown. Uses a customizable router and ensures
// timeouts for security and stability.
type Server struct {
	// server — embedded HTTP server from net/http package, fully configured and ready to use.
	server *http.Server
}

// ListenAndServe starts the HTTP server and begins listening on the
// specified address. Blocks execution until the server is stopped or an
// error occurs. If server is stopped via Shutdown, method returns
// http.ErrServerClosed.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server with the provided context.
// Stops listening, terminates accepting new connections, and allows active
// connections to complete within the timeout specified in the context.
// Should be called during graceful shutdown of the application.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// NewServer creates and configures a new server instance listening on
// address and serving the given API router.
//
// Write timeout leaves room for a full classifier round trip; reads stay
// short since request bodies are small base64 payloads.
//
// Returns pointer to a ready-to-run server.
func NewServer(address string, router *ApiV1Router) *Server {
	s := Server{&http.Server{
		Addr:           address,
		Handler:        router.Mux(),
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 60,
		MaxHeaderBytes: 1024 * 10,
	}}

	return &s
}
