package health

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// NewRouter answers GET / with a fixed 200 plaintext body.
func NewRouter(body string, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(body)); err != nil {
			log.Debug().Err(err).Msg("failed to write health check response")
		}
	}).Methods(http.MethodGet, http.MethodHead)

	return router
}

// Server is the liveness listener. It shares nothing with message handling.
type Server struct {
	srv *http.Server
	ln  net.Listener
	log zerolog.Logger
}

func NewServer(port int, body string, log zerolog.Logger) *Server {
	log = log.With().Str("component", "health").Logger()
	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           NewRouter(body, log),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Start binds the listener and serves in the background. A bind failure is
// returned; later serve errors are only logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", s.srv.Addr, err)
	}
	s.ln = ln

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("health server stopped")
		}
	}()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("health server started")
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
