package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/locfilter/internal/logger"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server serves the HTTP method API.
type Server struct {
	ports   *Ports
	addr    string
	handler http.Handler
}

// NewServer creates a server for the given ports.
func NewServer(ports *Ports, addr string) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		addr:  addr,
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		requestLogger,
	)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/method/{method}", s.handleMethod)
		r.Get("/method/{method}", s.handleMethod)
		r.Post("/resolve", s.handleResolve)
		r.Post("/validate", s.handleValidate)
		r.Post("/save", s.handleSave)
		r.Get("/locations", s.handleLocations)
		r.Get("/locations/{name}/warehouses", s.handleLocationWarehouses)
	})

	return r
}

// Serve listens on the configured address and blocks until ctx is
// cancelled, then shuts down gracefully. Extra background tasks run in the
// same group and stop the server when they fail.
func (s *Server) Serve(ctx context.Context, tasks ...func(context.Context) error) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	for _, task := range tasks {
		eg.Go(func() error {
			return task(egctx)
		})
	}

	eg.Go(func() error {
		logger.Info("api: listening on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logger.Debug("api: shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug("api: %s %s %d %s [%s]", r.Method, r.URL.Path, ww.Status(),
			time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context()))
	})
}
