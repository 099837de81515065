package http

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"billed/internal/log"
	"billed/internal/middleware/ratelimit"
	"billed/internal/middleware/security"
	"billed/internal/middleware/trace"
	"billed/internal/store"
	"billed/internal/view"
	appweb "billed/web"
)

// Options configures a Server.
type Options struct {
	Addr   string
	Store  store.Store
	Logger *log.Logger
	// ModalWidth is the receipt modal width in pixels.
	ModalWidth int
	// Ready reports backend readiness for /readyz. Nil means always ready.
	Ready             func(context.Context) error
	RequestsPerMinute int
}

type Server struct {
	http.Server
	renderer   *view.Renderer
	store      store.Store
	logger     *log.Logger
	limiter    *ratelimit.Limiter
	clientIP   *security.ClientIPResolver
	ready      func(context.Context) error
	modalWidth int

	shutdownOnce sync.Once
}

// NewServer wires the routes and middleware around opts.Store.
func NewServer(opts Options) (*Server, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		renderer:   renderer,
		store:      opts.Store,
		logger:     logger.WithComponent(log.ComponentHTTP),
		limiter:    ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RequestsPerMinute}),
		clientIP:   security.NewClientIPResolver(),
		ready:      opts.Ready,
		modalWidth: opts.ModalWidth,
	}

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	limited := s.limiter.Middleware(s.clientIP.ClientIP, nil)
	component := log.ComponentMiddleware(log.ComponentBills)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", handleIndex)
	mux.Handle("GET /bills", limited(component(http.HandlerFunc(s.handleBills))))
	mux.Handle("GET "+view.ReceiptEndpoint, limited(component(http.HandlerFunc(s.handleReceipt))))
	mux.Handle("GET "+view.ReceiptCloseEndpoint, limited(component(http.HandlerFunc(s.handleReceiptClose))))
	mux.Handle("GET "+view.NewBillEndpoint, limited(component(http.HandlerFunc(s.handleNewBill))))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(logger, s.clientIP.ClientIP)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           tracer.Middleware(headers.Middleware(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(s.limiter.Stop)
	return s.Server.Shutdown(ctx)
}

// ListenAndServe serves until Shutdown; a graceful stop is not an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", "addr", s.Addr)
	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/bills", http.StatusSeeOther)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ready"))
}
