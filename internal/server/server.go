package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	claimform "github.com/goliatone/go-claimform"
	"github.com/goliatone/go-claimform/internal/apispec"
	"github.com/goliatone/go-claimform/internal/ratelimit"
	"github.com/goliatone/go-claimform/internal/sessionstore"
	"github.com/goliatone/go-claimform/pkg/orchestrator"
)

// DefaultCookieName names the session cookie when none is configured.
const DefaultCookieName = "claim_session"

// Server serves the site, the questionnaire and the JSON API.
type Server struct {
	orch     *orchestrator.Orchestrator
	store    *sessionstore.Store
	contract *apispec.Contract
	limiter  *ratelimit.Limiter
	logger   *zap.Logger
	assets   fs.FS

	cookieName     string
	secureCookies  bool
	allowedOrigins []string

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithContract validates API requests against the given contract.
func WithContract(contract *apispec.Contract) Option {
	return func(s *Server) {
		s.contract = contract
	}
}

// WithLimiter throttles mutating requests per client.
func WithLimiter(limiter *ratelimit.Limiter) Option {
	return func(s *Server) {
		s.limiter = limiter
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCookie names the session cookie and marks it Secure.
func WithCookie(name string, secure bool) Option {
	return func(s *Server) {
		if name != "" {
			s.cookieName = name
		}
		s.secureCookies = secure
	}
}

// WithAllowedOrigins enables CORS on the API for the given origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = append([]string(nil), origins...)
	}
}

// WithAssets overrides the static asset filesystem.
func WithAssets(assets fs.FS) Option {
	return func(s *Server) {
		if assets != nil {
			s.assets = assets
		}
	}
}

// New wires a server. The API contract is loaded from the embedded document
// unless one is supplied.
func New(orch *orchestrator.Orchestrator, store *sessionstore.Store, opts ...Option) (*Server, error) {
	if orch == nil {
		return nil, eris.New("server: orchestrator is required")
	}
	if err := orch.Err(); err != nil {
		return nil, eris.Wrap(err, "server: orchestrator")
	}
	if store == nil {
		return nil, eris.New("server: session store is required")
	}
	s := &Server{
		orch:       orch,
		store:      store,
		logger:     zap.L(),
		assets:     claimform.AssetsFS(),
		cookieName: DefaultCookieName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.contract == nil {
		contract, err := apispec.Load(context.Background())
		if err != nil {
			return nil, eris.Wrap(err, "server: load api contract")
		}
		s.contract = contract
	}
	return s, nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(s.assets))))

	r.Get("/", s.handleHome)
	r.Get("/intake", s.handleHome)
	r.Get("/sign", s.handleSignView)

	r.Group(func(r chi.Router) {
		s.throttle(r, http.HandlerFunc(s.rejectHTML))
		r.Use(s.withFormSession)

		r.Post("/menu/toggle", s.handleMenuToggle)
		r.Post("/carousel/next", s.handleCarouselNext)
		r.Post("/carousel/prev", s.handleCarouselPrev)
		r.Post("/carousel/page/{page}", s.handleCarouselPage)
		r.Post("/faq/tab/{tab}", s.handleFAQTab)
		r.Post("/faq/toggle/{index}", s.handleFAQToggle)

		r.Post("/intake/open", s.handleIntakeOpen)
		r.Post("/intake/next", s.handleIntakeNext)
		r.Post("/intake/back", s.handleIntakeBack)
		r.Post("/intake/submit", s.handleIntakeSubmit)
		r.Post("/intake/close", s.handleIntakeClose)

		r.Post("/sign/signature", s.handleSignSignature)
		r.Post("/sign/clear", s.handleSignClear)
		r.Post("/sign/export", s.handleSignExport)
		r.Post("/sign/back", s.handleSignBack)
		r.Post("/sign/close", s.handleSignClose)
	})

	r.Route("/api/v1", func(r chi.Router) {
		if len(s.allowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   s.allowedOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", "Content-Type", requestIDHeader},
				ExposedHeaders:   []string{"Content-Disposition", requestIDHeader},
				AllowCredentials: false,
				MaxAge:           300,
			}))
		}
		s.throttle(r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.writeError(w, r, errRateLimited)
		}))
		r.Use(s.contract.Middleware(s.writeError))
		s.mountAPI(r)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})
	return r
}

func (s *Server) throttle(r chi.Router, reject http.Handler) {
	if s.limiter != nil {
		r.Use(s.limiter.Middleware(reject))
	}
}

// Config carries the listener settings used by Run.
type Config struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Run listens until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, cfg Config) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
