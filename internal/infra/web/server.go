package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"subscription-api/internal/usecase"
)

type ctxKey string

const ctxUserID ctxKey = "user_id"

// Server is the collaborator-facing HTTP surface. It translates the core's
// typed errors into transport responses; no business rules live here.
type Server struct {
	subUC   *usecase.SubscriptionUseCase
	queryUC *usecase.QueryUseCase
	planUC  *usecase.PlanUseCase
	statsUC *usecase.StatsUseCase
	apiKey  string
	log     *zerolog.Logger
	srv     *http.Server
}

func NewServer(
	port int,
	apiKey string,
	subUC *usecase.SubscriptionUseCase,
	queryUC *usecase.QueryUseCase,
	planUC *usecase.PlanUseCase,
	statsUC *usecase.StatsUseCase,
	logger *zerolog.Logger,
) *Server {
	webLog := logger.With().Str("component", "WebServer").Logger()
	s := &Server{
		subUC:   subUC,
		queryUC: queryUC,
		planUC:  planUC,
		statsUC: statsUC,
		apiKey:  apiKey,
		log:     &webLog,
	}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", s.plansListHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.identityMiddleware)
			r.Post("/subscriptions", s.subscribeHandler)
			r.Post("/subscriptions/renew", s.renewHandler)
			r.Post("/subscriptions/switch", s.switchPlanHandler)
			r.Delete("/subscriptions", s.cancelHandler)
			r.Get("/subscriptions/active", s.activeHandler)
			r.Get("/subscriptions/history", s.historyHandler)
		})

		r.With(s.adminMiddleware).Get("/admin/stats", s.statsHandler)
	})
	return r
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("HTTP server listening")
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// identityMiddleware consumes the already-validated user identity supplied by
// the upstream auth layer.
func (s *Server) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "missing user identity")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminMiddleware provides simple Bearer token authentication for the admin API.
func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("Admin API key is not configured")
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		parts := strings.Split(r.Header.Get("Authorization"), " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if parts[1] != s.apiKey {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}
