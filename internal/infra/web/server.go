package web

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"openlearn-backend/internal/usecase"
)

// Server is the operator back-office API. It sits on the admin port behind
// a static bearer key and also exposes the Prometheus scrape endpoint.
type Server struct {
	statsUC    usecase.StatsUseCase
	userUC     usecase.UserUseCase
	subUC      usecase.SubscriptionUseCase
	purchaseUC usecase.PurchaseUseCase
	gradingUC  usecase.GradingUseCase
	apiKey     string
	log        *zerolog.Logger
}

func NewServer(
	statsUC usecase.StatsUseCase,
	userUC usecase.UserUseCase,
	subUC usecase.SubscriptionUseCase,
	purchaseUC usecase.PurchaseUseCase,
	gradingUC usecase.GradingUseCase,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		statsUC:    statsUC,
		userUC:     userUC,
		subUC:      subUC,
		purchaseUC: purchaseUC,
		gradingUC:  gradingUC,
		apiKey:     apiKey,
		log:        logger,
	}
}

// RegisterRoutes sets up the routing for the admin API.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/admin/v1/stats", s.authMiddleware(statsHandler(s.statsUC)))

	usersRouter := s.authMiddleware(s.usersRouter())
	mux.Handle("/admin/v1/users", usersRouter)
	mux.Handle("/admin/v1/users/", usersRouter)

	purchasesRouter := s.authMiddleware(s.purchasesRouter())
	mux.Handle("/admin/v1/purchases", purchasesRouter)
	mux.Handle("/admin/v1/purchases/", purchasesRouter)

	mux.Handle("/admin/v1/submissions", s.authMiddleware(pendingSubmissionsHandler(s.gradingUC)))
}

// authMiddleware provides static Bearer token authentication for the admin API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) usersRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/admin/v1/users")
		path = strings.Trim(path, "/")

		if path == "" {
			usersListHandler(s.userUC)(w, r)
		} else {
			userGetHandler(s.userUC, s.subUC, s.purchaseUC)(w, r)
		}
	})
}

// purchasesRouter dispatches /admin/v1/purchases and the per-request
// approve/reject actions.
func (s *Server) purchasesRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/admin/v1/purchases")
		path = strings.Trim(path, "/")

		if path == "" {
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			purchasesPendingHandler(s.purchaseUC)(w, r)
			return
		}

		// /admin/v1/purchases/{id}/approve or /{id}/reject
		parts := strings.SplitN(path, "/", 2)
		if len(parts) != 2 || r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		switch parts[1] {
		case "approve":
			purchaseApproveHandler(s.purchaseUC, parts[0])(w, r)
		case "reject":
			purchaseRejectHandler(s.purchaseUC, parts[0])(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
