package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/usecase"
)

// statsHandler serves platform totals and revenue.
func statsHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		users, subsByStatus, err := statsUC.Totals(ctx)
		if err != nil {
			http.Error(w, "Failed to get totals", http.StatusInternalServerError)
			return
		}

		week, month, year, err := statsUC.Revenue(ctx)
		if err != nil {
			http.Error(w, "Failed to get revenue", http.StatusInternalServerError)
			return
		}

		byStatus := make(map[string]int, len(subsByStatus))
		for k, v := range subsByStatus {
			byStatus[string(k)] = v
		}

		response := struct {
			TotalUsers   int            `json:"total_users"`
			SubsByStatus map[string]int `json:"subs_by_status"`
			Revenue      struct {
				Week  int64 `json:"week"`
				Month int64 `json:"month"`
				Year  int64 `json:"year"`
			} `json:"revenue_idr"`
		}{
			TotalUsers:   users,
			SubsByStatus: byStatus,
		}
		response.Revenue.Week = week
		response.Revenue.Month = month
		response.Revenue.Year = year

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	}
}

// usersListHandler returns a paginated list of users.
func usersListHandler(userUC usecase.UserUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 50
		}
		if offset < 0 {
			offset = 0
		}

		users, err := userUC.List(ctx, offset, limit)
		if err != nil {
			http.Error(w, "Failed to list users", http.StatusInternalServerError)
			return
		}

		response := struct {
			Data   []adminUser `json:"data"`
			Limit  int         `json:"limit"`
			Offset int         `json:"offset"`
		}{
			Data:   make([]adminUser, 0, len(users)),
			Limit:  limit,
			Offset: offset,
		}
		for _, u := range users {
			response.Data = append(response.Data, toAdminUser(u))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	}
}

func userGetHandler(userUC usecase.UserUseCase, subUC usecase.SubscriptionUseCase, purchaseUC usecase.PurchaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/v1/users"), "/")
		if id == "" {
			http.Error(w, "User ID is required", http.StatusBadRequest)
			return
		}

		user, err := userUC.Profile(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "Failed to get user", http.StatusInternalServerError)
			return
		}

		response := struct {
			User         adminUser           `json:"user"`
			Subscription *model.Subscription `json:"subscription,omitempty"`
			Purchases    int                 `json:"purchase_requests"`
		}{User: toAdminUser(user)}

		if sub, err := subUC.Status(ctx, user.ID); err == nil {
			response.Subscription = sub
		}
		if prs, err := purchaseUC.ForUser(ctx, user.ID); err == nil {
			response.Purchases = len(prs)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	}
}

// adminUser is the back-office view of a user. The password hash never
// leaves the process.
type adminUser struct {
	ID              string   `json:"id"`
	Email           string   `json:"email"`
	DisplayName     string   `json:"display_name"`
	Roles           []string `json:"roles"`
	StreakCount     int      `json:"streak_count"`
	TotalScore      int      `json:"total_score"`
	SeasonalScore   int      `json:"seasonal_score"`
	TotalClaims     int      `json:"total_claims"`
	Subscriber      bool     `json:"subscriber"`
	RegisteredAt    string   `json:"registered_at"`
	SubscriberUntil string   `json:"subscriber_until,omitempty"`
}

func toAdminUser(u *model.User) adminUser {
	out := adminUser{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		Roles:         u.Roles,
		StreakCount:   u.StreakCount,
		TotalScore:    u.TotalScore,
		SeasonalScore: u.SeasonalScore,
		TotalClaims:   u.TotalClaims,
		Subscriber:    u.SubscriptionActive,
		RegisteredAt:  u.RegisteredAt.Format("2006-01-02"),
	}
	if u.SubscriberUntil != nil {
		out.SubscriberUntil = u.SubscriberUntil.Format("2006-01-02")
	}
	return out
}

func purchasesPendingHandler(purchaseUC usecase.PurchaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 50
		}
		if offset < 0 {
			offset = 0
		}

		prs, err := purchaseUC.Pending(ctx, offset, limit)
		if err != nil {
			http.Error(w, "Failed to list purchase requests", http.StatusInternalServerError)
			return
		}

		response := struct {
			Data []*model.PurchaseRequest `json:"data"`
		}{Data: prs}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	}
}

type reviewActionRequest struct {
	AdminID string `json:"admin_id"`
	Note    string `json:"note"`
}

func purchaseApproveHandler(purchaseUC usecase.PurchaseUseCase, requestID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reviewActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AdminID == "" {
			http.Error(w, "admin_id is required", http.StatusBadRequest)
			return
		}

		pr, err := purchaseUC.Approve(r.Context(), requestID, req.AdminID)
		if err != nil {
			writeActionError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(pr)
	}
}

func purchaseRejectHandler(purchaseUC usecase.PurchaseUseCase, requestID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reviewActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AdminID == "" {
			http.Error(w, "admin_id is required", http.StatusBadRequest)
			return
		}

		pr, err := purchaseUC.Reject(r.Context(), requestID, req.AdminID, req.Note)
		if err != nil {
			writeActionError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(pr)
	}
}

func writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrAlreadyProcessed):
		http.Error(w, "Already processed", http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

func pendingSubmissionsHandler(gradingUC usecase.GradingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 50
		}
		if offset < 0 {
			offset = 0
		}

		subs, err := gradingUC.PendingReview(ctx, offset, limit)
		if err != nil {
			http.Error(w, "Failed to list submissions", http.StatusInternalServerError)
			return
		}

		response := struct {
			Data []*model.Submission `json:"data"`
		}{Data: subs}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	}
}
