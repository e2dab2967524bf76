package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
)

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP status codes. Anything unmapped
// is a 500 with a generic body so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	var code int
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrInvalidSignature), errors.Is(err, domain.ErrNoActiveSubscription):
		code = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrAlreadyProcessed):
		code = http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		code = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrUpstreamFailure):
		code = http.StatusBadGateway
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}
	writeJSON(w, code, errorBody{Error: err.Error()})
}

// ---- response shapes ----
// Domain models carry no JSON tags on purpose; the wire shapes live here.

type userResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	DisplayName     string     `json:"display_name"`
	Roles           []string   `json:"roles"`
	StreakCount     int        `json:"streak_count"`
	LongestStreak   int        `json:"longest_streak"`
	LastClaimAt     *time.Time `json:"last_claim_at,omitempty"`
	TotalScore      int        `json:"total_score"`
	SeasonalScore   int        `json:"seasonal_score"`
	Subscriber      bool       `json:"subscriber"`
	SubscriberUntil *time.Time `json:"subscriber_until,omitempty"`
	RegisteredAt    time.Time  `json:"registered_at"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Email:           u.Email,
		DisplayName:     u.DisplayName,
		Roles:           u.Roles,
		StreakCount:     u.StreakCount,
		LongestStreak:   u.LongestStreak,
		LastClaimAt:     u.LastClaimAt,
		TotalScore:      u.TotalScore,
		SeasonalScore:   u.SeasonalScore,
		Subscriber:      u.SubscriptionActive,
		SubscriberUntil: u.SubscriberUntil,
		RegisteredAt:    u.RegisteredAt,
	}
}

type claimResponse struct {
	AlreadyClaimed  bool      `json:"already_claimed"`
	Reward          int       `json:"reward"`
	StreakCount     int       `json:"streak_count"`
	LongestStreak   int       `json:"longest_streak"`
	TotalScore      int       `json:"total_score"`
	SeasonalScore   int       `json:"seasonal_score"`
	NextAvailableAt time.Time `json:"next_available_at"`
}

func toClaimResponse(res *model.ClaimResult) claimResponse {
	return claimResponse{
		AlreadyClaimed:  res.AlreadyClaimed,
		Reward:          res.Reward,
		StreakCount:     res.State.StreakCount,
		LongestStreak:   res.State.LongestStreak,
		TotalScore:      res.State.TotalScore,
		SeasonalScore:   res.State.SeasonalScore,
		NextAvailableAt: res.NextAvailableAt,
	}
}

type paymentResponse struct {
	OrderID     string     `json:"order_id"`
	Status      string     `json:"status"`
	Amount      int64      `json:"amount"`
	PlanID      string     `json:"plan_id,omitempty"`
	CourseID    string     `json:"course_id,omitempty"`
	SnapToken   string     `json:"snap_token,omitempty"`
	RedirectURL string     `json:"redirect_url,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

func toPaymentResponse(p *model.Payment) paymentResponse {
	return paymentResponse{
		OrderID:     p.OrderID,
		Status:      string(p.Status),
		Amount:      p.Amount,
		PlanID:      p.PlanID,
		CourseID:    p.CourseID,
		SnapToken:   p.SnapToken,
		RedirectURL: p.RedirectURL,
		PaidAt:      p.PaidAt,
	}
}

type subscriptionResponse struct {
	PlanID             string     `json:"plan_id"`
	Status             string     `json:"status"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	LastPaymentAt      *time.Time `json:"last_payment_at,omitempty"`
}

func toSubscriptionResponse(s *model.Subscription) subscriptionResponse {
	return subscriptionResponse{
		PlanID:             s.PlanID,
		Status:             string(s.Status),
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		LastPaymentAt:      s.LastPaymentAt,
	}
}

type planResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DurationDays int    `json:"duration_days"`
	PriceIDR     int64  `json:"price_idr"`
}

func toPlanResponse(p *model.SubscriptionPlan) planResponse {
	return planResponse{ID: p.ID, Name: p.Name, DurationDays: p.DurationDays, PriceIDR: p.PriceIDR}
}

type chapterResponse struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	Title    string `json:"title"`
}

type courseResponse struct {
	ID          string            `json:"id"`
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Premium     bool              `json:"premium"`
	PriceIDR    int64             `json:"price_idr"`
	Chapters    []chapterResponse `json:"chapters"`
}

func toCourseResponse(c *model.Course) courseResponse {
	out := courseResponse{
		ID:          c.ID,
		Slug:        c.Slug,
		Title:       c.Title,
		Description: c.Description,
		Premium:     c.Premium,
		PriceIDR:    c.PriceIDR,
		Chapters:    make([]chapterResponse, 0, len(c.Chapters)),
	}
	for _, ch := range c.Chapters {
		out.Chapters = append(out.Chapters, chapterResponse{ID: ch.ID, Position: ch.Position, Title: ch.Title})
	}
	return out
}

type certificateResponse struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"course_id"`
	Serial     string    `json:"serial"`
	SignerName string    `json:"signer_name"`
	SignerRole string    `json:"signer_role"`
	IssuedAt   time.Time `json:"issued_at"`
}

func toCertificateResponse(c *model.Certificate) certificateResponse {
	return certificateResponse{
		ID:         c.ID,
		CourseID:   c.CourseID,
		Serial:     c.Serial,
		SignerName: c.SignerName,
		SignerRole: c.SignerRole,
		IssuedAt:   c.IssuedAt,
	}
}

type submissionResponse struct {
	ID            string     `json:"id"`
	AssignmentID  string     `json:"assignment_id"`
	UserID        string     `json:"user_id"`
	Status        string     `json:"status"`
	AwardedPoints int        `json:"awarded_points"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy    string     `json:"reviewed_by,omitempty"`
}

func toSubmissionResponse(s *model.Submission) submissionResponse {
	return submissionResponse{
		ID:            s.ID,
		AssignmentID:  s.AssignmentID,
		UserID:        s.UserID,
		Status:        string(s.Status),
		AwardedPoints: s.AwardedPoints,
		SubmittedAt:   s.SubmittedAt,
		ReviewedAt:    s.ReviewedAt,
		ReviewedBy:    s.ReviewedBy,
	}
}

type leaderboardEntryResponse struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
}

type threadResponse struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toThreadResponse(t *model.ForumThread) threadResponse {
	return threadResponse{
		ID:        t.ID,
		CourseID:  t.CourseID,
		AuthorID:  t.AuthorID,
		Title:     t.Title,
		Body:      t.Body,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type replyResponse struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func toReplyResponse(r *model.ForumReply) replyResponse {
	return replyResponse{ID: r.ID, ThreadID: r.ThreadID, AuthorID: r.AuthorID, Body: r.Body, CreatedAt: r.CreatedAt}
}

type purchaseResponse struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	PlanID     string     `json:"plan_id,omitempty"`
	CourseID   string     `json:"course_id,omitempty"`
	Amount     int64      `json:"amount"`
	Status     string     `json:"status"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}

func toPurchaseResponse(p *model.PurchaseRequest) purchaseResponse {
	return purchaseResponse{
		ID:         p.ID,
		Kind:       string(p.Kind),
		PlanID:     p.PlanID,
		CourseID:   p.CourseID,
		Amount:     p.Amount,
		Status:     string(p.Status),
		Note:       p.Note,
		CreatedAt:  p.CreatedAt,
		ReviewedAt: p.ReviewedAt,
	}
}
