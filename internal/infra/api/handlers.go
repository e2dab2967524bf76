package api

import (
	"encoding/json"
	"net/http"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/infra/logging"
	"openlearn-backend/internal/infra/metrics"
	"openlearn-backend/internal/infra/payment"
)

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	user, err := s.userUC.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := s.auth.Issue(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, User: toUserResponse(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	user, err := s.userUC.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := s.auth.Issue(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	user, err := s.userUC.Profile(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	res, err := s.streakUC.Claim(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClaimResponse(res))
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.subUC.Plans(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanResponse(p))
	}
	writeJSON(w, http.StatusOK, listBody{Data: out})
}

func (s *Server) handleSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	sub, err := s.subUC.Status(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

type subscriptionCheckoutRequest struct {
	PlanID string `json:"plan_id"`
}

func (s *Server) handleSubscriptionCheckout(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req subscriptionCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlanID == "" {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	p, err := s.payUC.CheckoutSubscription(r.Context(), id.UserID, req.PlanID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(p))
}

func (s *Server) handleCourseCheckout(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	courseID := pathParam(r, "courseID")
	p, err := s.payUC.CheckoutCourse(r.Context(), id.UserID, courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(p))
}

type paymentConfirmRequest struct {
	OrderID string `json:"order_id"`
}

// handlePaymentConfirm lets a returning client pull the authoritative order
// status instead of waiting for the webhook. Safe to call repeatedly.
func (s *Server) handlePaymentConfirm(w http.ResponseWriter, r *http.Request) {
	var req paymentConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	p, err := s.payUC.Confirm(r.Context(), req.OrderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

// handlePaymentNotify is the Midtrans server-to-server webhook. The
// signature check gates everything: a mismatch is a 403 and nothing is
// applied. Midtrans retries on non-2xx, so state errors map to 500.
func (s *Server) handlePaymentNotify(w http.ResponseWriter, r *http.Request) {
	l := logging.With(r.Context(), s.log)

	var n payment.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}

	if err := s.verifier.Verify(&n); err != nil {
		metrics.IncWebhookSignatureFailure()
		l.Warn().Str("order_id", n.OrderID).Msg("webhook signature mismatch")
		writeError(w, err)
		return
	}

	p, err := s.payUC.ApplyStatus(r.Context(), n.GatewayStatus())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

type purchaseCreateRequest struct {
	Kind     string `json:"kind"`
	PlanID   string `json:"plan_id"`
	CourseID string `json:"course_id"`
	Amount   int64  `json:"amount"`
	ProofURL string `json:"proof_url"`
}

func (s *Server) handlePurchaseCreate(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req purchaseCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	pr, err := s.purchaseUC.Create(r.Context(), id.UserID, model.PurchaseKind(req.Kind), req.PlanID, req.CourseID, req.Amount, req.ProofURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPurchaseResponse(pr))
}

func (s *Server) handlePurchaseList(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	prs, err := s.purchaseUC.ForUser(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]purchaseResponse, 0, len(prs))
	for _, pr := range prs {
		out = append(out, toPurchaseResponse(pr))
	}
	writeJSON(w, http.StatusOK, listBody{Data: out})
}

type listBody struct {
	Data interface{} `json:"data"`
}
