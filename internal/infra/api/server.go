package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"openlearn-backend/internal/infra/payment"
	"openlearn-backend/internal/usecase"
)

const requestTimeout = 30 * time.Second

// Server is the public learner-facing API.
type Server struct {
	auth     *AuthManager
	verifier *payment.WebhookVerifier

	userUC        usecase.UserUseCase
	streakUC      usecase.StreakUseCase
	subUC         usecase.SubscriptionUseCase
	payUC         usecase.PaymentUseCase
	purchaseUC    usecase.PurchaseUseCase
	courseUC      usecase.CourseUseCase
	gradingUC     usecase.GradingUseCase
	leaderboardUC usecase.LeaderboardUseCase
	assistantUC   usecase.AssistantUseCase
	forumUC       usecase.ForumUseCase

	log *zerolog.Logger
}

type ServerDeps struct {
	Auth     *AuthManager
	Verifier *payment.WebhookVerifier

	UserUC        usecase.UserUseCase
	StreakUC      usecase.StreakUseCase
	SubUC         usecase.SubscriptionUseCase
	PayUC         usecase.PaymentUseCase
	PurchaseUC    usecase.PurchaseUseCase
	CourseUC      usecase.CourseUseCase
	GradingUC     usecase.GradingUseCase
	LeaderboardUC usecase.LeaderboardUseCase
	AssistantUC   usecase.AssistantUseCase
	ForumUC       usecase.ForumUseCase

	Log *zerolog.Logger
}

func NewServer(d ServerDeps) *Server {
	return &Server{
		auth:          d.Auth,
		verifier:      d.Verifier,
		userUC:        d.UserUC,
		streakUC:      d.StreakUC,
		subUC:         d.SubUC,
		payUC:         d.PayUC,
		purchaseUC:    d.PurchaseUC,
		courseUC:      d.CourseUC,
		gradingUC:     d.GradingUC,
		leaderboardUC: d.LeaderboardUC,
		assistantUC:   d.AssistantUC,
		forumUC:       d.ForumUC,
		log:           d.Log,
	}
}

// Routes builds the router. Webhook and auth endpoints stay outside the
// session guard; everything else requires a bearer token.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(Recover(s.log))
	r.Use(RequestLog(s.log))
	r.Use(Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/payments/notify", s.handlePaymentNotify)
		r.Get("/plans", s.handlePlans)
		r.Get("/courses", s.handleCourseCatalog)
		r.Get("/courses/{slug}", s.handleCourseGet)
		r.Get("/leaderboard", s.handleLeaderboard)

		r.Group(func(r chi.Router) {
			r.Use(s.auth.RequireAuth)

			r.Get("/me", s.handleMe)
			r.Post("/claims", s.handleClaim)

			r.Get("/subscription", s.handleSubscriptionStatus)
			r.Post("/subscriptions/checkout", s.handleSubscriptionCheckout)
			r.Post("/courses/{courseID}/checkout", s.handleCourseCheckout)
			r.Post("/payments/confirm", s.handlePaymentConfirm)

			r.Post("/purchases", s.handlePurchaseCreate)
			r.Get("/purchases", s.handlePurchaseList)

			r.Post("/courses/{courseID}/chapters/{chapterID}/complete", s.handleChapterComplete)
			r.Get("/certificates", s.handleCertificates)

			r.Post("/assignments/{assignmentID}/submissions", s.handleSubmit)
			r.Get("/submissions/pending", s.handlePendingSubmissions)
			r.Post("/submissions/{submissionID}/review", s.handleReview)

			r.Post("/assistant", s.handleAssistant)

			r.Get("/courses/{courseID}/threads", s.handleThreadList)
			r.Post("/courses/{courseID}/threads", s.handleThreadCreate)
			r.Get("/threads/{threadID}", s.handleThreadGet)
			r.Post("/threads/{threadID}/replies", s.handleThreadReply)
			r.Delete("/threads/{threadID}", s.handleThreadDelete)
		})
	})

	return r
}
