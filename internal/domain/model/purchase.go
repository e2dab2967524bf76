package model

import "time"

type PurchaseRequestStatus string

const (
	PurchaseRequestPending  PurchaseRequestStatus = "pending"
	PurchaseRequestApproved PurchaseRequestStatus = "approved"
	PurchaseRequestRejected PurchaseRequestStatus = "rejected"
)

type PurchaseKind string

const (
	PurchaseKindSubscription PurchaseKind = "subscription"
	PurchaseKindCourse       PurchaseKind = "course"
)

// PurchaseRequest is a manual bank-transfer purchase awaiting admin review.
// It transitions exactly once: pending -> approved or pending -> rejected.
// Approval is the event the subscription extender / course grant consumes.
type PurchaseRequest struct {
	ID         string
	UserID     string
	Kind       PurchaseKind
	PlanID     string // set when Kind == subscription
	CourseID   string // set when Kind == course
	Amount     int64
	ProofURL   string
	Status     PurchaseRequestStatus
	Note       string // admin note on reject
	CreatedAt  time.Time
	ReviewedAt *time.Time
	ReviewedBy string
}

func (p *PurchaseRequest) Reviewed() bool {
	return p != nil && p.Status != PurchaseRequestPending
}
