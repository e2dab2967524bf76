package model

import "time"

// Course is a catalog entry. Premium courses require an active subscription
// or an approved per-course purchase.
type Course struct {
	ID          string
	Slug        string
	Title       string
	Description string
	PriceIDR    int64 // 0 means free
	Premium     bool
	Published   bool
	Chapters    []Chapter
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Chapter is one ordered unit of a course.
type Chapter struct {
	ID       string
	CourseID string
	Position int
	Title    string
	Body     string
	VideoURL string
}

// ChapterProgress marks one chapter done for one user.
type ChapterProgress struct {
	UserID      string
	CourseID    string
	ChapterID   string
	CompletedAt time.Time
}

// CourseGrant records access to a single premium course, created when an
// admin approves a per-course purchase request.
type CourseGrant struct {
	UserID    string
	CourseID  string
	RequestID string
	GrantedAt time.Time
}
