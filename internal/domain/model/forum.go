package model

import "time"

// ForumThread is a discussion thread scoped to a course.
type ForumThread struct {
	ID        string
	CourseID  string
	AuthorID  string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ForumReply is one reply inside a thread.
type ForumReply struct {
	ID        string
	ThreadID  string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}

// LeaderboardEntry is a read model for the score ranking.
type LeaderboardEntry struct {
	UserID      string
	DisplayName string
	Score       int
	Rank        int
}
