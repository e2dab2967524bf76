package model

import "time"

type AssignmentType string

const (
	AssignmentTypeTask AssignmentType = "task"
	AssignmentTypeQuiz AssignmentType = "quiz"
)

type QuestionType string

const (
	QuestionTypeMCQ  QuestionType = "mcq"
	QuestionTypeText QuestionType = "text"
)

// QuizQuestion is one question inside an assignment. CorrectIndexes is only
// meaningful for MCQ questions.
type QuizQuestion struct {
	Prompt         string
	Type           QuestionType
	Options        []string
	CorrectIndexes []int
}

// Assignment is a gradable unit attached to a course chapter.
type Assignment struct {
	ID          string
	CourseID    string
	Title       string
	Type        AssignmentType
	Points      int // max points awarded on approval
	AutoGrading bool
	Questions   []QuizQuestion
	CreatedAt   time.Time
}

// Answer is the submitted entry for one question, discriminated by Type:
// Selected carries MCQ choices, Text carries free-form answers.
type Answer struct {
	Type     QuestionType
	Selected []int
	Text     string
}

type SubmissionStatus string

const (
	SubmissionStatusSubmitted       SubmissionStatus = "submitted"
	SubmissionStatusApproved        SubmissionStatus = "approved"
	SubmissionStatusRejected        SubmissionStatus = "rejected"
	SubmissionStatusNeedsCorrection SubmissionStatus = "needs_correction"
)

// Submission is keyed by (assignment, user). Invariant: points are awarded
// at most once; a submission already approved with AwardedPoints > 0 must
// never be re-awarded.
type Submission struct {
	ID            string
	AssignmentID  string
	UserID        string
	Status        SubmissionStatus
	AwardedPoints int
	Answers       []Answer
	SubmittedAt   time.Time
	ReviewedAt    *time.Time
	ReviewedBy    string
}

// Awarded reports whether this submission has already consumed its
// one-time point award.
func (s *Submission) Awarded() bool {
	return s != nil && s.Status == SubmissionStatusApproved && s.AwardedPoints > 0
}
