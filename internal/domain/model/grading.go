package model

import "sort"

// GradeResult is the outcome of auto-grading one submission. AutoScore is
// nil when nothing was gradable and a human must review.
type GradeResult struct {
	AutoScore     *float64
	AutoApprove   bool
	CorrectCount  int
	TotalGradable int
}

// GradeQuiz scores a quiz submission deterministically. Only MCQ questions
// are gradable; any non-MCQ question forces human review (AutoApprove
// false) but the remaining MCQ questions are still scored for the
// informational CorrectCount. No partial credit: a question is correct iff
// the normalized submitted set equals the normalized correct set.
func GradeQuiz(a *Assignment, answers []Answer) GradeResult {
	if a == nil || a.Type != AssignmentTypeQuiz || !a.AutoGrading || len(a.Questions) == 0 {
		return GradeResult{}
	}

	allMCQ := true
	correct := 0
	gradable := 0

	for i, q := range a.Questions {
		if q.Type != QuestionTypeMCQ {
			allMCQ = false
			continue
		}
		gradable++

		var submitted []int
		if i < len(answers) && answers[i].Type == QuestionTypeMCQ {
			submitted = answers[i].Selected
		}
		if choiceSetsEqual(q.CorrectIndexes, submitted) {
			correct++
		}
	}

	res := GradeResult{
		CorrectCount:  correct,
		TotalGradable: gradable,
		AutoApprove:   allMCQ && gradable > 0,
	}
	if gradable > 0 {
		score := float64(correct) / float64(gradable)
		res.AutoScore = &score
	}
	return res
}

// normalizeChoices dedupes, drops negatives and sorts ascending.
func normalizeChoices(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if v < 0 {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func choiceSetsEqual(a, b []int) bool {
	na, nb := normalizeChoices(a), normalizeChoices(b)
	if len(na) != len(nb) {
		return false
	}
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}
