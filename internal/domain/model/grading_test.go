package model

import "testing"

func quizAssignment(questions ...QuizQuestion) *Assignment {
	return &Assignment{
		ID:          "a-1",
		Title:       "Chapter quiz",
		Type:        AssignmentTypeQuiz,
		Points:      100,
		AutoGrading: true,
		Questions:   questions,
	}
}

func mcq(correct ...int) QuizQuestion {
	return QuizQuestion{
		Prompt:         "pick",
		Type:           QuestionTypeMCQ,
		Options:        []string{"a", "b", "c", "d"},
		CorrectIndexes: correct,
	}
}

func pick(selected ...int) Answer {
	return Answer{Type: QuestionTypeMCQ, Selected: selected}
}

func TestGradeQuiz_AllCorrect(t *testing.T) {
	a := quizAssignment(mcq(1), mcq(0, 2), mcq(3))
	res := GradeQuiz(a, []Answer{pick(1), pick(2, 0), pick(3)})

	if res.AutoScore == nil || *res.AutoScore != 1.0 {
		t.Fatalf("autoScore = %v, want 1.0", res.AutoScore)
	}
	if !res.AutoApprove {
		t.Error("all-MCQ quiz must be auto-approvable")
	}
	if res.CorrectCount != 3 || res.TotalGradable != 3 {
		t.Errorf("counts = %d/%d, want 3/3", res.CorrectCount, res.TotalGradable)
	}
}

func TestGradeQuiz_PartiallyCorrect(t *testing.T) {
	a := quizAssignment(mcq(1), mcq(0, 2), mcq(3))
	res := GradeQuiz(a, []Answer{pick(1), pick(0, 2), pick(2)})

	if res.CorrectCount != 2 {
		t.Errorf("correctCount = %d, want 2", res.CorrectCount)
	}
	if res.AutoScore == nil {
		t.Fatal("autoScore must be set")
	}
	if got, want := *res.AutoScore, 2.0/3.0; got != want {
		t.Errorf("autoScore = %v, want %v", got, want)
	}
	if !res.AutoApprove {
		t.Error("autoApprove should hold for all-MCQ quiz")
	}
}

func TestGradeQuiz_NoPartialCreditPerQuestion(t *testing.T) {
	a := quizAssignment(mcq(0, 2))
	// Only one of the two required options selected.
	res := GradeQuiz(a, []Answer{pick(0)})
	if res.CorrectCount != 0 {
		t.Errorf("correctCount = %d, want 0 (exact set match required)", res.CorrectCount)
	}
	// An extra option also misses.
	res = GradeQuiz(a, []Answer{pick(0, 2, 3)})
	if res.CorrectCount != 0 {
		t.Errorf("correctCount = %d, want 0 with extra option", res.CorrectCount)
	}
}

func TestGradeQuiz_NormalizesDuplicatesAndOrder(t *testing.T) {
	a := quizAssignment(mcq(2, 0))
	res := GradeQuiz(a, []Answer{pick(0, 2, 2, 0)})
	if res.CorrectCount != 1 {
		t.Errorf("correctCount = %d, want 1 (dup/order insensitive)", res.CorrectCount)
	}
	// Negative indexes are dropped before comparison.
	res = GradeQuiz(a, []Answer{pick(-1, 2, 0)})
	if res.CorrectCount != 1 {
		t.Errorf("correctCount = %d, want 1 with negatives dropped", res.CorrectCount)
	}
}

func TestGradeQuiz_TextQuestionBlocksAutoApprove(t *testing.T) {
	a := quizAssignment(
		mcq(1),
		QuizQuestion{Prompt: "explain", Type: QuestionTypeText},
		mcq(2),
	)
	res := GradeQuiz(a, []Answer{pick(1), {Type: QuestionTypeText, Text: "because"}, pick(2)})

	if res.AutoApprove {
		t.Error("a text question must force human review")
	}
	if res.TotalGradable != 2 || res.CorrectCount != 2 {
		t.Errorf("counts = %d/%d, want 2/2 informational scoring", res.CorrectCount, res.TotalGradable)
	}
	if res.AutoScore == nil || *res.AutoScore != 1.0 {
		t.Errorf("autoScore = %v, want 1.0 over gradable questions", res.AutoScore)
	}
}

func TestGradeQuiz_NotEligible(t *testing.T) {
	tests := []struct {
		name string
		a    *Assignment
	}{
		{"nil assignment", nil},
		{"task type", &Assignment{Type: AssignmentTypeTask, AutoGrading: true, Questions: []QuizQuestion{mcq(0)}}},
		{"autograding off", &Assignment{Type: AssignmentTypeQuiz, Questions: []QuizQuestion{mcq(0)}}},
		{"no questions", &Assignment{Type: AssignmentTypeQuiz, AutoGrading: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := GradeQuiz(tt.a, nil)
			if res.AutoScore != nil || res.AutoApprove || res.CorrectCount != 0 || res.TotalGradable != 0 {
				t.Errorf("want zero result for ineligible input, got %+v", res)
			}
		})
	}
}

func TestGradeQuiz_AllTextQuestions(t *testing.T) {
	a := quizAssignment(
		QuizQuestion{Prompt: "p1", Type: QuestionTypeText},
		QuizQuestion{Prompt: "p2", Type: QuestionTypeText},
	)
	res := GradeQuiz(a, []Answer{{Type: QuestionTypeText}, {Type: QuestionTypeText}})
	if res.AutoScore != nil {
		t.Errorf("autoScore = %v, want nil with zero gradable questions", res.AutoScore)
	}
	if res.AutoApprove {
		t.Error("autoApprove must be false with zero gradable questions")
	}
}

func TestGradeQuiz_MissingAnswerCountsWrong(t *testing.T) {
	a := quizAssignment(mcq(1), mcq(2))
	res := GradeQuiz(a, []Answer{pick(1)}) // second answer absent
	if res.CorrectCount != 1 {
		t.Errorf("correctCount = %d, want 1", res.CorrectCount)
	}
}
