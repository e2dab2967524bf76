// File: cmd/seed/main.go
//
// Seeds a development database with subscription plans, a sample course
// and its assignments. Safe to re-run: it is a no-op once plans exist.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"openlearn-backend/internal/config"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/repository"
	pg "openlearn-backend/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	planRepo := pg.NewPlanRepo(pool)
	courseRepo := pg.NewCourseRepo(pool)
	assignmentRepo := pg.NewAssignmentRepo(pool)

	plans, err := planRepo.List(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (days=%d, price=%d IDR)\n", p.Name, p.DurationDays, p.PriceIDR)
		}
		return
	}

	now := time.Now().UTC()

	for _, p := range []*model.SubscriptionPlan{
		{ID: "plan-monthly", Name: "Monthly", DurationDays: 30, PriceIDR: 99_000, CreatedAt: now},
		{ID: "plan-quarterly", Name: "Quarterly", DurationDays: 90, PriceIDR: 249_000, CreatedAt: now},
		{ID: "plan-yearly", Name: "Yearly", DurationDays: 365, PriceIDR: 899_000, CreatedAt: now},
	} {
		if err := planRepo.Save(ctx, repository.NoTX, p); err != nil {
			log.Fatalf("seed plan %q: %v", p.Name, err)
		}
		fmt.Printf("seeded plan: %s (days=%d, price=%d IDR)\n", p.Name, p.DurationDays, p.PriceIDR)
	}

	courses := []*model.Course{
		{
			ID:          "course-go-basics",
			Slug:        "go-basics",
			Title:       "Go Basics",
			Description: "Syntax, types and tooling for newcomers to Go.",
			Published:   true,
			Chapters: []model.Chapter{
				{ID: "go-basics-1", CourseID: "course-go-basics", Position: 1, Title: "Hello, Go"},
				{ID: "go-basics-2", CourseID: "course-go-basics", Position: 2, Title: "Types and Structs"},
				{ID: "go-basics-3", CourseID: "course-go-basics", Position: 3, Title: "Errors and Testing"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "course-go-concurrency",
			Slug:        "go-concurrency",
			Title:       "Concurrency in Go",
			Description: "Goroutines, channels and the patterns that hold them together.",
			Premium:     true,
			PriceIDR:    149_000,
			Published:   true,
			Chapters: []model.Chapter{
				{ID: "go-conc-1", CourseID: "course-go-concurrency", Position: 1, Title: "Goroutines"},
				{ID: "go-conc-2", CourseID: "course-go-concurrency", Position: 2, Title: "Channels"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	for _, c := range courses {
		if err := courseRepo.Save(ctx, repository.NoTX, c); err != nil {
			log.Fatalf("seed course %q: %v", c.Slug, err)
		}
		fmt.Printf("seeded course: %s (%d chapters)\n", c.Slug, len(c.Chapters))
	}

	assignments := []*model.Assignment{
		{
			ID:          "quiz-go-basics",
			CourseID:    "course-go-basics",
			Title:       "Go Basics Checkpoint",
			Type:        model.AssignmentTypeQuiz,
			Points:      20,
			AutoGrading: true,
			Questions: []model.QuizQuestion{
				{
					Prompt:         "Which keyword declares a variable with inferred type?",
					Type:           model.QuestionTypeMCQ,
					Options:        []string{"var", ":=", "let", "def"},
					CorrectIndexes: []int{1},
				},
				{
					Prompt:         "Which of these are built-in Go types?",
					Type:           model.QuestionTypeMCQ,
					Options:        []string{"rune", "decimal", "complex128", "char"},
					CorrectIndexes: []int{0, 2},
				},
			},
			CreatedAt: now,
		},
		{
			ID:       "task-go-concurrency",
			CourseID: "course-go-concurrency",
			Title:    "Build a Worker Pool",
			Type:     model.AssignmentTypeTask,
			Points:   50,
			Questions: []model.QuizQuestion{
				{
					Prompt: "Paste a link to your worker pool implementation.",
					Type:   model.QuestionTypeText,
				},
			},
			CreatedAt: now,
		},
	}
	for _, a := range assignments {
		if err := assignmentRepo.Save(ctx, repository.NoTX, a); err != nil {
			log.Fatalf("seed assignment %q: %v", a.Title, err)
		}
		fmt.Printf("seeded assignment: %s (auto=%v, points=%d)\n", a.Title, a.AutoGrading, a.Points)
	}

	fmt.Println("Seeding complete.")
}
