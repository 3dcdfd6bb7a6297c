package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/classtrack/classtrack-backend/internal/config"
	"github.com/classtrack/classtrack-backend/internal/database"
	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/classtrack/classtrack-backend/internal/repository"
	"github.com/classtrack/classtrack-backend/internal/service"
	"github.com/rs/zerolog"
)

// Seeds demo accounts, a subject, and a task. Safe to run repeatedly:
// records that already exist are reused.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)

	authService := service.NewAuthService(cfg)
	userService := service.NewUserService(userRepo, authService)
	subjectService := service.NewSubjectService(subjectRepo, enrollmentRepo, taskRepo, log)
	taskService := service.NewTaskService(taskRepo, subjectRepo, enrollmentRepo, log)
	submissionService := service.NewSubmissionService(submissionRepo, taskRepo, enrollmentRepo, log)

	fmt.Println("=== Seeding Database ===")

	teacher := ensureUser(ctx, log, userRepo, userService, model.RegisterRequest{
		Name:     "John Teacher",
		Email:    "teacher@example.com",
		Password: "teacher123",
		Role:     model.RoleTeacher,
	})
	student1 := ensureUser(ctx, log, userRepo, userService, model.RegisterRequest{
		Name:     "Alice Student",
		Email:    "student1@example.com",
		Password: "student123",
		Role:     model.RoleStudent,
	})
	student2 := ensureUser(ctx, log, userRepo, userService, model.RegisterRequest{
		Name:     "Bob Student",
		Email:    "student2@example.com",
		Password: "student123",
		Role:     model.RoleStudent,
	})

	subject, err := subjectService.Create(ctx, teacher.Session(), model.CreateSubjectRequest{
		Title:       "Introduction to Computer Science",
		Description: "Basic concepts of programming and computer science",
		Code:        "CS101",
	})
	if err != nil {
		if !errors.Is(err, service.ErrSubjectCodeTaken) {
			log.Fatal().Err(err).Msg("Failed to create subject")
		}
		subject = findSubjectByCode(ctx, log, subjectService, "CS101")
	}
	fmt.Printf("Subject %s ready (ID %d)\n", subject.Code, subject.ID)

	for _, student := range []*model.User{student1, student2} {
		_, err := subjectService.Enroll(ctx, student.Session(), subject.ID)
		if err != nil && !errors.Is(err, service.ErrAlreadyEnrolled) {
			log.Fatal().Err(err).Str("email", student.Email).Msg("Failed to enroll student")
		}
	}

	dueDate := time.Now().AddDate(0, 0, 7)
	task, err := taskService.Create(ctx, teacher.Session(), model.CreateTaskRequest{
		Title: "Programming Assignment 1",
		Description: "Create a simple calculator program using your preferred programming language. " +
			"The calculator should support basic arithmetic operations (addition, subtraction, multiplication, division).\n\n" +
			"Requirements:\n1. Handle user input\n2. Perform calculations\n3. Display results\n4. Handle division by zero\n\n" +
			"Submit your source code files and a brief documentation explaining your approach.",
		SubjectID: subject.ID,
		DueDate:   &dueDate,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create task")
	}

	_, err = submissionService.Submit(ctx, student1.Session(), task.ID, model.SubmitTaskRequest{
		Content: "I have implemented a calculator program in Python. The program uses a simple " +
			"command-line interface and includes all the required functionality including error " +
			"handling for division by zero.",
	})
	if err != nil && !errors.Is(err, service.ErrAlreadySubmitted) {
		log.Fatal().Err(err).Msg("Failed to create sample submission")
	}

	fmt.Println("Database seeded successfully")
	fmt.Println("Demo accounts:")
	fmt.Println("  Teacher:   teacher@example.com / teacher123")
	fmt.Println("  Student 1: student1@example.com / student123")
	fmt.Println("  Student 2: student2@example.com / student123")
}

func ensureUser(ctx context.Context, log zerolog.Logger, repo *repository.UserRepository, users *service.UserService, req model.RegisterRequest) *model.User {
	user, err := users.Register(ctx, req)
	if err == nil {
		fmt.Printf("Created %s (%s)\n", req.Email, req.Role)
		return user
	}
	if !errors.Is(err, service.ErrEmailTaken) {
		log.Fatal().Err(err).Str("email", req.Email).Msg("Failed to create user")
	}

	user, err = repo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.Fatal().Err(err).Str("email", req.Email).Msg("Failed to load existing user")
	}
	fmt.Printf("Reusing %s (%s)\n", req.Email, req.Role)
	return user
}

func findSubjectByCode(ctx context.Context, log zerolog.Logger, subjects *service.SubjectService, code string) *model.Subject {
	list, err := subjects.List(ctx, model.SubjectFilter{Query: code})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list subjects")
	}
	for i := range list {
		if list[i].Code == code {
			return &list[i]
		}
	}
	log.Fatal().Str("code", code).Msg("Subject not found after conflict")
	return nil
}
