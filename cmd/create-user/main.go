package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/classtrack/classtrack-backend/internal/config"
	"github.com/classtrack/classtrack-backend/internal/database"
	"github.com/classtrack/classtrack-backend/internal/logger"
	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/classtrack/classtrack-backend/internal/repository"
	"github.com/classtrack/classtrack-backend/internal/service"
	"golang.org/x/term"
)

// Interactive account creation, mainly for bootstrapping the first
// teacher without going through the public registration endpoint.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	authService := service.NewAuthService(cfg)
	userService := service.NewUserService(userRepo, authService)

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New User ===")

	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println()
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	fmt.Print("Enter Role (TEACHER/STUDENT) [TEACHER]: ")
	roleInput, _ := reader.ReadString('\n')
	roleInput = strings.ToUpper(strings.TrimSpace(roleInput))
	if roleInput == "" {
		roleInput = string(model.RoleTeacher)
	}
	role := model.Role(roleInput)
	if role != model.RoleTeacher && role != model.RoleStudent {
		fmt.Println("Error: Role must be TEACHER or STUDENT")
		return
	}

	user, err := userService.Register(ctx, model.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		if err == service.ErrEmailTaken {
			fmt.Println("Error: An account with this email already exists")
			return
		}
		log.Fatal().Err(err).Msg("Failed to create user")
	}

	fmt.Printf("Created %s account for %s (ID %d)\n", user.Role, user.Email, user.ID)
}
