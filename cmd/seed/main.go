package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/health-referral-api/config"
	"github.com/oksasatya/health-referral-api/internal/application"
	"github.com/oksasatya/health-referral-api/internal/container"
	"github.com/oksasatya/health-referral-api/pkg/helpers"
)

// seed registers a demo patient and a demo worker left pending approval,
// through the same service the API uses. Re-running is harmless.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores, err := container.OpenStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer stores.Close()

	auth := application.NewAuthService(stores.Users, helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL), logger)

	accounts := []application.RegisterInput{
		{
			Name: "Demo Patient", Age: 30, Gender: "Male", PhoneNumber: "03001234567",
			CNIC: "3520212345671", Email: "patient@example.com", Password: "password123", Role: "patient",
		},
		{
			Name: "Demo Worker", Age: 28, Gender: "Female", PhoneNumber: "03007654321",
			CNIC: "3520212345672", Email: "worker@example.com", Password: "password123", Role: "worker",
		},
	}

	for _, in := range accounts {
		res, err := auth.Register(ctx, in)
		switch {
		case errors.Is(err, application.ErrDuplicateUser):
			fmt.Printf("already seeded: email=%s\n", in.Email)
		case err != nil:
			log.Fatalf("failed to seed %s: %v", in.Email, err)
		default:
			fmt.Printf("seeded %s: id=%s email=%s approved=%v password=%s\n",
				res.User.Role, res.User.ID, res.User.Email, res.User.IsApproved, in.Password)
		}
	}
}
