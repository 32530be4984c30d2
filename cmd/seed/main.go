package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskpilot/internal/config"
	"taskpilot/internal/db"
	"taskpilot/internal/model"
	"taskpilot/internal/repository"
)

const (
	demoEmail    = "admin@example.com"
	demoPassword = "Admin123!"
	demoName     = "Demo Admin"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, cfg.MaxOpenConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	users := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	if _, err := users.FindByEmail(ctx, demoEmail); err == nil {
		log.Printf("Demo user already exists: %s", demoEmail)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check demo user: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), cfg.BcryptCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	user := &model.User{
		Email:        demoEmail,
		PasswordHash: string(hashed),
		Name:         demoName,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	log.Printf("Demo user created: %s / %s", demoEmail, demoPassword)
}
