package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kardexcare/service-api/internal/config"
	"github.com/kardexcare/service-api/internal/database"
	"github.com/kardexcare/service-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	args := os.Args[1:]
	if len(args) != 3 {
		return errors.New("usage: seed-admin <email> <name> <password>")
	}
	email, name, password := args[0], args[1], args[2]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var existing domain.User
	err = db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		// Reactivate and promote the existing account
		existing.Name = name
		existing.Role = domain.RoleAdmin
		existing.PasswordHash = string(hash)
		existing.IsActive = true
		if err := db.Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to update admin user: %w", err)
		}
		fmt.Printf("Admin user updated: %s\n", email)

	case errors.Is(err, gorm.ErrRecordNotFound):
		user := domain.User{
			Email:        email,
			Name:         name,
			Role:         domain.RoleAdmin,
			PasswordHash: string(hash),
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		fmt.Printf("Admin user created: %s\n", email)

	default:
		return fmt.Errorf("failed to look up user: %w", err)
	}

	return nil
}
