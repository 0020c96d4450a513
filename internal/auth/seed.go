package auth

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/AbduDark/MobileLinesManager/config"
)

// SeedAdminUser creates the initial admin account when no users exist yet.
func SeedAdminUser(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		FullName:     "Administrator",
		Role:         RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Printf("seeded admin user %q", cfg.AdminUsername)
	return nil
}
