// Package bootstrap prepares runtime state that must exist before the API
// serves traffic.
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"chatter/internal/config"
	"chatter/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureDevOwner guarantees an owner-role account exists in development so
// the privileged endpoints are reachable without manual database edits. It
// is a no-op outside the development profile or when not explicitly enabled.
func EnsureDevOwner(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapOwner {
		return nil
	}

	username := strings.TrimSpace(cfg.DevOwnerUsername)
	if username == "" {
		username = "chatter_root"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevOwnerEmail))
	if email == "" {
		email = "root@chatter.dev"
	}
	password := cfg.DevOwnerPassword
	if password == "" {
		return fmt.Errorf("DEV_OWNER_PASSWORD must be set when DEV_BOOTSTRAP_OWNER is enabled")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash owner password: %w", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		var owner models.User
		findErr := tx.Where("username = ?", username).First(&owner).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			owner = models.User{
				Username:     username,
				Email:        email,
				PasswordHash: string(hash),
				Roles:        models.RoleOwner,
			}
			return tx.Create(&owner).Error
		case findErr != nil:
			return findErr
		case owner.HasRole(models.RoleOwner):
			return nil
		default:
			roles := models.RoleOwner
			if owner.Roles != "" {
				roles = owner.Roles + "," + models.RoleOwner
			}
			return tx.Model(&owner).Update("roles", roles).Error
		}
	}); err != nil {
		return err
	}

	log.Printf("development owner account ensured (%s)", username)
	return nil
}
