package service

import (
	"context"
	"errors"

	"chatter/internal/models"
	"chatter/internal/repository"

	"gorm.io/gorm"
)

// wrapGetErr converts a repository read failure into the business outcome
// the caller surfaces: missing rows become NotFound, anything else is an
// infrastructure failure.
func wrapGetErr(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// wrapTxErr passes business outcomes produced inside a transaction through
// unchanged and wraps everything else as an infrastructure failure.
func wrapTxErr(err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewInternalError(err)
}

// actorFor loads the acting user and shapes it for the permission resolver.
func actorFor(ctx context.Context, users repository.UserRepository, userID uint) (Actor, error) {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return Actor{}, wrapGetErr(err, "User", userID)
	}
	return Actor{ID: user.ID, Roles: user.RoleList()}, nil
}
