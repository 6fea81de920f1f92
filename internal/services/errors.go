package services

import (
	"errors"
	"fmt"
	"strings"

	"trainer_dashboard/internal/apperr"

	"gorm.io/gorm"
)

// storeErr maps a repository error onto the taxonomy. what names the entity
// in caller-facing messages, e.g. "Task".
func storeErr(err error, what string) error {
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict("%s already exists", what)
	default:
		return apperr.Store(fmt.Sprintf("failed to access %s", strings.ToLower(what)), err)
	}
}
