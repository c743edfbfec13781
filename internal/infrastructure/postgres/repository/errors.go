package repository

import (
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"gorm.io/gorm"
)

// translate maps gorm errors onto domain sentinels. It relies on
// gorm.Config.TranslateError for duplicate keys.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", what, err)
}
