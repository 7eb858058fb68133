package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"creationrights/internal/domain"
)

// readError maps a missing row for a user's document to a NotFoundError.
// Anything else is wrapped as a failed read of what.
func readError(err error, what, userID string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.NotFoundError{Message: fmt.Sprintf("%s for user %s not found", what, userID)}
	}
	return fmt.Errorf("get %s: %w", what, err)
}
