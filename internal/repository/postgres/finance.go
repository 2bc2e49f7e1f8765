package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
)

// ListByUser returns the user's ledger rows, newest first. A deployment
// without the finance_transactions table reports not-found so callers can
// fall back to appointment payments.
func (r *financeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.FinanceTransaction, error) {
	query := `
		SELECT id, user_id, description, amount, status, created_at
		FROM finance_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	transactions := []model.FinanceTransaction{}
	if err := r.db.SelectContext(ctx, &transactions, query, userID); err != nil {
		if pqCode(err) == pqUndefinedTable {
			return nil, apperrors.NotFound("finance_transactions", err)
		}
		return nil, fmt.Errorf("failed to list finance transactions: %w", err)
	}
	return transactions, nil
}
