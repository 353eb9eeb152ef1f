package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"charityhub/internal/domain"
)

// DonationRepositoryPG implements domain.DonationRepository backed by
// PostgreSQL. Ledger rows are append-only.
type DonationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new DonationRepositoryPG.
func NewDonationRepository(pool *pgxpool.Pool) *DonationRepositoryPG {
	return &DonationRepositoryPG{pool: pool}
}

// RecordDonation inserts the ledger row and bumps the project's running
// total in one transaction.
func (r *DonationRepositoryPG) RecordDonation(ctx context.Context, donation *domain.Donation) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
INSERT INTO donations (id, project_id, donor_id, amount, anonymous)
VALUES ($1, $2, $3, $4, $5);
`, donation.ID, donation.ProjectID, donation.DonorID, donation.Amount, donation.Anonymous)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
UPDATE projects
SET current_amount = current_amount + $2, updated_at = NOW()
WHERE id = $1;
`, donation.ProjectID, donation.Amount)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// ListDonationsByProject returns a project's donations, most recent first.
func (r *DonationRepositoryPG) ListDonationsByProject(ctx context.Context, projectID string) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, project_id, donor_id, amount, anonymous, created_at
FROM donations
WHERE project_id = $1
ORDER BY created_at DESC;
`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.DonorID, &d.Amount, &d.Anonymous, &d.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SumDonationsByProject totals a project's ledger.
func (r *DonationRepositoryPG) SumDonationsByProject(ctx context.Context, projectID string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(SUM(amount), 0) FROM donations WHERE project_id = $1;
`, projectID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return total, nil
}
