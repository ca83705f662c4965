package postgres

import (
	"context"
	"errors"
	"fmt"

	"creator-payout-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// CreatorProfileRepo implements ports.CreatorProfileRepository.
type CreatorProfileRepo struct {
	pool Pool
}

// NewCreatorProfileRepo creates a new CreatorProfileRepo.
func NewCreatorProfileRepo(pool Pool) *CreatorProfileRepo {
	return &CreatorProfileRepo{pool: pool}
}

// GetByCreatorID returns the creator's payout profile, or nil when none exists.
func (r *CreatorProfileRepo) GetByCreatorID(ctx context.Context, creatorID string) (*domain.CreatorPayoutProfile, error) {
	query := `SELECT creator_id, connected_account_ref, external_bank_account_ref, identity_verified, created_at, updated_at
		FROM creator_payout_profiles WHERE creator_id = $1`

	p := &domain.CreatorPayoutProfile{}
	err := r.pool.QueryRow(ctx, query, creatorID).Scan(
		&p.CreatorID, &p.ConnectedAccountRef, &p.ExternalBankAccountRef, &p.IdentityVerified,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payout profile: %w", err)
	}
	return p, nil
}

// MarkIdentityVerified sets the cached verification flag.
func (r *CreatorProfileRepo) MarkIdentityVerified(ctx context.Context, creatorID string) error {
	query := `UPDATE creator_payout_profiles SET identity_verified = TRUE, updated_at = NOW() WHERE creator_id = $1`

	tag, err := r.pool.Exec(ctx, query, creatorID)
	if err != nil {
		return fmt.Errorf("mark identity verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payout profile not found: %s", creatorID)
	}
	return nil
}
