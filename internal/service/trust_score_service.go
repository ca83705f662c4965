package service

import (
	"context"
	"time"

	"creator-payout-ledger/internal/core/domain"
	"creator-payout-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// TrustScoreService is a read-through cache in front of the trust score
// provider. It implements ports.TrustScoreProvider and always returns 0..100.
type TrustScoreService struct {
	provider ports.TrustScoreProvider
	cache    ports.TrustScoreCache
	ttl      time.Duration
	log      zerolog.Logger
}

// NewTrustScoreService creates a new TrustScoreService.
func NewTrustScoreService(provider ports.TrustScoreProvider, cache ports.TrustScoreCache, ttl time.Duration, log zerolog.Logger) *TrustScoreService {
	return &TrustScoreService{provider: provider, cache: cache, ttl: ttl, log: log}
}

func (s *TrustScoreService) GetTrustScore(ctx context.Context, creatorID string) (int, error) {
	score, ok, err := s.cache.Get(ctx, creatorID)
	if err != nil {
		s.log.Warn().Err(err).Str("creator_id", creatorID).Msg("trust score cache read failed")
	}
	if ok {
		return domain.ClampTrustScore(score), nil
	}

	raw, err := s.provider.GetTrustScore(ctx, creatorID)
	if err != nil {
		return 0, err
	}
	score = domain.ClampTrustScore(raw)
	if score != raw {
		s.log.Warn().Str("creator_id", creatorID).Int("raw_score", raw).Msg("trust score out of range, clamped")
	}

	if err := s.cache.Set(ctx, creatorID, score, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("creator_id", creatorID).Msg("failed to cache trust score")
	}
	return score, nil
}
