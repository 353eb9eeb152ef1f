// Package rating converts resolved work into experience points and
// derives a reputation tier from the accumulated total.
package rating

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"charityhub/internal/domain"
)

// Tier is a coarse reputation label derived purely from experience.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// Thresholds holds the ordered XP boundaries between tiers.
type Thresholds struct {
	T1 int64 // silver starts here
	T2 int64 // gold starts here
	T3 int64 // platinum starts here
}

// DefaultThresholds are the stock boundaries; deployments override them
// through configuration.
var DefaultThresholds = Thresholds{T1: 100, T2: 500, T3: 1500}

// Valid reports whether the boundaries are strictly increasing.
func (t Thresholds) Valid() bool {
	return 0 < t.T1 && t.T1 < t.T2 && t.T2 < t.T3
}

// TierFor derives the tier for an experience total. The result is a
// pure function of xp: equal totals always map to equal tiers.
func (t Thresholds) TierFor(xp int64) Tier {
	switch {
	case xp >= t.T3:
		return TierPlatinum
	case xp >= t.T2:
		return TierGold
	case xp >= t.T1:
		return TierSilver
	default:
		return TierBronze
	}
}

// Engine credits experience to users. It is invoked only by the issue
// lifecycle on a real transition to closed, which is what keeps the
// exactly-once crediting guarantee.
type Engine struct {
	users      domain.UserRepository
	thresholds Thresholds
	logger     zerolog.Logger
}

// NewEngine builds an engine over the user repository.
func NewEngine(users domain.UserRepository, thresholds Thresholds, logger zerolog.Logger) *Engine {
	if !thresholds.Valid() {
		thresholds = DefaultThresholds
	}
	return &Engine{users: users, thresholds: thresholds, logger: logger}
}

// Thresholds exposes the configured tier boundaries.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Credit adds amount to the user's experience total and returns the
// updated user. The tier is never stored; it is recomputed from the
// post-credit total, so no drift is possible.
func (e *Engine) Credit(ctx context.Context, userID string, amount int64) (*domain.User, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: credit amount must not be negative", domain.ErrInvalidArgument)
	}
	user, err := e.users.AddExperience(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("credit experience: %w", err)
	}
	e.logger.Info().
		Str("user_id", userID).
		Int64("amount", amount).
		Int64("experience", user.Experience).
		Str("tier", string(e.thresholds.TierFor(user.Experience))).
		Msg("experience credited")
	return user, nil
}
