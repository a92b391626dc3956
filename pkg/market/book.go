package market

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lithammer/shortuuid"
	"github.com/rs/zerolog/log"

	"github.com/hrjole/poolfutures/pkg/lmsr"
)

var (
	// ErrUnknownOutcome means the named outcome is not part of the
	// market's fixed outcome set.
	ErrUnknownOutcome = errors.New("unknown outcome")
	// ErrInvalidTrade means the bet's share count is outside the
	// allowed per-bet range.
	ErrInvalidTrade = errors.New("invalid trade")
	// ErrCommitFailed means the bet could not be durably recorded.
	// The market state is unchanged and the bet can be retried.
	ErrCommitFailed = errors.New("commit failed")
)

// Default per-bet share bounds.
const (
	DefaultMinShares = int64(1)
	DefaultMaxShares = int64(100)
)

// A Bet is one committed trade. Cost is frozen at commit time against
// the quantities that were current at that instant; it is never
// recomputed, even though later bets move the curve.
type Bet struct {
	ID       string
	Actor    string
	Outcome  string
	Shares   int64
	Cost     float64
	PlacedAt time.Time
}

// BetLog is the durable, append-only record of committed bets. The log
// is authoritative: the quantity vector must always equal a replay of
// it, so Append must either persist the bet completely or fail without
// side effects.
type BetLog interface {
	Append(ctx context.Context, bet *Bet) error
}

// Book prices and commits bets for one market. Each commit runs
// snapshot, cost, apply and log-append as a single exclusive section,
// so no two bets can ever price themselves against the same snapshot.
type Book struct {
	liquidity  float64
	minShares  int64
	maxShares  int64
	quantities *Quantities
	log        BetLog

	mu sync.Mutex // serializes commits
}

// NewBook creates a book over the given outcomes. initial seeds the
// quantity vector, normally from a fold of the stored bet log; nil
// starts a fresh market at zero. Outcomes present in initial but not
// in outcomes indicate a config/log mismatch and are rejected.
func NewBook(outcomes []string, liquidity float64, initial map[string]int64, betLog BetLog) (*Book, error) {
	if liquidity <= 0 {
		return nil, fmt.Errorf("liquidity must be positive, got %v", liquidity)
	}
	if betLog == nil {
		return nil, errors.New("betLog is required")
	}
	quantities, err := NewQuantities(outcomes)
	if err != nil {
		return nil, err
	}
	for outcome, shares := range initial {
		if _, err := quantities.Apply(outcome, shares); err != nil {
			return nil, fmt.Errorf("restoring quantities: %w", err)
		}
	}
	return &Book{
		liquidity:  liquidity,
		minShares:  DefaultMinShares,
		maxShares:  DefaultMaxShares,
		quantities: quantities,
		log:        betLog,
	}, nil
}

// SetShareBounds overrides the allowed per-bet share range.
func (bk *Book) SetShareBounds(min, max int64) error {
	if min < 1 || max < min {
		return fmt.Errorf("bad share bounds [%d, %d]", min, max)
	}
	bk.minShares = min
	bk.maxShares = max
	return nil
}

// Place prices and commits a bet of `shares` shares on `outcome` for
// `actor`. It returns the committed bet, with its frozen cost, and the
// post-commit quantities. If the log append fails the quantity change
// is rolled back and ErrCommitFailed is returned; the market is then
// exactly as it was before the call.
func (bk *Book) Place(ctx context.Context, actor, outcome string, shares int64) (*Bet, map[string]int64, error) {
	idx, ok := bk.quantities.Index(outcome)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
	}
	if shares < bk.minShares || shares > bk.maxShares {
		return nil, nil, fmt.Errorf("%w: shares must be between %d and %d, got %d",
			ErrInvalidTrade, bk.minShares, bk.maxShares, shares)
	}

	bk.mu.Lock()
	defer bk.mu.Unlock()

	before := bk.quantities.Snapshot()
	cost := lmsr.TradeCost(bk.liquidity, float64(shares), toFloats(before), idx)

	after, err := bk.quantities.Apply(outcome, shares)
	if err != nil {
		return nil, nil, err
	}

	bet := &Bet{
		ID:       shortuuid.New(),
		Actor:    actor,
		Outcome:  outcome,
		Shares:   shares,
		Cost:     cost,
		PlacedAt: time.Now().UTC(),
	}
	if err := bk.log.Append(ctx, bet); err != nil {
		if _, rbErr := bk.quantities.Apply(outcome, -shares); rbErr != nil {
			log.Error().Err(rbErr).Str("outcome", outcome).Msg("rollback-failed")
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	log.Debug().Str("betID", bet.ID).Str("actor", actor).Str("outcome", outcome).
		Int64("shares", shares).Float64("cost", cost).Msg("bet-committed")

	quantities := make(map[string]int64, len(after))
	for i, o := range bk.quantities.outcomes {
		quantities[o] = after[i]
	}
	return bet, quantities, nil
}

// Quantities returns the latest committed quantity vector, keyed by
// outcome. It does not wait on in-flight commits; display callers get
// whatever was last committed.
func (bk *Book) Quantities() map[string]int64 {
	return bk.quantities.SnapshotMap()
}

// Prices returns the current price of every outcome, keyed by name.
// Like Quantities, it reads the latest committed state without joining
// the commit section.
func (bk *Book) Prices() map[string]float64 {
	snapshot := bk.quantities.Snapshot()
	prices := lmsr.Prices(bk.liquidity, toFloats(snapshot))
	m := make(map[string]float64, len(prices))
	for i, o := range bk.quantities.outcomes {
		m[o] = prices[i]
	}
	return m
}

// Outcomes returns the market's outcome names in their fixed order.
func (bk *Book) Outcomes() []string {
	return bk.quantities.Outcomes()
}

// Liquidity returns the market's constant b.
func (bk *Book) Liquidity() float64 {
	return bk.liquidity
}

func toFloats(shares []int64) []float64 {
	out := make([]float64, len(shares))
	for i, s := range shares {
		out[i] = float64(s)
	}
	return out
}
