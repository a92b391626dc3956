package market

import (
	"fmt"

	"github.com/hrjole/poolfutures/pkg/lmsr"
)

// A PayoutAnalysis answers "who gets what if outcome X wins": every
// share of the winning outcome pays out one token, shares of losing
// outcomes pay nothing, and every bet's frozen cost has already been
// collected.
type PayoutAnalysis struct {
	// TotalCost is the sum of every committed bet's cost.
	TotalCost float64
	// Payouts maps each outcome to the total paid out if it wins.
	Payouts map[string]float64
	// Profits maps each outcome to bettors' aggregate net profit if
	// it wins (payout minus total cost). This is also the market
	// maker's loss, bounded by MaxLoss.
	Profits map[string]float64
	// MaxLoss is the market maker's worst case, b * ln(n).
	MaxLoss float64
}

// Analyze computes the payout analysis for a series of committed bets.
// Bets on outcomes outside the given set are rejected, since that
// means the log and the market config disagree.
func Analyze(liquidity float64, outcomes []string, bets []*Bet) (*PayoutAnalysis, error) {
	a := &PayoutAnalysis{
		Payouts: make(map[string]float64, len(outcomes)),
		Profits: make(map[string]float64, len(outcomes)),
		MaxLoss: lmsr.MaxLoss(liquidity, len(outcomes)),
	}
	known := make(map[string]bool, len(outcomes))
	for _, o := range outcomes {
		known[o] = true
		a.Payouts[o] = 0
	}
	for _, bet := range bets {
		if !known[bet.Outcome] {
			return nil, fmt.Errorf("%w: bet %s on %q", ErrUnknownOutcome, bet.ID, bet.Outcome)
		}
		a.TotalCost += bet.Cost
		a.Payouts[bet.Outcome] += float64(bet.Shares)
	}
	for _, o := range outcomes {
		a.Profits[o] = a.Payouts[o] - a.TotalCost
	}
	return a, nil
}
