package market

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"
)

func TestAnalyze(t *testing.T) {
	is := is.New(t)
	bets := []*Bet{
		{ID: "b1", Actor: "cesar", Outcome: "A", Shares: 50, Cost: 10.5},
		{ID: "b2", Actor: "josh", Outcome: "B", Shares: 30, Cost: 4.25},
		{ID: "b3", Actor: "cesar", Outcome: "A", Shares: 20, Cost: 6.25},
	}
	a, err := Analyze(50, []string{"A", "B", "C"}, bets)
	is.NoErr(err)
	is.Equal(a.TotalCost, 21.0)
	is.Equal(a.Payouts, map[string]float64{"A": 70, "B": 30, "C": 0})
	is.Equal(a.Profits, map[string]float64{"A": 49, "B": 9, "C": -21})
	is.True(math.Abs(a.MaxLoss-50*math.Log(3)) < 1e-9)
}

func TestAnalyzeUnknownOutcome(t *testing.T) {
	is := is.New(t)
	_, err := Analyze(50, []string{"A", "B"}, []*Bet{
		{ID: "b1", Outcome: "Z", Shares: 5, Cost: 1},
	})
	is.True(errors.Is(err, ErrUnknownOutcome))
}

// Over a whole market, bettors' best case against the maker is bounded
// by b * ln(n), no matter the bet series.
func TestAnalyzeBoundsMakerLoss(t *testing.T) {
	is := is.New(t)
	outcomes := []string{"Grant", "JB", "Connor", "David", "Bill", "Matt"}
	book, betLog := newTestBook(t, outcomes)
	ctx := context.Background()

	series := []struct {
		outcome string
		shares  int64
	}{
		{"Grant", 50}, {"JB", 30}, {"Connor", 15}, {"David", 24},
		{"Bill", 20}, {"Matt", 20}, {"Grant", 75}, {"JB", 25},
		{"Connor", 10}, {"David", 10}, {"Bill", 10}, {"Matt", 15},
		{"Grant", 10}, {"JB", 10}, {"Connor", 5}, {"David", 5},
		{"Bill", 50}, {"Matt", 5}, {"Connor", 5}, {"David", 50},
		{"Bill", 5}, {"Matt", 50},
	}
	for _, bet := range series {
		_, _, err := book.Place(ctx, "pool", bet.outcome, bet.shares)
		is.NoErr(err)
	}

	a, err := Analyze(book.Liquidity(), outcomes, betLog.bets)
	is.NoErr(err)
	for _, o := range outcomes {
		is.True(a.Profits[o] <= a.MaxLoss+1e-9)
	}
}
