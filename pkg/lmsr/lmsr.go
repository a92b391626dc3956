// package lmsr implements a Logarithmic Market Scoring Rule

package lmsr

import "math"

// Liquidity is the default constant b. Larger values flatten the price
// curve: a trade of the same size moves the market less, but the market
// maker's worst case (see MaxLoss) grows with it.
const Liquidity = float64(50.0)

// Cost calculates the LMSR cost potential b * ln(sum of exp(q_i / b))
// for the outstanding shares of all stocks. It is computed with the
// log-sum-exp reformulation so that large share counts don't overflow
// the intermediate exponentials; the result matches the plain formula
// wherever the plain formula is representable.
func Cost(b float64, allShares []float64) float64 {
	max := allShares[0] / b
	for _, s := range allShares[1:] {
		if s/b > max {
			max = s / b
		}
	}
	sum := float64(0)
	for _, s := range allShares {
		sum += math.Exp(s/b - max)
	}
	return b * (max + math.Log(sum))
}

// Prices calculates the price of every stock given a liquidity constant
// (b) and the number of outstanding shares for all stocks. Each price
// is in (0, 1) and the vector sums to 1, so a price doubles as the
// market's probability estimate for that stock.
func Prices(b float64, allShares []float64) []float64 {
	max := allShares[0] / b
	for _, s := range allShares[1:] {
		if s/b > max {
			max = s / b
		}
	}
	prices := make([]float64, len(allShares))
	sum := float64(0)
	for i, s := range allShares {
		e := math.Exp(s/b - max)
		prices[i] = e
		sum += e
	}
	for i := range prices {
		prices[i] /= sum
	}
	return prices
}

// Price calculates the price of a single stock, given the index of this
// stock in the array of outstanding shares.
func Price(b float64, allShares []float64, shareIdx int) float64 {
	return Prices(b, allShares)[shareIdx]
}

// TradeCost calculates the price of buying `shares` shares of a stock,
// given a liquidity constant b, the outstanding shares for all stocks,
// and the index of our particular stock in this array of outstanding
// shares. The passed-in array is not modified.
func TradeCost(b float64, shares float64, allShares []float64, idx int) float64 {
	costBefore := Cost(b, allShares)
	after := make([]float64, len(allShares))
	copy(after, allShares)
	after[idx] += shares
	return Cost(b, after) - costBefore
}

// MaxLoss returns the most the market maker can lose across all
// outcomes: b * ln(n) for n stocks.
func MaxLoss(b float64, n int) float64 {
	return b * math.Log(float64(n))
}
