package domain

import (
	"math"
)

// RatingCounters is the durable per-item aggregate of star events: five
// bucket counters, one per star value. A row is created lazily on the first
// rating contribution and counters only ever grow; there is no deletion or
// decrement path.
type RatingCounters struct {
	ItemID    int64 `json:"item_id"`
	RateOne   int64 `json:"rate_one"`
	RateTwo   int64 `json:"rate_two"`
	RateThree int64 `json:"rate_three"`
	RateFour  int64 `json:"rate_four"`
	RateFive  int64 `json:"rate_five"`
}

// RatingSummary is the derived, comparable view of an item's rating. It is
// computed on demand from the counters and never persisted. Both scores are
// single precision; callers must tolerate float32 rounding.
type RatingSummary struct {
	ItemID      int64   `json:"item_id"`
	WilsonScore float32 `json:"wilson_score"`
	AvgStars    float32 `json:"avg_stars"`
}

// DefaultSummary is the canonical zero-state summary, used whenever an item
// has no counters row. Absence of ratings is a normal state, not an error.
func DefaultSummary(itemID int64) RatingSummary {
	return RatingSummary{ItemID: itemID, WilsonScore: 0, AvgStars: 0}
}

// Wilson 95% confidence constants: z and its derived powers.
const (
	wilsonZ         = 1.96
	wilsonZSq       = 3.8416 // z²
	wilsonZSqHalf   = 1.9208 // z²/2
	wilsonZ4Quarter = 0.9604 // z⁴/4
)

// Bucket weights for the positive mass, indexed by star value 1..5. The
// negative mass mirrors them (weight for star s is the positive weight of
// star 6-s).
var positiveWeights = [6]float64{0, 0.0, 0.25, 0.5, 0.75, 1.0}

// Total returns the number of rating events accumulated across all buckets.
func (c RatingCounters) Total() int64 {
	return c.RateOne + c.RateTwo + c.RateThree + c.RateFour + c.RateFive
}

// Summary derives the Wilson lower-bound score and the average-stars figure
// from the bucket counts.
//
// The five buckets are collapsed into a weighted positive mass P and a
// mirrored negative mass N, and the Wilson lower bound of the binomial
// proportion P/(P+N) is taken at 95% confidence. Compared with a raw
// average, this rewards items with more total engagement and pulls down
// low-count items with extreme ratios.
func (c RatingCounters) Summary() RatingSummary {
	total := c.Total()
	if total == 0 {
		return DefaultSummary(c.ItemID)
	}

	buckets := [6]float64{
		0,
		float64(c.RateOne),
		float64(c.RateTwo),
		float64(c.RateThree),
		float64(c.RateFour),
		float64(c.RateFive),
	}

	var positive, negative float64
	for star := 1; star <= 5; star++ {
		positive += buckets[star] * positiveWeights[star]
		negative += buckets[star] * positiveWeights[6-star]
	}

	n := positive + negative
	wilson := ((positive+wilsonZSqHalf)/n - wilsonZ*math.Sqrt(positive*negative/n+wilsonZ4Quarter)/n) /
		(1 + wilsonZSq/n)

	// Map the positive-mass fraction onto the 1..5 star range, rounding
	// half-up at 2 decimal places before the final halving.
	avgStars := roundHalfUp(((positive/float64(total))*4+1)*2, 2) / 2

	return RatingSummary{
		ItemID:      c.ItemID,
		WilsonScore: float32(wilson),
		AvgStars:    float32(avgStars),
	}
}

func roundHalfUp(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Floor(v*shift+0.5) / shift
}
