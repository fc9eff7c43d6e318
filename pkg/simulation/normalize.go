package simulation

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// normalize maps ch to [0,1] in place. A flat channel (max == min for
// MinMax, max <= 0 for MaxOnly) becomes all zero.
func normalize(ch []float64, policy Normalization) {
	if len(ch) == 0 {
		return
	}
	lo, hi := floats.Min(ch), floats.Max(ch)

	switch policy {
	case MaxOnly:
		if hi <= 0 {
			clear(ch)
			return
		}
		floats.Scale(1/hi, ch)
	default:
		if hi <= lo {
			clear(ch)
			return
		}
		floats.AddConst(-lo, ch)
		floats.Scale(1/(hi-lo), ch)
	}
}

func applyGamma(ch []float64, gamma float64) {
	if gamma == 1 {
		return
	}
	exp := 1 / gamma
	for i, v := range ch {
		if v > 0 {
			ch[i] = math.Pow(v, exp)
		}
	}
}

// clip bounds ch to [0,1]. NaN becomes 0.
func clip(ch []float64) {
	for i, v := range ch {
		switch {
		case v < 0, math.IsNaN(v):
			ch[i] = 0
		case v > 1:
			ch[i] = 1
		}
	}
}
