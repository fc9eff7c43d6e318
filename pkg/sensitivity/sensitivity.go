// Package sensitivity provides the spectral sensitivity functions used to
// project multispectral bands onto three colour channels.
//
// Every model maps a wavelength in nanometres to three receptor weights in
// (short, medium, long) order. The simulators route short to blue, medium to
// green and long to red.
package sensitivity

import "math"

// Weights holds the response of the three receptor classes to one
// wavelength.
type Weights struct {
	Short  float64
	Medium float64
	Long   float64
}

// Sum returns Short + Medium + Long.
func (w Weights) Sum() float64 {
	return w.Short + w.Medium + w.Long
}

// Normalized divides the weights by their sum. A zero sum is returned as is.
func (w Weights) Normalized() Weights {
	total := w.Sum()
	if total <= 0 {
		return w
	}
	return Weights{Short: w.Short / total, Medium: w.Medium / total, Long: w.Long / total}
}

// Model is a receptor sensitivity function. Implementations are stateless
// and safe for concurrent use.
type Model interface {
	Sensitivity(wavelength float64) Weights
}

// Gaussian approximates a receptor response curve peaked at Peak with
// spread Sigma, both in nm.
type Gaussian struct {
	Peak  float64
	Sigma float64
}

// Response evaluates exp(-(λ-Peak)² / (2σ²)).
func (g Gaussian) Response(wavelength float64) float64 {
	d := wavelength - g.Peak
	return math.Exp(-(d * d) / (2 * g.Sigma * g.Sigma))
}

// Balance scales each receptor's raw response before normalization.
type Balance struct {
	Short  float64
	Medium float64
	Long   float64
}

// NeutralBalance leaves all responses unchanged.
var NeutralBalance = Balance{Short: 1, Medium: 1, Long: 1}

// Trichromat is a three-receptor Gaussian model.
type Trichromat struct {
	Short   Gaussian
	Medium  Gaussian
	Long    Gaussian
	Balance Balance
}

// Human returns the human cone model (S 441.8 nm, M 541.2 nm, L 566.8 nm).
func Human() *Trichromat {
	return &Trichromat{
		Short:   Gaussian{Peak: 441.8, Sigma: 28},
		Medium:  Gaussian{Peak: 541.2, Sigma: 38},
		Long:    Gaussian{Peak: 566.8, Sigma: 48},
		Balance: NeutralBalance,
	}
}

// Bee returns the honeybee photoreceptor model: UV at 344 nm, blue at
// 436 nm and green at 544 nm.
func Bee() *Trichromat {
	return &Trichromat{
		Short:   Gaussian{Peak: 344, Sigma: 26},
		Medium:  Gaussian{Peak: 436, Sigma: 34},
		Long:    Gaussian{Peak: 544, Sigma: 43},
		Balance: NeutralBalance,
	}
}

// Raw returns the balanced, unnormalized receptor responses.
func (t *Trichromat) Raw(wavelength float64) Weights {
	return Weights{
		Short:  t.Short.Response(wavelength) * t.Balance.Short,
		Medium: t.Medium.Response(wavelength) * t.Balance.Medium,
		Long:   t.Long.Response(wavelength) * t.Balance.Long,
	}
}

// Sensitivity implements Model.
func (t *Trichromat) Sensitivity(wavelength float64) Weights {
	return t.Raw(wavelength).Normalized()
}
