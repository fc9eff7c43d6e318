package sensitivity

import (
	"errors"
	"fmt"
)

// ErrUnknownDeficiency is returned for a colour vision deficiency name that
// is not one of the supported types.
var ErrUnknownDeficiency = errors.New("unknown colour vision deficiency")

// Deficiency enumerates the simulated colour vision deficiencies.
type Deficiency int

const (
	Deuteranopia Deficiency = iota
	Protanopia
	Tritanopia
	Deuteranomaly
	Protanomaly
	Tritanomaly
	Achromatopsia
)

var deficiencyNames = [...]string{
	Deuteranopia:  "Deuteranopia",
	Protanopia:    "Protanopia",
	Tritanopia:    "Tritanopia",
	Deuteranomaly: "Deuteranomaly",
	Protanomaly:   "Protanomaly",
	Tritanomaly:   "Tritanomaly",
	Achromatopsia: "Achromatopsia",
}

func (d Deficiency) String() string {
	if d < 0 || int(d) >= len(deficiencyNames) {
		return fmt.Sprintf("Deficiency(%d)", int(d))
	}
	return deficiencyNames[d]
}

// Deficiencies lists every supported deficiency in declaration order.
func Deficiencies() []Deficiency {
	out := make([]Deficiency, len(deficiencyNames))
	for i := range deficiencyNames {
		out[i] = Deficiency(i)
	}
	return out
}

// ParseDeficiency matches name exactly (case-sensitive). An empty name
// selects Deuteranopia.
func ParseDeficiency(name string) (Deficiency, error) {
	if name == "" {
		return Deuteranopia, nil
	}
	for i, n := range deficiencyNames {
		if n == name {
			return Deficiency(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDeficiency, name)
}

const (
	// dichromatSplit is the wavelength at which dichromat substitution
	// switches from the short to the long/medium receptor.
	dichromatSplit = 545.0

	// anomalySeverity is the share of the substituted receptor signal in
	// anomalous trichromacy.
	anomalySeverity = 0.75
)

// Rod is the scotopic response used for achromatopsia.
var Rod = Gaussian{Peak: 498, Sigma: 35}

// Daltonian derives a colour vision deficiency from the human cone model.
type Daltonian struct {
	base       *Trichromat
	deficiency Deficiency
}

// NewDaltonian returns the model for d on top of the human baseline.
func NewDaltonian(d Deficiency) *Daltonian {
	return &Daltonian{base: Human(), deficiency: d}
}

// Deficiency returns the simulated deficiency.
func (m *Daltonian) Deficiency() Deficiency {
	return m.deficiency
}

// Sensitivity implements Model. Achromatopsia returns the rod response on
// all three channels without normalization.
func (m *Daltonian) Sensitivity(wavelength float64) Weights {
	w := m.base.Raw(wavelength)
	s, med, l := w.Short, w.Medium, w.Long

	switch m.deficiency {
	case Deuteranopia:
		if wavelength > dichromatSplit {
			med = 0.95*l + 0.05*s
		} else {
			med = 0.05*l + 0.95*s
		}
	case Protanopia:
		if wavelength > dichromatSplit {
			l = 0.95*med + 0.05*s
		} else {
			l = 0.05*med + 0.95*s
		}
	case Tritanopia:
		s = 0.5*med + 0.5*l
	case Deuteranomaly:
		med = (1-anomalySeverity)*med + anomalySeverity*l
	case Protanomaly:
		l = (1-anomalySeverity)*l + anomalySeverity*med
	case Tritanomaly:
		s = (1-anomalySeverity)*s + anomalySeverity*((med+l)/2)
	case Achromatopsia:
		rod := Rod.Response(wavelength)
		return Weights{Short: rod, Medium: rod, Long: rod}
	}

	return Weights{Short: s, Medium: med, Long: l}.Normalized()
}
