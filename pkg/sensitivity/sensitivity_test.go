package sensitivity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-5

// allModels returns every model variant keyed by a readable name
func allModels(t *testing.T) map[string]Model {
	t.Helper()
	models := map[string]Model{
		"Human": Human(),
		"Bee":   Bee(),
	}
	for _, d := range Deficiencies() {
		models[d.String()] = NewDaltonian(d)
	}
	table, err := DefaultConeTable()
	require.NoError(t, err)
	cone, err := NewCone(table)
	require.NoError(t, err)
	models["HumanCone"] = cone
	return models
}

func TestGaussianResponse(t *testing.T) {
	g := Gaussian{Peak: 500, Sigma: 20}
	assert.InDelta(t, 1.0, g.Response(500), 1e-12)
	assert.InDelta(t, math.Exp(-0.5), g.Response(520), 1e-12)
	assert.InDelta(t, g.Response(480), g.Response(520), 1e-12)
}

// TestWeightsSumToOne checks the normalization property over 300-800 nm
func TestWeightsSumToOne(t *testing.T) {
	for name, model := range allModels(t) {
		if name == Achromatopsia.String() {
			continue
		}
		t.Run(name, func(t *testing.T) {
			for wl := 300.0; wl <= 800.0; wl += 2.5 {
				w := model.Sensitivity(wl)
				assert.GreaterOrEqual(t, w.Short, 0.0)
				assert.GreaterOrEqual(t, w.Medium, 0.0)
				assert.GreaterOrEqual(t, w.Long, 0.0)
				if w.Sum() > 0 {
					assert.InDelta(t, 1.0, w.Sum(), tolerance, "wavelength %.1f", wl)
				}
			}
		})
	}
}

func TestAchromatopsiaIsGrey(t *testing.T) {
	model := NewDaltonian(Achromatopsia)
	for wl := 300.0; wl <= 800.0; wl += 7 {
		w := model.Sensitivity(wl)
		assert.Equal(t, w.Short, w.Medium)
		assert.Equal(t, w.Medium, w.Long)
		assert.InDelta(t, Rod.Response(wl), w.Short, 1e-12)
	}
	assert.InDelta(t, 1.0, model.Sensitivity(498).Long, 1e-12)
}

func TestHumanPeaks(t *testing.T) {
	h := Human()

	w := h.Sensitivity(441.8)
	assert.Greater(t, w.Short, w.Medium)
	assert.Greater(t, w.Short, w.Long)

	w = h.Sensitivity(541.2)
	assert.Greater(t, w.Medium, w.Short)

	w = h.Sensitivity(566.8)
	assert.Greater(t, w.Long, w.Short)

	assert.InDelta(t, 1.0, h.Sensitivity(500).Sum(), 1e-7)
}

func TestBeePeaks(t *testing.T) {
	b := Bee()

	w := b.Sensitivity(344)
	assert.Greater(t, w.Short, w.Medium)
	assert.Greater(t, w.Short, w.Long)

	w = b.Sensitivity(436)
	assert.Greater(t, w.Medium, w.Short)
	assert.Greater(t, w.Medium, w.Long)

	w = b.Sensitivity(600)
	assert.Greater(t, w.Long, w.Medium)
}

func TestBalance(t *testing.T) {
	h := Human()
	h.Balance = Balance{Short: 2, Medium: 1, Long: 1}
	raw := Human().Raw(480)
	assert.InDelta(t, 2*raw.Short, h.Raw(480).Short, 1e-12)
	assert.InDelta(t, raw.Medium, h.Raw(480).Medium, 1e-12)
}

func TestZeroWeightsStayUnnormalized(t *testing.T) {
	assert.Equal(t, Weights{}, Weights{}.Normalized())
}

// TestDaltonianFormulas checks each substitution against the human baseline
func TestDaltonianFormulas(t *testing.T) {
	human := Human()

	tests := []struct {
		deficiency Deficiency
		wavelength float64
		expect     func(w Weights) Weights
	}{
		{Deuteranopia, 600, func(w Weights) Weights { w.Medium = 0.95*w.Long + 0.05*w.Short; return w }},
		{Deuteranopia, 500, func(w Weights) Weights { w.Medium = 0.05*w.Long + 0.95*w.Short; return w }},
		{Protanopia, 600, func(w Weights) Weights { w.Long = 0.95*w.Medium + 0.05*w.Short; return w }},
		{Protanopia, 545, func(w Weights) Weights { w.Long = 0.05*w.Medium + 0.95*w.Short; return w }},
		{Tritanopia, 450, func(w Weights) Weights { w.Short = 0.5*w.Medium + 0.5*w.Long; return w }},
		{Deuteranomaly, 520, func(w Weights) Weights { w.Medium = 0.25*w.Medium + 0.75*w.Long; return w }},
		{Protanomaly, 520, func(w Weights) Weights { w.Long = 0.25*w.Long + 0.75*w.Medium; return w }},
		{Tritanomaly, 470, func(w Weights) Weights { w.Short = 0.25*w.Short + 0.75*((w.Medium+w.Long)/2); return w }},
	}

	for _, tt := range tests {
		t.Run(tt.deficiency.String(), func(t *testing.T) {
			want := tt.expect(human.Raw(tt.wavelength)).Normalized()
			got := NewDaltonian(tt.deficiency).Sensitivity(tt.wavelength)
			assert.InDelta(t, want.Short, got.Short, 1e-12)
			assert.InDelta(t, want.Medium, got.Medium, 1e-12)
			assert.InDelta(t, want.Long, got.Long, 1e-12)
		})
	}
}

func TestParseDeficiency(t *testing.T) {
	for _, d := range Deficiencies() {
		got, err := ParseDeficiency(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	got, err := ParseDeficiency("")
	require.NoError(t, err)
	assert.Equal(t, Deuteranopia, got)

	for _, name := range []string{"deuteranopia", "Tetrachromacy", " Protanopia"} {
		_, err := ParseDeficiency(name)
		assert.ErrorIs(t, err, ErrUnknownDeficiency, name)
	}

	assert.Len(t, Deficiencies(), 7)
	assert.Equal(t, "Deficiency(42)", Deficiency(42).String())
}
