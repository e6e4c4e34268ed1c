package mcfit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func TestDropNaNs(t *testing.T) {
	data := []float64{1, math.NaN(), 2, math.Inf(1), 3, math.Inf(-1)}
	assert.Equal(t, []float64{1, 2, 3}, DropNaNs(data))
	assert.Empty(t, DropNaNs([]float64{math.NaN()}))
}

func TestFindDeviations(t *testing.T) {
	sim := mat.NewDense(3, 3, []float64{
		1, 2, 0,
		3, 4, 0,
		5, 6, 0,
	})
	exp := mat.NewDense(2, 3, []float64{
		0.5, 2.5, 0,
		3.5, 3.0, 0,
	})

	devs := FindDeviations(sim, exp)
	require.NotNil(t, devs)

	rows, cols := devs.Dims()
	assert.Equal(t, 2, rows, "deviations span the shorter track")
	assert.Equal(t, 2, cols)
	assert.InDelta(t, 0.5, devs.At(0, 0), 1e-15)
	assert.InDelta(t, -0.5, devs.At(0, 1), 1e-15)
	assert.InDelta(t, -0.5, devs.At(1, 0), 1e-15)
	assert.InDelta(t, 1.0, devs.At(1, 1), 1e-15)
}

func TestMakeParamsShapeAndBounds(t *testing.T) {
	ctr := []float64{0, 10}
	sigma := []float64{5, 5}
	mins := []float64{-1, 8}
	maxes := []float64{1, 12}
	src := rand.NewSource(42)

	params := MakeParams(ctr, sigma, 100, mins, maxes, src)

	rows, cols := params.Dims()
	require.Equal(t, 100, rows)
	require.Equal(t, 2, cols)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := params.At(i, j)
			assert.GreaterOrEqual(t, v, mins[j])
			assert.LessOrEqual(t, v, maxes[j])
		}
	}
}

func TestMakeParamsZeroSigma(t *testing.T) {
	ctr := []float64{1.5, -2.5}
	sigma := []float64{0, 0}
	src := rand.NewSource(7)

	params := MakeParams(ctr, sigma, 5, []float64{-10, -10}, []float64{10, 10}, src)
	for i := 0; i < 5; i++ {
		assert.Equal(t, 1.5, params.At(i, 0))
		assert.Equal(t, -2.5, params.At(i, 1))
	}
}

func testMinimizer(t *testing.T) (*MCminimizer, *LinearTracker) {
	t.Helper()
	tracker := &LinearTracker{DeDx: 2.0, Step: 0.02, ZMax: 1.0}
	evtgen := NewEventGenerator(testGeneratorParams(), nil)

	mins := []float64{-0.2, -0.2, 0, 0.1, -math.Pi, 0}
	maxes := []float64{0.2, 0.2, 1.0, 5.0, math.Pi, math.Pi}
	return NewMinimizer(tracker, evtgen, mins, maxes, 2, 1234), tracker
}

func TestRunTrackBadParamsScoresInf(t *testing.T) {
	m, _ := testMinimizer(t)
	trueValues := mat.NewDense(1, 3, []float64{0, 0, 100})

	chi2 := m.RunTrack([]float64{1, 2, 3}, trueValues)
	assert.True(t, math.IsInf(chi2, 1))
}

func TestRunTrackPerfectCandidate(t *testing.T) {
	m, tracker := testMinimizer(t)
	params := []float64{0.05, -0.03, 0.3, 1.0, 0.4, 1.1}

	track, err := tracker.TrackParticle(params)
	require.NoError(t, err)
	trueValues, err := m.PrepareSimulatedTrackMatrix(track.PositionMatrix())
	require.NoError(t, err)

	chi2 := m.RunTrack(params, trueValues)
	assert.InDelta(t, 0, chi2, 1e-20)
}

func TestMinimizeValidation(t *testing.T) {
	m, _ := testMinimizer(t)
	trueValues := mat.NewDense(1, 3, []float64{0, 0, 100})
	ctr0 := []float64{0, 0, 0.3, 1.0, 0, 1}
	sigma0 := []float64{0.1, 0.1, 0.1, 0.5, 0.5, 0.5}

	_, err := m.Minimize(ctr0, sigma0[:3], trueValues, 5, 10, 0.8)
	assert.Error(t, err, "mismatched sigma dimensions")

	_, err = m.Minimize(ctr0, sigma0, trueValues, 5, 10, 1.5)
	assert.Error(t, err, "reduction factor above 1")

	_, err = m.Minimize(ctr0, sigma0, trueValues, 0, 10, 0.8)
	assert.Error(t, err, "zero rounds")
}

func TestMinimizeStaysAtOptimum(t *testing.T) {
	m, tracker := testMinimizer(t)
	trueParams := []float64{0.05, -0.03, 0.3, 1.0, 0.4, 1.1}

	track, err := tracker.TrackParticle(trueParams)
	require.NoError(t, err)
	trueValues, err := m.PrepareSimulatedTrackMatrix(track.PositionMatrix())
	require.NoError(t, err)

	sigma0 := []float64{0.01, 0.01, 0.01, 0.05, 0.05, 0.05}
	result, err := m.Minimize(trueParams, sigma0, trueValues, 10, 20, 0.8)
	require.NoError(t, err)

	// starting at the optimum, no candidate can improve on cost zero
	assert.Equal(t, trueParams, result.Ctr)
	assert.InDelta(t, 0, result.MinChis[len(result.MinChis)-1], 1e-20)

	require.Len(t, result.MinChis, 10)
	for i := 1; i < len(result.MinChis); i++ {
		assert.LessOrEqual(t, result.MinChis[i], result.MinChis[i-1],
			"best cost must never rise between rounds")
	}

	rows, cols := result.GoodParams.Dims()
	assert.Equal(t, 10, rows)
	assert.Equal(t, 6, cols)
	require.NotNil(t, result.BestTrack)
	assert.NotEmpty(t, result.BestDevs)
}

func TestMinimizeImprovesFromPerturbedStart(t *testing.T) {
	m, tracker := testMinimizer(t)
	trueParams := []float64{0.05, -0.03, 0.3, 1.0, 0.4, 1.1}

	track, err := tracker.TrackParticle(trueParams)
	require.NoError(t, err)
	trueValues, err := m.PrepareSimulatedTrackMatrix(track.PositionMatrix())
	require.NoError(t, err)

	ctr0 := []float64{0.08, -0.01, 0.35, 1.2, 0.5, 1.0}
	sigma0 := []float64{0.05, 0.05, 0.05, 0.3, 0.2, 0.2}

	startChi := m.RunTrack(ctr0, trueValues)
	result, err := m.Minimize(ctr0, sigma0, trueValues, 20, 50, 0.85)
	require.NoError(t, err)

	finalChi := result.MinChis[len(result.MinChis)-1]
	assert.Less(t, finalChi, startChi, "fit should improve on the starting cost")
}
