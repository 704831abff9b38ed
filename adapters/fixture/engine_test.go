package fixture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chemgps/domain/matrix"
	"chemgps/domain/model"
	"chemgps/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectYAML = `
name: demo
observation_ids: 4
variable_ids: 2
models:
  - number: 7
    type: PLS
    fitted: true
    components: 1
    quantitative: [x1, x2]
    lag_parents: [x1]
    lags:
      x1: [x1.L1, x1.L2]
    loadings:
      - [1]
      - [0]
  - type: pca_x
    fitted: false
fail: [SetLogFile]
`

func openDemo(t *testing.T) (*Engine, ports.Project) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(projectYAML), 0o644))

	e := NewEngine()
	p, err := e.OpenProject(context.Background(), path)
	require.NoError(t, err)
	return e, p
}

func inputs(t *testing.T) *ports.ObservationData {
	t.Helper()
	x, err := matrix.FloatFrom(4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	return &ports.ObservationData{Raw: x}
}

func values(t *testing.T, m *matrix.Float) [][]float64 {
	t.Helper()
	out := make([][]float64, m.Rows())
	for r := 1; r <= m.Rows(); r++ {
		for c := 1; c <= m.Cols(); c++ {
			v, err := m.At(r, c)
			require.NoError(t, err)
			out[r-1] = append(out[r-1], v)
		}
	}
	return out
}

func TestProjectMetadata(t *testing.T) {
	e, p := openDemo(t)

	name, err := p.Name()
	require.NoError(t, err)
	assert.Equal(t, "demo", name)

	n, err := p.NumModels()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	number, err := p.ModelNumber(1)
	require.NoError(t, err)
	assert.Equal(t, 7, number)

	second, err := p.ModelNumber(2)
	require.NoError(t, err)
	assert.Equal(t, 2, second)

	typ, err := p.ModelType(second)
	require.NoError(t, err)
	assert.Equal(t, model.PCAX, typ)

	fitted, err := p.IsModelFitted(second)
	require.NoError(t, err)
	assert.False(t, fitted)

	lags, err := p.CompleteLagNames(7, 1, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"x1.L1", "x1.L2"}, lags.Values())

	_, err = p.ModelNumber(3)
	assert.Error(t, err)

	assert.Error(t, e.SetLogFile("/tmp/engine.log"), "failures listed in the project file are injected")
	assert.Equal(t, 1, e.OpenProjects())
	require.NoError(t, p.Close())
	assert.Equal(t, 0, e.OpenProjects())
	assert.Error(t, p.Close())
}

func TestPredictionMath(t *testing.T) {
	e, p := openDemo(t)
	defer p.Close()

	pred, err := p.Predict(7, inputs(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, e.LivePredictions())

	scores, err := pred.T(nil)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}, {3}, {5}, {7}}, values(t, scores))

	res, err := pred.XObsRes(ports.ObservationParams{NumComp: 1})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 2}, {0, 4}, {0, 6}, {0, 8}}, values(t, res))

	y, err := pred.YPred(ports.ResponseParams{NumComp: 1})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1.5}, {3.5}, {5.5}, {7.5}}, values(t, y))

	df, err := pred.TcvSEDF(1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, df)

	t2, err := pred.T2Range(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, t2.Rows())

	ssw, err := pred.ContributionsSSW(ports.ContributionParams{Obs1: 0, Obs2: 1, Weight: model.NoWeight})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 4}}, values(t, ssw))

	group, err := pred.ContributionsSSWGroup(ports.ContributionParams{
		Group1: intVector(t, 1, 2),
		Group2: intVector(t, 3, 4),
	})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 50 - 10}}, values(t, group))

	_, err = pred.Tcv(2)
	assert.Error(t, err, "model has a single component")

	require.NoError(t, pred.Release())
	assert.Equal(t, 0, e.LivePredictions())
	_, err = pred.T(nil)
	assert.Error(t, err)
}

func TestT2RangeScalesByScoreVariance(t *testing.T) {
	_, p := openDemo(t)
	defer p.Close()

	pred, err := p.Predict(7, inputs(t), nil)
	require.NoError(t, err)
	defer pred.Release()

	// scores 1, 3, 5, 7 have population variance 5
	t2, err := pred.T2Range(1, 1)
	require.NoError(t, err)
	want := []float64{0.2, 1.8, 5, 9.8}
	got := values(t, t2)
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.InDelta(t, w, got[i][0], 1e-12)
	}

	_, err = pred.T2Range(0, 1)
	assert.Error(t, err)
	_, err = pred.T2Range(1, 2)
	assert.Error(t, err)
}

func TestPredictRejectsUnfittedModel(t *testing.T) {
	_, p := openDemo(t)
	_, err := p.Predict(2, inputs(t), nil)
	assert.Error(t, err)
}

func TestFailOnAndCalls(t *testing.T) {
	e := NewEngine()
	pf, err := ParseProjectFile([]byte(projectYAML))
	require.NoError(t, err)
	e.Register("demo", pf)

	boom := errors.New("license expired")
	e.FailOn("SetLicensePath", boom)
	assert.ErrorIs(t, e.SetLicensePath("/lic"), boom)

	require.NoError(t, e.UseMultiThreading(true, 4))
	calls := e.Calls("UseMultiThreading")
	require.Len(t, calls, 1)
	assert.Equal(t, []any{true, 4}, calls[0].Args)

	_, err = e.OpenProject(context.Background(), "demo")
	require.NoError(t, err)
	_, err = e.OpenProject(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseProjectFileValidation(t *testing.T) {
	_, err := ParseProjectFile([]byte("models:\n  - number: 1\n  - number: 1\n"))
	assert.Error(t, err)

	_, err = ParseProjectFile([]byte("models:\n  - components: 2\n    loadings: [[1, 0], [1]]\n"))
	assert.Error(t, err)

	pf, err := ParseProjectFile([]byte(projectYAML))
	require.NoError(t, err)
	data, err := pf.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "type: PLS")
}

func intVector(t *testing.T, items ...int) *matrix.IntVector {
	t.Helper()
	v := matrix.NewIntVector(len(items))
	for i, item := range items {
		require.NoError(t, v.Set(i+1, item))
	}
	return &v
}
