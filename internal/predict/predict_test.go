package predict

import (
	"context"
	"errors"
	"testing"

	"chemgps/adapters/fixture"
	"chemgps/domain/core"
	"chemgps/domain/matrix"
	"chemgps/domain/model"
	"chemgps/internal"
	"chemgps/internal/config"
	"chemgps/internal/session"
	"chemgps/internal/testkit"
	"chemgps/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDataSource struct {
	mock.Mock
}

func (m *mockDataSource) LoadData(ctx context.Context, req ports.DataRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func laggedProject() *fixture.ProjectFile {
	m := testkit.PLSModel(1, 1, "x1", "x2")
	m.LagParents = []string{"x1"}
	m.Qualitative = []string{"batch"}
	m.QualitativeLagParents = []string{"batch"}
	m.Lags = map[string][]string{"x1": {"x1.L1", "x1.L2"}, "batch": {"batch.L1"}}
	return &fixture.ProjectFile{Name: "lagged", Models: []fixture.ModelFile{m}}
}

func load(t *testing.T, kit *testkit.TestKit, pf *fixture.ProjectFile, tweak func(*config.Options)) *session.Session {
	t.Helper()
	kit.Register("project.yaml", pf)
	opts := kit.Options()
	if tweak != nil {
		tweak(opts)
	}
	s, err := session.Load(context.Background(), kit.Engine, "project.yaml", opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestRunAndCleanup(t *testing.T) {
	kit := testkit.NewTestKit()
	s := load(t, kit, testkit.TwoModelProject(), nil)

	c := Init(s, "caller")
	assert.Equal(t, StateInitialized, c.State())

	model, err := c.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, model)
	assert.Equal(t, StatePredicted, c.State())
	assert.NotNil(t, c.Prediction())
	assert.Equal(t, 1, kit.Engine.LivePredictions())

	reqs := kit.Data.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "two-models", reqs[0].Project)
	assert.Equal(t, "caller", reqs[0].CallerData)
	assert.Equal(t, []string{"x1", "x2", "x3"}, reqs[0].Names)

	_, err = c.Run(context.Background(), 2)
	assert.Error(t, err, "a context runs once")

	c.Cleanup()
	c.Cleanup()
	assert.Equal(t, StateCleanedUp, c.State())
	assert.Nil(t, c.Prediction())
	assert.Equal(t, 0, kit.Engine.LivePredictions())
	assert.Len(t, kit.Engine.Calls("Release"), 1)
}

func TestCleanupWithoutRun(t *testing.T) {
	kit := testkit.NewTestKit()
	s := load(t, kit, testkit.TwoModelProject(), nil)

	c := Init(s, nil)
	assert.NotPanics(t, c.Cleanup)
	assert.Equal(t, StateCleanedUp, c.State())
	assert.Empty(t, kit.Engine.Calls("Release"))
}

func TestRunWithoutProject(t *testing.T) {
	kit := testkit.NewTestKit()
	s := load(t, kit, testkit.TwoModelProject(), nil)
	s.Close()

	_, err := Init(s, nil).Run(context.Background(), 1)
	assert.ErrorIs(t, err, core.ErrNoProject)
}

func TestModelLookupFailure(t *testing.T) {
	kit := testkit.NewTestKit()
	s := load(t, kit, testkit.TwoModelProject(), nil)

	c := Init(s, nil)
	defer c.Cleanup()
	_, err := c.Run(context.Background(), 3)
	assert.ErrorIs(t, err, core.ErrModelLookup)
	assert.True(t, core.IsModelSkippable(err))
	assert.True(t, kit.Sink.Contains(internal.LogLevelError, "failed get model number for model index 3"))
}

func TestUnfittedModels(t *testing.T) {
	t.Run("not fitted", func(t *testing.T) {
		kit := testkit.NewTestKit()
		pf := testkit.TwoModelProject()
		pf.Models[0].Fitted = false
		s := load(t, kit, pf, nil)

		c := Init(s, nil)
		defer c.Cleanup()
		_, err := c.Run(context.Background(), 1)
		assert.ErrorIs(t, err, core.ErrUnfittedModel)
		assert.True(t, kit.Sink.Contains(internal.LogLevelError, "model number 1 is not fitted (skipped model)"))
		assert.Empty(t, kit.Data.Requests())
	})

	t.Run("fitted check fails", func(t *testing.T) {
		kit := testkit.NewTestKit()
		kit.Engine.FailOn("IsModelFitted", nil)
		s := load(t, kit, testkit.TwoModelProject(), nil)

		c := Init(s, nil)
		defer c.Cleanup()
		_, err := c.Run(context.Background(), 1)
		assert.ErrorIs(t, err, core.ErrUnfittedModel)
		assert.True(t, kit.Sink.Contains(internal.LogLevelError, "failed check if model is fitted"))
	})
}

func TestDataLoadFailure(t *testing.T) {
	kit := testkit.NewTestKit()
	kit.Data.Err = errors.New("spreadsheet locked")
	s := load(t, kit, testkit.TwoModelProject(), nil)

	c := Init(s, nil)
	_, err := c.Run(context.Background(), 1)
	assert.ErrorIs(t, err, core.ErrDataLoad)
	assert.Contains(t, err.Error(), "spreadsheet locked")
	assert.Equal(t, StateModelResolved, c.State())
	assert.Empty(t, kit.Engine.Calls("Predict"))

	c.Cleanup()
	assert.Equal(t, StateCleanedUp, c.State())
}

func TestNameLookupFailure(t *testing.T) {
	kit := testkit.NewTestKit()
	kit.Engine.FailOn("QualitativeNames", nil)
	s := load(t, kit, testkit.TwoModelProject(), nil)

	c := Init(s, nil)
	defer c.Cleanup()
	_, err := c.Run(context.Background(), 1)
	assert.ErrorIs(t, err, core.ErrDataLoad)
	assert.Len(t, kit.Data.Requests(), 1, "quantitative data was loaded before the failure")
}

func TestPredictFailure(t *testing.T) {
	kit := testkit.NewTestKit()
	kit.Engine.FailOn("Predict", errors.New("license expired"))
	s := load(t, kit, testkit.TwoModelProject(), nil)

	c := Init(s, nil)
	defer c.Cleanup()
	_, err := c.Run(context.Background(), 1)
	assert.ErrorIs(t, err, core.ErrPrediction)
	assert.True(t, kit.Sink.Contains(internal.LogLevelError, "failed call predict (license expired)"))
}

func TestAllCategoriesAssembled(t *testing.T) {
	kit := testkit.NewTestKit()
	s := load(t, kit, laggedProject(), func(o *config.Options) { o.Debug = 1 })

	c := Init(s, nil)
	defer c.Cleanup()
	_, err := c.Run(context.Background(), 1)
	require.NoError(t, err)

	reqs := kit.Data.Requests()
	require.Len(t, reqs, 4)
	wantCategories := []model.Category{model.Quantitative, model.LagParents, model.Qualitative, model.QualitativeLagged}
	for i, req := range reqs {
		assert.Equal(t, wantCategories[i], req.Category)
		if req.Category.IsQualitative() {
			assert.NotNil(t, req.Strings)
			assert.Nil(t, req.Floats)
		} else {
			assert.NotNil(t, req.Floats)
			assert.Nil(t, req.Strings)
		}
	}
	assert.Same(t, c.qualLag, reqs[3].Strings, "qualitative lag data goes into its own slot")
	assert.Equal(t, 2, c.qualRaw.Cols()+c.qualLag.Cols())

	assert.True(t, kit.Sink.Contains(internal.LogLevelDebug, "quantitative variable names: [x1 (1/2)], [x2 (2/2)]"))
	assert.True(t, kit.Sink.Contains(internal.LogLevelDebug, "lagged variable lag names: [x1.L1 (1/2)], [x1.L2 (2/2)]"))
	assert.True(t, kit.Sink.Contains(internal.LogLevelDebug, "lagged qualitative variable lag names: [batch.L1 (1/1)]"))
}

func TestLagNameFailureIsNotFatal(t *testing.T) {
	kit := testkit.NewTestKit()
	kit.Engine.FailOn("CompleteLagNames", nil)
	s := load(t, kit, laggedProject(), func(o *config.Options) { o.Debug = 1 })

	c := Init(s, nil)
	defer c.Cleanup()
	_, err := c.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, kit.Sink.Contains(internal.LogLevelError, "failed get complete lagged variable lag names"))
}

func TestDataRequestWithMock(t *testing.T) {
	kit := testkit.NewTestKit()
	ds := &mockDataSource{}
	ds.On("LoadData", mock.Anything, mock.MatchedBy(func(req ports.DataRequest) bool {
		return req.Category == model.Quantitative && req.Model == 1 && len(req.Names) == 3
	})).Run(func(args mock.Arguments) {
		req := args.Get(1).(ports.DataRequest)
		req.Floats.Init(2, 3)
	}).Return(nil).Once()

	s := load(t, kit, testkit.TwoModelProject(), func(o *config.Options) { o.DataSource = ds })

	c := Init(s, nil)
	defer c.Cleanup()
	_, err := c.Run(context.Background(), 1)
	require.NoError(t, err)
	ds.AssertExpectations(t)
	assert.Equal(t, 2, c.quantRaw.Rows())
}

func TestRenderNames(t *testing.T) {
	out, err := RenderNames(matrix.NewStringVector("a", "", "c"))
	require.NoError(t, err)
	assert.Equal(t, "[a (1/3)], [c (3/3)]", out)

	out, err = RenderNames(matrix.NewStringVector())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSummarize(t *testing.T) {
	m, err := matrix.FloatFrom(4, 1, []float64{2, 4, 4, 6})
	require.NoError(t, err)

	s, err := Summarize(m, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 4.0, s.Mean, 1e-9)
	assert.InDelta(t, 1.4142135, s.StdDev, 1e-6)

	_, err = Summarize(&matrix.Float{}, 1)
	assert.Error(t, err)
}
