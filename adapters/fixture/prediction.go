package fixture

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"chemgps/domain/matrix"
	"chemgps/domain/model"
	"chemgps/ports"
)

var errReleased = errors.New("prediction is released")

// prediction holds the inputs X (n x vars), scores T (n x comps), the
// reconstruction and residuals of X, and the predicted responses Y.
type prediction struct {
	engine   *Engine
	model    *ModelFile
	x        *mat.Dense
	t        *mat.Dense
	xhat     *mat.Dense
	resid    *mat.Dense
	y        *mat.Dense
	released bool
}

func newPrediction(e *Engine, m *ModelFile, x *mat.Dense) (*prediction, error) {
	p := &prediction{engine: e, model: m, x: x}
	if x == nil {
		return p, nil
	}
	n, vars := x.Dims()

	load, err := loadings(m, vars)
	if err != nil {
		return nil, err
	}
	p.resid = mat.DenseCopyOf(x)
	p.xhat = mat.NewDense(n, vars, nil)
	if load != nil {
		p.t = mat.NewDense(n, m.Components, nil)
		p.t.Mul(x, load)
		p.xhat.Mul(p.t, load.T())
		p.resid.Sub(x, p.xhat)
	}

	coef, err := coefficients(m, vars)
	if err != nil {
		return nil, err
	}
	_, ycols := coef.Dims()
	p.y = mat.NewDense(n, ycols, nil)
	p.y.Mul(x, coef)
	return p, nil
}

// loadings returns the vars x comps loading matrix, defaulting to unit
// loadings on the leading variables. Nil for zero component models.
func loadings(m *ModelFile, vars int) (*mat.Dense, error) {
	if m.Components == 0 {
		return nil, nil
	}
	if len(m.Loadings) > 0 {
		return fromRows(m.Loadings, vars, "loadings")
	}
	load := mat.NewDense(vars, m.Components, nil)
	for i := 0; i < vars && i < m.Components; i++ {
		load.Set(i, i, 1)
	}
	return load, nil
}

// coefficients returns the vars x responses matrix, defaulting to a single
// response equal to the row mean.
func coefficients(m *ModelFile, vars int) (*mat.Dense, error) {
	if len(m.Coefficients) > 0 {
		return fromRows(m.Coefficients, vars, "coefficients")
	}
	coef := mat.NewDense(vars, 1, nil)
	for i := 0; i < vars; i++ {
		coef.Set(i, 0, 1/float64(vars))
	}
	return coef, nil
}

func fromRows(rows [][]float64, vars int, what string) (*mat.Dense, error) {
	if len(rows) != vars {
		return nil, fmt.Errorf("model has %s for %d variables, got %d", what, len(rows), vars)
	}
	d := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, row := range rows {
		d.SetRow(i, row)
	}
	return d, nil
}

func (p *prediction) call(method string, args ...any) error {
	if p.released {
		return errReleased
	}
	return p.engine.record(method, args...)
}

func (p *prediction) rows() int {
	if p.x == nil {
		return 0
	}
	n, _ := p.x.Dims()
	return n
}

// out copies d into a caller owned matrix.
func out(d *mat.Dense) *matrix.Float {
	if d == nil || d.IsEmpty() {
		return &matrix.Float{}
	}
	return matrix.FromDense(mat.DenseCopyOf(d))
}

// build creates an r x c matrix from fn, empty when either dimension is zero.
func build(r, c int, fn func(i, j int) float64) *matrix.Float {
	if r == 0 || c == 0 {
		return &matrix.Float{}
	}
	d := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d.Set(i, j, fn(i, j))
		}
	}
	return matrix.FromDense(d)
}

func dims(d *mat.Dense) (int, int) {
	if d == nil {
		return 0, 0
	}
	return d.Dims()
}

func column(d *mat.Dense, j int) stats.Float64Data {
	return mat.Col(nil, j, d)
}

func stddev(d *mat.Dense, j int) float64 {
	sd, err := stats.StandardDeviationPopulation(column(d, j))
	if err != nil {
		return 0
	}
	return sd
}

func mean(d *mat.Dense, j int) float64 {
	m, err := stats.Mean(column(d, j))
	if err != nil {
		return 0
	}
	return m
}

// selectCols keeps the 1-based columns of d; nil keeps all.
func selectCols(d *mat.Dense, cols []int) (*matrix.Float, error) {
	if d == nil || cols == nil {
		return out(d), nil
	}
	r, c := d.Dims()
	for _, col := range cols {
		if col < 1 || col > c {
			return nil, fmt.Errorf("column %d out of range", col)
		}
	}
	return build(r, len(cols), func(i, j int) float64 { return d.At(i, cols[j]-1) }), nil
}

// selectRows keeps the 1-based rows of d; nil keeps all.
func selectRows(d *mat.Dense, rows []int) (*matrix.Float, error) {
	if d == nil || rows == nil {
		return out(d), nil
	}
	r, c := d.Dims()
	for _, row := range rows {
		if row < 1 || row > r {
			return nil, fmt.Errorf("observation %d out of range", row)
		}
	}
	return build(len(rows), c, func(i, j int) float64 { return d.At(rows[i]-1, j) }), nil
}

// firstComps returns the leading numComp score columns.
func (p *prediction) firstComps(numComp int) (*mat.Dense, error) {
	_, comps := dims(p.t)
	if numComp < 1 || numComp > comps {
		return nil, fmt.Errorf("component count %d out of range", numComp)
	}
	return mat.DenseCopyOf(p.t.Slice(0, p.rows(), 0, numComp)), nil
}

// squaredRow returns the squared residuals of the 1-based observation,
// zero for observation 0.
func (p *prediction) squaredRow(src *mat.Dense, obs int) ([]float64, error) {
	_, vars := dims(src)
	sq := make([]float64, vars)
	if obs == 0 {
		return sq, nil
	}
	if obs < 1 || obs > p.rows() {
		return nil, fmt.Errorf("observation %d out of range", obs)
	}
	for j := range sq {
		v := src.At(obs-1, j)
		sq[j] = v * v
	}
	return sq, nil
}

// groupMean averages the squared residuals of the in-range group members.
func (p *prediction) groupMean(src *mat.Dense, group *matrix.IntVector) []float64 {
	_, vars := dims(src)
	sum := make([]float64, vars)
	if group == nil {
		return sum
	}
	count := 0
	for _, obs := range group.Values() {
		if obs < 1 || obs > p.rows() {
			continue
		}
		row, _ := p.squaredRow(src, obs)
		for j, v := range row {
			sum[j] += v
		}
		count++
	}
	if count > 0 {
		for j := range sum {
			sum[j] /= float64(count)
		}
	}
	return sum
}

func weightFactor(w model.Weight) float64 {
	switch w {
	case model.WeightP:
		return 0.5
	case model.WeightRX:
		return 2
	}
	return 1
}

func contribution(a, b []float64, w model.Weight) *matrix.Float {
	f := weightFactor(w)
	return build(1, len(b), func(_, j int) float64 { return (b[j] - a[j]) * f })
}

func (p *prediction) ContributionsSSW(cp ports.ContributionParams) (*matrix.Float, error) {
	if err := p.call("ContributionsSSW", cp); err != nil {
		return nil, err
	}
	a, err := p.squaredRow(p.resid, cp.Obs1)
	if err != nil {
		return nil, err
	}
	b, err := p.squaredRow(p.resid, cp.Obs2)
	if err != nil {
		return nil, err
	}
	return contribution(a, b, cp.Weight), nil
}

func (p *prediction) ContributionsSSWGroup(cp ports.ContributionParams) (*matrix.Float, error) {
	if err := p.call("ContributionsSSWGroup", cp); err != nil {
		return nil, err
	}
	return contribution(p.groupMean(p.resid, cp.Group1), p.groupMean(p.resid, cp.Group2), cp.Weight), nil
}

func (p *prediction) ContributionsSMW(cp ports.ContributionParams) (*matrix.Float, error) {
	if err := p.call("ContributionsSMW", cp); err != nil {
		return nil, err
	}
	a, err := p.squaredRow(p.x, cp.Obs1)
	if err != nil {
		return nil, err
	}
	b, err := p.squaredRow(p.x, cp.Obs2)
	if err != nil {
		return nil, err
	}
	return contribution(a, b, cp.Weight), nil
}

func (p *prediction) ContributionsSMWGroup(cp ports.ContributionParams) (*matrix.Float, error) {
	if err := p.call("ContributionsSMWGroup", cp); err != nil {
		return nil, err
	}
	return contribution(p.groupMean(p.x, cp.Group1), p.groupMean(p.x, cp.Group2), cp.Weight), nil
}

func (p *prediction) ContributionsDModX(cp ports.ContributionParams) (*matrix.Float, error) {
	if err := p.call("ContributionsDModX", cp); err != nil {
		return nil, err
	}
	row, err := p.squaredRow(p.resid, cp.Obs1)
	if err != nil {
		return nil, err
	}
	return contribution(make([]float64, len(row)), row, cp.Weight), nil
}

func (p *prediction) ContributionsDModXGroup(cp ports.ContributionParams) (*matrix.Float, error) {
	if err := p.call("ContributionsDModXGroup", cp); err != nil {
		return nil, err
	}
	row := p.groupMean(p.resid, cp.Group1)
	return contribution(make([]float64, len(row)), row, cp.Weight), nil
}

// distances returns the residual standard deviation of every observation.
func (p *prediction) distances(normalized bool) []float64 {
	n, vars := dims(p.resid)
	df := float64(vars - p.model.Components)
	if df < 1 {
		df = 1
	}
	d := make([]float64, n)
	for i := range d {
		var ss float64
		for j := 0; j < vars; j++ {
			v := p.resid.At(i, j)
			ss += v * v
		}
		d[i] = math.Sqrt(ss / df)
	}
	if normalized {
		if s0, err := stats.Mean(d); err == nil && s0 > 0 {
			for i := range d {
				d[i] /= s0
			}
		}
	}
	return d
}

func vectorColumn(v []float64) *matrix.Float {
	return build(len(v), 1, func(i, _ int) float64 { return v[i] })
}

func (p *prediction) DModX(dp ports.DistanceParams) (*matrix.Float, error) {
	if err := p.call("DModX", dp); err != nil {
		return nil, err
	}
	return vectorColumn(p.distances(dp.Normalized)), nil
}

func (p *prediction) DModXCombined(dp ports.DistanceParams) (*matrix.Float, error) {
	if err := p.call("DModXCombined", dp); err != nil {
		return nil, err
	}
	return vectorColumn(p.distances(dp.Normalized)), nil
}

func (p *prediction) probabilities() []float64 {
	d := p.distances(true)
	for i, v := range d {
		d[i] = 1 / (1 + v*v)
	}
	return d
}

func (p *prediction) PModX(components []int) (*matrix.Float, error) {
	if err := p.call("PModX", components); err != nil {
		return nil, err
	}
	return vectorColumn(p.probabilities()), nil
}

func (p *prediction) PModXCombined(components []int) (*matrix.Float, error) {
	if err := p.call("PModXCombined", components); err != nil {
		return nil, err
	}
	return vectorColumn(p.probabilities()), nil
}

func (p *prediction) T(components []int) (*matrix.Float, error) {
	if err := p.call("T", components); err != nil {
		return nil, err
	}
	return selectCols(p.t, components)
}

func (p *prediction) Tcv(numComp int) (*matrix.Float, error) {
	if err := p.call("Tcv", numComp); err != nil {
		return nil, err
	}
	t, err := p.firstComps(numComp)
	if err != nil {
		return nil, err
	}
	return out(t), nil
}

func (p *prediction) TcvSE(numComp int) (*matrix.Float, error) {
	if err := p.call("TcvSE", numComp); err != nil {
		return nil, err
	}
	t, err := p.firstComps(numComp)
	if err != nil {
		return nil, err
	}
	return build(1, numComp, func(_, j int) float64 { return stddev(t, j) }), nil
}

func (p *prediction) TcvSEDF(numComp int) (float64, error) {
	if err := p.call("TcvSEDF", numComp); err != nil {
		return 0, err
	}
	if _, err := p.firstComps(numComp); err != nil {
		return 0, err
	}
	return math.Max(float64(p.rows()-1), 0), nil
}

// T2Range computes Hotelling's T2 over the 1-based component range.
func (p *prediction) T2Range(fromComp, toComp int) (*matrix.Float, error) {
	if err := p.call("T2Range", fromComp, toComp); err != nil {
		return nil, err
	}
	n, comps := dims(p.t)
	if fromComp < 1 || toComp > comps || fromComp > toComp {
		return nil, fmt.Errorf("component range %d..%d out of range", fromComp, toComp)
	}
	variance := make([]float64, comps)
	for j := fromComp - 1; j < toComp; j++ {
		v, err := stats.PopulationVariance(column(p.t, j))
		if err != nil {
			return nil, fmt.Errorf("component %d variance: %w", j+1, err)
		}
		variance[j] = v
	}
	return build(n, 1, func(i, _ int) float64 {
		var t2 float64
		for j := fromComp - 1; j < toComp; j++ {
			if variance[j] > 0 {
				v := p.t.At(i, j)
				t2 += v * v / variance[j]
			}
		}
		return t2
	}), nil
}

func (p *prediction) XObsRes(op ports.ObservationParams) (*matrix.Float, error) {
	if err := p.call("XObsRes", op); err != nil {
		return nil, err
	}
	return selectRows(p.resid, op.Observations)
}

func (p *prediction) XObsPred(op ports.ObservationParams) (*matrix.Float, error) {
	if err := p.call("XObsPred", op); err != nil {
		return nil, err
	}
	return selectRows(p.xhat, op.Observations)
}

func (p *prediction) XVar(vp ports.VariableParams) (*matrix.Float, error) {
	if err := p.call("XVar", vp); err != nil {
		return nil, err
	}
	return selectCols(p.x, vp.Columns)
}

func (p *prediction) XVarRes(vp ports.VariableParams) (*matrix.Float, error) {
	if err := p.call("XVarRes", vp); err != nil {
		return nil, err
	}
	if vp.Standardized {
		return selectCols(standardize(p.resid, false), vp.Columns)
	}
	return selectCols(p.resid, vp.Columns)
}

// standardize divides each column by its standard deviation, centring it
// first when center is set.
func standardize(d *mat.Dense, center bool) *mat.Dense {
	if d == nil {
		return nil
	}
	r, c := d.Dims()
	s := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		m, sd := 0.0, stddev(d, j)
		if center {
			m = mean(d, j)
		}
		for i := 0; i < r; i++ {
			v := d.At(i, j) - m
			if sd > 0 {
				v /= sd
			}
			s.Set(i, j, v)
		}
	}
	return s
}

func (p *prediction) serr(sign float64, yColumns []int) (*matrix.Float, error) {
	n, m := dims(p.y)
	bounds := build(n, m, func(i, j int) float64 { return p.y.At(i, j) + sign*stddev(p.y, j) })
	return selectCols(bounds.Dense(), yColumns)
}

func (p *prediction) SerrL(numComp int, yColumns []int) (*matrix.Float, error) {
	if err := p.call("SerrL", numComp, yColumns); err != nil {
		return nil, err
	}
	return p.serr(-1, yColumns)
}

func (p *prediction) SerrU(numComp int, yColumns []int) (*matrix.Float, error) {
	if err := p.call("SerrU", numComp, yColumns); err != nil {
		return nil, err
	}
	return p.serr(1, yColumns)
}

func (p *prediction) YPred(rp ports.ResponseParams) (*matrix.Float, error) {
	if err := p.call("YPred", rp); err != nil {
		return nil, err
	}
	return selectCols(p.y, rp.YColumns)
}

func (p *prediction) YPredCVConfInt(rp ports.ResponseParams) (*matrix.Float, error) {
	if err := p.call("YPredCVConfInt", rp); err != nil {
		return nil, err
	}
	n, m := dims(p.y)
	ci := build(n, m, func(_, j int) float64 { return 1.96 * stddev(p.y, j) })
	return selectCols(ci.Dense(), rp.YColumns)
}

func (p *prediction) YCV(rp ports.ResponseParams) (*matrix.Float, error) {
	if err := p.call("YCV", rp); err != nil {
		return nil, err
	}
	return selectCols(p.y, []int{rp.YColumn})
}

func (p *prediction) YCVSE(numComp int, yColumns []int) (*matrix.Float, error) {
	if err := p.call("YCVSE", numComp, yColumns); err != nil {
		return nil, err
	}
	_, m := dims(p.y)
	se := build(1, m, func(_, j int) float64 { return stddev(p.y, j) })
	return selectCols(se.Dense(), yColumns)
}

func (p *prediction) YObsRes(rp ports.ResponseParams) (*matrix.Float, error) {
	if err := p.call("YObsRes", rp); err != nil {
		return nil, err
	}
	n, m := dims(p.y)
	res := build(n, m, func(i, j int) float64 { return p.y.At(i, j) - mean(p.y, j) })
	return selectRows(res.Dense(), rp.Observations)
}

func (p *prediction) YVar(rp ports.ResponseParams) (*matrix.Float, error) {
	if err := p.call("YVar", rp); err != nil {
		return nil, err
	}
	return selectCols(p.y, rp.YColumns)
}

func (p *prediction) YVarRes(rp ports.ResponseParams) (*matrix.Float, error) {
	if err := p.call("YVarRes", rp); err != nil {
		return nil, err
	}
	return selectCols(standardize(p.y, true), rp.YColumns)
}

func (p *prediction) Release() error {
	if p.released {
		return errReleased
	}
	if err := p.engine.record("Release"); err != nil {
		return err
	}
	p.released = true
	p.engine.mu.Lock()
	p.engine.livePredict--
	p.engine.mu.Unlock()
	return nil
}
