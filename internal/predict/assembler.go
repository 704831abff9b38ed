package predict

import (
	"context"
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"chemgps/domain/core"
	"chemgps/domain/matrix"
	"chemgps/domain/model"
	"chemgps/ports"
)

// category is one assembly step: the names the engine wants for a data
// category and the slot the loaded data goes into.
type category struct {
	kind  model.Category
	label string
	names func(p ports.Project, model int) (matrix.StringVector, error)
	slot  func(c *Context) *matrix.StringVector
}

var categories = []category{
	{
		kind:  model.Quantitative,
		label: "quantitative variable",
		names: func(p ports.Project, m int) (matrix.StringVector, error) { return p.QuantitativeNames(m) },
		slot:  func(c *Context) *matrix.StringVector { return &c.quantNames },
	},
	{
		kind:  model.LagParents,
		label: "lagged variable",
		names: func(p ports.Project, m int) (matrix.StringVector, error) { return p.LagParentNames(m, false) },
		slot:  func(c *Context) *matrix.StringVector { return &c.lagParents },
	},
	{
		kind:  model.Qualitative,
		label: "qualitative variable",
		names: func(p ports.Project, m int) (matrix.StringVector, error) { return p.QualitativeNames(m) },
		slot:  func(c *Context) *matrix.StringVector { return &c.qualNames },
	},
	{
		kind:  model.QualitativeLagged,
		label: "lagged qualitative variable",
		names: func(p ports.Project, m int) (matrix.StringVector, error) { return p.LagParentNames(m, true) },
		slot:  func(c *Context) *matrix.StringVector { return &c.qualLagNames },
	},
}

// assemble loads the data of every category the model needs.
func (c *Context) assemble(ctx context.Context, project ports.Project) error {
	for _, cat := range categories {
		if err := c.load(ctx, project, cat); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) load(ctx context.Context, project ports.Project, cat category) error {
	names, err := cat.names(project, c.model)
	if err != nil {
		c.log.Error("failed get %s names (%v)", cat.label, err)
		return core.NewEngineError(core.ErrDataLoad, fmt.Sprintf("%s names", cat.label), err)
	}
	*cat.slot(c) = names
	if names.Len() == 0 {
		return nil
	}
	c.log.Debug("there are %d %s names in model %d", names.Len(), cat.label, c.model)

	req := ports.DataRequest{
		Project:    c.sess.Name,
		Model:      c.model,
		CallerData: c.callerData,
		Names:      names.Values(),
		Category:   cat.kind,
	}
	switch cat.kind {
	case model.Quantitative:
		c.quantRaw = &matrix.Float{}
		req.Floats = c.quantRaw
	case model.LagParents:
		c.lagRaw = &matrix.Float{}
		req.Floats = c.lagRaw
	case model.Qualitative:
		c.qualRaw = &matrix.String{}
		req.Strings = c.qualRaw
	case model.QualitativeLagged:
		c.qualLag = &matrix.String{}
		req.Strings = c.qualLag
	}

	if err := c.sess.Options.DataSource.LoadData(ctx, req); err != nil {
		c.log.Error("failed load %s data (%v)", cat.label, err)
		return core.NewEngineError(core.ErrDataLoad, cat.kind.String(), err)
	}

	if c.log.Debugging() {
		c.describe(project, cat, names, req.Floats)
	}
	return nil
}

// describe logs the category's names and, for lag parents, the complete lag
// names of every parent. Failures here never abort the prediction.
func (c *Context) describe(project ports.Project, cat category, names matrix.StringVector, data *matrix.Float) {
	rendered, err := RenderNames(names)
	if err != nil {
		c.log.Error("failed get %s names (%v)", cat.label, err)
		return
	}
	c.log.Debug("%s names: %s", cat.label, rendered)

	if cat.kind == model.LagParents || cat.kind == model.QualitativeLagged {
		qualitative := cat.kind == model.QualitativeLagged
		for parent := 1; parent <= names.Len(); parent++ {
			lags, err := project.CompleteLagNames(c.model, parent, qualitative)
			if err != nil {
				c.log.Error("failed get complete %s lag names (%v)", cat.label, err)
				return
			}
			rendered, err := RenderNames(lags)
			if err != nil {
				c.log.Error("failed get %s lag names (%v)", cat.label, err)
				return
			}
			c.log.Debug("%s lag names: %s", cat.label, rendered)
		}
	}

	for col := 1; col <= data.Cols(); col++ {
		name, _ := names.At(col)
		summary, err := Summarize(data, col)
		if err != nil {
			c.log.Debug("no summary for %s: %v", name, err)
			continue
		}
		c.log.Debug("%s: mean %f stddev %f (%d values)", name, summary.Mean, summary.StdDev, summary.Count)
	}
}

// RenderNames formats names as "[a (1/2)], [b (2/2)]". Empty entries are
// left out but still counted.
func RenderNames(names matrix.StringVector) (string, error) {
	var b strings.Builder
	delim := ""
	n := names.Len()
	for i := 1; i <= n; i++ {
		name, err := names.At(i)
		if err != nil {
			return "", err
		}
		if name != "" {
			fmt.Fprintf(&b, "%s[%s (%d/%d)]", delim, name, i, n)
		}
		delim = ", "
	}
	return b.String(), nil
}

// Summary describes one loaded column.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
}

// Summarize computes the mean and population standard deviation of a column.
func Summarize(data *matrix.Float, col int) (Summary, error) {
	values := make(stats.Float64Data, 0, data.Rows())
	for row := 1; row <= data.Rows(); row++ {
		v, err := data.At(row, col)
		if err != nil {
			return Summary{}, err
		}
		values = append(values, v)
	}
	mean, err := values.Mean()
	if err != nil {
		return Summary{}, err
	}
	sd, err := values.StandardDeviationPopulation()
	if err != nil {
		return Summary{}, err
	}
	return Summary{Count: len(values), Mean: mean, StdDev: sd}, nil
}
