// Package fixture implements the prediction engine over YAML project files.
// Scores, reconstructions and responses are computed from the project's
// loadings and coefficients, which makes it usable both as a test double and
// as a stand-in engine for the CLI and API.
package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"chemgps/domain/model"
)

// ProjectFile is the on-disk description of a project.
type ProjectFile struct {
	Name                string      `yaml:"name"`
	ObservationIDs      int         `yaml:"observation_ids"`
	VariableIDs         int         `yaml:"variable_ids"`
	Reduced             bool        `yaml:"reduced"`
	PrimaryDataIncluded *bool       `yaml:"primary_data_included,omitempty"`
	ResidualsIncluded   *bool       `yaml:"residuals_included,omitempty"`
	Models              []ModelFile `yaml:"models"`
	// Fail lists engine methods that return an error once the project is open.
	Fail []string `yaml:"fail,omitempty"`
}

// ModelFile describes one model of a project.
type ModelFile struct {
	Number                int                 `yaml:"number"`
	Type                  model.ModelType     `yaml:"type"`
	Fitted                bool                `yaml:"fitted"`
	Components            int                 `yaml:"components"`
	Quantitative          []string            `yaml:"quantitative,omitempty"`
	LagParents            []string            `yaml:"lag_parents,omitempty"`
	Qualitative           []string            `yaml:"qualitative,omitempty"`
	QualitativeLagParents []string            `yaml:"qualitative_lag_parents,omitempty"`
	Lags                  map[string][]string `yaml:"lags,omitempty"`
	// Loadings is variables x components, Coefficients is variables x responses.
	Loadings     [][]float64 `yaml:"loadings,omitempty"`
	Coefficients [][]float64 `yaml:"coefficients,omitempty"`
}

// LoadProjectFile reads a YAML project file.
func LoadProjectFile(path string) (*ProjectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseProjectFile(data)
}

// ParseProjectFile decodes and checks a YAML project description.
func ParseProjectFile(data []byte) (*ProjectFile, error) {
	var pf ProjectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("invalid project file: %w", err)
	}
	if err := pf.Validate(); err != nil {
		return nil, err
	}
	return &pf, nil
}

// Validate checks model numbering and matrix shapes.
func (pf *ProjectFile) Validate() error {
	seen := make(map[int]bool, len(pf.Models))
	for i := range pf.Models {
		m := &pf.Models[i]
		if m.Number <= 0 {
			m.Number = i + 1
		}
		if seen[m.Number] {
			return fmt.Errorf("duplicate model number %d", m.Number)
		}
		seen[m.Number] = true
		if m.Components < 0 {
			return fmt.Errorf("model %d: negative component count", m.Number)
		}
		if err := checkShape(m.Loadings, m.Components); err != nil {
			return fmt.Errorf("model %d loadings: %w", m.Number, err)
		}
		if err := checkShape(m.Coefficients, 0); err != nil {
			return fmt.Errorf("model %d coefficients: %w", m.Number, err)
		}
	}
	return nil
}

// Marshal encodes the project as YAML.
func (pf *ProjectFile) Marshal() ([]byte, error) {
	return yaml.Marshal(pf)
}

func (pf *ProjectFile) model(number int) (*ModelFile, error) {
	for i := range pf.Models {
		if pf.Models[i].Number == number {
			return &pf.Models[i], nil
		}
	}
	return nil, fmt.Errorf("no model number %d", number)
}

func checkShape(rows [][]float64, cols int) error {
	for i, row := range rows {
		if cols == 0 {
			cols = len(row)
		}
		if len(row) != cols {
			return fmt.Errorf("row %d has %d values, expected %d", i+1, len(row), cols)
		}
	}
	return nil
}
