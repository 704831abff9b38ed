// Package testkit builds fixture engines, projects and data for tests.
package testkit

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"chemgps/adapters/fixture"
	"chemgps/domain/model"
	"chemgps/internal"
	"chemgps/internal/config"
	"chemgps/internal/format"
	"chemgps/ports"
)

// TestKit provides testing utilities and fixtures
type TestKit struct {
	Engine *fixture.Engine
	Sink   *RecordingSink
	Data   *TableSource
}

// NewTestKit creates a kit with an empty engine and a four row data table.
func NewTestKit() *TestKit {
	return &TestKit{
		Engine: fixture.NewEngine(),
		Sink:   &RecordingSink{},
		Data:   NewTableSource(4),
	}
}

// Options returns session options wired to the kit's sink and data source.
func (k *TestKit) Options() *config.Options {
	return &config.Options{
		Program:    "chemgps",
		Format:     format.Plain,
		Logger:     k.Sink,
		DataSource: k.Data,
	}
}

// Register stores pf in the engine under path and fills the data table with
// generated values for every quantitative and qualitative variable it uses.
func (k *TestKit) Register(path string, pf *fixture.ProjectFile) {
	k.Engine.Register(path, pf)
	for i, m := range pf.Models {
		for _, name := range append(append([]string{}, m.Quantitative...), m.LagParents...) {
			if _, ok := k.Data.Quantitative[name]; !ok {
				k.Data.Quantitative[name] = GenerateColumn(k.Data.Rows, int64(i+1)*31+int64(len(name)))
			}
		}
		for _, name := range append(append([]string{}, m.Qualitative...), m.QualitativeLagParents...) {
			if _, ok := k.Data.Qualitative[name]; !ok {
				k.Data.Qualitative[name] = GenerateLabels(k.Data.Rows, name)
			}
		}
	}
}

// PLSModel describes a fitted PLS model on the given variables.
func PLSModel(number, components int, vars ...string) fixture.ModelFile {
	return fixture.ModelFile{
		Number:       number,
		Type:         model.PLS,
		Fitted:       true,
		Components:   components,
		Quantitative: vars,
	}
}

// PCAModel describes a fitted PCA_X model on the given variables.
func PCAModel(number, components int, vars ...string) fixture.ModelFile {
	m := PLSModel(number, components, vars...)
	m.Type = model.PCAX
	return m
}

// TwoModelProject has a two component PLS model and a zero component PCA
// model over the same three variables.
func TwoModelProject() *fixture.ProjectFile {
	return &fixture.ProjectFile{
		Name:           "two-models",
		ObservationIDs: 4,
		VariableIDs:    3,
		Models: []fixture.ModelFile{
			PLSModel(1, 2, "x1", "x2", "x3"),
			PCAModel(2, 0, "x1", "x2", "x3"),
		},
	}
}

// GenerateColumn returns n deterministic values for seed.
func GenerateColumn(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	col := make([]float64, n)
	for i := range col {
		col[i] = float64(i+1) + rng.Float64()
	}
	return col
}

// GenerateLabels returns n class labels derived from name.
func GenerateLabels(n int, name string) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s-%c", name, 'A'+rune(i%2))
	}
	return labels
}

// RecordingSink captures log records for assertions.
type RecordingSink struct {
	mu      sync.Mutex
	records []internal.LogRecord
}

func (s *RecordingSink) Log(rec internal.LogRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

// Records returns a copy of the captured records.
func (s *RecordingSink) Records() []internal.LogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]internal.LogRecord(nil), s.records...)
}

// Messages returns the messages logged at level.
func (s *RecordingSink) Messages(level internal.LogLevel) []string {
	var out []string
	for _, rec := range s.Records() {
		if rec.Level == level {
			out = append(out, rec.Message)
		}
	}
	return out
}

// Contains reports whether a message at level contains substr.
func (s *RecordingSink) Contains(level internal.LogLevel, substr string) bool {
	for _, msg := range s.Messages(level) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// Reset drops all captured records.
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

// TableSource is an in-memory data source keyed by variable name.
type TableSource struct {
	mu           sync.Mutex
	Rows         int
	Quantitative map[string][]float64
	Qualitative  map[string][]string
	Err          error
	requests     []ports.DataRequest
}

func NewTableSource(rows int) *TableSource {
	return &TableSource{
		Rows:         rows,
		Quantitative: make(map[string][]float64),
		Qualitative:  make(map[string][]string),
	}
}

// Requests returns the loads performed so far.
func (s *TableSource) Requests() []ports.DataRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.DataRequest(nil), s.requests...)
}

func (s *TableSource) LoadData(ctx context.Context, req ports.DataRequest) error {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	if req.Category.IsQualitative() {
		req.Strings.Init(s.Rows, len(req.Names))
		for c, name := range req.Names {
			col, ok := s.Qualitative[name]
			if !ok {
				return fmt.Errorf("no qualitative variable %q", name)
			}
			for r := 0; r < s.Rows; r++ {
				if err := req.Strings.Set(r+1, c+1, col[r]); err != nil {
					return err
				}
			}
		}
		return nil
	}

	req.Floats.Init(s.Rows, len(req.Names))
	for c, name := range req.Names {
		col, ok := s.Quantitative[name]
		if !ok {
			return fmt.Errorf("no quantitative variable %q", name)
		}
		for r := 0; r < s.Rows; r++ {
			if err := req.Floats.Set(r+1, c+1, col[r]); err != nil {
				return err
			}
		}
	}
	return nil
}
