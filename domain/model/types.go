package model

import (
	"fmt"
	"strings"
)

// ModelType is the engine's classification of a fitted model.
type ModelType int

const (
	Undefined ModelType = iota
	PCAX
	PCAY
	PCAAll
	PCAClass
	PLSClass
	PLS
	PLSDA
)

var modelTypeNames = []string{
	"undefined", "PCA_X", "PCA_Y", "PCA_All",
	"PCA_Class", "PLS_Class", "PLS", "PLS_DA",
}

func (t ModelType) String() string {
	if t < 0 || int(t) >= len(modelTypeNames) {
		return fmt.Sprintf("ModelType(%d)", int(t))
	}
	return modelTypeNames[t]
}

// IsPLS reports whether t belongs to the PLS family (PLS, PLS-DA, PLS-Class).
func (t ModelType) IsPLS() bool {
	return t == PLS || t == PLSDA || t == PLSClass
}

// ParseModelType accepts the names produced by String, case-insensitively.
func ParseModelType(s string) (ModelType, error) {
	for i, name := range modelTypeNames {
		if strings.EqualFold(name, s) {
			return ModelType(i), nil
		}
	}
	return Undefined, fmt.Errorf("unknown model type %q", s)
}

func (t ModelType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText lets model types be written by name in fixture files.
func (t *ModelType) UnmarshalText(text []byte) error {
	v, err := ParseModelType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Weight selects the weighting used by contribution queries.
type Weight int

const (
	NoWeight Weight = iota
	WeightP
	WeightRX
)

// Category tags the kind of input data requested from a data source.
type Category int

const (
	Quantitative      Category = 1
	Qualitative       Category = 2
	LagParents        Category = 3
	QualitativeLagged Category = 4
)

func (c Category) String() string {
	switch c {
	case Quantitative:
		return "quantitative"
	case Qualitative:
		return "qualitative"
	case LagParents:
		return "lag-parents"
	case QualitativeLagged:
		return "qualitative-lagged"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// IsQualitative reports whether data of this category is text valued.
func (c Category) IsQualitative() bool {
	return c == Qualitative || c == QualitativeLagged
}
