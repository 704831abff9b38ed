package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPLS(t *testing.T) {
	tests := []struct {
		typ      ModelType
		expected bool
	}{
		{Undefined, false},
		{PCAX, false},
		{PCAY, false},
		{PCAAll, false},
		{PCAClass, false},
		{PLSClass, true},
		{PLS, true},
		{PLSDA, true},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.typ.IsPLS(), test.typ.String())
	}
}

func TestParseModelType(t *testing.T) {
	typ, err := ParseModelType("pls_da")
	assert.NoError(t, err)
	assert.Equal(t, PLSDA, typ)

	var parsed ModelType
	assert.NoError(t, parsed.UnmarshalText([]byte("PCA_X")))
	assert.Equal(t, PCAX, parsed)

	_, err = ParseModelType("OPLS")
	assert.Error(t, err)
	assert.Equal(t, "ModelType(42)", ModelType(42).String())
}

func TestCategory(t *testing.T) {
	assert.True(t, Qualitative.IsQualitative())
	assert.True(t, QualitativeLagged.IsQualitative())
	assert.False(t, LagParents.IsQualitative())
	assert.Equal(t, "lag-parents", LagParents.String())
}
