package ccl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
)

func TestDefaultDialect_Canonical(t *testing.T) {
	d := DefaultDialect()

	assert.Equal(t, OpAnd, d.CanonicalBoolean("and"))
	assert.Equal(t, OpAnd, d.CanonicalBoolean("AnD"))
	assert.Equal(t, OpAnd, d.CanonicalBoolean("&"))
	assert.Equal(t, OpOr, d.CanonicalBoolean("|"))
	assert.Equal(t, OpNot, d.CanonicalBoolean("NOT"))
	assert.Equal(t, "NEAR", d.CanonicalProximity("near"))
	assert.Equal(t, "ADJ", d.CanonicalProximity("Adj"))
}

func TestDefaultDialect_Keywords(t *testing.T) {
	d := DefaultDialect()

	assert.Equal(t, []string{"&", "and", "not", "or", "|"}, d.Keywords(Boolean))
	assert.Equal(t, []string{"<", "<=", "<>", "=", ">", ">="}, d.Keywords(Relation))
	assert.Equal(t, []string{"adj", "far", "near"}, d.Keywords(Proximity))
}

func TestNewDialect_PartialOverride(t *testing.T) {
	// Given: only relations overridden
	d, err := NewDialect(nil, []string{"=", "~"}, nil)
	require.NoError(t, err)

	// Then: booleans keep the built-in table
	assert.Equal(t, OpOr, d.CanonicalBoolean("or"))
	assert.Equal(t, []string{"=", "~"}, d.Keywords(Relation))
}

func TestNewDialect_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		booleans  map[string]string
		relations []string
		proximity map[string]string
	}{
		{"unknown canonical boolean", map[string]string{"xor": "XOR"}, nil, nil},
		{"keyword in two classes", map[string]string{"near": "AND"}, nil, nil},
		{"word relation", nil, []string{"like"}, nil},
		{"reserved character", map[string]string{"a(": "AND"}, nil, nil},
		{"whitespace in keyword", nil, nil, map[string]string{"w 5": "WITHIN"}},
		{"symbol starting with a letter", nil, nil, map[string]string{"w/5": "WITHIN"}},
		{"empty keyword", map[string]string{"": "AND"}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDialect(tt.booleans, tt.relations, tt.proximity)
			require.Error(t, err)
			assert.ErrorIs(t, err, cclerrors.ErrConfig)
		})
	}
}

func TestNewDialect_SymbolicProximity(t *testing.T) {
	d, err := NewDialect(nil, nil, map[string]string{"near": "NEAR", "%": "WITHIN"})
	require.NoError(t, err)

	tokens, err := NewTokenizer(d).Tokenize("smith%jones")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{Word, Proximity, Word}, kinds(tokens))
	assert.Equal(t, "WITHIN", d.CanonicalProximity("%"))
}
