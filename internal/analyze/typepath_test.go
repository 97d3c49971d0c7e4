package analyze

import (
	"go/parser"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTypePath(t *testing.T) {
	tests := []struct {
		expr string
		want bool
		segs []string
	}{
		{"Person", true, []string{"Person"}},
		{"model.Person", true, []string{"model", "Person"}},
		{"model.Pair[int, string]", true, []string{"model", "Pair"}},
		{"Box[T]", true, []string{"Box"}},
		{"*Person", false, nil},
		{"[]Person", false, nil},
		{"map[string]int", false, nil},
		{"a.b.C", false, nil},
		{"func()", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e, err := parser.ParseExpr(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, IsTypePath(e))
			assert.Equal(t, tt.segs, PathSegments(e))
		})
	}
}

func TestQualifiers(t *testing.T) {
	e, err := parser.ParseExpr("lib.Pair[other.A, *C.char]")
	require.NoError(t, err)
	assert.Equal(t, []string{"lib", "other", "C"}, Qualifiers(e))
}
