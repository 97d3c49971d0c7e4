package plan

import (
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"crepr-generator/internal/analyze"
)

// ErrUnsupportedType is returned for field types the classifier cannot map to
// a conversion.
var ErrUnsupportedType = errors.New("unsupported field type")

// Classify decides the shape of a field type from its syntax alone.
//
// A pointer is a C string when the name of its pointee type ends with
// charMarker, compared case-sensitively: the default "char" matches C.char,
// C.schar, C.uchar and c_char but not Chart or Richard. The returned
// expression is the type the conversion is instantiated with: the pointee
// for pointers, expr itself for values.
func Classify(expr ast.Expr, charMarker string) (Classification, ast.Expr, error) {
	star, ok := expr.(*ast.StarExpr)
	if !ok {
		if analyze.IsTypePath(expr) {
			return ClassValue, expr, nil
		}

		return 0, nil, fmt.Errorf("%w %s", ErrUnsupportedType, types.ExprString(expr))
	}

	if !analyze.IsTypePath(star.X) {
		return 0, nil, fmt.Errorf("%w %s: pointee must be a named type", ErrUnsupportedType, types.ExprString(expr))
	}

	if segs := analyze.PathSegments(star.X); strings.HasSuffix(segs[len(segs)-1], charMarker) {
		return ClassStringPointer, star.X, nil
	}

	return ClassOpaquePointer, star.X, nil
}
