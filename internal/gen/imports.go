package gen

import (
	"sort"
	"strconv"
	"strings"

	"crepr-generator/internal/common"
	"crepr-generator/internal/diagnostic"
	"crepr-generator/internal/plan"
)

// cgoImport is the cgo pseudo-package. It gets its own import declaration.
const cgoImport = "C"

// importSpec is one line of the generated import block.
type importSpec struct {
	Name string // explicit alias, empty when the default name matches
	Path string
	// Break starts a new import group (blank line before).
	Break bool
}

// Spec renders the import line.
func (s importSpec) Spec() string {
	if s.Name == "" {
		return strconv.Quote(s.Path)
	}

	return s.Name + " " + strconv.Quote(s.Path)
}

// importGroup mirrors goimports grouping: paths whose first element has a
// dot go after the others.
func importGroup(path string) int {
	first, _, _ := strings.Cut(path, "/")
	if strings.Contains(first, ".") {
		return 1
	}

	return 0
}

// importSet collects the packages referenced by generated code.
type importSet struct {
	byName map[string]string
	diags  diagnostic.Diagnostics
}

func newImportSet() *importSet {
	return &importSet{byName: make(map[string]string)}
}

// add records that qualifier name refers to path. A second, different path
// for the same name is an import conflict.
func (s *importSet) add(name, path string, loc diagnostic.Location) {
	if have, ok := s.byName[name]; ok {
		if have != path {
			s.diags.AddError(diagnostic.CodeImportConflict, loc,
				"qualifier %s refers to both %q and %q", name, have, path)
		}

		return
	}

	s.byName[name] = path
}

// addPlan records the qualifiers that appear in the generated methods of p.
// Field types only appear in the forward direction.
func (s *importSet) addPlan(p *plan.StructPlan) {
	loc := diagnostic.Location{Struct: p.Name, Pos: p.Pos}

	for _, q := range p.TargetQualifiers {
		s.add(q, p.Imports[q], loc)
	}

	if !p.Has(plan.Forward) {
		return
	}

	for _, f := range p.Fields {
		for _, q := range f.ElemQualifiers {
			s.add(q, p.Imports[q], diagnostic.Location{Struct: p.Name, Field: f.Name, Pos: f.Pos})
		}
	}
}

// cgo reports whether the cgo pseudo-package is referenced.
func (s *importSet) cgo() bool {
	return s.byName[cgoImport] == cgoImport
}

// specs returns the regular imports sorted by path and grouped.
func (s *importSet) specs() []importSpec {
	var out []importSpec

	for name, path := range s.byName {
		if path == cgoImport {
			continue
		}

		spec := importSpec{Path: path}
		if common.PkgAlias(path) != name {
			spec.Name = name
		}

		out = append(out, spec)
	}

	sort.Slice(out, func(i, j int) bool {
		gi, gj := importGroup(out[i].Path), importGroup(out[j].Path)
		if gi != gj {
			return gi < gj
		}

		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}

		return out[i].Name < out[j].Name
	})

	for i := 1; i < len(out); i++ {
		out[i].Break = importGroup(out[i].Path) != importGroup(out[i-1].Path)
	}

	return out
}
