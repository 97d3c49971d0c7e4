package analyze

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"crepr-generator/internal/common"
)

// LoadMode specifies what information to load from packages. Files are parsed
// separately, so neither syntax nor types are requested.
const LoadMode = packages.NeedName | packages.NeedFiles

// Loader resolves package patterns and parses their files.
type Loader struct {
	// Dir is the working directory patterns are resolved against.
	Dir string
	// Skip lists file base names that are not read (the generated output).
	Skip []string
	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger
}

// LoadPackages loads the packages matching patterns.
// Patterns are standard Go package patterns (e.g., "./...", "example.com/ffi").
func (l *Loader) LoadPackages(ctx context.Context, patterns ...string) ([]*Package, error) {
	cfg := &packages.Config{
		Mode:    LoadMode,
		Context: ctx,
		Dir:     l.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found: %v", patterns)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	out := make([]*Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		p, err := l.parsePackage(pkg)
		if err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}

		out = append(out, p)
	}

	return out, nil
}

func (l *Loader) parsePackage(pkg *packages.Package) (*Package, error) {
	p := &Package{
		Name: pkg.Name,
		Path: pkg.PkgPath,
		Fset: token.NewFileSet(),
	}

	var paths []string

	for _, path := range pkg.GoFiles {
		if p.Dir == "" {
			p.Dir = filepath.Dir(path)
		}

		if !l.skip(path) {
			paths = append(paths, path)
		}
	}

	// Files are parsed concurrently; FileSet is safe for concurrent use.
	p.Files = make([]*File, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			f, err := ParseFile(p.Fset, path, nil)
			if err != nil {
				return err
			}

			p.Files[i] = f

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger().Debug("loaded package", "path", p.Path, "dir", p.Dir, "files", len(p.Files))

	return p, nil
}

func (l *Loader) skip(path string) bool {
	base := filepath.Base(path)
	for _, s := range l.Skip {
		if base == s {
			return true
		}
	}

	return false
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return l.Logger
}

// ParseFile parses a single Go file. If src is nil the file is read from
// disk.
func ParseFile(fset *token.FileSet, filename string, src any) (*File, error) {
	syntax, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	return &File{
		Path:    filename,
		Syntax:  syntax,
		Imports: collectImports(syntax),
	}, nil
}

// NewPackage builds a Package from already parsed files. All files must
// share fset and declare the same package.
func NewPackage(fset *token.FileSet, dir string, files ...*File) *Package {
	p := &Package{Dir: dir, Fset: fset, Files: files}
	if len(files) > 0 {
		p.Name = files[0].Syntax.Name.Name
	}

	return p
}

// collectImports maps the local name of every import to its path. Blank and
// dot imports are not addressable by a qualifier and are left out.
func collectImports(f *ast.File) map[string]string {
	imports := make(map[string]string, len(f.Imports))

	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}

		name := common.PkgAlias(path)
		if imp.Name != nil {
			name = imp.Name.Name
		}

		if name == "_" || name == "." {
			continue
		}

		imports[name] = path
	}

	return imports
}
