package gen

import (
	"bytes"
	"fmt"
	"go/token"
	"log/slog"
	"path/filepath"

	"golang.org/x/tools/imports"

	"crepr-generator/internal/analyze"
	"crepr-generator/internal/common"
	"crepr-generator/internal/config"
	"crepr-generator/internal/diagnostic"
	"crepr-generator/internal/plan"
)

// runtimeFallbackAlias names the runtime package when the last element of
// its import path is not a valid identifier.
const runtimeFallbackAlias = "crepr"

// Generator renders the generated file of each package.
type Generator struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewGenerator creates a Generator. A nil cfg uses config.Default and a nil
// logger disables logging.
func NewGenerator(cfg *config.Config, logger *slog.Logger) *Generator {
	if cfg == nil {
		cfg = config.Default()
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Generator{cfg: cfg, logger: logger}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the package directory the file belongs to.
	Dir string
	// Filename is the base name of the file (e.g., "crepr_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Path returns the full path of the file.
func (f *GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Filename)
}

// Generate analyzes pkgs and renders one file per package that declares at
// least one derive. If any error diagnostic is reported, no files are
// returned. The returned error is reserved for failures that are not about
// the input (template or formatting problems).
func (g *Generator) Generate(pkgs []*analyze.Package) ([]GeneratedFile, diagnostic.Diagnostics, error) {
	var (
		diags diagnostic.Diagnostics
		files []GeneratedFile
	)

	for _, pkg := range pkgs {
		decls, d := analyze.Collect(pkg)
		diags.Merge(d)

		plans, d := plan.Build(decls, analyze.LocalTypes(pkg), g.cfg.CharMarker)
		diags.Merge(d)

		if len(plans) == 0 {
			g.logger.Debug("no derives", "package", pkg.Name, "dir", pkg.Dir)
			continue
		}

		file, d, err := g.generatePackage(pkg, plans)
		diags.Merge(d)

		if err != nil {
			return nil, diags, fmt.Errorf("generating %s: %w", pkg.Dir, err)
		}

		if file != nil {
			files = append(files, *file)
		}
	}

	if diags.HasErrors() {
		return nil, diags, nil
	}

	return files, diags, nil
}

// generatePackage renders the file for one package.
func (g *Generator) generatePackage(pkg *analyze.Package, plans []plan.StructPlan) (*GeneratedFile, diagnostic.Diagnostics, error) {
	rt := g.runtimeAlias()
	set := newImportSet()

	needRuntime := false

	for i := range plans {
		set.addPlan(&plans[i])

		if len(plans[i].Fields) > 0 {
			needRuntime = true
		}
	}

	if needRuntime {
		set.add(rt, g.cfg.Runtime, diagnostic.Location{Pos: token.Position{Filename: pkg.Dir}})
	}

	if set.diags.HasErrors() {
		return nil, set.diags, nil
	}

	data := fileData{
		PackageName: pkg.Name,
		Cgo:         set.cgo(),
		Imports:     set.specs(),
	}

	for i := range plans {
		p := &plans[i]
		for _, dir := range p.Directions {
			m := &method{dir: dir, p: p, rt: rt}
			data.Methods = append(data.Methods, m.render(g.cfg.GenerateComments()))
		}

		g.logger.Debug("planned struct", "struct", p.Name, "target", p.Target, "fields", len(p.Fields))
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, set.diags, fmt.Errorf("executing template: %w", err)
	}

	filename := g.cfg.Output

	formatted, err := imports.Process(filepath.Join(pkg.Dir, filename), buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		if werr := writeDebugUnformatted(pkg.Dir, filename, buf.Bytes()); werr != nil {
			g.logger.Warn("writing unformatted source", "error", werr)
		}

		return nil, set.diags, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Dir:      pkg.Dir,
		Filename: filename,
		Content:  formatted,
	}, set.diags, nil
}

// runtimeAlias is the qualifier generated code uses for the runtime package.
func (g *Generator) runtimeAlias() string {
	alias := common.PkgAlias(g.cfg.Runtime)
	if !token.IsIdentifier(alias) {
		return runtimeFallbackAlias
	}

	return alias
}
