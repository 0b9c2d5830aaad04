// Package paramfile loads model parameters from YAML documents.
//
// Numeric fields may hold expressions over the document's other numeric
// fields ("insideWidth * 2"), which keeps related dimensions in one place
// the way parametric CAD users expect. Expressions are evaluated with
// expr-lang; compiled programs are cached process-wide.
package paramfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"

	"github.com/solidkit/boxcad"
)

// maxExpressionLength caps expression source size.
const maxExpressionLength = 1000

// Document is the raw YAML shape of a parameter file, before expression
// resolution.
type Document struct {
	Shape               string `yaml:"shape"`
	InsideWidth         Value  `yaml:"insideWidth"`
	InsideDepth         Value  `yaml:"insideDepth"`
	InsideHeight        Value  `yaml:"insideHeight"`
	IncludeLid          bool   `yaml:"includeLid"`
	Clearance           Value  `yaml:"clearance"`
	IncludeInsideRadius bool   `yaml:"includeInsideRadius"`
	InsideRadius        Value  `yaml:"insideRadius"`
	ThicknessMode       string `yaml:"thicknessMode"`
	Thickness           Value  `yaml:"thickness"`
	WallThickness       Value  `yaml:"wallThickness"`
	TopThickness        Value  `yaml:"topThickness"`
	BottomThickness     Value  `yaml:"bottomThickness"`
}

// fields returns the named numeric fields, in document order.
func (d *Document) fields() []struct {
	name string
	v    *Value
} {
	return []struct {
		name string
		v    *Value
	}{
		{"insideWidth", &d.InsideWidth},
		{"insideDepth", &d.InsideDepth},
		{"insideHeight", &d.InsideHeight},
		{"clearance", &d.Clearance},
		{"insideRadius", &d.InsideRadius},
		{"thickness", &d.Thickness},
		{"wallThickness", &d.WallThickness},
		{"topThickness", &d.TopThickness},
		{"bottomThickness", &d.BottomThickness},
	}
}

// Load reads, resolves and converts a parameter file.
func Load(path string) (boxcad.Params, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return boxcad.Params{}, fmt.Errorf("failed to open parameter directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(base)
	if err != nil {
		return boxcad.Params{}, fmt.Errorf("failed to open parameter file: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	return LoadFromReader(file)
}

// LoadFromReader decodes, resolves and converts a parameter document.
func LoadFromReader(r io.Reader) (boxcad.Params, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return boxcad.Params{}, fmt.Errorf("failed to decode parameter YAML: %w", err)
	}
	if err := doc.Resolve(); err != nil {
		return boxcad.Params{}, err
	}
	return doc.Params()
}

// Resolve evaluates every expression field against the document's resolved
// numeric fields. Expressions may reference other expression fields as long
// as the references are acyclic; resolution runs in passes until a fixpoint.
func (d *Document) Resolve() error {
	env := map[string]any{}
	unresolved := map[string]*Value{}
	for _, f := range d.fields() {
		switch {
		case !f.v.IsSet():
		case f.v.IsExpr():
			if len(f.v.expr) > maxExpressionLength {
				return fmt.Errorf("paramfile: %s: expression too long", f.name)
			}
			unresolved[f.name] = f.v
		default:
			env[f.name] = f.v.num
		}
	}

	for len(unresolved) > 0 {
		progress := false
		for name, v := range unresolved {
			program, err := compileCached(v.expr)
			if err != nil {
				return fmt.Errorf("paramfile: %s: %w", name, err)
			}
			out, err := vm.Run(program, env)
			if err != nil {
				// Likely a reference to a still-unresolved field; retried
				// next pass.
				continue
			}
			f, err := toFloat(out)
			if err != nil {
				return fmt.Errorf("paramfile: %s: %w", name, err)
			}
			v.num = f
			v.expr = ""
			env[name] = f
			delete(unresolved, name)
			progress = true
		}
		if !progress {
			names := make([]string, 0, len(unresolved))
			for name := range unresolved {
				names = append(names, name)
			}
			sort.Strings(names)
			return fmt.Errorf("paramfile: unresolvable or cyclic expressions: %s",
				strings.Join(names, ", "))
		}
	}
	return nil
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("expression result is %T, want a number", v)
	}
}

// Params converts a resolved document into build parameters.
func (d *Document) Params() (boxcad.Params, error) {
	p := boxcad.Params{
		InsideWidth:         d.InsideWidth.Float(),
		InsideDepth:         d.InsideDepth.Float(),
		InsideHeight:        d.InsideHeight.Float(),
		IncludeLid:          d.IncludeLid,
		Clearance:           d.Clearance.Float(),
		IncludeInsideRadius: d.IncludeInsideRadius,
		InsideRadius:        d.InsideRadius.Float(),
		Thickness:           d.Thickness.Float(),
		WallThickness:       d.WallThickness.Float(),
		TopThickness:        d.TopThickness.Float(),
		BottomThickness:     d.BottomThickness.Float(),
	}

	switch strings.ToLower(strings.TrimSpace(d.Shape)) {
	case "", "box", "rectangular":
		p.Shape = boxcad.ShapeBox
	case "cylinder", "circular":
		p.Shape = boxcad.ShapeCylinder
	default:
		return boxcad.Params{}, fmt.Errorf("paramfile: unknown shape %q", d.Shape)
	}

	switch strings.ToLower(strings.TrimSpace(d.ThicknessMode)) {
	case "", "uniform":
		p.Mode = boxcad.ThicknessUniform
	case "custom":
		p.Mode = boxcad.ThicknessCustom
	default:
		return boxcad.Params{}, fmt.Errorf("paramfile: unknown thicknessMode %q", d.ThicknessMode)
	}

	return p, p.Validate()
}

// Save writes a document as YAML.
func Save(path string, d *Document) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Compiled expressions are cached process-wide: watch-driven rebuilds load
// the same file repeatedly.
var (
	cacheMu      sync.RWMutex
	programCache = map[string]*vm.Program{}
)

func compileCached(src string) (*vm.Program, error) {
	cacheMu.RLock()
	program, found := programCache[src]
	cacheMu.RUnlock()
	if found {
		return program, nil
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if program, found := programCache[src]; found {
		return program, nil
	}
	program, err := expr.Compile(src)
	if err != nil {
		return nil, err
	}
	programCache[src] = program
	return program, nil
}
