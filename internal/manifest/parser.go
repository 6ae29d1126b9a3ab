package manifest

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// ParseFile reads and decodes the plugin source file at path.
func ParseFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(src, path)
}

// Parse decodes src. A fresh parser is used on every call: hclparse caches by
// filename and a reload must see the new bytes.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	content, diags := hclFile.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	f := &File{Path: filename}
	seen := make(map[string]hcl.Range)
	sawModule := false

	for _, block := range content.Blocks {
		if block.Type == "module" {
			if sawModule {
				return nil, fmt.Errorf("%s: duplicate module block", block.DefRange)
			}
			sawModule = true
			if err := decodeModule(block, f); err != nil {
				return nil, err
			}
			continue
		}

		decl, err := decodeDeclaration(block)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[decl.Name]; dup {
			return nil, fmt.Errorf("%s: '%s' already declared at %s", block.DefRange, decl.Name, prev)
		}
		seen[decl.Name] = block.DefRange
		f.Declarations = append(f.Declarations, decl)
	}

	return f, nil
}

func decodeModule(block *hcl.Block, f *File) error {
	var mb moduleBlock
	if diags := gohcl.DecodeBody(block.Body, nil, &mb); diags.HasErrors() {
		return fmt.Errorf("failed to decode module block in %s: %w", f.Path, diags)
	}
	if mb.Version != nil {
		v, err := semver.NewVersion(*mb.Version)
		if err != nil {
			return fmt.Errorf("%s: invalid module version %q: %w", block.DefRange, *mb.Version, err)
		}
		f.Version = v
	}
	if mb.RequiresHost != nil {
		c, err := semver.NewConstraint(*mb.RequiresHost)
		if err != nil {
			return fmt.Errorf("%s: invalid requires_host %q: %w", block.DefRange, *mb.RequiresHost, err)
		}
		f.RequiresHost = c
	}
	return nil
}

func decodeDeclaration(block *hcl.Block) (Declaration, error) {
	decl := Declaration{
		Kind:     DeclKind(block.Type),
		Name:     block.Labels[0],
		Settings: cty.EmptyObjectVal,
		Range:    block.DefRange,
	}
	if decl.Name == "" {
		return decl, fmt.Errorf("%s: %s name must not be empty", block.DefRange, block.Type)
	}

	content, diags := block.Body.Content(declSchema)
	if diags.HasErrors() {
		return decl, fmt.Errorf("failed to decode %s '%s': %w", block.Type, decl.Name, diags)
	}

	if diags := gohcl.DecodeExpression(content.Attributes["impl"].Expr, nil, &decl.Impl); diags.HasErrors() {
		return decl, fmt.Errorf("failed to decode impl of %s '%s': %w", block.Type, decl.Name, diags)
	}
	if decl.Impl == "" {
		return decl, fmt.Errorf("%s: impl of %s '%s' must not be empty", block.DefRange, block.Type, decl.Name)
	}

	if attr, ok := content.Attributes["settings"]; ok {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return decl, fmt.Errorf("failed to evaluate settings of %s '%s': %w", block.Type, decl.Name, diags)
		}
		if !val.Type().IsObjectType() && !val.Type().IsMapType() {
			return decl, fmt.Errorf("%s: settings of %s '%s' must be an object, got %s", attr.Range, block.Type, decl.Name, val.Type().FriendlyName())
		}
		decl.Settings = val
	}

	return decl, nil
}
