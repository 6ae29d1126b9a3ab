package manifest

import (
	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// DeclKind is the kind of a declaration block.
type DeclKind string

const (
	DeclClass    DeclKind = "class"
	DeclFunction DeclKind = "function"
)

// File is a decoded plugin source file.
type File struct {
	Path string
	// Version is nil when the module block omits it.
	Version *semver.Version
	// RequiresHost is nil when the module accepts any host version.
	RequiresHost *semver.Constraints
	Declarations []Declaration
}

// Declaration is one class or function block.
type Declaration struct {
	Kind     DeclKind
	Name     string
	Impl     string
	Settings cty.Value
	Range    hcl.Range
}

// moduleBlock is decoded with gohcl. Any other attribute is an error.
type moduleBlock struct {
	Version      *string `hcl:"version,optional"`
	RequiresHost *string `hcl:"requires_host,optional"`
}

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "module"},
		{Type: string(DeclClass), LabelNames: []string{"name"}},
		{Type: string(DeclFunction), LabelNames: []string{"name"}},
	},
}

var declSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "impl", Required: true},
		{Name: "settings"},
	},
}
