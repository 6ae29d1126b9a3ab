// Package manifest decodes plugin source files.
//
// A plugin source file is HCL with an optional `module` block and any number
// of `class` and `function` blocks. Each declaration names its compiled
// implementation through `impl` and may carry a `settings` object. The
// declarations are returned in the order they appear in the file.
package manifest
