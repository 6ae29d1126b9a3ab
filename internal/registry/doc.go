// Package registry holds the compiled-in catalog of entity implementations.
//
// Plugin source files on disk only name their entities; the Go code that
// backs each name lives in a modules/* package and is listed here through
// that package's Module.Register. Lookups by name happen while a plugin
// source file is imported. Whether an implementation is registrable with the
// host is decided by the Registrable interface or an explicit Funcs pair,
// never by inspecting method names at runtime.
package registry
