// Package autoload turns a directory tree of plugin source files into an
// ordered list of registrable entities and registers or unregisters them
// with the host in bulk.
//
// A load cycle runs in four steps:
//
//  1. Discover walks the tree and returns one Descriptor per source file,
//     shallower files first.
//  2. ImportAll decodes each file and binds its declarations to compiled
//     implementations from the catalog. Imported modules are kept in a
//     ModuleCache until Cleanse removes them.
//  3. Collect keeps the declarations whose implementation is registrable and
//     splits them into classes and functions.
//  4. Register calls each entity's register (or unregister) callable and
//     records the outcome in the Ledger.
//
// A failing module or entity is logged and skipped unless the caller asks for
// strict imports or debug registration, in which case the first failure is
// returned.
package autoload
