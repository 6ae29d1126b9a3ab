// Package cli builds the addonkit command tree. Flags, ADDONKIT_* environment
// variables and an optional YAML config file are merged through viper into an
// app.Config.
package cli
