// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the plugin lifecycle (enable, disable,
// reload, watch), decoupled from any specific entrypoint like a CLI.
package app
