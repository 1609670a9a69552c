// Package config holds the run configuration for mailspider: CLI-facing
// defaults, validation, the optional .mailspider YAML file with per-domain
// overrides, and XDG directory resolution for the history database.
//
// The configuration is populated once from flags and the config file,
// validated, and then passed through the application by value semantics;
// there is no global configuration state.
package config
