// Package config loads blogd server configuration.
//
// Values are layered, later sources overriding earlier ones:
//
//  1. Defaults (Default)
//  2. A YAML or JSON file (LoadFile; format chosen by extension)
//  3. BLOGD_* environment variables (ApplyEnv)
//  4. Command-line flags (applied by package cli)
//
// Config.Sources records which layer set each field, for `blogd config`.
//
// Seed posts can be given inline under `seed:` or in separate files matched by
// the `seedFiles:` glob patterns. Patterns support ** via doublestar.
package config
