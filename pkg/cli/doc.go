// Package cli implements the blogd command line.
//
// `blogd serve` runs the HTTP server. The `posts` subcommands talk to a
// running server over HTTP through Client, so they work against any blogd
// reachable at --server (or BLOGD_SERVER).
package cli
