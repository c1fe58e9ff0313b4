package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// EnvServer overrides the default --server value.
const EnvServer = "BLOGD_SERVER"

// DefaultServerURL is used when neither --server nor BLOGD_SERVER is set.
const DefaultServerURL = "http://localhost:8080"

var (
	// Persistent flags available to all subcommands
	serverURL  string
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blogd",
	Short: "blogd is an in-memory blog post server",
	Long: `blogd serves a small blog post API (create, read, list, update, delete)
backed by an in-memory store, and ships client commands for talking to it.

Configuration can be provided via flags, environment variables (BLOGD_*),
or a YAML/JSON configuration file passed with --config.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode == ErrCodeConnection {
			fmt.Fprintln(os.Stderr, FormatConnectionError(apiErr))
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func defaultServerURL() string {
	if v := os.Getenv(EnvServer); v != "" {
		return v
	}
	return DefaultServerURL
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(), "blogd server base URL (env "+EnvServer+")")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}
