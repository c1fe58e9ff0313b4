package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/blogd/pkg/cli/internal/output"
	"github.com/getmockd/blogd/pkg/config"
)

var configPath string

// ConfigOutput is the --json form of `blogd config`.
type ConfigOutput struct {
	ConfigFile string            `json:"configFile,omitempty"`
	Config     *config.Config    `json:"config"`
	Sources    map[string]string `json:"sources"`
	SeedPosts  int               `json:"seedPosts"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	Long: `Show the configuration blogd serve would start with, after applying the
config file and BLOGD_* environment variables, and where each value came from.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		seeds, err := cfg.SeedPosts()
		if err != nil {
			return err
		}

		out := ConfigOutput{
			ConfigFile: cfg.ConfigFile,
			Config:     cfg,
			Sources:    cfg.Sources,
			SeedPosts:  len(seeds),
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			return output.JSON(w, out)
		}
		return printConfigYAML(w, out)
	},
}

// printConfigYAML writes the config as YAML followed by a sources table.
func printConfigYAML(w io.Writer, out ConfigOutput) error {
	if out.ConfigFile != "" {
		fmt.Fprintf(w, "# Loaded from: %s\n", out.ConfigFile)
	} else {
		fmt.Fprintln(w, "# No config file loaded")
	}

	data, err := yaml.Marshal(out.Config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, _ = w.Write(data)

	fmt.Fprintf(w, "\n# Seed posts: %d\n", out.SeedPosts)
	fmt.Fprintln(w, "# Sources:")
	keys := make([]string, 0, len(out.Sources))
	for k := range out.Sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	tw := output.Table(w)
	for _, k := range keys {
		fmt.Fprintf(tw, "#   %s\t%s\n", k, out.Sources[k])
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file (env "+config.EnvConfig+")")
}
