package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/blogd/pkg/api"
	"github.com/getmockd/blogd/pkg/config"
	"github.com/getmockd/blogd/pkg/logging"
)

// serveFlags holds the values bound to `blogd serve` flags.
type serveFlags struct {
	port       int
	host       string
	configPath string
	logLevel   string
	logFormat  string
	seeds      []string
	noH2C      bool
}

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the blog post server (foreground)",
	Long: `Start the blog post HTTP server and block until interrupted.

Values are resolved in order: built-in defaults, the --config file,
BLOGD_* environment variables, then flags.`,
	Example: `  # Start with defaults on :8080
  blogd serve

  # Custom port with JSON logs
  blogd serve -p 9000 --log-format json

  # Preload posts from YAML files
  blogd serve --seed 'posts/**/*.yaml'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveServeConfig(cmd, &serveFlagVals)
		if err != nil {
			return err
		}
		return runServe(cmd, cfg, serveFlagVals.seeds)
	},
}

// resolveServeConfig layers explicitly set flags over file and environment values.
func resolveServeConfig(cmd *cobra.Command, f *serveFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.configPath != "" {
		cfg.Set("configFile", config.SourceFlag)
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = f.port
		cfg.Set("port", config.SourceFlag)
	}
	if flags.Changed("host") {
		cfg.Host = f.host
		cfg.Set("host", config.SourceFlag)
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
		cfg.Set("logLevel", config.SourceFlag)
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = f.logFormat
		cfg.Set("logFormat", config.SourceFlag)
	}
	if flags.Changed("no-h2c") {
		cfg.H2C = !f.noH2C
		cfg.Set("h2c", config.SourceFlag)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, cfg *config.Config, seedGlobs []string) error {
	log := logging.New(cfg.Logging())

	posts, err := cfg.SeedPosts()
	if err != nil {
		return err
	}
	for _, pattern := range seedGlobs {
		loaded, err := config.LoadSeedGlob(pattern, "")
		if err != nil {
			return err
		}
		if len(loaded) == 0 {
			log.Warn("seed pattern matched no posts", "pattern", pattern)
		}
		posts = append(posts, loaded...)
	}

	srv, err := api.NewServer(cfg,
		api.WithLogger(log),
		api.WithVersion(Version),
	)
	if err != nil {
		return err
	}
	if err := srv.Seed(posts); err != nil {
		return err
	}
	if err := srv.Listen(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := serveCmd.Flags()
	f.IntVarP(&serveFlagVals.port, "port", "p", config.DefaultPort, "HTTP port to listen on (0 picks a free port)")
	f.StringVar(&serveFlagVals.host, "host", "", "Interface to bind (empty for all)")
	f.StringVarP(&serveFlagVals.configPath, "config", "c", "", "Path to a YAML or JSON config file (env "+config.EnvConfig+")")
	f.StringVar(&serveFlagVals.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	f.StringVar(&serveFlagVals.logFormat, "log-format", "text", "Log format: text or json")
	f.StringArrayVar(&serveFlagVals.seeds, "seed", nil, "Glob of YAML/JSON post files to preload (repeatable, ** supported)")
	f.BoolVar(&serveFlagVals.noH2C, "no-h2c", false, "Disable HTTP/2 cleartext (h2c) support")
}
