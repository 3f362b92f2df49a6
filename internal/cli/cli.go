package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tjt7a/anml/pkg/buildinfo"
	"github.com/tjt7a/anml/pkg/cache"
	"github.com/tjt7a/anml/pkg/config"
	"github.com/tjt7a/anml/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "anml"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded in the root command's PersistentPreRunE.
	Config config.Config

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "anml converts NFA graph dumps into ANML automata networks",
		Long: `anml builds ANML (Automata Network Markup Language) documents.

It converts NFA graph dumps in DOT form into ANML networks, reads ANML back,
and draws networks as node-link diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			if c.configPath != "" {
				c.Logger.Debug("loaded config", "path", c.configPath)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/anml/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the artifact cache")

	// Register all subcommands
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.exampleCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	store, err := c.newCache()
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	r := pipeline.NewRunner(store, keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache() (cache.Cache, error) {
	if c.noCache || !c.Config.Cache.Enabled {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/anml/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// importFlags are the flags shared by every command that reads an input.
type importFlags struct {
	networkID   string
	sentinel    string
	startKind   string
	inputFormat string
}

func (f *importFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.networkID, "network-id", "", "network id (default from config, or the document's own id)")
	cmd.Flags().StringVar(&f.sentinel, "sentinel", "", "id of the reserved start node in DOT input (default \"0\")")
	cmd.Flags().StringVar(&f.startKind, "start", "", "start kind for DOT start states: all-input (default), start-of-data")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "input format: dot, anml (default from extension)")
}

// options builds pipeline options with flags taking precedence over config.
func (c *CLI) options(input string, f importFlags) pipeline.Options {
	opts := pipeline.Options{
		Input:       input,
		InputFormat: f.inputFormat,
		NetworkID:   f.networkID,
		Sentinel:    firstNonEmpty(f.sentinel, c.Config.Sentinel),
		StartKind:   firstNonEmpty(f.startKind, c.Config.StartKind),
		Detailed:    c.Config.Detailed,
		Logger:      c.Logger,
	}
	// A configured network id applies to DOT input only; ANML documents
	// carry their own. Stdin is only known to be DOT when flagged.
	isDOT := f.inputFormat == pipeline.InputDOT ||
		(f.inputFormat == "" && input != stdio && pipeline.DetectInputFormat(input, nil) == pipeline.InputDOT)
	if opts.NetworkID == "" && isDOT {
		opts.NetworkID = c.Config.NetworkID
	}
	return opts
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s, fallback string) []string {
	if s == "" {
		return []string{fallback}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
