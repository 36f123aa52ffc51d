// Command zotsearch is the terminal client for the bibliographic search
// backend.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"zotsearch/internal/config"
	"zotsearch/internal/highlight"
	"zotsearch/internal/logger"
	"zotsearch/internal/render"
	"zotsearch/internal/search"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "zotsearch",
	Short:         "Search a Zotero library index from the terminal",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		closer, err := logger.Setup(c.Logging)
		if err != nil {
			return err
		}
		cfg, logCloser = c, closer
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: $"+config.EnvPath+" or ./"+config.DefaultPath+")")
	pf.String("backend", "", "search backend base URL")
	pf.Int("max-authors", 0, "authors shown before truncation")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.Bool("no-color", false, "disable highlight colors")

	_ = viper.BindPFlag("config", pf.Lookup("config"))
	_ = viper.BindPFlag("backend.base_url", pf.Lookup("backend"))
	_ = viper.BindPFlag("render.max_authors", pf.Lookup("max-authors"))
	_ = viper.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("cli.no_color", pf.Lookup("no-color"))

	rootCmd.AddCommand(newSearchCmd(), newShellCmd(), newCoversCmd())
}

func initConfig() {
	viper.SetEnvPrefix("ZOTSEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads the YAML file and applies flags and ZOTSEARCH_* env
// values on top.
func loadConfig() (*config.Config, error) {
	path := viper.GetString("config")
	if path == "" {
		path = config.DefaultPath
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if viper.IsSet("backend.base_url") {
		if v := viper.GetString("backend.base_url"); v != "" {
			c.Backend.BaseURL = v
		}
	}
	if viper.IsSet("render.max_authors") {
		if v := viper.GetInt("render.max_authors"); v > 0 {
			c.Render.MaxAuthors = v
		}
	}
	if viper.IsSet("logging.level") {
		if v := viper.GetString("logging.level"); v != "" {
			c.Logging.Level = v
		}
	}
	if viper.GetBool("cli.no_color") {
		c.CLI.Color = false
	}
	return c, c.Validate()
}

func newClient() *search.Client {
	return search.FromConfig(cfg.Backend, logrus.StandardLogger())
}

func newRenderer() *render.Renderer {
	return render.NewRenderer(cfg.CoverBase(), cfg.Render.MaxAuthors)
}

// styler picks ANSI highlighting for terminals and brackets otherwise.
func styler(w io.Writer) render.Styler {
	if !cfg.CLI.Color {
		return highlight.Bracket
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return highlight.ANSI
	}
	return highlight.Bracket
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
