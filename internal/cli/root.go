// Package cli wires the rview command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apppkg "github.com/kk-code-lab/rview/internal/app"
	"github.com/kk-code-lab/rview/internal/config"
	"github.com/kk-code-lab/rview/internal/logging"
	"github.com/kk-code-lab/rview/internal/metrics"
	"github.com/kk-code-lab/rview/internal/shellsetup"
)

// globals holds the state shared by every subcommand once flags are parsed.
type globals struct {
	configPath  string
	logLevel    string
	metricsAddr string

	v   *viper.Viper
	cfg config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	var recordCwd bool

	root := &cobra.Command{
		Use:   "rview [dir]",
		Short: "Browse directories and preview files in the terminal",
		Long: heredoc.Doc(`
			rview is a two-pane terminal browser. The left pane lists the current
			directory, the right pane previews the hovered entry: highlighted source,
			rendered markdown, images and folder listings.

			Settings are read from $XDG_CONFIG_HOME/rview/config.yaml and RVIEW_*
			environment variables, e.g. RVIEW_PREVIEW_TAB_WIDTH=8.
		`),
		Example: heredoc.Doc(`
			rview
			rview ~/src --log-level debug
			rview --metrics-addr 127.0.0.1:9090
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logging.Sync()
		},
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runBrowser(g.cfg, dir, recordCwd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/rview/config.yaml)")
	flags.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&g.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	root.Flags().BoolVar(&recordCwd, "record-cwd", false, "leave the final directory for the shell wrapper")
	_ = root.Flags().MarkHidden("record-cwd")

	root.AddCommand(newListCmd(g), newPeekCmd(g), newShellInitCmd())
	return root
}

// init loads configuration and starts logging and metrics.
func (g *globals) init(cmd *cobra.Command) error {
	g.v = config.New()
	flags := cmd.Root().PersistentFlags()
	if err := g.v.BindPFlag("log.level", flags.Lookup("log-level")); err != nil {
		return err
	}
	if err := g.v.BindPFlag("metrics.addr", flags.Lookup("metrics-addr")); err != nil {
		return err
	}

	cfg, err := config.Load(g.v, g.configPath)
	if err != nil {
		return err
	}
	g.cfg = cfg

	if err := logging.Init(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.Path,
	}); err != nil {
		return err
	}
	logging.Debug("config loaded", logging.String("file", g.v.ConfigFileUsed()))
	g.watchLogLevel()

	if addr := cfg.Metrics.Addr; addr != "" {
		go func() {
			if err := metrics.Serve(addr); err != nil {
				logging.Error("metrics server stopped", logging.String("addr", addr), logging.Err(err))
			}
		}()
	}
	return nil
}

// watchLogLevel re-reads log.level whenever the config file is saved. The
// --log-level flag, when given, keeps winning over the file.
func (g *globals) watchLogLevel() {
	if g.v.ConfigFileUsed() == "" {
		return
	}
	g.v.OnConfigChange(func(fsnotify.Event) { g.applyLogLevel() })
	g.v.WatchConfig()
}

func (g *globals) applyLogLevel() {
	level := g.v.GetString("log.level")
	if level == logging.Level() {
		return
	}
	if err := logging.SetLevel(level); err != nil {
		logging.Warn("config reload ignored", logging.Err(err))
		return
	}
	logging.Info("log level changed", logging.String("level", level))
}

func runBrowser(cfg config.Config, dir string, recordCwd bool) error {
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	app, err := apppkg.NewApplication(cfg, dir)
	if err != nil {
		return fmt.Errorf("cannot start: %w", err)
	}
	app.Run()
	cwd := app.Cwd()
	_ = app.Close()

	if recordCwd {
		if err := shellsetup.WriteResult(cwd); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	return nil
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "rview: %v\n", err)
		return 1
	}
	return 0
}
