package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"devconsole/internal/config"
	"devconsole/internal/console"
	"devconsole/internal/logging"
	"devconsole/internal/playground"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string
	timeout    time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "devconsole",
	Short: "devconsole - in-process developer console playground",
	Long: `devconsole hosts a small playground scene with the developer console
attached. Marked operations and runtime registrations can be browsed, given
arguments and invoked from the console overlay.

Run without arguments to start the interactive view. Press the open key
(default ` + "`" + `) or F1, or draw two circles with the mouse, to open the console.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive view owns the terminal
		if cmd == cmd.Root() {
			logger = zap.NewNop()
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

// listCmd prints the selectable operations
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the operations the console can invoke",
	Args:  cobra.NoArgs,
	RunE:  listOperations,
}

// invokeCmd runs one operation
var invokeCmd = &cobra.Command{
	Use:   "invoke [name] [args...]",
	Short: "Invoke an operation by name or registry id",
	Long: `Selects an operation and fills its form from the remaining arguments,
one per parameter, in order. Missing arguments keep their zero value. Bool
parameters accept true/false, 1/0 or t/f.

Example:
  devconsole invoke Heal 25
  devconsole invoke "Configure player" zed true 1.5 80
  devconsole invoke player.kill`,
	Args: cobra.MinimumNArgs(1),
	RunE: invokeOperation,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: <workspace>/.devconsole/config.yaml)")

	listCmd.Flags().Bool("all", false, "Include operations whose target has no live instance")
	invokeCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Invocation timeout")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(invokeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session is a booted playground with its console.
type session struct {
	cfg        *config.Config
	configPath string
	game       *playground.Game
	console    *console.Console
}

// boot loads config, sets up category logging and creates the console over
// a fresh playground scene.
func boot() (*session, error) {
	ws := workspace
	if ws == "" {
		var err error
		if ws, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to resolve workspace: %w", err)
		}
	}

	path := configPath
	if path == "" {
		path = config.DefaultPath(ws)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if err := logging.Initialize(ws, cfg.Logging.Settings()); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	game, err := playground.NewGame()
	if err != nil {
		return nil, err
	}
	c, err := console.New(game.Scene, console.WithModules(cfg.Console.Modules...))
	if err != nil {
		return nil, err
	}
	game.RegisterRuntime(c)

	logger.Debug("console booted",
		zap.String("workspace", ws),
		zap.String("config", path),
		zap.Strings("modules", cfg.Console.Modules),
		zap.Int("operations", len(c.Operations())),
	)
	logging.Boot("Booted playground in %s", ws)

	return &session{cfg: cfg, configPath: path, game: game, console: c}, nil
}

func (s *session) Close() {
	s.console.Dispose()
	logging.CloseAll()
}
