package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tebeka/atexit"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// app holds state shared by all commands of one invocation.
type app struct {
	v      *viper.Viper
	logger zerolog.Logger
}

func newApp() *app {
	return &app{v: viper.New(), logger: zerolog.Nop()}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "bfi [file]",
		Short: "Run programs for an eight-symbol tape machine",
		Long: `bfi translates a source file down to the symbols + - > < . , [ ]
and runs it against a growable tape of byte cells. Everything else in the
source is a comment.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
		RunE: a.runHandler,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.bfi.yaml)")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored output")
	flags.Duration("timeout", 0, "abort execution after this long (0 disables)")
	flags.Bool("trace", false, "log every executed instruction at trace level")
	for _, name := range []string{"log-level", "no-color", "timeout", "trace"} {
		if err := a.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	addCodeFlags(root)
	root.Flags().Bool("timing", false, "print execution time to stderr")

	root.AddCommand(
		newRunCommand(a),
		newDisCommand(a),
		newCheckCommand(a),
		newVersionCommand(),
	)
	return root
}

func addCodeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "code to use instead of a file")
	cmd.Flags().Bool("stdin", false, "read code from stdin")
}

// initialize loads configuration and sets up logging before any command runs.
func (a *app) initialize(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := a.readConfig(cfgFile); err != nil {
		return err
	}
	if a.v.GetBool("no-color") || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
	level := a.v.GetString("log-level")
	if a.v.GetBool("trace") {
		level = zerolog.LevelTraceValue
	}
	logger, err := newLogger(cmd.ErrOrStderr(), level)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func (a *app) readConfig(cfgFile string) error {
	a.v.SetEnvPrefix("BFI")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	a.v.AddConfigPath(home)
	a.v.SetConfigName(".bfi")
	a.v.SetConfigType("yaml")
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func (a *app) timeout() time.Duration {
	return a.v.GetDuration("timeout")
}

func main() {
	root := newRootCommand(newApp())
	if err := root.Execute(); err != nil {
		printError(root.ErrOrStderr(), err)
		atexit.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprint(w, red(formatError(err)))
}
