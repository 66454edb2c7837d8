package terminal

import (
	"io"
	"os"

	"github.com/de-tools/variation-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/variation-atlas/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	env     *commands.Env
	cfgPath string
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// Logs is where diagnostics go; stderr by default so stdout stays clean for exports.
	Logs io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logs == nil {
		opts.Logs = os.Stderr
	}

	cli := &CLI{env: &commands.Env{}}
	cli.rootCmd = cli.newRootCmd(opts)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "atlas",
		Short:         "Variation performance analysis for marketplace exports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(cli.cfgPath)
			if err != nil {
				return err
			}
			cli.env.Config = cfg

			logger := zerolog.New(zerolog.ConsoleWriter{Out: opts.Logs}).
				Level(cfg.Log.ZerologLevel()).
				With().Timestamp().Logger()
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
	}
	cmd.SetOut(opts.Output)
	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "", "Path to the application config file")

	cmd.AddCommand(commands.NewAnalyzeCmd(cli.env))
	cmd.AddCommand(commands.NewColumnsCmd())
	cmd.AddCommand(commands.NewRunsCmd(cli.env))

	return cmd
}
