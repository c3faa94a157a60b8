package terminal

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fin-tools/value-atlas/pkg/runtime/terminal/commands"
	"github.com/fin-tools/value-atlas/pkg/runtime/terminal/export"
)

// CLI represents the command-line interface
type CLI struct {
	factory  commands.Factory
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Factory commands.Factory
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		factory:  opts.Factory,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "value-atlas",
		Short: "Monte Carlo DCF stock valuation tool",
	}

	cmd.AddCommand(commands.NewEvaluateCmd(cli.factory, cli.reporter))
	cmd.AddCommand(commands.NewParamsCmd())

	return cmd
}
