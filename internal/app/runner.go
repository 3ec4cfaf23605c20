// Package app wires configuration, chain connections and services into
// the bridgectl command tree.
package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fibero-labs/bridgectl/internal/config"
	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
	"github.com/fibero-labs/bridgectl/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type Runner struct {
	stdout io.Writer
	stderr io.Writer
}

func NewRunner() *Runner {
	return NewRunnerWithWriters(os.Stdout, os.Stderr)
}

func NewRunnerWithWriters(stdout, stderr io.Writer) *Runner {
	return &Runner{stdout: stdout, stderr: stderr}
}

func (r *Runner) Run(args []string) int {
	state := &runtimeState{runner: r}
	root := state.newRootCommand()
	root.SetArgs(args)
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	err := root.Execute()
	if err != nil {
		fmt.Fprintf(r.stderr, "Error: %v\n", err)
	}
	return bridgerr.ExitCode(err)
}

type runtimeState struct {
	runner *Runner
	flags  config.GlobalFlags
}

func (s *runtimeState) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "bridgectl",
		Short: "Cross-chain stablecoin bridge orchestrator",
		Long: `bridgectl coordinates stablecoin swaps across ETH, BSC and POLYGON:
it plans a swap (fee, net amount, gas estimate) before committing,
submits it to the source-chain pool, and tracks confirmation.

Examples:
  bridgectl plan --source ETH --dest POLYGON --token USDC --amount 100 --recipient 0xabc...
  bridgectl swap --source ETH --dest POLYGON --token USDC --amount 100 --recipient 0xabc...
  bridgectl balances
  bridgectl serve`,
		Version: version.Version,
	}

	// Flag names are case-insensitive (--Source works like --source).
	root.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ToLower(name))
	})

	root.PersistentFlags().StringVar(&s.flags.ConfigPath, "config", "", "Path to config file")
	root.PersistentFlags().BoolVarP(&s.flags.JSON, "json", "j", false, "Output in JSON format")
	root.PersistentFlags().BoolVarP(&s.flags.Verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&s.flags.Timeout, "timeout", "", "Collaborator call timeout (e.g. 10s)")

	root.AddCommand(s.newBalancesCommand())
	root.AddCommand(s.newFeesCommand())
	root.AddCommand(s.newPlanCommand())
	root.AddCommand(s.newSwapCommand())
	root.AddCommand(s.newAdminCommand())
	root.AddCommand(s.newHistoryCommand())
	root.AddCommand(s.newServeCommand())
	return root
}
