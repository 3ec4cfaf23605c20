package app

import (
	"fmt"
	"math/big"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/fibero-labs/bridgectl/internal/amount"
	"github.com/fibero-labs/bridgectl/internal/balances"
	"github.com/fibero-labs/bridgectl/internal/journal"
	"github.com/fibero-labs/bridgectl/internal/swap"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (s *runtimeState) newBalancesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show per-chain pool balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := s.connect(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer svc.close()

			snapshot, err := balances.Read(cmd.Context(), svc.registry, svc.pools)
			if err != nil {
				return err
			}
			if s.flags.JSON {
				return printJSON(cmd.OutOrStdout(), snapshot)
			}
			for _, handle := range svc.registry.Handles() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (chain id %d)\n", handle.Name, handle.ChainID)
				for _, token := range handle.Tokens {
					if addr, ok := handle.TokenAddresses[token]; ok {
						fmt.Fprintf(cmd.OutOrStdout(), "  %-6s %-14s %s\n", token, snapshot[handle.Name][token], addr)
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "  %-6s %s\n", token, snapshot[handle.Name][token])
					}
				}
			}
			return nil
		},
	}
}

func (s *runtimeState) newFeesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fees",
		Short: "Show current base and discounted fee rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := s.connect(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer svc.close()

			rates, err := svc.fees.CurrentRates(cmd.Context())
			if err != nil {
				return err
			}
			base := formatFeeRate(rates.BaseFee)
			discounted := formatFeeRate(rates.DiscountedFee)
			if s.flags.JSON {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"baseFee":       base,
					"discountedFee": discounted,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Base fee:       %s%%\n", base)
			fmt.Fprintf(cmd.OutOrStdout(), "Discounted fee: %s%%\n", discounted)
			return nil
		},
	}
}

type swapFlags struct {
	source    string
	dest      string
	token     string
	amount    string
	recipient string
}

func (f *swapFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.source, "source", "", "Source chain (ETH, BSC, POLYGON or chain id)")
	cmd.Flags().StringVar(&f.dest, "dest", "", "Destination chain")
	cmd.Flags().StringVar(&f.token, "token", "", "Token symbol (e.g. USDC)")
	cmd.Flags().StringVar(&f.amount, "amount", "", "Amount as a decimal string")
	cmd.Flags().StringVar(&f.recipient, "recipient", "", "Recipient address on the destination chain")
}

func (f *swapFlags) request() swap.Request {
	return swap.Request{
		SourceChain:      f.source,
		DestinationChain: f.dest,
		Token:            f.token,
		Amount:           f.amount,
		Recipient:        f.recipient,
	}
}

func (s *runtimeState) newPlanCommand() *cobra.Command {
	var flags swapFlags
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Validate a swap and quote fee, net amount and gas",
		Long: `Plan validates a swap request without touching chain state: it checks
the chains, token and amount, reads the current transaction cap, quotes
the fee, and estimates gas for the would-be transaction.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := s.connect(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer svc.close()

			plan, err := svc.planner.Plan(cmd.Context(), flags.request())
			if err != nil {
				return err
			}
			return s.renderPlan(cmd, plan)
		},
	}
	flags.register(cmd)
	return cmd
}

func (s *runtimeState) newSwapCommand() *cobra.Command {
	var flags swapFlags
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Plan and execute a cross-chain swap",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := s.connect(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer svc.close()

			plan, err := svc.planner.Plan(cmd.Context(), flags.request())
			if err != nil {
				return err
			}
			if err := s.renderPlan(cmd, plan); err != nil {
				return err
			}

			spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
				spinner.WithWriter(cmd.ErrOrStderr()))
			spin.Suffix = " submitting swap and awaiting confirmation..."
			spin.Start()
			outcome := svc.executor.Execute(cmd.Context(), plan)
			spin.Stop()

			svc.record(journal.Entry{
				Op:      journal.OpSwap,
				Chain:   plan.SourceChain,
				Token:   plan.Token,
				Amount:  plan.Gross(),
				TxHash:  outcome.TxHash,
				Status:  string(outcome.Status),
				ErrKind: outcome.ErrKind(),
			})
			return s.renderOutcome(cmd, outcome)
		},
	}
	flags.register(cmd)
	return cmd
}

func (s *runtimeState) renderPlan(cmd *cobra.Command, plan *swap.Plan) error {
	if s.flags.JSON {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"sourceChain":        plan.SourceChain,
			"destinationChainId": plan.DestinationChainID,
			"token":              plan.Token,
			"amount":             plan.Gross(),
			"fee":                plan.Fee(),
			"netAmount":          plan.Net(),
			"gasEstimate":        plan.GasEstimate,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Swap %s %s: %s -> chain %d\n", plan.Gross(), plan.Token, plan.SourceChain, plan.DestinationChainID)
	fmt.Fprintf(out, "  Fee:          %s %s (%s%%)\n", plan.Fee(), plan.Token, effectiveRate(plan))
	fmt.Fprintf(out, "  Net amount:   %s %s\n", plan.Net(), plan.Token)
	fmt.Fprintf(out, "  Gas estimate: %d units\n", plan.GasEstimate)
	return nil
}

func (s *runtimeState) renderOutcome(cmd *cobra.Command, outcome swap.Outcome) error {
	if s.flags.JSON {
		body := map[string]any{"status": string(outcome.Status)}
		if outcome.TxHash != "" {
			body["transactionHash"] = outcome.TxHash
		}
		if outcome.Err != nil {
			body["error"] = outcome.Err.Error()
		}
		if err := printJSON(cmd.OutOrStdout(), body); err != nil {
			return err
		}
	} else if outcome.Succeeded() {
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Confirmed: %s\n", outcome.TxHash)
	} else {
		msg := string(outcome.Status)
		if outcome.Err != nil {
			msg = outcome.Err.Error()
		}
		if outcome.TxHash != "" {
			color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "%s (tx %s)\n", msg, outcome.TxHash)
		} else {
			color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "%s\n", msg)
		}
	}
	if !outcome.Succeeded() && outcome.Err != nil {
		return outcome.Err
	}
	return nil
}

func formatFeeRate(v *big.Int) string {
	return amount.FromBaseUnits(v, amount.FeeDecimals)
}

// effectiveRate derives the realized percentage for display only; the
// invariant-bearing arithmetic stays in integer base units.
func effectiveRate(plan *swap.Plan) string {
	gross, err := decimal.NewFromString(plan.Gross())
	if err != nil || gross.IsZero() {
		return "0"
	}
	feeAmt, err := decimal.NewFromString(plan.Fee())
	if err != nil {
		return "0"
	}
	return feeAmt.Div(gross).Mul(decimal.NewFromInt(100)).Round(2).String()
}
