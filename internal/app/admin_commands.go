package app

import (
	"context"

	"github.com/fibero-labs/bridgectl/internal/journal"
	"github.com/fibero-labs/bridgectl/internal/swap"
	"github.com/spf13/cobra"
)

func (s *runtimeState) newAdminCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "admin",
		Short: "Liquidity and fee-policy administration",
		Long: `Admin operations mutate pool and fee-manager state and require the
signing key to match the configured admin address.`,
	}
	root.AddCommand(s.newUpdateFeesCommand())
	root.AddCommand(s.newUpdateMaxAmountCommand())
	root.AddCommand(s.newAddLiquidityCommand())
	root.AddCommand(s.newRemoveLiquidityCommand())
	return root
}

func (s *runtimeState) newUpdateFeesCommand() *cobra.Command {
	var baseFee, discountedFee string
	cmd := &cobra.Command{
		Use:   "update-fees",
		Short: "Set the base and discounted fee percentages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runAdmin(cmd, journal.Entry{Op: journal.OpSetFees, Amount: baseFee + "/" + discountedFee},
				func(ctx context.Context, svc *services) swap.Outcome {
					return svc.admin.SetFees(ctx, baseFee, discountedFee)
				})
		},
	}
	cmd.Flags().StringVar(&baseFee, "base", "", "Base fee percentage (e.g. 0.50)")
	cmd.Flags().StringVar(&discountedFee, "discounted", "", "Discounted fee percentage")
	return cmd
}

func (s *runtimeState) newUpdateMaxAmountCommand() *cobra.Command {
	var chain, amountFlag string
	cmd := &cobra.Command{
		Use:   "update-max-amount",
		Short: "Set a pool's maximum transaction amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runAdmin(cmd, journal.Entry{Op: journal.OpSetMaxAmount, Chain: chain, Amount: amountFlag},
				func(ctx context.Context, svc *services) swap.Outcome {
					return svc.admin.SetMaxTransactionAmount(ctx, chain, amountFlag)
				})
		},
	}
	cmd.Flags().StringVar(&chain, "chain", "", "Chain (ETH, BSC, POLYGON or chain id)")
	cmd.Flags().StringVar(&amountFlag, "amount", "", "Cap as a decimal token amount")
	return cmd
}

func (s *runtimeState) newAddLiquidityCommand() *cobra.Command {
	var chain, token, amountFlag string
	cmd := &cobra.Command{
		Use:   "add-liquidity",
		Short: "Deposit liquidity into a pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runAdmin(cmd, journal.Entry{Op: journal.OpAddLiquidity, Chain: chain, Token: token, Amount: amountFlag},
				func(ctx context.Context, svc *services) swap.Outcome {
					return svc.admin.AddLiquidity(ctx, chain, token, amountFlag)
				})
		},
	}
	cmd.Flags().StringVar(&chain, "chain", "", "Chain (ETH, BSC, POLYGON or chain id)")
	cmd.Flags().StringVar(&token, "token", "", "Token symbol")
	cmd.Flags().StringVar(&amountFlag, "amount", "", "Amount as a decimal string")
	return cmd
}

func (s *runtimeState) newRemoveLiquidityCommand() *cobra.Command {
	var chain, token, amountFlag string
	cmd := &cobra.Command{
		Use:   "remove-liquidity",
		Short: "Withdraw liquidity from a pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runAdmin(cmd, journal.Entry{Op: journal.OpRemoveLiquidity, Chain: chain, Token: token, Amount: amountFlag},
				func(ctx context.Context, svc *services) swap.Outcome {
					return svc.admin.RemoveLiquidity(ctx, chain, token, amountFlag)
				})
		},
	}
	cmd.Flags().StringVar(&chain, "chain", "", "Chain (ETH, BSC, POLYGON or chain id)")
	cmd.Flags().StringVar(&token, "token", "", "Token symbol")
	cmd.Flags().StringVar(&amountFlag, "amount", "", "Amount as a decimal string")
	return cmd
}

func (s *runtimeState) runAdmin(cmd *cobra.Command, entry journal.Entry, op func(context.Context, *services) swap.Outcome) error {
	svc, err := s.connect(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer svc.close()

	if err := svc.requireAdmin(); err != nil {
		return err
	}

	outcome := op(cmd.Context(), svc)
	entry.TxHash = outcome.TxHash
	entry.Status = string(outcome.Status)
	entry.ErrKind = outcome.ErrKind()
	svc.record(entry)
	return s.renderOutcome(cmd, outcome)
}
