package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/warp/pto-planner/factory"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/timeoff"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the accrual policy",
	}
	cmd.AddCommand(newSettingsShowCmd(a), newSettingsSetCmd(a), newSettingsImportCmd(a))
	return cmd
}

func newSettingsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the accrual policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			policy, err := a.planner.Settings(cmd.Context())
			if errors.Is(err, generic.ErrPolicyNotFound) {
				fmt.Fprintln(out, "No settings saved yet. Defaults would be:")
				printPolicy(out, timeoff.DefaultPolicy(a.planner.Today()))
				return nil
			}
			if err != nil {
				return err
			}
			printPolicy(out, policy)
			return nil
		},
	}
}

func newSettingsSetCmd(a *app) *cobra.Command {
	var (
		balance     float64
		rate        float64
		period      string
		lastAccrual string
		maxRollover string
		maxBalance  string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or edit the accrual policy (unset flags keep their value)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			policy, err := a.planner.Settings(ctx)
			if errors.Is(err, generic.ErrPolicyNotFound) {
				policy = timeoff.DefaultPolicy(a.planner.Today())
			} else if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("balance") {
				policy.CurrentBalance = generic.Hours(balance)
			}
			if flags.Changed("rate") {
				policy.AccrualRate = generic.Hours(rate)
			}
			if flags.Changed("period") {
				if policy.AccrualPeriodType, err = timeoff.ParseAccrualPeriodType(period); err != nil {
					return err
				}
			}
			if flags.Changed("last-accrual") {
				if policy.LastAccrualDate, err = generic.ParseDate(lastAccrual); err != nil {
					return fmt.Errorf("--last-accrual: %w", err)
				}
			}
			if flags.Changed("max-rollover") {
				if policy.MaxRollover, err = parseCap(maxRollover); err != nil {
					return fmt.Errorf("--max-rollover: %w", err)
				}
			}
			if flags.Changed("max-balance") {
				if policy.MaxBalance, err = parseCap(maxBalance); err != nil {
					return fmt.Errorf("--max-balance: %w", err)
				}
			}

			if err := a.planner.SaveSettings(ctx, policy); err != nil {
				return err
			}
			printPolicy(cmd.OutOrStdout(), policy)
			return nil
		},
	}

	cmd.Flags().Float64Var(&balance, "balance", 0, "Current balance in hours")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Hours accrued per pay period")
	cmd.Flags().StringVar(&period, "period", "", "Pay period: weekly, biweekly or semi-monthly")
	cmd.Flags().StringVar(&lastAccrual, "last-accrual", "", "Date of the last accrual (YYYY-MM-DD)")
	cmd.Flags().StringVar(&maxRollover, "max-rollover", "", "Hours that carry into next year, or \"unlimited\"")
	cmd.Flags().StringVar(&maxBalance, "max-balance", "", "Balance ceiling in hours, or \"unlimited\"")
	return cmd
}

func newSettingsImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace settings and events from a browser localStorage export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			policy, events, err := factory.ParseLegacyBundle(data)
			if err != nil {
				return err
			}
			if err := a.planner.Import(cmd.Context(), policy, events); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d events (settings replaced: %t)\n", len(events), policy != nil)
			return nil
		},
	}
}

// parseCap accepts "unlimited" or a decimal number of hours.
func parseCap(s string) (generic.Cap, error) {
	if s == generic.UnlimitedSentinel {
		return generic.UnlimitedCap(), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return generic.Cap{}, fmt.Errorf("want %q or a number, got %q", generic.UnlimitedSentinel, s)
	}
	return generic.LimitedCap(generic.Amount{Value: d, Unit: generic.UnitHours}), nil
}

func printPolicy(out io.Writer, p timeoff.AccrualPolicy) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Current balance\t%s\n", p.CurrentBalance)
	fmt.Fprintf(tw, "Accrual rate\t%s per %s period\n", p.AccrualRate, p.AccrualPeriodType)
	fmt.Fprintf(tw, "Last accrual\t%s\n", p.LastAccrualDate)
	fmt.Fprintf(tw, "Next accrual\t%s\n", timeoff.NextAccrualDate(p.LastAccrualDate, p.AccrualPeriodType))
	fmt.Fprintf(tw, "Max rollover\t%s\n", p.MaxRollover)
	fmt.Fprintf(tw, "Max balance\t%s\n", p.MaxBalance)
	tw.Flush()
}
