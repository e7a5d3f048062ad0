package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/warp/pto-planner/report"
	"github.com/warp/pto-planner/timeoff"
)

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, err := a.planner.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			printDashboard(cmd.OutOrStdout(), dash)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, err := a.planner.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = report.Filename(dash.Today)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := report.WriteWorkbook(f, dash); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default pto-plan-<today>.xlsx)")
	return cmd
}

func printDashboard(out io.Writer, d timeoff.Dashboard) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Today\t%s\n", d.Today)
	fmt.Fprintf(tw, "Current balance\t%s\n", d.Policy.CurrentBalance)
	fmt.Fprintf(tw, "Accrual\t%s per %s period\n", d.Policy.AccrualRate, d.Policy.AccrualPeriodType)
	fmt.Fprintf(tw, "Next accrual\t%s\n", d.NextAccrual)
	fmt.Fprintf(tw, "Still to accrue this year\t%s over %d paychecks\n", d.HoursLeftToAccrue, d.AccrualsLeft)
	fmt.Fprintf(tw, "Planned\t%s\n", d.PlannedHours)
	fmt.Fprintf(tw, "Projected on %s\t%s\n", d.YearEnd.YearEnd, d.YearEnd.ProjectedBalance)
	tw.Flush()

	if d.YearEnd.WillExceedRollover {
		fmt.Fprintf(out, "\nWarning: %s will not roll over (max rollover %s).\n", d.YearEnd.HoursAtRisk, d.Policy.MaxRollover)
	} else if d.RolloverWarning {
		fmt.Fprintf(out, "\nWarning: balance is above 80%% of the max rollover (%s).\n", d.Policy.MaxRollover)
	}

	if len(d.Events) > 0 {
		fmt.Fprintln(out)
		printEventBalances(out, d.Events)
	}
}
