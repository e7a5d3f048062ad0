package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/timeoff"
)

func newEventsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage planned time off",
	}
	cmd.AddCommand(
		newEventsListCmd(a),
		newEventsAddCmd(a),
		newEventsDeleteCmd(a),
		newEventsCheckCmd(a),
	)
	return cmd
}

func newEventsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List events with their balance check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			dash, err := a.planner.Dashboard(ctx)
			if errors.Is(err, generic.ErrPolicyNotFound) {
				events, err := a.planner.ListEvents(ctx)
				if err != nil {
					return err
				}
				printEvents(out, events)
				return nil
			}
			if err != nil {
				return err
			}
			printEventBalances(out, dash.Events)
			return nil
		},
	}
}

func newEventsAddCmd(a *app) *cobra.Command {
	var (
		name     string
		start    string
		end      string
		half     []string
		holidays []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Plan a new event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := timeoff.EventDraft{Name: name}
			var err error
			if draft.StartDate, err = generic.ParseDate(start); err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			if draft.EndDate, err = generic.ParseDate(end); err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			if draft.Overrides, err = overridesFromFlags(half, holidays); err != nil {
				return err
			}

			event, result, err := a.planner.CreateEvent(cmd.Context(), draft)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %s: %q %s, %s\n", event.Created, event.Name, event.Period(), event.TotalHours())
			printAvailability(out, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Event name")
	cmd.Flags().StringVar(&start, "start", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&half, "half", nil, "Workdays taken as half days (repeatable)")
	cmd.Flags().StringSliceVar(&holidays, "holiday", nil, "Workdays that are company holidays (repeatable)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func newEventsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.planner.DeleteEvent(cmd.Context(), timeoff.EventID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newEventsCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <id>",
		Short: "Check whether the balance covers an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.planner.CheckAvailability(cmd.Context(), timeoff.EventID(args[0]))
			if err != nil {
				return err
			}
			printAvailability(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func overridesFromFlags(half, holidays []string) ([]timeoff.DayOverride, error) {
	var overrides []timeoff.DayOverride
	add := func(flag string, values []string, dayType timeoff.DayType) error {
		for _, v := range values {
			date, err := generic.ParseDate(v)
			if err != nil {
				return fmt.Errorf("--%s: %w", flag, err)
			}
			overrides = append(overrides, timeoff.DayOverride{Date: date, Type: dayType})
		}
		return nil
	}
	if err := add("half", half, timeoff.DayHalf); err != nil {
		return nil, err
	}
	if err := add("holiday", holidays, timeoff.DayHoliday); err != nil {
		return nil, err
	}
	return overrides, nil
}

func printAvailability(out io.Writer, r timeoff.AvailabilityResult) {
	if r.HasEnough {
		fmt.Fprintf(out, "Enough hours: %s available, %s left over\n", r.AvailableHours, r.Difference)
		return
	}
	fmt.Fprintf(out, "Not enough hours: %s available, short by %s\n", r.AvailableHours, r.Shortage())
}

func printEvents(out io.Writer, events []timeoff.PTOEvent) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTART\tEND\tHOURS")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Created, e.Name, e.StartDate, e.EndDate, e.TotalHours().Value)
	}
	tw.Flush()
}

func printEventBalances(out io.Writer, balances []timeoff.EventBalance) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTART\tEND\tHOURS\tAVAILABLE\tDIFFERENCE\tENOUGH")
	for _, eb := range balances {
		e := eb.Event
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
			e.Created, e.Name, e.StartDate, e.EndDate, e.TotalHours().Value,
			eb.Availability.AvailableHours.Value, eb.Availability.Difference.Value, eb.Availability.HasEnough)
	}
	tw.Flush()
}
