/*
Package report renders the planner dashboard as an Excel workbook.

SHEETS:
  Summary: Today, balance, accrual, next accrual, year-end projection
  Events:  One row per event in start-date order with its balance check
  Days:    One row per event day (event, date, weekday, type, hours)

  Rows whose event lacks hours, and weekend days, are highlighted in red.

USAGE:
  dash, _ := planner.Dashboard(ctx)
  if err := report.WriteWorkbook(w, dash); err != nil { ... }

SEE ALSO:
  - timeoff/planner.go: Dashboard
  - api/handlers.go: GET /api/export.xlsx
*/
package report

import (
	"fmt"
	"io"

	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/timeoff"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names.
const (
	SummarySheet = "Summary"
	EventsSheet  = "Events"
	DaysSheet    = "Days"
)

var (
	eventHeaders = []string{"Name", "Start", "End", "Hours", "Available", "Difference", "Enough", "Banked"}
	dayHeaders   = []string{"Event", "Date", "Weekday", "Type", "Hours"}
)

// Filename is the suggested download name for a workbook built on today.
func Filename(today generic.TimePoint) string {
	return fmt.Sprintf("pto-plan-%s.xlsx", today)
}

type styles struct {
	header int
	title  int
	alert  int
}

// Workbook builds the workbook. The caller closes the file.
func Workbook(d timeoff.Dashboard) (*excelize.File, error) {
	f := excelize.NewFile()

	for _, name := range []string{SummarySheet, EventsSheet, DaysSheet} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	if index, err := f.GetSheetIndex(SummarySheet); err == nil {
		f.SetActiveSheet(index)
	}

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeSummary(f, st, d); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeEvents(f, st, d.Events); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeDays(f, st, d.Events); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// WriteWorkbook builds the workbook and writes it to w.
func WriteWorkbook(w io.Writer, d timeoff.Dashboard) error {
	f, err := Workbook(d)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	st.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 2},
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return st, err
	}

	st.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return st, err
	}

	st.alert, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#FF0000", Bold: true},
	})
	return st, err
}

func writeSummary(f *excelize.File, st styles, d timeoff.Dashboard) error {
	rows := [][]any{
		{"Today", d.Today.String()},
		{"Current balance", d.Policy.CurrentBalance.Float64()},
		{"Accrual rate", d.Policy.AccrualRate.Float64()},
		{"Accrual period", string(d.Policy.AccrualPeriodType)},
		{"Last accrual", d.Policy.LastAccrualDate.String()},
		{"Next accrual", d.NextAccrual.String()},
		{"Max rollover", d.Policy.MaxRollover.String()},
		{"Max balance", d.Policy.MaxBalance.String()},
		{"Planned hours", d.PlannedHours.Float64()},
		{"Projected balance on " + d.YearEnd.YearEnd.String(), d.YearEnd.ProjectedBalance.Float64()},
		{"Hours at risk", d.YearEnd.HoursAtRisk.Float64()},
	}
	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		f.SetCellStyle(SummarySheet, cell, cell, st.title)
	}
	if d.YearEnd.WillExceedRollover || d.RolloverWarning {
		cell, _ := excelize.CoordinatesToCellName(2, len(rows))
		f.SetCellStyle(SummarySheet, cell, cell, st.alert)
	}
	f.SetColWidth(SummarySheet, "A", "A", 32)
	f.SetColWidth(SummarySheet, "B", "B", 16)
	return nil
}

func writeEvents(f *excelize.File, st styles, events []timeoff.EventBalance) error {
	if err := writeHeader(f, st, EventsSheet, eventHeaders); err != nil {
		return err
	}
	for i, eb := range events {
		row := i + 2
		enough := "yes"
		if !eb.Availability.HasEnough {
			enough = "no"
		}
		values := []any{
			eb.Event.Name,
			eb.Event.StartDate.String(),
			eb.Event.EndDate.String(),
			eb.Event.TotalHours().Float64(),
			eb.Availability.AvailableHours.Float64(),
			eb.Availability.Difference.Float64(),
			enough,
			eb.Banked.Float64(),
		}
		if err := setRow(f, EventsSheet, row, values); err != nil {
			return err
		}
		if !eb.Availability.HasEnough {
			highlightRow(f, st, EventsSheet, row, len(values))
		}
	}
	f.SetColWidth(EventsSheet, "A", "A", 28)
	f.SetColWidth(EventsSheet, "B", "C", 12)
	return nil
}

func writeDays(f *excelize.File, st styles, events []timeoff.EventBalance) error {
	if err := writeHeader(f, st, DaysSheet, dayHeaders); err != nil {
		return err
	}
	row := 2
	for _, eb := range events {
		for _, day := range eb.Event.Days {
			values := []any{
				eb.Event.Name,
				day.Date.String(),
				day.Date.Weekday().String(),
				string(day.Type),
				day.Hours().Float64(),
			}
			if err := setRow(f, DaysSheet, row, values); err != nil {
				return err
			}
			if day.IsWeekend {
				highlightRow(f, st, DaysSheet, row, len(values))
			}
			row++
		}
	}
	f.SetColWidth(DaysSheet, "A", "A", 28)
	f.SetColWidth(DaysSheet, "B", "C", 12)
	return nil
}

func writeHeader(f *excelize.File, st styles, sheet string, headers []string) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := setRow(f, sheet, 1, values); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, st.header)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func highlightRow(f *excelize.File, st styles, sheet string, row, width int) {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(width, row)
	f.SetCellStyle(sheet, first, last, st.alert)
}
