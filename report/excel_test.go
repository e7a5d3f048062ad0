package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/report"
	"github.com/warp/pto-planner/timeoff"
	"github.com/xuri/excelize/v2"
)

func testDashboard() timeoff.Dashboard {
	today := generic.MustParseDate("2024-01-01")
	policy := timeoff.BiweeklyPolicy(generic.MustParseDate("2023-12-29"), 40, 8, generic.LimitedCap(generic.Hours(100)))
	engine := timeoff.NewEngine(generic.FixedClock{Date: today})

	start, end := generic.MustParseDate("2024-01-29"), generic.MustParseDate("2024-02-04")
	week := timeoff.PTOEvent{Created: "a", Name: "Week off", StartDate: start, EndDate: end, Days: timeoff.BuildDays(start, end)}
	start, end = generic.MustParseDate("2024-02-05"), generic.MustParseDate("2024-02-09")
	more := timeoff.PTOEvent{Created: "b", Name: "Another week", StartDate: start, EndDate: end, Days: timeoff.BuildDays(start, end)}
	events := []timeoff.PTOEvent{week, more}

	return timeoff.Dashboard{
		Today:            today,
		Policy:           policy,
		NextAccrual:      timeoff.NextAccrualDate(policy.LastAccrualDate, policy.AccrualPeriodType),
		UpcomingAccruals: timeoff.ScheduleFor(policy).Upcoming(6),
		YearEnd:          engine.YearEndProjection(policy, events),
		RolloverWarning:  timeoff.ShouldWarnAboutRollover(policy),
		PlannedHours:     timeoff.PlannedHours(events),
		Events:           engine.ProjectBalances(policy, events),
	}
}

func openWorkbook(t *testing.T, d timeoff.Dashboard) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, report.WriteWorkbook(&buf, d))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWorkbook_Sheets(t *testing.T) {
	f := openWorkbook(t, testDashboard())

	assert.Equal(t, []string{report.SummarySheet, report.EventsSheet, report.DaysSheet}, f.GetSheetList())
	assert.Equal(t, report.SummarySheet, f.GetSheetName(f.GetActiveSheetIndex()))
}

func TestWorkbook_Summary(t *testing.T) {
	f := openWorkbook(t, testDashboard())

	rows, err := f.GetRows(report.SummarySheet)
	require.NoError(t, err)

	values := map[string]string{}
	for _, row := range rows {
		require.Len(t, row, 2)
		values[row[0]] = row[1]
	}
	assert.Equal(t, "2024-01-01", values["Today"])
	assert.Equal(t, "2024-01-12", values["Next accrual"])
	assert.Equal(t, "100 hours", values["Max rollover"])
	assert.Equal(t, "unlimited", values["Max balance"])
	assert.Equal(t, "80", values["Planned hours"])
	// 40 + 26 x 8 - 80
	assert.Equal(t, "168", values["Projected balance on 2024-12-31"])
}

func TestWorkbook_EventsAndDays(t *testing.T) {
	// GIVEN: Two back-to-back weeks of 40h on a 40h balance
	// WHEN: Rendering the workbook
	// THEN: The second week shows its shortage and every day is listed
	f := openWorkbook(t, testDashboard())

	events, err := f.GetRows(report.EventsSheet)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Name", events[0][0])
	assert.Equal(t, []string{"Week off", "2024-01-29", "2024-02-04", "40", "56", "16", "yes", "40"}, events[1])
	assert.Equal(t, []string{"Another week", "2024-02-05", "2024-02-09", "40", "16", "-24", "no", "0"}, events[2])

	days, err := f.GetRows(report.DaysSheet)
	require.NoError(t, err)
	require.Len(t, days, 1+7+5)
	assert.Equal(t, []string{"Week off", "2024-02-03", "Saturday", "weekend", "0"}, days[6])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "pto-plan-2024-07-04.xlsx", report.Filename(generic.MustParseDate("2024-07-04")))
}
