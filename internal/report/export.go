package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary = "Summary"
	sheetTeams   = "By Team"
	sheetMonthly = "Monthly"
)

func writeWorkbook(summary *Summary, teams []TeamStat, months []MonthlyStat) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return nil, err
	}

	summaryRows := [][]interface{}{
		{"Requests this month", summary.RequestsThisMonth},
		{"Total requests", summary.TotalRequests},
		{"Completed requests", summary.CompletedRequests},
		{"Completion rate (%)", summary.CompletionRate},
		{"Overdue requests", summary.OverdueRequests},
		{"Avg completion (hours)", summary.AvgCompletionHours},
	}
	if err := writeSheet(f, sheetSummary, []string{"Metric", "Value"}, summaryRows, headerStyle); err != nil {
		return nil, err
	}

	teamRows := make([][]interface{}, 0, len(teams))
	for _, t := range teams {
		teamRows = append(teamRows, []interface{}{
			t.TeamName, t.TotalRequests, t.CompletedRequests, t.InProgressRequests, t.CompletionRate,
		})
	}
	teamHeaders := []string{"Team", "Total", "Completed", "In progress", "Completion rate (%)"}
	if err := writeSheet(f, sheetTeams, teamHeaders, teamRows, headerStyle); err != nil {
		return nil, err
	}

	monthRows := make([][]interface{}, 0, len(months))
	for _, m := range months {
		monthRows = append(monthRows, []interface{}{
			m.Label(), m.TotalRequests, m.CompletedRequests, m.CompletionRate,
		})
	}
	monthHeaders := []string{"Month", "Total", "Completed", "Completion rate (%)"}
	if err := writeSheet(f, sheetMonthly, monthHeaders, monthRows, headerStyle); err != nil {
		return nil, err
	}

	idx, err := f.GetSheetIndex(sheetSummary)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &buf, nil
}

func writeSheet(f *excelize.File, name string, headers []string, rows [][]interface{}, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return err
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(name, "A", lastCol, 22)
}
