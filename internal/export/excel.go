package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fmuoria/ats-filter/internal/models"
)

// WriteExcel renders the candidate views as an Excel workbook with a
// summary sheet and a shortlist sheet, color-coded by score band.
func WriteExcel(w io.Writer, views []models.CandidateView, req *models.RequirementSet) error {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "Summary"
	candidatesSheet := "Candidates"

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(candidatesSheet); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}

	if err := createSummarySheet(f, summarySheet, views, req); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := createCandidatesSheet(f, candidatesSheet, views); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// createSummarySheet writes the request criteria and shortlist statistics.
func createSummarySheet(f *excelize.File, sheetName string, views []models.CandidateView, req *models.RequirementSet) error {
	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "B", 60)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	setLabeled := func(row int, label string, value interface{}) {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), label)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), value)
	}

	row := 1
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Resume Filter Export")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row += 2

	setLabeled(row, "Generated:", time.Now().Format("2006-01-02 15:04:05"))
	row++
	setLabeled(row, "Mode:", req.Mode)
	row++
	setLabeled(row, "Required Skills:", strings.Join(req.Skills, ", "))
	row++
	if req.MinExperience != nil {
		setLabeled(row, "Minimum Experience:", fmt.Sprintf("%.1f years", *req.MinExperience))
		row++
	}
	if req.Education != "" {
		setLabeled(row, "Minimum Education:", req.Education)
		row++
	}
	setLabeled(row, "Required Keywords:", strings.Join(req.Keywords, ", "))
	row++
	if req.MinScore != nil {
		setLabeled(row, "Score Threshold:", fmt.Sprintf("%.2f", *req.MinScore))
		row++
	}
	setLabeled(row, "Candidates Exported:", len(views))
	row += 2

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Statistics:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row++

	if len(views) == 0 {
		return nil
	}

	excellent, good, fair, poor, passed := 0, 0, 0, 0, 0
	total := 0.0
	for _, v := range views {
		total += v.Score
		switch {
		case v.Score >= 90:
			excellent++
		case v.Score >= 70:
			good++
		case v.Score >= 50:
			fair++
		default:
			poor++
		}
		if v.Passed {
			passed++
		}
	}

	setLabeled(row, "Excellent (90-100):", excellent)
	row++
	setLabeled(row, "Good (70-89):", good)
	row++
	setLabeled(row, "Fair (50-69):", fair)
	row++
	setLabeled(row, "Poor (<50):", poor)
	row++
	setLabeled(row, "Passed:", passed)
	row++
	setLabeled(row, "Average Score:", fmt.Sprintf("%.2f", total/float64(len(views))))

	return nil
}

// createCandidatesSheet writes one row per candidate with score color-coding.
func createCandidatesSheet(f *excelize.File, sheetName string, views []models.CandidateView) error {
	widths := []float64{10, 25, 25, 18, 10, 8, 25, 25, 12, 14, 25, 40}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		f.SetColWidth(sheetName, col, col, w)
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}

	bandStyles := map[string]int{}
	for name, color := range map[string]string{
		"excellent": "C6EFCE",
		"good":      "FFEB9C",
		"fair":      "FFC7CE",
		"poor":      "FF9999",
	} {
		style, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: border,
		})
		if err != nil {
			return err
		}
		bandStyles[name] = style
	}

	headers := []string{
		"Rank", "Filename", "Email", "Phone", "Score", "Passed",
		"Skills Matched", "Skills Missing", "Experience", "Education",
		"Keywords Matched", "Reject Reasons",
	}
	for col, header := range headers {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		cell := fmt.Sprintf("%s1", name)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, v := range views {
		row := i + 2
		values := []interface{}{
			i + 1,
			v.Filename,
			strings.Join(v.Emails, "; "),
			strings.Join(v.Phones, "; "),
			v.Score,
			v.Passed,
			strings.Join(v.SkillsMatched, ", "),
			strings.Join(v.SkillsMissing, ", "),
			fmt.Sprintf("%.1f years", v.TotalExperienceYears),
			v.EducationFoundLevel,
			strings.Join(v.KeywordsMatched, ", "),
			strings.Join(v.RejectReasons, "; "),
		}
		for col, value := range values {
			name, err := excelize.ColumnNumberToName(col + 1)
			if err != nil {
				return err
			}
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", name, row), value)
		}

		style := bandStyles["poor"]
		switch {
		case v.Score >= 90:
			style = bandStyles["excellent"]
		case v.Score >= 70:
			style = bandStyles["good"]
		case v.Score >= 50:
			style = bandStyles["fair"]
		}
		last, err := excelize.ColumnNumberToName(len(values))
		if err != nil {
			return err
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", last, row), style)
	}

	return nil
}
