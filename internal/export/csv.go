// Package export renders scored candidate views as recruiter-facing files:
// a flat CSV shortlist and a styled Excel workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fmuoria/ats-filter/internal/models"
)

var csvHeader = []string{
	"id", "filename", "email", "phone", "score", "passed",
	"skills_required", "skills_matched", "skills_missing",
	"experience_years", "education_found_level",
	"keywords_required", "keywords_matched",
	"reject_reasons",
}

// WriteCSV streams the candidate views as CSV. Multi-value cells are
// ";"-joined so the file stays one row per candidate.
func WriteCSV(w io.Writer, views []models.CandidateView) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, v := range views {
		record := []string{
			v.ID,
			v.Filename,
			strings.Join(v.Emails, ";"),
			strings.Join(v.Phones, ";"),
			fmt.Sprintf("%.2f", v.Score),
			strconv.FormatBool(v.Passed),
			strings.Join(v.SkillsRequired, ";"),
			strings.Join(v.SkillsMatched, ";"),
			strings.Join(v.SkillsMissing, ";"),
			fmt.Sprintf("%.1f", v.TotalExperienceYears),
			v.EducationFoundLevel,
			strings.Join(v.KeywordsRequired, ";"),
			strings.Join(v.KeywordsMatched, ";"),
			strings.Join(v.RejectReasons, ";"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", v.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSVFilename returns a timestamped attachment name for a CSV export.
func CSVFilename(now time.Time) string {
	return "ats_export_" + now.UTC().Format("20060102_150405") + ".csv"
}

// ExcelFilename returns a timestamped attachment name for an Excel export.
func ExcelFilename(now time.Time) string {
	return "ats_export_" + now.UTC().Format("20060102_150405") + ".xlsx"
}
