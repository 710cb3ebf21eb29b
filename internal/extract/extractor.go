// Package extract turns canonical resume text into a structured profile.
// Extraction never fails outright: each sub-extractor degrades to its zero
// value independently, so one malformed resume section cannot block the
// rest of the profile.
package extract

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fmuoria/ats-filter/internal/dictionary"
	"github.com/fmuoria/ats-filter/internal/models"
)

var (
	emailRe = regexp.MustCompile(`[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
)

// Extractor applies pattern and dictionary rules to normalized text.
type Extractor struct {
	dict   *dictionary.Dictionary
	logger *zap.Logger
	now    func() time.Time
}

// New creates an extractor backed by the given dictionary.
func New(dict *dictionary.Dictionary, logger *zap.Logger) *Extractor {
	return &Extractor{
		dict:   dict,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the processing-date clock used to resolve open-ended
// date ranges ("2020 - present"). Intended for tests.
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

// Extract fills a profile from normalized text. The identifier and filename
// are supplied by the caller; extraction fills the rest.
func (e *Extractor) Extract(id, filename, text string) *models.ParsedProfile {
	p := &models.ParsedProfile{
		ID:       id,
		Filename: filename,
		RawText:  text,
	}

	p.Emails = distinctMatches(emailRe, text)
	p.Phones = distinctMatches(phoneRe, text)
	p.TotalExperienceYears = e.experienceYears(text)
	p.EducationFoundLevel = e.dict.HighestEducation(text)
	p.Skills = e.dict.MatchSkills(text)
	p.Keywords = e.dict.MatchKeywords(text)

	e.logDegradations(p)
	return p
}

// distinctMatches returns all regexp matches deduplicated in first-seen
// order. Ambiguous matches are kept as-is: false positives are tolerated,
// dropped candidates are not.
func distinctMatches(re *regexp.Regexp, text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range re.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

func (e *Extractor) logDegradations(p *models.ParsedProfile) {
	if e.logger == nil {
		return
	}
	var empty []string
	if len(p.Emails) == 0 && len(p.Phones) == 0 {
		empty = append(empty, "contacts")
	}
	if p.TotalExperienceYears == 0 {
		empty = append(empty, "experience")
	}
	if p.EducationFoundLevel == models.LevelNone {
		empty = append(empty, "education")
	}
	if len(p.Skills) == 0 {
		empty = append(empty, "skills")
	}
	if len(empty) > 0 {
		e.logger.Debug("extraction degraded to defaults",
			zap.String("id", p.ID),
			zap.String("filename", p.Filename),
			zap.Strings("empty_categories", empty),
		)
	}
}
