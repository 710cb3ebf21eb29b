package extract

import (
	"regexp"
	"strconv"

	"github.com/fmuoria/ats-filter/internal/models"
)

// "3+ years", "5 yrs"
var minExperienceRe = regexp.MustCompile(`(\d+)\s*\+?\s*(?:years?|yrs?)`)

// ParseJobDescription runs the variant extraction path for job-description
// text, producing a RequirementSet the caller presents as editable defaults.
func (e *Extractor) ParseJobDescription(text string) models.RequirementSet {
	req := models.RequirementSet{
		Skills:   e.dict.MatchSkills(text),
		Keywords: e.dict.MatchKeywords(text),
		Mode:     models.ModeStrict,
	}

	if m := minExperienceRe.FindStringSubmatch(text); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			v := float64(years)
			req.MinExperience = &v
		}
	}

	if level := e.dict.HighestEducation(text); level != models.LevelNone {
		req.Education = level
	}

	return req
}
