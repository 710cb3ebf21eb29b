package scoring

import (
	"fmt"

	"github.com/fmuoria/ats-filter/internal/models"
)

// Decide applies the mode-specific pass/reject policy on top of a match
// result. Reasons are empty exactly when the candidate passes.
//
// Strict mode hard-gates on every requirement category except keywords:
// all required skills present, experience and education floors met, and the
// score threshold cleared when one is set. Ranking mode surfaces a sorted
// pool instead, rejecting only on the score threshold.
func Decide(res *models.MatchResult, req *models.RequirementSet) (bool, []string) {
	reasons := []string{}

	scoreOK := req.MinScore == nil || res.Score >= *req.MinScore

	switch req.Mode {
	case models.ModeRanking:
		if !scoreOK {
			reasons = append(reasons, scoreReason(res, req))
		}
	default: // strict
		for _, skill := range res.SkillsMissing {
			reasons = append(reasons, "missing required skill: "+skill)
		}
		if !res.ExperienceOK {
			reasons = append(reasons, fmt.Sprintf(
				"experience below minimum: requires %.1f years", *req.MinExperience))
		}
		if !res.EducationOK {
			reasons = append(reasons, "education below minimum: requires "+req.Education)
		}
		if !scoreOK {
			reasons = append(reasons, scoreReason(res, req))
		}
	}

	return len(reasons) == 0, reasons
}

func scoreReason(res *models.MatchResult, req *models.RequirementSet) string {
	return fmt.Sprintf("score below threshold: %.2f (requires %.2f)", res.Score, *req.MinScore)
}
