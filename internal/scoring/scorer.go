// Package scoring compares parsed profiles against requirement sets and
// applies the mode-specific pass/reject policy. Scoring is a pure function
// of its inputs: no retries, no side effects.
package scoring

import (
	"math"
	"strings"

	"github.com/fmuoria/ats-filter/internal/models"
)

// Weights controls the contribution of each category to the total score.
// The exact split is configuration, not contract; any weighting keeps the
// guarantees that an unconstrained category contributes full credit and the
// score is monotonic in coverage.
type Weights struct {
	Skills     float64 `mapstructure:"skills"`
	Experience float64 `mapstructure:"experience"`
	Education  float64 `mapstructure:"education"`
	Keywords   float64 `mapstructure:"keywords"`
}

// DefaultWeights returns the standard split: skills dominate, experience
// second, education and keywords as tie-breakers.
func DefaultWeights() Weights {
	return Weights{Skills: 0.55, Experience: 0.25, Education: 0.10, Keywords: 0.10}
}

func (w Weights) sum() float64 {
	return w.Skills + w.Experience + w.Education + w.Keywords
}

// Scorer evaluates profiles against requirement sets.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer. Zero weights fall back to the default split.
func NewScorer(w Weights) *Scorer {
	if w.sum() <= 0 {
		w = DefaultWeights()
	}
	return &Scorer{weights: w}
}

// Score compares a profile against a requirement set. The requirement set
// must already be validated; Score itself cannot fail.
func (s *Scorer) Score(p *models.ParsedProfile, req *models.RequirementSet) models.MatchResult {
	res := models.MatchResult{}

	// A required skill counts as matched when its canonical token was
	// detected or when it occurs verbatim in the resume text, so a skill
	// missing from the dictionary can still be required by a recruiter.
	skillSet := p.SkillSet()
	res.SkillsMatched, res.SkillsMissing = partition(req.Skills, func(token string) bool {
		if _, ok := skillSet[token]; ok {
			return true
		}
		return containsToken(p.RawText, token)
	})

	keywordSet := p.KeywordSet()
	res.KeywordsMatched, res.KeywordsMissing = partition(req.Keywords, func(token string) bool {
		if _, ok := keywordSet[token]; ok {
			return true
		}
		return containsToken(p.RawText, token)
	})

	res.ExperienceOK = req.MinExperience == nil || p.TotalExperienceYears >= *req.MinExperience
	res.EducationOK = req.Education == "" ||
		models.EducationRank(p.EducationFoundLevel) >= models.EducationRank(req.Education)

	res.Breakdown = models.Breakdown{
		Skills:     coverage(len(res.SkillsMatched), len(req.Skills)),
		Keywords:   coverage(len(res.KeywordsMatched), len(req.Keywords)),
		Experience: binary(res.ExperienceOK),
		Education:  binary(res.EducationOK),
	}

	res.Score = s.weighted(res.Breakdown)
	return res
}

// partition splits required tokens into matched and missing, preserving
// requirement order. matched ∪ missing == required and the two are disjoint.
func partition(required []string, matches func(string) bool) (matched, missing []string) {
	matched = []string{}
	missing = []string{}
	for _, token := range required {
		if matches(token) {
			matched = append(matched, token)
		} else {
			missing = append(missing, token)
		}
	}
	return matched, missing
}

// containsToken reports a whole-token occurrence of token in text, padding
// with spaces so "sql" is not found inside "nosql".
func containsToken(text, token string) bool {
	if token == "" || text == "" {
		return false
	}
	padded := " " + nonAlnumToSpace(text) + " "
	return strings.Contains(padded, " "+nonAlnumToSpace(token)+" ")
}

func nonAlnumToSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// coverage is the percentage of required tokens present. An unconstrained
// category (nothing required) contributes full credit.
func coverage(matched, required int) float64 {
	if required == 0 {
		return 100
	}
	return float64(matched) / float64(required) * 100
}

func binary(ok bool) float64 {
	if ok {
		return 100
	}
	return 0
}

func (s *Scorer) weighted(b models.Breakdown) float64 {
	total := b.Skills*s.weights.Skills +
		b.Experience*s.weights.Experience +
		b.Education*s.weights.Education +
		b.Keywords*s.weights.Keywords
	total /= s.weights.sum()
	return math.Round(total*100) / 100
}
