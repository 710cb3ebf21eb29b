package models

import "strings"

// Matching modes accepted in a RequirementSet.
const (
	ModeStrict  = "strict"
	ModeRanking = "ranking"
)

// EducationLevels is the ordered education scale, lowest first. LevelNone
// means no degree keyword was detected.
var EducationLevels = []string{
	LevelNone,
	"highschool",
	"diploma",
	"bachelor",
	"master",
	"phd",
}

// LevelNone is the zero value of the education scale.
const LevelNone = "none"

// EducationRank returns the position of a level on the education scale,
// or -1 for an unknown level.
func EducationRank(level string) int {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return -1
	}
	for i, l := range EducationLevels {
		if l == level {
			return i
		}
	}
	return -1
}

// ValidEducationLevel reports whether level is on the education scale.
func ValidEducationLevel(level string) bool {
	return EducationRank(level) >= 0
}

// ParsedProfile holds the structured facts extracted from one candidate
// document. Profiles are immutable after extraction; the store owns them
// until an explicit clear.
type ParsedProfile struct {
	ID                   string   `json:"id"`
	Filename             string   `json:"filename"`
	RawText              string   `json:"-"`
	Emails               []string `json:"email"`
	Phones               []string `json:"phone"`
	TotalExperienceYears float64  `json:"total_experience_years"`
	EducationFoundLevel  string   `json:"education_found_level"`
	Skills               []string `json:"skills_detected"`
	Keywords             []string `json:"keywords_detected"`
}

// SkillSet returns the profile skills as a lookup set.
func (p *ParsedProfile) SkillSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Skills))
	for _, s := range p.Skills {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}

// KeywordSet returns the profile keywords as a lookup set.
func (p *ParsedProfile) KeywordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Keywords))
	for _, k := range p.Keywords {
		set[strings.ToLower(k)] = struct{}{}
	}
	return set
}

// RequirementSet carries normalized recruiter or JD-derived criteria for one
// filter/compare/export request. An all-empty set matches every profile at
// the maximum score.
type RequirementSet struct {
	Skills        []string `json:"skills" mapstructure:"skills"`
	MinExperience *float64 `json:"min_experience" mapstructure:"min-experience" validate:"omitempty,gte=0"`
	Education     string   `json:"education" mapstructure:"education" validate:"omitempty,education_level"`
	Keywords      []string `json:"keywords" mapstructure:"keywords"`
	MinScore      *float64 `json:"min_score" mapstructure:"min-score" validate:"omitempty,gte=0,lte=100"`
	Mode          string   `json:"mode" mapstructure:"mode" validate:"required,oneof=strict ranking"`
}

// Normalize lower-cases and deduplicates the skill and keyword lists,
// dropping blank entries while preserving first-seen order, and defaults the
// mode to strict.
func (r *RequirementSet) Normalize() {
	r.Skills = normalizeTokens(r.Skills)
	r.Keywords = normalizeTokens(r.Keywords)
	r.Education = strings.ToLower(strings.TrimSpace(r.Education))
	r.Mode = strings.ToLower(strings.TrimSpace(r.Mode))
	if r.Mode == "" {
		r.Mode = ModeStrict
	}
}

func normalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Breakdown carries the per-category sub-scores (percentages) that feed the
// weighted total.
type Breakdown struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Keywords   float64 `json:"keywords"`
}

// MatchResult is the outcome of scoring one profile against one
// RequirementSet. It is owned by the caller and never retained by the store.
type MatchResult struct {
	SkillsMatched   []string  `json:"skills_matched"`
	SkillsMissing   []string  `json:"skills_missing"`
	KeywordsMatched []string  `json:"keywords_matched"`
	KeywordsMissing []string  `json:"keywords_missing"`
	ExperienceOK    bool      `json:"experience_ok"`
	EducationOK     bool      `json:"education_ok"`
	Score           float64   `json:"score"`
	Passed          bool      `json:"passed"`
	RejectReasons   []string  `json:"reject_reasons"`
	Breakdown       Breakdown `json:"weights"`
}

// CandidateView merges a profile with its match result, the shape returned
// by the filter, compare and export operations.
type CandidateView struct {
	ID                   string   `json:"id"`
	Filename             string   `json:"filename"`
	Emails               []string `json:"email"`
	Phones               []string `json:"phone"`
	SkillsDetected       []string `json:"skills_detected"`
	TotalExperienceYears float64  `json:"total_experience_years"`
	EducationFoundLevel  string   `json:"education_found_level"`
	SkillsRequired       []string `json:"skills_required"`
	EducationRequired    string   `json:"education_required"`
	KeywordsRequired     []string `json:"keywords_required"`
	ModeUsed             string   `json:"mode_used"`
	FileURL              string   `json:"file_url,omitempty"`

	MatchResult
}
