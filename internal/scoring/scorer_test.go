package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmuoria/ats-filter/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func validated(t *testing.T, req *models.RequirementSet) *models.RequirementSet {
	t.Helper()
	require.NoError(t, req.Validate())
	return req
}

func TestScoreSkillPartition(t *testing.T) {
	s := NewScorer(DefaultWeights())
	profile := &models.ParsedProfile{
		ID:     "c1",
		Skills: []string{"python", "sql"},
	}
	req := validated(t, &models.RequirementSet{
		Skills: []string{"python", "sql", "java"},
		Mode:   models.ModeStrict,
	})

	res := s.Score(profile, req)

	assert.Equal(t, []string{"python", "sql"}, res.SkillsMatched)
	assert.Equal(t, []string{"java"}, res.SkillsMissing)
	assert.InDelta(t, 81.67, res.Score, 0.001)

	passed, reasons := Decide(&res, req)
	assert.False(t, passed)
	assert.Contains(t, reasons, "missing required skill: java")
}

func TestScorePartitionRoundTrip(t *testing.T) {
	s := NewScorer(DefaultWeights())
	profile := &models.ParsedProfile{Skills: []string{"go", "docker", "aws"}}

	reqs := [][]string{
		{},
		{"go"},
		{"go", "rust", "docker"},
		{"rust", "scala"},
	}
	for _, skills := range reqs {
		req := validated(t, &models.RequirementSet{Skills: skills, Mode: models.ModeStrict})
		res := s.Score(profile, req)

		union := append(append([]string{}, res.SkillsMatched...), res.SkillsMissing...)
		assert.ElementsMatch(t, req.Skills, union, "matched ∪ missing must equal required")
		for _, m := range res.SkillsMatched {
			assert.NotContains(t, res.SkillsMissing, m, "matched and missing must be disjoint")
		}
	}
}

func TestScoreRawTextFallback(t *testing.T) {
	s := NewScorer(DefaultWeights())
	// Skill absent from the detected set but present verbatim in the text.
	profile := &models.ParsedProfile{
		RawText: "built terraform modules for infra, nosql stores",
		Skills:  []string{},
	}

	req := validated(t, &models.RequirementSet{Skills: []string{"terraform"}, Mode: models.ModeStrict})
	res := s.Score(profile, req)
	assert.Equal(t, []string{"terraform"}, res.SkillsMatched)

	// Whole-token only: "sql" must not match inside "nosql".
	req = validated(t, &models.RequirementSet{Skills: []string{"sql"}, Mode: models.ModeStrict})
	res = s.Score(profile, req)
	assert.Equal(t, []string{"sql"}, res.SkillsMissing)
}

func TestScoreExperienceFloor(t *testing.T) {
	s := NewScorer(DefaultWeights())
	profile := &models.ParsedProfile{TotalExperienceYears: 5.0}

	okReq := validated(t, &models.RequirementSet{MinExperience: floatPtr(3), Mode: models.ModeStrict})
	res := s.Score(profile, okReq)
	assert.True(t, res.ExperienceOK)
	passed, reasons := Decide(&res, okReq)
	assert.True(t, passed)
	assert.Empty(t, reasons)

	failReq := validated(t, &models.RequirementSet{MinExperience: floatPtr(6), Mode: models.ModeStrict})
	res = s.Score(profile, failReq)
	assert.False(t, res.ExperienceOK)
	assert.InDelta(t, 75.0, res.Score, 0.001)
	passed, reasons = Decide(&res, failReq)
	assert.False(t, passed)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "experience below minimum")
}

func TestScoreEducationFloor(t *testing.T) {
	s := NewScorer(DefaultWeights())

	tests := []struct {
		name     string
		found    string
		required string
		wantOK   bool
	}{
		{"exact level", "bachelor", "bachelor", true},
		{"higher level passes", "phd", "master", true},
		{"lower level fails", "bachelor", "master", false},
		{"nothing detected fails", models.LevelNone, "highschool", false},
		{"unconstrained always ok", models.LevelNone, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &models.ParsedProfile{EducationFoundLevel: tt.found}
			req := validated(t, &models.RequirementSet{Education: tt.required, Mode: models.ModeStrict})

			res := s.Score(profile, req)
			assert.Equal(t, tt.wantOK, res.EducationOK)

			passed, reasons := Decide(&res, req)
			assert.Equal(t, tt.wantOK, passed)
			if !tt.wantOK {
				assert.Contains(t, reasons[0], "education below minimum")
			}
		})
	}
}

func TestScoreEmptyRequirementSet(t *testing.T) {
	s := NewScorer(DefaultWeights())
	profiles := []*models.ParsedProfile{
		{},
		{Skills: []string{"python"}, TotalExperienceYears: 12, EducationFoundLevel: "phd"},
		{RawText: "anything at all"},
	}

	for _, mode := range []string{models.ModeStrict, models.ModeRanking} {
		req := validated(t, &models.RequirementSet{Mode: mode})
		for _, p := range profiles {
			res := s.Score(p, req)
			assert.InDelta(t, 100.0, res.Score, 0.001)

			passed, reasons := Decide(&res, req)
			assert.True(t, passed)
			assert.Empty(t, reasons)
		}
	}
}

func TestRankingModeToleratesMissingSkills(t *testing.T) {
	s := NewScorer(DefaultWeights())
	profile := &models.ParsedProfile{Skills: []string{"python"}}

	req := validated(t, &models.RequirementSet{
		Skills: []string{"python", "java"},
		Mode:   models.ModeRanking,
	})
	res := s.Score(profile, req)
	require.NotEmpty(t, res.SkillsMissing)

	passed, reasons := Decide(&res, req)
	assert.True(t, passed, "ranking mode must not gate on missing skills")
	assert.Empty(t, reasons)

	// The same result fails once a score threshold is set above the score.
	req.MinScore = floatPtr(90)
	passed, reasons = Decide(&res, req)
	assert.False(t, passed)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "score below threshold")
}

func TestStrictModeIgnoresMissingKeywords(t *testing.T) {
	s := NewScorer(DefaultWeights())
	profile := &models.ParsedProfile{Keywords: []string{}}

	req := validated(t, &models.RequirementSet{
		Keywords: []string{"leadership"},
		Mode:     models.ModeStrict,
	})
	res := s.Score(profile, req)
	assert.Equal(t, []string{"leadership"}, res.KeywordsMissing)
	assert.InDelta(t, 90.0, res.Score, 0.001)

	passed, reasons := Decide(&res, req)
	assert.True(t, passed, "missing keywords lower the score but do not gate strict mode")
	assert.Empty(t, reasons)
}

func TestScoreMonotonicInCoverage(t *testing.T) {
	s := NewScorer(DefaultWeights())
	req := validated(t, &models.RequirementSet{
		Skills: []string{"go", "python", "sql", "docker"},
		Mode:   models.ModeRanking,
	})

	prev := -1.0
	for i := 0; i <= 4; i++ {
		profile := &models.ParsedProfile{Skills: req.Skills[:i]}
		res := s.Score(profile, req)
		assert.Greater(t, res.Score, prev, "score must grow with coverage")
		prev = res.Score
	}
}

func TestCustomWeights(t *testing.T) {
	s := NewScorer(Weights{Skills: 1, Experience: 1, Education: 1, Keywords: 1})
	profile := &models.ParsedProfile{Skills: []string{"go"}}
	req := validated(t, &models.RequirementSet{
		Skills:        []string{"go", "rust"},
		MinExperience: floatPtr(1),
		Mode:          models.ModeRanking,
	})

	res := s.Score(profile, req)
	// (50 + 0 + 100 + 100) / 4
	assert.InDelta(t, 62.5, res.Score, 0.001)
}

func TestZeroWeightsFallBackToDefault(t *testing.T) {
	s := NewScorer(Weights{})
	assert.Equal(t, DefaultWeights(), s.weights)
}
