package screener

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fmuoria/ats-filter/internal/dictionary"
	"github.com/fmuoria/ats-filter/internal/extract"
	"github.com/fmuoria/ats-filter/internal/ingestion"
	"github.com/fmuoria/ats-filter/internal/models"
	"github.com/fmuoria/ats-filter/internal/scoring"
	"github.com/fmuoria/ats-filter/internal/store"
)

func newTestScreener(t *testing.T) *Screener {
	t.Helper()
	dict, err := dictionary.Load("")
	require.NoError(t, err)

	ex := extract.New(dict, zap.NewNop()).WithClock(func() time.Time {
		return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	})
	files := ingestion.NewFileHandler(filepath.Join(t.TempDir(), "uploads"))
	return New(store.New(), ex, scoring.NewScorer(scoring.DefaultWeights()), files, zap.NewNop())
}

func ingestDocs(t *testing.T, s *Screener, docs ...Document) []*models.ParsedProfile {
	t.Helper()
	profiles, err := s.Ingest(context.Background(), docs)
	require.NoError(t, err)
	return profiles
}

func TestIngestBatch(t *testing.T) {
	s := newTestScreener(t)

	profiles := ingestDocs(t, s,
		Document{Filename: "a.pdf", Text: "Python developer\njan 2020 - present\nalice@a.io", Raw: []byte("pdf-a")},
		Document{Filename: "b.pdf", Text: "SQL analyst, bachelor of science", Raw: []byte("pdf-b")},
	)

	require.Len(t, profiles, 2)
	assert.Equal(t, "a.pdf", profiles[0].Filename, "input order preserved")
	assert.Equal(t, "b.pdf", profiles[1].Filename)
	assert.NotEqual(t, profiles[0].ID, profiles[1].ID)
	assert.Equal(t, []string{"python"}, profiles[0].Skills)
	assert.Equal(t, "bachelor", profiles[1].EducationFoundLevel)
	assert.Equal(t, 2, s.Store().Len())
}

func TestFilterStrictKeepsPassingOnly(t *testing.T) {
	s := newTestScreener(t)
	ingestDocs(t, s,
		Document{Filename: "both.pdf", Text: "python and sql work"},
		Document{Filename: "python-only.pdf", Text: "python scripting"},
	)

	views, err := s.Filter(&models.RequirementSet{
		Skills: []string{"python", "sql"},
		Mode:   models.ModeStrict,
	})
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, "both.pdf", views[0].Filename)
	assert.True(t, views[0].Passed)
	assert.Empty(t, views[0].RejectReasons)
}

func TestFilterRankingSortsByScoreDescending(t *testing.T) {
	s := newTestScreener(t)
	ingestDocs(t, s,
		Document{Filename: "weak.pdf", Text: "nothing relevant here"},
		Document{Filename: "strong.pdf", Text: "python, sql and docker daily"},
		Document{Filename: "middle.pdf", Text: "python scripts"},
	)

	views, err := s.Filter(&models.RequirementSet{
		Skills: []string{"python", "sql", "docker"},
		Mode:   models.ModeRanking,
	})
	require.NoError(t, err)

	require.Len(t, views, 3, "ranking mode keeps non-passing candidates")
	assert.Equal(t, "strong.pdf", views[0].Filename)
	assert.Equal(t, "middle.pdf", views[1].Filename)
	assert.Equal(t, "weak.pdf", views[2].Filename)
	assert.GreaterOrEqual(t, views[0].Score, views[1].Score)
	assert.GreaterOrEqual(t, views[1].Score, views[2].Score)
}

func TestFilterTiesKeepInsertionOrder(t *testing.T) {
	s := newTestScreener(t)
	ingestDocs(t, s,
		Document{Filename: "first.pdf", Text: "python"},
		Document{Filename: "second.pdf", Text: "python again"},
	)

	views, err := s.Filter(&models.RequirementSet{
		Skills: []string{"python"},
		Mode:   models.ModeRanking,
	})
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, views[0].Score, views[1].Score)
	assert.Equal(t, "first.pdf", views[0].Filename)
	assert.Equal(t, "second.pdf", views[1].Filename)
}

func TestFilterInvalidRequirement(t *testing.T) {
	s := newTestScreener(t)

	neg := -1.0
	_, err := s.Filter(&models.RequirementSet{MinExperience: &neg, Mode: models.ModeStrict})
	require.Error(t, err)

	var invalid *models.InvalidRequirementError
	assert.ErrorAs(t, err, &invalid)

	_, err = s.Filter(&models.RequirementSet{Mode: "fuzzy"})
	assert.ErrorAs(t, err, &invalid)
}

func TestCompare(t *testing.T) {
	s := newTestScreener(t)
	profiles := ingestDocs(t, s,
		Document{Filename: "a.pdf", Text: "python"},
		Document{Filename: "b.pdf", Text: "sql"},
		Document{Filename: "c.pdf", Text: "docker"},
	)

	req := &models.RequirementSet{Skills: []string{"python"}, Mode: models.ModeRanking}
	views, err := s.Compare([]string{profiles[2].ID, profiles[0].ID}, req)
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, "c.pdf", views[0].Filename, "compare keeps input id order, unsorted")
	assert.Equal(t, "a.pdf", views[1].Filename)
}

func TestCompareInsufficientCandidates(t *testing.T) {
	s := newTestScreener(t)
	profiles := ingestDocs(t, s, Document{Filename: "a.pdf", Text: "python"})

	req := &models.RequirementSet{Mode: models.ModeStrict}
	_, err := s.Compare([]string{profiles[0].ID, "ghost-1", "ghost-2"}, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientCandidates)
}

func TestClearThenIngest(t *testing.T) {
	s := newTestScreener(t)
	ingestDocs(t, s, Document{Filename: "a.pdf", Text: "python", Raw: []byte("x")})

	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Store().Len())

	profiles := ingestDocs(t, s, Document{Filename: "b.pdf", Text: "sql"})
	assert.Len(t, profiles, 1)
	assert.Equal(t, 1, s.Store().Len())
}

func TestParseJobDescription(t *testing.T) {
	s := newTestScreener(t)

	req := s.ParseJobDescription("Backend role: Python, Docker. 3+ years. Master degree preferred. Leadership.")
	assert.ElementsMatch(t, []string{"python", "docker"}, req.Skills)
	require.NotNil(t, req.MinExperience)
	assert.Equal(t, 3.0, *req.MinExperience)
	assert.Equal(t, "master", req.Education)
	assert.Contains(t, req.Keywords, "leadership")
}

func TestEmptyRequirementMatchesEverything(t *testing.T) {
	s := newTestScreener(t)
	ingestDocs(t, s,
		Document{Filename: "a.pdf", Text: "python"},
		Document{Filename: "b.pdf", Text: "completely unrelated"},
	)

	views, err := s.Filter(&models.RequirementSet{Mode: models.ModeStrict})
	require.NoError(t, err)

	require.Len(t, views, 2)
	for _, v := range views {
		assert.InDelta(t, 100.0, v.Score, 0.001)
		assert.True(t, v.Passed)
	}
}
