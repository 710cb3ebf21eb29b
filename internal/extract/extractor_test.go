package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fmuoria/ats-filter/internal/dictionary"
	"github.com/fmuoria/ats-filter/internal/models"
	"github.com/fmuoria/ats-filter/internal/textnorm"
)

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	dict, err := dictionary.Load("")
	require.NoError(t, err)
	return New(dict, zap.NewNop()).WithClock(func() time.Time {
		return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	})
}

func TestExtractContacts(t *testing.T) {
	e := testExtractor(t)

	text := textnorm.Normalize(
		"John Doe\n" +
			"john.doe@example.com | +1 (555) 123-4567\n" +
			"backup: JOHN.DOE@example.com, jd+work@mail.co\n" +
			"office: 021 7654 3210",
	)
	p := e.Extract("id-1", "john.pdf", text)

	assert.Equal(t, []string{"john.doe@example.com", "jd+work@mail.co"}, p.Emails,
		"emails deduplicated in first-seen order")
	assert.Equal(t, []string{"+1 (555) 123-4567", "021 7654 3210"}, p.Phones)
}

func TestExtractContactsDegradeToEmpty(t *testing.T) {
	e := testExtractor(t)

	p := e.Extract("id-2", "sparse.pdf", "no contact details at all")

	assert.Empty(t, p.Emails)
	assert.Empty(t, p.Phones)
	assert.Zero(t, p.TotalExperienceYears)
	assert.Equal(t, models.LevelNone, p.EducationFoundLevel)
	assert.Empty(t, p.Skills)
}

func TestExperienceYears(t *testing.T) {
	e := testExtractor(t)

	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "month range",
			text: "backend developer\njan 2019 - mar 2022",
			want: 3.2,
		},
		{
			name: "year range without spaces",
			text: "analyst 2018-2021",
			want: 4.0,
		},
		{
			name: "open ended resolves to processing date",
			text: "engineer 2020 - present",
			want: 5.5,
		},
		{
			name: "non-overlapping ranges sum exactly",
			text: "jan 2010 - jan 2012 first role\njan 2015 - jan 2016 second role",
			want: 3.0,
		},
		{
			name: "overlapping ranges merge instead of double-counting",
			text: "lead engineer jan 2019 - jan 2021\nsame role listed again 2019 - 2021",
			want: 3.0,
		},
		{
			name: "en dash separator",
			text: "designer feb 2021 – present",
			want: 4.4,
		},
		{
			name: "inverted range is skipped",
			text: "typo role 2022 - 2019",
			want: 0,
		},
		{
			name: "no date ranges means zero",
			text: "ten years of experience mentioned in prose, class of 1999 and 2005",
			want: 0,
		},
		{
			name: "empty text",
			text: "",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, e.experienceYears(tt.text), 0.001)
		})
	}
}

func TestExperienceCapped(t *testing.T) {
	e := testExtractor(t)

	years := e.experienceYears("1900 - 2020 family business")
	assert.InDelta(t, 50.0, years, 0.001)
}

func TestExtractFullProfile(t *testing.T) {
	e := testExtractor(t)

	text := textnorm.Normalize(`
Jane Smith
jane@corp.io
B.Sc Computer Science, later M.Sc Data Engineering

Experience
Jan 2018 - Dec 2020  Data Engineer: Python, SQL, Docker pipelines
2021 - Present       Team lead, mentoring and stakeholder management
`)
	p := e.Extract("id-3", "jane.pdf", text)

	assert.Equal(t, "id-3", p.ID)
	assert.Equal(t, "jane.pdf", p.Filename)
	assert.Equal(t, []string{"jane@corp.io"}, p.Emails)
	assert.Equal(t, "master", p.EducationFoundLevel)
	assert.ElementsMatch(t, []string{"python", "sql", "docker"}, p.Skills)
	assert.Subset(t, p.Keywords, []string{"mentoring", "stakeholder management"})
	assert.Greater(t, p.TotalExperienceYears, 6.0)
}

func TestParseJobDescription(t *testing.T) {
	e := testExtractor(t)

	text := textnorm.Normalize(
		"Senior Backend Engineer\n" +
			"5+ years building services in Python and Go on AWS.\n" +
			"Bachelor degree required. Strong leadership and communication.",
	)
	req := e.ParseJobDescription(text)

	assert.ElementsMatch(t, []string{"python", "go", "aws"}, req.Skills)
	require.NotNil(t, req.MinExperience)
	assert.Equal(t, 5.0, *req.MinExperience)
	assert.Equal(t, "bachelor", req.Education)
	assert.ElementsMatch(t, []string{"leadership", "communication"}, req.Keywords)
	assert.Equal(t, models.ModeStrict, req.Mode)
}

func TestParseJobDescriptionDefaults(t *testing.T) {
	e := testExtractor(t)

	req := e.ParseJobDescription("looking for someone nice")

	assert.Empty(t, req.Skills)
	assert.Nil(t, req.MinExperience)
	assert.Empty(t, req.Education)
	assert.NoError(t, req.Validate())
}
