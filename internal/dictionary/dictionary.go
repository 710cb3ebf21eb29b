// Package dictionary holds the vocabulary the fact extractor matches
// against: skill tokens, free-text keyword tokens and degree-level patterns.
// The tables are data, not code — they load from a YAML file at startup,
// falling back to an embedded default, so the matching logic stays testable
// in isolation from the vocabulary content.
package dictionary

import (
	"bytes"
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/fmuoria/ats-filter/internal/models"
)

//go:embed default.yaml
var defaultYAML []byte

// Entry maps one canonical token to the surface patterns that detect it.
type Entry struct {
	Token    string   `mapstructure:"token"`
	Patterns []string `mapstructure:"patterns"`
}

// LevelEntry maps an education level to its degree-keyword patterns.
type LevelEntry struct {
	Level    string   `mapstructure:"level"`
	Patterns []string `mapstructure:"patterns"`
}

// File is the on-disk dictionary layout.
type File struct {
	Skills    []Entry      `mapstructure:"skills"`
	Keywords  []Entry      `mapstructure:"keywords"`
	Education []LevelEntry `mapstructure:"education"`
}

type matcher struct {
	token    string
	patterns []*regexp.Regexp
}

type levelMatcher struct {
	level    string
	rank     int
	patterns []*regexp.Regexp
}

// Dictionary is a compiled vocabulary ready for whole-token matching
// against canonical (lower-cased) text.
type Dictionary struct {
	skills    []matcher
	keywords  []matcher
	education []levelMatcher
}

// Load reads and compiles a dictionary from path. An empty path loads the
// embedded default table.
func Load(path string) (*Dictionary, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path == "" {
		if err := v.ReadConfig(bytes.NewReader(defaultYAML)); err != nil {
			return nil, fmt.Errorf("reading embedded dictionary: %w", err)
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading dictionary file %s: %w", path, err)
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("parsing dictionary: %w", err)
	}

	return Compile(f)
}

// Compile builds whole-token matchers from a dictionary file. Patterns match
// only between non-alphanumeric boundaries, so "go" never matches inside
// "django" and "bs" never matches inside "jobs".
func Compile(f File) (*Dictionary, error) {
	d := &Dictionary{}

	var err error
	if d.skills, err = compileEntries("skills", f.Skills); err != nil {
		return nil, err
	}
	if d.keywords, err = compileEntries("keywords", f.Keywords); err != nil {
		return nil, err
	}

	for _, e := range f.Education {
		rank := models.EducationRank(e.Level)
		if rank < 0 {
			return nil, fmt.Errorf("education: unknown level %q", e.Level)
		}
		lm := levelMatcher{level: strings.ToLower(e.Level), rank: rank}
		for _, p := range e.Patterns {
			re, err := compilePattern(p)
			if err != nil {
				return nil, fmt.Errorf("education level %q: %w", e.Level, err)
			}
			lm.patterns = append(lm.patterns, re)
		}
		d.education = append(d.education, lm)
	}

	return d, nil
}

func compileEntries(category string, entries []Entry) ([]matcher, error) {
	out := make([]matcher, 0, len(entries))
	for _, e := range entries {
		token := strings.ToLower(strings.TrimSpace(e.Token))
		if token == "" {
			return nil, fmt.Errorf("%s: entry with empty token", category)
		}
		m := matcher{token: token}
		patterns := e.Patterns
		if len(patterns) == 0 {
			patterns = []string{token}
		}
		for _, p := range patterns {
			re, err := compilePattern(p)
			if err != nil {
				return nil, fmt.Errorf("%s token %q: %w", category, token, err)
			}
			m.patterns = append(m.patterns, re)
		}
		out = append(out, m)
	}
	return out, nil
}

// compilePattern anchors a literal pattern between non-alphanumeric
// boundaries. regexp's \b is wrong for tokens like "c++" or "node.js" whose
// edges are not word characters.
func compilePattern(p string) (*regexp.Regexp, error) {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	return regexp.Compile(`(^|[^a-z0-9])` + regexp.QuoteMeta(p) + `($|[^a-z0-9])`)
}

// MatchSkills returns the canonical skill tokens present in text, in
// dictionary order, deduplicated.
func (d *Dictionary) MatchSkills(text string) []string {
	return matchAll(d.skills, text)
}

// MatchKeywords returns the canonical keyword tokens present in text.
func (d *Dictionary) MatchKeywords(text string) []string {
	return matchAll(d.keywords, text)
}

func matchAll(ms []matcher, text string) []string {
	var out []string
	for _, m := range ms {
		for _, re := range m.patterns {
			if re.MatchString(text) {
				out = append(out, m.token)
				break
			}
		}
	}
	return out
}

// HighestEducation returns the highest level on the education scale whose
// patterns occur in text, or models.LevelNone when nothing matches.
func (d *Dictionary) HighestEducation(text string) string {
	best := models.LevelNone
	bestRank := models.EducationRank(models.LevelNone)
	for _, lm := range d.education {
		if lm.rank <= bestRank {
			continue
		}
		for _, re := range lm.patterns {
			if re.MatchString(text) {
				best = lm.level
				bestRank = lm.rank
				break
			}
		}
	}
	return best
}
