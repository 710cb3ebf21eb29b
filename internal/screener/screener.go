// Package screener orchestrates the screening engine: document text goes
// through normalization and extraction into the candidate store, and stored
// profiles are scored against requirement sets on filter, compare and
// export requests.
package screener

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fmuoria/ats-filter/internal/extract"
	"github.com/fmuoria/ats-filter/internal/ingestion"
	"github.com/fmuoria/ats-filter/internal/models"
	"github.com/fmuoria/ats-filter/internal/scoring"
	"github.com/fmuoria/ats-filter/internal/store"
	"github.com/fmuoria/ats-filter/internal/textnorm"
)

// ErrInsufficientCandidates is returned by Compare when fewer than two of
// the requested identifiers resolve to stored profiles.
var ErrInsufficientCandidates = errors.New("at least 2 valid candidates required for comparison")

// maxIDRetries bounds the fresh-identifier retry loop on store collisions.
const maxIDRetries = 5

// Document is one uploaded candidate document: the plain text produced by
// the external text-extraction collaborator, plus the original bytes kept
// for the file-serving collaborator.
type Document struct {
	Filename string
	Text     string
	Raw      []byte
}

// Screener wires the engine components together.
type Screener struct {
	store     *store.CandidateStore
	extractor *extract.Extractor
	scorer    *scoring.Scorer
	files     *ingestion.FileHandler
	logger    *zap.Logger
}

// New creates a screener around the given components.
func New(st *store.CandidateStore, ex *extract.Extractor, sc *scoring.Scorer, files *ingestion.FileHandler, logger *zap.Logger) *Screener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Screener{store: st, extractor: ex, scorer: sc, files: files, logger: logger}
}

// Store exposes the candidate store for callers that only need counts.
func (s *Screener) Store() *store.CandidateStore {
	return s.store
}

// Ingest normalizes, extracts and stores a batch of documents. Documents are
// processed concurrently; the store insert is the only shared step. Returned
// profiles keep the input order.
func (s *Screener) Ingest(ctx context.Context, docs []Document) ([]*models.ParsedProfile, error) {
	profiles := make([]*models.ParsedProfile, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			p, err := s.ingestOne(doc)
			if err != nil {
				return fmt.Errorf("ingesting %s: %w", doc.Filename, err)
			}
			profiles[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *Screener) ingestOne(doc Document) (*models.ParsedProfile, error) {
	text := textnorm.Normalize(doc.Text)
	p := s.extractor.Extract(uuid.NewString(), doc.Filename, text)

	var err error
	for attempt := 0; attempt < maxIDRetries; attempt++ {
		if err = s.store.Add(p); err == nil {
			break
		}
		if !errors.Is(err, store.ErrDuplicateID) {
			return nil, err
		}
		p.ID = uuid.NewString()
	}
	if err != nil {
		return nil, err
	}

	if len(doc.Raw) > 0 && s.files != nil {
		if _, err := s.files.Save(p.ID, doc.Filename, bytes.NewReader(doc.Raw)); err != nil {
			return nil, err
		}
	}

	s.logger.Info("candidate parsed",
		zap.String("id", p.ID),
		zap.String("filename", p.Filename),
		zap.Float64("experience_years", p.TotalExperienceYears),
		zap.String("education", p.EducationFoundLevel),
		zap.Int("skills", len(p.Skills)),
	)
	return p, nil
}

// Filter scores every stored profile against the requirement set. Strict
// mode returns only passing candidates; ranking mode returns all. Both are
// sorted by score descending, ties broken by insertion order.
func (s *Screener) Filter(req *models.RequirementSet) ([]models.CandidateView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	views := s.evaluate(s.store.All(), req)
	if req.Mode == models.ModeStrict {
		passed := make([]models.CandidateView, 0, len(views))
		for _, v := range views {
			if v.Passed {
				passed = append(passed, v)
			}
		}
		views = passed
	}

	sort.SliceStable(views, func(i, j int) bool { return views[i].Score > views[j].Score })

	s.logger.Info("filter applied",
		zap.String("mode", req.Mode),
		zap.Int("stored", s.store.Len()),
		zap.Int("returned", len(views)),
	)
	return views, nil
}

// Compare scores the profiles for the requested identifiers only, keeping
// the input id order. At least two identifiers must resolve.
func (s *Screener) Compare(ids []string, req *models.RequirementSet) ([]models.CandidateView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	profiles := s.store.GetByIDs(ids)
	if len(profiles) < 2 {
		return nil, fmt.Errorf("%w: %d of %d ids resolved", ErrInsufficientCandidates, len(profiles), len(ids))
	}

	return s.evaluate(profiles, req), nil
}

// ParseJobDescription runs the JD variant extraction path on raw JD text,
// producing a requirement set to present as editable defaults.
func (s *Screener) ParseJobDescription(raw string) models.RequirementSet {
	return s.extractor.ParseJobDescription(textnorm.Normalize(raw))
}

// Clear empties the candidate store and the stored document files.
func (s *Screener) Clear() error {
	s.store.Clear()
	if s.files != nil {
		if err := s.files.Clear(); err != nil {
			return err
		}
	}
	s.logger.Info("candidate store cleared")
	return nil
}

func (s *Screener) evaluate(profiles []*models.ParsedProfile, req *models.RequirementSet) []models.CandidateView {
	views := make([]models.CandidateView, 0, len(profiles))
	for _, p := range profiles {
		res := s.scorer.Score(p, req)
		res.Passed, res.RejectReasons = scoring.Decide(&res, req)

		views = append(views, models.CandidateView{
			ID:                   p.ID,
			Filename:             p.Filename,
			Emails:               p.Emails,
			Phones:               p.Phones,
			SkillsDetected:       p.Skills,
			TotalExperienceYears: p.TotalExperienceYears,
			EducationFoundLevel:  p.EducationFoundLevel,
			SkillsRequired:       req.Skills,
			EducationRequired:    req.Education,
			KeywordsRequired:     req.Keywords,
			ModeUsed:             req.Mode,
			MatchResult:          res,
		})
	}
	return views
}
