// Package app provides application services coordinating domain logic,
// ingestion and persistence.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/scandelta/api/internal/metrics"
	"github.com/scandelta/api/pkg/domain/category"
	"github.com/scandelta/api/pkg/domain/compare"
	"github.com/scandelta/api/pkg/domain/session"
	"github.com/scandelta/api/pkg/domain/shared"
	"github.com/scandelta/api/pkg/logger"
	"github.com/scandelta/api/pkg/parsers/sarif"
)

// DatasetInfo describes one occupied slot in a snapshot.
type DatasetInfo struct {
	Slot         int    `json:"slot"`
	Label        string `json:"label,omitempty"`
	FindingCount int    `json:"finding_count"`
	RuleCount    int    `json:"rule_count"`
}

// DatasetRuleSummaries holds one dataset's flattened per-rule summaries.
type DatasetRuleSummaries struct {
	Slot  int                   `json:"slot"`
	Label string                `json:"label,omitempty"`
	Rules []compare.RuleSummary `json:"rules"`
}

// Snapshot is the full derived view of a session at one point in time.
// Comparison rows, average overlaps and rule summaries all derive from the
// same set of datasets, so the three outputs are mutually consistent.
type Snapshot struct {
	SessionID   shared.ID              `json:"session_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Datasets    []DatasetInfo          `json:"datasets"`
	Comparison  compare.Result         `json:"comparison"`
	Rules       []DatasetRuleSummaries `json:"rules"`
}

// SessionService manages comparison sessions and their derived snapshots.
type SessionService struct {
	repo   session.Repository
	parser *sarif.Parser
	logger *logger.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(repo session.Repository, parser *sarif.Parser, log *logger.Logger) *SessionService {
	if parser == nil {
		parser = sarif.NewParser(nil)
	}
	return &SessionService{
		repo:   repo,
		parser: parser,
		logger: log,
	}
}

// Create starts a new empty session.
func (s *SessionService) Create(ctx context.Context) (*session.Session, error) {
	sess := session.New()
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("session created", "session_id", sess.ID)
	return sess, nil
}

// Get retrieves a session by ID.
func (s *SessionService) Get(ctx context.Context, id shared.ID) (*session.Session, error) {
	return s.repo.Get(ctx, id)
}

// PutDatasetInput carries one dataset upload.
type PutDatasetInput struct {
	Slot     int
	Label    string
	MinLevel string
	Document []byte
}

// PutDataset parses a SARIF document and places the resulting dataset into a
// session slot, replacing any previous occupant. Replacing a slot invalidates
// every derived value; snapshots are recomputed from scratch on request.
func (s *SessionService) PutDataset(ctx context.Context, id shared.ID, in PutDatasetInput) (*session.Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	parser := s.parser
	if in.MinLevel != "" {
		parser = sarif.NewParser(&sarif.Options{MinLevel: sarif.Level(in.MinLevel)})
	}

	log, err := parser.ParseBytes(in.Document)
	if err != nil {
		metrics.ParseFailuresTotal.WithLabelValues("invalid_document").Inc()
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	ds := sarif.ToDataset(log, in.Label)
	if err := sess.PutDataset(in.Slot, ds); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	metrics.DatasetsIngestedTotal.WithLabelValues(fmt.Sprintf("%d", in.Slot)).Inc()
	s.logger.Info("dataset ingested",
		"session_id", sess.ID,
		"slot", in.Slot,
		"label", in.Label,
		"findings", len(ds.Findings),
		"rules", len(ds.Rules),
	)

	return sess, nil
}

// ClearSlot removes the dataset in a slot.
func (s *SessionService) ClearSlot(ctx context.Context, id shared.ID, slot int) (*session.Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sess.ClearSlot(slot); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return sess, nil
}

// Delete removes a session entirely.
func (s *SessionService) Delete(ctx context.Context, id shared.ID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("session deleted", "session_id", id)
	return nil
}

// Snapshot computes the comparison view of a session's current datasets.
// The computation is a pure function of the datasets: repeating it on an
// unchanged session yields identical output.
func (s *SessionService) Snapshot(ctx context.Context, id shared.ID) (*Snapshot, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return ComputeSnapshot(sess), nil
}

// ComputeSnapshot derives the comparison snapshot for a session in memory.
func ComputeSnapshot(sess *session.Session) *Snapshot {
	start := time.Now()

	datasets := sess.Datasets()
	slots := sess.OccupiedSlots()

	infos := make([]DatasetInfo, len(datasets))
	aggs := make([]*category.Aggregation, len(datasets))
	rules := make([]DatasetRuleSummaries, len(datasets))

	for i, ds := range datasets {
		infos[i] = DatasetInfo{
			Slot:         slots[i],
			Label:        ds.Label,
			FindingCount: len(ds.Findings),
			RuleCount:    ds.Store().GroupCount(),
		}
		aggs[i] = category.Aggregate(ds)
		rules[i] = DatasetRuleSummaries{
			Slot:  slots[i],
			Label: ds.Label,
			Rules: compare.SummarizeRules(ds),
		}
	}

	snapshot := &Snapshot{
		SessionID:   sess.ID,
		GeneratedAt: time.Now().UTC(),
		Datasets:    infos,
		Comparison:  compare.Compare(aggs),
		Rules:       rules,
	}

	metrics.ComparisonsComputedTotal.Inc()
	metrics.ComparisonDuration.Observe(time.Since(start).Seconds())

	return snapshot
}

// datasetLabel returns a display label for a dataset info, falling back to
// its slot position.
func datasetLabel(info DatasetInfo) string {
	if info.Label != "" {
		return info.Label
	}
	return fmt.Sprintf("dataset %d", info.Slot+1)
}
