package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scandelta/api/internal/infra/memory"
	"github.com/scandelta/api/pkg/domain/shared"
	"github.com/scandelta/api/pkg/logger"
)

// sarifDoc builds a minimal SARIF document with one rule per entry and the
// given number of findings per rule.
func sarifDoc(rules map[string]struct {
	Tag      string
	Findings int
}) []byte {
	rulesJSON := ""
	resultsJSON := ""
	for id, r := range rules {
		if rulesJSON != "" {
			rulesJSON += ","
		}
		rulesJSON += fmt.Sprintf(`{"id":%q,"defaultConfiguration":{"level":"warning"},"properties":{"tags":[%q]}}`, id, r.Tag)
		for i := 0; i < r.Findings; i++ {
			if resultsJSON != "" {
				resultsJSON += ","
			}
			resultsJSON += fmt.Sprintf(`{"ruleId":%q,"message":{"text":"finding"}}`, id)
		}
	}
	doc := fmt.Sprintf(`{
		"version": "2.1.0",
		"runs": [{
			"tool": {"driver": {"name": "TestTool", "rules": [%s]}},
			"results": [%s]
		}]
	}`, rulesJSON, resultsJSON)
	return []byte(doc)
}

func newTestService() *SessionService {
	repo := memory.NewSessionRepository(time.Hour)
	return NewSessionService(repo, nil, logger.NewNop())
}

func TestSessionService_CreateAndGet(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sess, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.True(t, sess.IsEmpty())

	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.ID.Equals(sess.ID))
}

func TestSessionService_GetUnknown(t *testing.T) {
	svc := newTestService()

	_, err := svc.Get(context.Background(), shared.NewID())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestSessionService_PutDataset(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	doc := sarifDoc(map[string]struct {
		Tag      string
		Findings int
	}{
		"RULE001": {Tag: "CWE-79", Findings: 2},
	})

	updated, err := svc.PutDataset(ctx, sess.ID, PutDatasetInput{
		Slot:     0,
		Label:    "baseline",
		Document: doc,
	})
	require.NoError(t, err)
	require.Len(t, updated.Datasets(), 1)
	assert.Equal(t, "baseline", updated.Datasets()[0].Label)
	assert.Len(t, updated.Datasets()[0].Findings, 2)
}

func TestSessionService_PutDatasetInvalidDocument(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.PutDataset(ctx, sess.ID, PutDatasetInput{
		Slot:     0,
		Document: []byte("not json"),
	})
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestSessionService_PutDatasetBadSlot(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	doc := sarifDoc(map[string]struct {
		Tag      string
		Findings int
	}{
		"RULE001": {Tag: "CWE-79", Findings: 1},
	})

	_, err = svc.PutDataset(ctx, sess.ID, PutDatasetInput{Slot: 3, Document: doc})
	assert.True(t, errors.Is(err, shared.ErrSlotOutOfRange))

	_, err = svc.PutDataset(ctx, sess.ID, PutDatasetInput{Slot: -1, Document: doc})
	assert.True(t, errors.Is(err, shared.ErrSlotOutOfRange))
}

func TestSessionService_ClearSlot(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	doc := sarifDoc(map[string]struct {
		Tag      string
		Findings int
	}{
		"RULE001": {Tag: "CWE-79", Findings: 1},
	})

	_, err = svc.PutDataset(ctx, sess.ID, PutDatasetInput{Slot: 1, Document: doc})
	require.NoError(t, err)

	updated, err := svc.ClearSlot(ctx, sess.ID, 1)
	require.NoError(t, err)
	assert.True(t, updated.IsEmpty())
}

func TestSessionService_Delete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, sess.ID))

	_, err = svc.Get(ctx, sess.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestSessionService_Snapshot(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	first := sarifDoc(map[string]struct {
		Tag      string
		Findings int
	}{
		"RULE001": {Tag: "CWE-79", Findings: 4},
	})
	second := sarifDoc(map[string]struct {
		Tag      string
		Findings int
	}{
		"RULE002": {Tag: "CWE-79", Findings: 2},
	})

	_, err = svc.PutDataset(ctx, sess.ID, PutDatasetInput{Slot: 0, Label: "before", Document: first})
	require.NoError(t, err)
	_, err = svc.PutDataset(ctx, sess.ID, PutDatasetInput{Slot: 1, Label: "after", Document: second})
	require.NoError(t, err)

	snapshot, err := svc.Snapshot(ctx, sess.ID)
	require.NoError(t, err)

	require.Len(t, snapshot.Datasets, 2)
	assert.Equal(t, "before", snapshot.Datasets[0].Label)
	assert.Equal(t, 4, snapshot.Datasets[0].FindingCount)

	require.Len(t, snapshot.Comparison.Rows, 1)
	row := snapshot.Comparison.Rows[0]
	assert.Equal(t, "CWE-79", string(row.Category))
	assert.Equal(t, []int{4, 2}, row.Findings)
	assert.Equal(t, []int{-2}, row.Deltas)
	require.Len(t, row.Overlaps, 1)
	assert.InDelta(t, 50.0, row.Overlaps[0], 0.001)

	require.Len(t, snapshot.Rules, 2)
	assert.Equal(t, "before", snapshot.Rules[0].Label)
	require.Len(t, snapshot.Rules[0].Rules, 1)
	assert.Equal(t, "RULE001", snapshot.Rules[0].Rules[0].RuleID)
}

func TestSessionService_SnapshotStableAcrossRepeats(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	doc := sarifDoc(map[string]struct {
		Tag      string
		Findings int
	}{
		"RULE001": {Tag: "CWE-89", Findings: 3},
	})

	_, err = svc.PutDataset(ctx, sess.ID, PutDatasetInput{Slot: 0, Document: doc})
	require.NoError(t, err)

	first, err := svc.Snapshot(ctx, sess.ID)
	require.NoError(t, err)
	second, err := svc.Snapshot(ctx, sess.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Comparison, second.Comparison)
	assert.Equal(t, first.Rules, second.Rules)
}
