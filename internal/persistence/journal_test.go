package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/wildmind/internal/brains"
	"github.com/talgya/wildmind/internal/engine"
	"github.com/talgya/wildmind/internal/knowledge"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRoundTrip(t *testing.T) {
	j := openTestJournal(t)
	require.NotEmpty(t, j.RunID())

	j.Decision(3, 7, engine.ChosenAction{
		Kind:    knowledge.ActionHarvest,
		Target:  knowledge.EntityNode(42),
		Source:  brains.SourcePlanned,
		Urgency: 55,
		Score:   55,
		Reason:  "plan step toward stocked-Berry",
	})
	j.Decision(4, 7, engine.ChosenAction{
		Kind:   knowledge.ActionEat,
		Source: brains.SourceReflex,
		Reason: "starving with food in pouch",
	})

	rows, err := j.RecentDecisions(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Eat", rows[0].Action, "newest first")
	assert.Equal(t, "Harvest", rows[1].Action)
	assert.Equal(t, "planned", rows[1].Source)
	assert.Equal(t, uint64(7), rows[1].Agent)
}

func TestJournalReplanTotals(t *testing.T) {
	j := openTestJournal(t)

	total, err := j.ReplanCount(7)
	require.NoError(t, err)
	assert.Zero(t, total)

	j.Replan(5, 7, 1)
	j.Replan(9, 7, 2)
	j.Replan(9, 8, 1)

	total, err = j.ReplanCount(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
}
