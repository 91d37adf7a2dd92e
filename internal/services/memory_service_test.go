package services

import (
	"testing"
	"time"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupExactMatchIgnoresCaseAndWhitespace(t *testing.T) {
	f := newFixture(t)

	_, err := f.memory.Record(testCtx(), "Hello World", "Hallo Welt", "en", "de", false, false)
	require.NoError(t, err)

	match, err := f.memory.Lookup(testCtx(), "  hello   world ", "en", "de")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "Hallo Welt", match.TargetText)
	assert.Equal(t, 100, match.Similarity)
	assert.True(t, match.Exact)
}

func TestLookupRespectsSimilarityFloor(t *testing.T) {
	f := newFixture(t)

	_, err := f.memory.Record(testCtx(), "the quick brown fox jumps", "entry one", "en", "de", false, false)
	require.NoError(t, err)

	// Close enough to clear the floor of 70.
	match, err := f.memory.Lookup(testCtx(), "the quick brown fox jumped", "en", "de")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.False(t, match.Exact)
	assert.GreaterOrEqual(t, match.Similarity, 70)
	assert.Less(t, match.Similarity, 100)

	// A completely different sentence is a miss.
	match, err = f.memory.Lookup(testCtx(), "unrelated text entirely", "en", "de")
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestLookupIsScopedToLanguagePair(t *testing.T) {
	f := newFixture(t)

	_, err := f.memory.Record(testCtx(), "hello", "hallo", "en", "de", false, false)
	require.NoError(t, err)

	match, err := f.memory.Lookup(testCtx(), "hello", "en", "fr")
	require.NoError(t, err)
	assert.Nil(t, match, "a de entry must not serve an fr lookup")
}

func TestLookupTieBreaksByFrequencyThenRecency(t *testing.T) {
	f := newFixture(t)

	// Two entries equally similar to the probe: each differs by one rune.
	a, err := f.memory.Record(testCtx(), "send the report on monday", "A", "en", "de", false, false)
	require.NoError(t, err)
	b, err := f.memory.Record(testCtx(), "send the report on wonday", "B", "en", "de", false, false)
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.TranslationMemoryEntry{}).
		Where("id = ?", b.ID).
		Update("frequency", 10).Error)

	match, err := f.memory.Lookup(testCtx(), "send the report on zonday", "en", "de")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, b.ID, match.EntryID, "higher frequency wins the tie")

	// With equal frequency the most recently used entry wins.
	now := time.Now()
	earlier := now.Add(-time.Hour)
	require.NoError(t, f.db.Model(&models.TranslationMemoryEntry{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{"frequency": 10, "last_used_at": now}).Error)
	require.NoError(t, f.db.Model(&models.TranslationMemoryEntry{}).
		Where("id = ?", b.ID).
		Update("last_used_at", earlier).Error)

	match, err = f.memory.Lookup(testCtx(), "send the report on zonday", "en", "de")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, a.ID, match.EntryID)
}

func TestRecordUpsertsByNormalizedKey(t *testing.T) {
	f := newFixture(t)

	first, err := f.memory.Record(testCtx(), "Hello World", "Hallo Welt", "en", "de", false, false)
	require.NoError(t, err)

	// Same normalized key without supersede keeps the stored target.
	second, err := f.memory.Record(testCtx(), "hello   world", "Moin Welt", "en", "de", false, false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Hallo Welt", second.TargetText)
	assert.Equal(t, int64(2), second.Frequency)

	// Supersede replaces the target and quality.
	third, err := f.memory.Record(testCtx(), "HELLO WORLD", "Moin Welt", "en", "de", true, true)
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)
	assert.Equal(t, "Moin Welt", third.TargetText)
	assert.True(t, third.Reviewed)
	assert.Equal(t, 100, third.Quality)

	var count int64
	require.NoError(t, f.db.Model(&models.TranslationMemoryEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordNeverDowngradesReviewedEntry(t *testing.T) {
	f := newFixture(t)

	_, err := f.memory.Record(testCtx(), "Hello World", "Hallo Welt", "en", "de", true, true)
	require.NoError(t, err)

	// An unreviewed recording cannot supersede a reviewed entry; it only
	// counts as a use.
	entry, err := f.memory.Record(testCtx(), "hello world", "Moin Welt", "en", "de", false, true)
	require.NoError(t, err)
	assert.Equal(t, "Hallo Welt", entry.TargetText)
	assert.True(t, entry.Reviewed)
	assert.Equal(t, 100, entry.Quality)
	assert.Equal(t, int64(2), entry.Frequency)

	// A reviewed recording still may.
	entry, err = f.memory.Record(testCtx(), "hello world", "Moin Welt", "en", "de", true, true)
	require.NoError(t, err)
	assert.Equal(t, "Moin Welt", entry.TargetText)
	assert.True(t, entry.Reviewed)
}

func TestRecordValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.memory.Record(testCtx(), "  ", "x", "en", "de", false, false)
	require.Error(t, err)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrValidation.Code))

	_, err = f.memory.Record(testCtx(), "hello", "hallo", "en", "en", false, false)
	require.Error(t, err)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrValidation.Code))
}

func TestDeleteMemoryEntry(t *testing.T) {
	f := newFixture(t)

	entry, err := f.memory.Record(testCtx(), "hello", "hallo", "en", "de", false, false)
	require.NoError(t, err)

	require.NoError(t, f.memory.Delete(testCtx(), entry.ID))

	err = f.memory.Delete(testCtx(), entry.ID)
	require.Error(t, err)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrResourceNotFound.Code))
}
