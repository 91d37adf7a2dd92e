package services

import (
	"testing"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"
	"lingoflow/internal/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuickTranslateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.translate.QuickTranslate(testCtx(), "  ", "en", "de", "")
	assert.True(t, app_errors.IsCode(err, app_errors.ErrValidation.Code))

	_, err = f.translate.QuickTranslate(testCtx(), "Hello", "", "de", "")
	assert.True(t, app_errors.IsCode(err, app_errors.ErrValidation.Code))

	_, err = f.translate.QuickTranslate(testCtx(), "Hello", "en", "en", "")
	assert.True(t, app_errors.IsCode(err, app_errors.ErrValidation.Code))
}

func TestQuickTranslateRecordsProviderResult(t *testing.T) {
	f := newFixture(t)

	result, err := f.translate.QuickTranslate(testCtx(), "Good morning", "en", "de", "")
	require.NoError(t, err)
	assert.Equal(t, "[mt] Good morning", result.TargetText)
	assert.Equal(t, 90, result.Confidence)
	assert.False(t, result.FromMemory)

	// The provider result lands in memory, so the same text resolves from
	// there on the next call.
	result, err = f.translate.QuickTranslate(testCtx(), "Good morning", "en", "de", "")
	require.NoError(t, err)
	assert.True(t, result.FromMemory)
	assert.Equal(t, 100, result.Confidence)
	assert.Equal(t, 1, f.translator.Calls())

	var entry models.TranslationMemoryEntry
	require.NoError(t, f.db.First(&entry, "source_language = ?", "en").Error)
	assert.Equal(t, int64(1), entry.Frequency)
}

func TestQuickTranslateAttachesGlossaryHits(t *testing.T) {
	f := newFixture(t)
	_, err := f.glossary.CreateTerm(testCtx(), "kernel", "", "Kernel", "", "")
	require.NoError(t, err)

	result, err := f.translate.QuickTranslate(testCtx(), "Rebuild the kernel first", "en", "de", "")
	require.NoError(t, err)
	require.Len(t, result.GlossaryHits, 1)
	assert.Equal(t, "Kernel", result.GlossaryHits[0].Translation)
}

func TestQuickTranslateSurfacesProviderError(t *testing.T) {
	f := newFixture(t)
	f.translator.Err = app_errors.ErrProviderUnavailable

	_, err := f.translate.QuickTranslate(testCtx(), "Hello", "en", "de", "")
	assert.True(t, app_errors.IsCode(err, app_errors.ErrProviderUnavailable.Code))

	var count int64
	require.NoError(t, f.db.Model(&models.TranslationMemoryEntry{}).Count(&count).Error)
	assert.Zero(t, count, "a failed translation must not pollute memory")
}

func TestQuickTranslateUsesProviderConfidence(t *testing.T) {
	f := newFixture(t)
	f.translator.Result = &provider.Result{Text: "Hallo", Confidence: 42}

	result, err := f.translate.QuickTranslate(testCtx(), "Hello", "en", "de", "")
	require.NoError(t, err)
	assert.Equal(t, "Hallo", result.TargetText)
	assert.Equal(t, 42, result.Confidence)
}
