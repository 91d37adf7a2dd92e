package services

import (
	"testing"
	"time"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"
	"lingoflow/internal/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateUsesProviderOnMemoryMiss(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	doc, segs := f.createDocument(t, project.ID, "Hello world")

	seg, err := f.segments.Translate(testCtx(), segs[0].ID, "owner", 1)
	require.NoError(t, err)

	assert.Equal(t, "[mt] Hello world", seg.TargetText)
	assert.Equal(t, models.SegmentStatusMachineTranslated, seg.Status)
	assert.Equal(t, 90, seg.Confidence, "default confidence applies when the provider reports none")
	assert.Equal(t, int64(2), seg.Version)

	updated := f.reloadDocument(t, doc.ID)
	assert.Equal(t, 50, updated.Progress)
	assert.Equal(t, models.DocumentStatusInProgress, updated.Status)
}

func TestTranslateExactMemoryMatchSkipsProvider(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello world")

	_, err := f.memory.Record(testCtx(), "Hello   WORLD", "Hallo Welt", "en", "de", false, false)
	require.NoError(t, err)

	seg, err := f.segments.Translate(testCtx(), segs[0].ID, "owner", 1)
	require.NoError(t, err)

	assert.Equal(t, "Hallo Welt", seg.TargetText)
	assert.Equal(t, 100, seg.Confidence, "exact match scores full confidence")
	assert.Zero(t, f.translator.Calls(), "provider must not be called on a memory hit")

	// Reuse bumps the entry's frequency.
	var entry models.TranslationMemoryEntry
	require.NoError(t, f.db.First(&entry).Error)
	assert.Equal(t, int64(2), entry.Frequency)
}

func TestTranslateRetriesOnceOnTransientFailure(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello")

	old := providerRetryBackoff
	providerRetryBackoff = time.Millisecond
	t.Cleanup(func() { providerRetryBackoff = old })

	f.translator.Errs = []error{app_errors.ErrRateLimited, nil}

	seg, err := f.segments.Translate(testCtx(), segs[0].ID, "owner", 1)
	require.NoError(t, err)
	assert.Equal(t, "[mt] Hello", seg.TargetText)
	assert.Equal(t, 2, f.translator.Calls())
}

func TestTranslateSurfacesProviderFailureAfterRetry(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello")

	old := providerRetryBackoff
	providerRetryBackoff = time.Millisecond
	t.Cleanup(func() { providerRetryBackoff = old })

	f.translator.Err = app_errors.ErrProviderUnavailable

	_, err := f.segments.Translate(testCtx(), segs[0].ID, "owner", 1)
	require.Error(t, err)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrProviderUnavailable.Code))
	assert.Equal(t, 2, f.translator.Calls())

	// A failed translation leaves the segment untouched.
	seg := f.reloadSegment(t, segs[0].ID)
	assert.Equal(t, models.SegmentStatusUntranslated, seg.Status)
	assert.Equal(t, int64(1), seg.Version)
}

func TestTranslateStaleVersionConflicts(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello")

	_, err := f.segments.Translate(testCtx(), segs[0].ID, "owner", 1)
	require.NoError(t, err)

	// Second writer still carries version 1.
	_, err = f.segments.Edit(testCtx(), segs[0].ID, "owner", "Hallo", 1)
	require.Error(t, err)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrConflict.Code))

	// The first write survives untouched.
	seg := f.reloadSegment(t, segs[0].ID)
	assert.Equal(t, "[mt] Hello", seg.TargetText)
	assert.Equal(t, int64(2), seg.Version)
}

func TestEditRecordsTranslationMemory(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Good morning")

	seg, err := f.segments.Edit(testCtx(), segs[0].ID, "owner", "Guten Morgen", 1)
	require.NoError(t, err)
	assert.Equal(t, models.SegmentStatusHumanEdited, seg.Status)

	match, err := f.memory.Lookup(testCtx(), "good MORNING", "en", "de")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "Guten Morgen", match.TargetText)
	assert.Equal(t, 100, match.Similarity)
}

func TestEditKeepsMachineConfidence(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello")

	seg, err := f.segments.Translate(testCtx(), segs[0].ID, "owner", 1)
	require.NoError(t, err)
	require.Equal(t, 90, seg.Confidence)

	edited, err := f.segments.Edit(testCtx(), seg.ID, "owner", "Hallo", seg.Version)
	require.NoError(t, err)
	assert.Equal(t, 90, edited.Confidence, "a human edit leaves the confidence score alone")
}

func TestEditPreservesTranslatorAuthorship(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello")
	f.grant(t, project.ID, "tina", "translator")

	seg, err := f.segments.Edit(testCtx(), segs[0].ID, "tina", "Hallo", 1)
	require.NoError(t, err)
	require.NotNil(t, seg.TranslatorID)
	assert.Equal(t, "tina", *seg.TranslatorID)

	// An admin touch-up does not take over authorship.
	touched, err := f.segments.Edit(testCtx(), seg.ID, "owner", "Hallo!", seg.Version)
	require.NoError(t, err)
	require.NotNil(t, touched.TranslatorID)
	assert.Equal(t, "tina", *touched.TranslatorID)
}

func TestViewerCannotEdit(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello")
	f.grant(t, project.ID, "vera", "viewer")

	_, err := f.segments.Edit(testCtx(), segs[0].ID, "vera", "Hallo", 1)
	require.Error(t, err)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrForbidden.Code))

	_, err = f.segments.Translate(testCtx(), segs[0].ID, "vera", 1)
	require.Error(t, err)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrForbidden.Code))
}

func TestTranslatorAssignmentBlocksOthers(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	doc, segs := f.createDocument(t, project.ID, "Hello")
	f.grant(t, project.ID, "tina", "translator")
	f.grant(t, project.ID, "tom", "translator")

	assignee := "tina"
	require.NoError(t, f.db.Model(&models.Document{}).
		Where("id = ?", doc.ID).
		Update("translator_id", &assignee).Error)

	_, err := f.segments.Edit(testCtx(), segs[0].ID, "tom", "Hallo", 1)
	require.Error(t, err, "another translator cannot edit an assigned document")
	assert.True(t, app_errors.IsCode(err, app_errors.ErrForbidden.Code))

	_, err = f.segments.Edit(testCtx(), segs[0].ID, "tina", "Hallo", 1)
	require.NoError(t, err)

	// Admins bypass the assignment.
	seg := f.reloadSegment(t, segs[0].ID)
	_, err = f.segments.Edit(testCtx(), segs[0].ID, "owner", "Hallo!", seg.Version)
	require.NoError(t, err)
}

func TestReviewApproveAndReject(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello")
	f.grant(t, project.ID, "rita", "reviewer")

	seg, err := f.segments.Edit(testCtx(), segs[0].ID, "owner", "Hallo", 1)
	require.NoError(t, err)

	// Rejection without a comment is invalid.
	_, err = f.segments.Review(testCtx(), seg.ID, "rita", false, "", seg.Version)
	require.Error(t, err)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrValidation.Code))

	rejected, err := f.segments.Review(testCtx(), seg.ID, "rita", false, "wrong register", seg.Version)
	require.NoError(t, err)
	assert.Equal(t, models.SegmentStatusHumanEdited, rejected.Status,
		"a rejected segment stays with its translator for rework")

	// The document keeps waiting on review while the rejection is worked on.
	doc := f.reloadDocument(t, rejected.DocumentID)
	assert.Equal(t, models.DocumentStatusInReview, doc.Status)

	var comments []models.ReviewComment
	require.NoError(t, f.db.Where("segment_id = ?", seg.ID).Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Equal(t, "wrong register", comments[0].Body)

	// Back through edit, then approve.
	edited, err := f.segments.Edit(testCtx(), seg.ID, "owner", "Hallo zusammen", rejected.Version)
	require.NoError(t, err)
	approved, err := f.segments.Review(testCtx(), seg.ID, "rita", true, "", edited.Version)
	require.NoError(t, err)
	assert.Equal(t, models.SegmentStatusReviewed, approved.Status)

	// Approval promotes the translation to a reviewed memory entry.
	var entry models.TranslationMemoryEntry
	require.NoError(t, f.db.Where("target_text = ?", "Hallo zusammen").First(&entry).Error)
	assert.True(t, entry.Reviewed)
	assert.Equal(t, 100, entry.Quality)
}

func TestReviewOnlyFromHumanEdited(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello")
	f.grant(t, project.ID, "rita", "reviewer")

	_, err := f.segments.Review(testCtx(), segs[0].ID, "rita", true, "", 1)
	require.Error(t, err)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrInvalidTransition.Code))
}

func TestDualControlReviewRejectsSelfApproval(t *testing.T) {
	settings := defaultTestSettings()
	settings.DualControlReview = true
	f := newFixtureWithSettings(t, settings)

	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello")
	f.grant(t, project.ID, "casey", "admin")

	seg, err := f.segments.Edit(testCtx(), segs[0].ID, "casey", "Hallo", 1)
	require.NoError(t, err)

	_, err = f.segments.Review(testCtx(), seg.ID, "casey", true, "", seg.Version)
	require.Error(t, err)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrForbidden.Code))

	// A different reviewer is fine.
	_, err = f.segments.Review(testCtx(), seg.ID, "owner", true, "", seg.Version)
	require.NoError(t, err)
}

func TestReopenAndEditReviewedSegment(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello")

	seg, err := f.segments.Edit(testCtx(), segs[0].ID, "owner", "Hallo", 1)
	require.NoError(t, err)
	seg, err = f.segments.Review(testCtx(), seg.ID, "owner", true, "", seg.Version)
	require.NoError(t, err)

	// Reviewed segments are locked against edits.
	_, err = f.segments.Edit(testCtx(), seg.ID, "owner", "Hallo!", seg.Version)
	require.Error(t, err)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrForbidden.Code))

	reopened, err := f.segments.Reopen(testCtx(), seg.ID, "owner", seg.Version)
	require.NoError(t, err)
	assert.Equal(t, models.SegmentStatusHumanEdited, reopened.Status)

	_, err = f.segments.Edit(testCtx(), seg.ID, "owner", "Hallo!", reopened.Version)
	require.NoError(t, err)
}

func TestEditDoesNotDowngradeReviewedMemory(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello world")

	seg, err := f.segments.Edit(testCtx(), segs[0].ID, "owner", "Hallo Welt", 1)
	require.NoError(t, err)
	seg, err = f.segments.Review(testCtx(), seg.ID, "owner", true, "", seg.Version)
	require.NoError(t, err)

	reopened, err := f.segments.Reopen(testCtx(), seg.ID, "owner", seg.Version)
	require.NoError(t, err)
	_, err = f.segments.Edit(testCtx(), seg.ID, "owner", "Hallo Welt (Entwurf)", reopened.Version)
	require.NoError(t, err)

	// The reviewed memory entry survives the draft edit untouched, but the
	// edit still counts as a use.
	var entry models.TranslationMemoryEntry
	require.NoError(t, f.db.Where("source_key = ?", "hello world").First(&entry).Error)
	assert.Equal(t, "Hallo Welt", entry.TargetText)
	assert.True(t, entry.Reviewed)
	assert.Equal(t, 100, entry.Quality)
	assert.Equal(t, int64(3), entry.Frequency)
}

func TestResetRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello")
	f.grant(t, project.ID, "tina", "translator")

	seg, err := f.segments.Edit(testCtx(), segs[0].ID, "tina", "Hallo", 1)
	require.NoError(t, err)

	_, err = f.segments.Reset(testCtx(), seg.ID, "tina", seg.Version)
	require.Error(t, err)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrForbidden.Code))

	reset, err := f.segments.Reset(testCtx(), seg.ID, "owner", seg.Version)
	require.NoError(t, err)
	assert.Equal(t, models.SegmentStatusUntranslated, reset.Status)
	assert.Empty(t, reset.TargetText)
	assert.Zero(t, reset.Confidence)
	assert.Nil(t, reset.TranslatorID)
}

func TestCreateSegmentRejectsDuplicateOrdinal(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	doc, _ := f.createDocument(t, project.ID, "Hello")

	_, err := f.segments.Create(testCtx(), doc.ID, "owner", 1, "Hello again")
	require.Error(t, err)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrDuplicateOrdinal.Code))

	seg, err := f.segments.Create(testCtx(), doc.ID, "owner", 2, "Second line")
	require.NoError(t, err)
	assert.Equal(t, 2, seg.Ordinal)

	updated := f.reloadDocument(t, doc.ID)
	assert.Equal(t, int64(2), updated.SegmentCount)
}

func TestTranslateOnlyFromUntranslated(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello")

	seg, err := f.segments.Translate(testCtx(), segs[0].ID, "owner", 1)
	require.NoError(t, err)

	_, err = f.segments.Translate(testCtx(), seg.ID, "owner", seg.Version)
	require.Error(t, err)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrInvalidTransition.Code))
}

func TestProviderConfidencePassesThrough(t *testing.T) {
	f := newFixture(t)
	f.translator.Result = &provider.Result{Text: "Hallo", Confidence: 73}
	project := f.createProject(t, "owner", "de")
	_, segs := f.createDocument(t, project.ID, "Hello")

	seg, err := f.segments.Translate(testCtx(), segs[0].ID, "owner", 1)
	require.NoError(t, err)
	assert.Equal(t, 73, seg.Confidence)
}
