package services

import (
	"testing"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDocumentFansOutToAllTargetLanguages(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner-1", "de", "fr", "es")

	docs, err := f.documents.Create(testCtx(), "owner-1", DocumentParams{
		ProjectID: project.ID,
		Name:      "release-notes.txt",
		Segments:  []string{"First segment.", "Second segment."},
	})
	require.NoError(t, err)
	require.Len(t, docs, 3)

	seen := map[string]bool{}
	for _, doc := range docs {
		seen[doc.TargetLanguage] = true
		assert.Equal(t, models.DocumentStatusQueued, doc.Status)
		assert.Equal(t, int64(2), doc.SegmentCount)

		var segments []models.Segment
		require.NoError(t, f.db.Where("document_id = ?", doc.ID).Order("ordinal").Find(&segments).Error)
		require.Len(t, segments, 2)
		assert.Equal(t, 1, segments[0].Ordinal)
		assert.Equal(t, "First segment.", segments[0].SourceText)
		assert.Equal(t, models.SegmentStatusUntranslated, segments[0].Status)
		assert.Equal(t, int64(1), segments[0].Version)
	}
	assert.Equal(t, map[string]bool{"de": true, "fr": true, "es": true}, seen)

	// Queued documents do not start the project; it stays draft until a
	// segment moves.
	assert.Equal(t, models.ProjectStatusDraft, f.reloadProject(t, project.ID).Status)
}

func TestCreateDocumentWithExplicitTarget(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner-1", "de", "fr")

	docs, err := f.documents.Create(testCtx(), "owner-1", DocumentParams{
		ProjectID:      project.ID,
		Name:           "faq.txt",
		TargetLanguage: "fr",
		Segments:       []string{"How do I reset my password?"},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "fr", docs[0].TargetLanguage)
}

func TestCreateDocumentRejectsUnknownTarget(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner-1", "de")

	_, err := f.documents.Create(testCtx(), "owner-1", DocumentParams{
		ProjectID:      project.ID,
		Name:           "faq.txt",
		TargetLanguage: "ja",
		Segments:       []string{"Hello."},
	})
	assert.True(t, app_errors.IsCode(err, app_errors.ErrValidation.Code))
}

func TestCreateDocumentValidation(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner-1", "de")

	_, err := f.documents.Create(testCtx(), "owner-1", DocumentParams{
		ProjectID: project.ID,
		Name:      "  ",
		Segments:  []string{"Hello."},
	})
	assert.True(t, app_errors.IsCode(err, app_errors.ErrValidation.Code))

	_, err = f.documents.Create(testCtx(), "owner-1", DocumentParams{
		ProjectID: project.ID,
		Name:      "empty.txt",
	})
	assert.True(t, app_errors.IsCode(err, app_errors.ErrValidation.Code))

	_, err = f.documents.Create(testCtx(), "owner-1", DocumentParams{
		ProjectID: project.ID,
		Name:      "blank-segment.txt",
		Segments:  []string{"Hello.", "   "},
	})
	assert.True(t, app_errors.IsCode(err, app_errors.ErrValidation.Code))
}

func TestCreateDocumentBlockedOnArchivedProject(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner-1", "de")
	require.NoError(t, f.db.Model(project).Update("status", models.ProjectStatusArchived).Error)

	_, err := f.documents.Create(testCtx(), "owner-1", DocumentParams{
		ProjectID: project.ID,
		Name:      "late.txt",
		Segments:  []string{"Too late."},
	})
	assert.True(t, app_errors.IsCode(err, app_errors.ErrForbidden.Code))
}

func TestCreateDocumentRequiresTranslatorRole(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner-1", "de")
	f.grant(t, project.ID, "viewer-1", "viewer")
	f.grant(t, project.ID, "trans-1", "translator")

	params := DocumentParams{
		ProjectID: project.ID,
		Name:      "draft.txt",
		Segments:  []string{"Hello."},
	}
	_, err := f.documents.Create(testCtx(), "viewer-1", params)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrForbidden.Code))

	_, err = f.documents.Create(testCtx(), "trans-1", params)
	assert.NoError(t, err)
}

func TestAssignTranslator(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner-1", "de")
	doc, _ := f.createDocument(t, project.ID, "Hello.")
	f.grant(t, project.ID, "trans-1", "translator")
	f.grant(t, project.ID, "viewer-1", "viewer")

	// The assignee must hold at least the translator role.
	viewerID := "viewer-1"
	_, err := f.documents.AssignTranslator(testCtx(), doc.ID, "owner-1", &viewerID)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrValidation.Code))

	transID := "trans-1"
	updated, err := f.documents.AssignTranslator(testCtx(), doc.ID, "owner-1", &transID)
	require.NoError(t, err)
	require.NotNil(t, updated.TranslatorID)
	assert.Equal(t, "trans-1", *updated.TranslatorID)

	// Translators cannot manage assignments.
	_, err = f.documents.AssignTranslator(testCtx(), doc.ID, "trans-1", nil)
	assert.True(t, app_errors.IsCode(err, app_errors.ErrForbidden.Code))

	// Passing nil clears the assignment.
	updated, err = f.documents.AssignTranslator(testCtx(), doc.ID, "owner-1", nil)
	require.NoError(t, err)
	assert.Nil(t, updated.TranslatorID)
	assert.Nil(t, f.reloadDocument(t, doc.ID).TranslatorID)
}

func TestDeleteDocumentCascades(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner-1", "de")
	doc, segments := f.createDocument(t, project.ID, "Hello.", "World.")
	keep, _ := f.createDocument(t, project.ID, "Stays.")

	require.NoError(t, f.db.Create(&models.ReviewComment{
		SegmentID:  segments[0].ID,
		ReviewerID: "rev-1",
		Body:       "check terminology",
	}).Error)

	require.NoError(t, f.documents.Delete(testCtx(), doc.ID, "owner-1"))

	var count int64
	require.NoError(t, f.db.Model(&models.Segment{}).Where("document_id = ?", doc.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, f.db.Model(&models.ReviewComment{}).Where("segment_id = ?", segments[0].ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, f.db.Model(&models.Document{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err := f.documents.Get(testCtx(), doc.ID, "owner-1")
	assert.True(t, app_errors.IsCode(err, app_errors.ErrResourceNotFound.Code))

	_, err = f.documents.Get(testCtx(), keep.ID, "owner-1")
	assert.NoError(t, err)
}

func TestListDocumentsRequiresMembership(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner-1", "de")
	f.createDocument(t, project.ID, "Hello.")

	_, err := f.documents.List(testCtx(), project.ID, "stranger")
	assert.True(t, app_errors.IsCode(err, app_errors.ErrForbidden.Code))

	docs, err := f.documents.List(testCtx(), project.ID, "owner-1")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}
