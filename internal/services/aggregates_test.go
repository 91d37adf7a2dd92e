package services

import (
	"testing"

	"lingoflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentProgressWeights(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	doc, _ := f.createDocument(t, project.ID, "one", "two", "three", "four")

	recompute := func() models.Document {
		require.NoError(t, recomputeFromSegment(f.db, doc.ID))
		return f.reloadDocument(t, doc.ID)
	}

	// All untranslated.
	d := recompute()
	assert.Equal(t, 0, d.Progress)
	assert.Equal(t, models.DocumentStatusQueued, d.Status)

	// Mixed statuses: (0 + 50 + 80 + 100) / 4 = 57.
	var segs []models.Segment
	require.NoError(t, f.db.Where("document_id = ?", doc.ID).Order("ordinal").Find(&segs).Error)
	statuses := []string{
		models.SegmentStatusUntranslated,
		models.SegmentStatusMachineTranslated,
		models.SegmentStatusHumanEdited,
		models.SegmentStatusReviewed,
	}
	for i, status := range statuses {
		require.NoError(t, f.db.Model(&models.Segment{}).
			Where("id = ?", segs[i].ID).
			Update("status", status).Error)
	}
	d = recompute()
	assert.Equal(t, 57, d.Progress)
	assert.Equal(t, models.DocumentStatusInReview, d.Status, "a pending human edit puts the document in review")

	// All reviewed: progress pinned at 100, document completed.
	require.NoError(t, f.db.Model(&models.Segment{}).
		Where("document_id = ?", doc.ID).
		Update("status", models.SegmentStatusReviewed).Error)
	d = recompute()
	assert.Equal(t, 100, d.Progress)
	assert.Equal(t, models.DocumentStatusCompleted, d.Status)
}

func TestDocumentProgressIsMonotonicThroughWorkflow(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	doc, segs := f.createDocument(t, project.ID, "only line")

	progressAt := func() int { return f.reloadDocument(t, doc.ID).Progress }

	assert.Equal(t, 0, progressAt())

	seg, err := f.segments.Translate(testCtx(), segs[0].ID, "owner", 1)
	require.NoError(t, err)
	assert.Equal(t, 50, progressAt())

	seg, err = f.segments.Edit(testCtx(), seg.ID, "owner", "nur eine Zeile", seg.Version)
	require.NoError(t, err)
	assert.Equal(t, 80, progressAt())

	_, err = f.segments.Review(testCtx(), seg.ID, "owner", true, "", seg.Version)
	require.NoError(t, err)
	assert.Equal(t, 100, progressAt())
	assert.Equal(t, models.DocumentStatusCompleted, f.reloadDocument(t, doc.ID).Status)
}

func TestProjectProgressExcludesEmptyDocuments(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")

	// Three documents at 0, 50, and 100; one with no segments yet.
	docA, _ := f.createDocument(t, project.ID, "a")
	docB, _ := f.createDocument(t, project.ID, "b")
	docC, _ := f.createDocument(t, project.ID, "c")
	empty := &models.Document{
		ProjectID:      project.ID,
		Name:           "pending.txt",
		SourceLanguage: "en",
		TargetLanguage: "de",
		Status:         models.DocumentStatusQueued,
	}
	require.NoError(t, f.db.Create(empty).Error)

	require.NoError(t, f.db.Model(&models.Segment{}).
		Where("document_id = ?", docB.ID).
		Update("status", models.SegmentStatusMachineTranslated).Error)
	require.NoError(t, f.db.Model(&models.Segment{}).
		Where("document_id = ?", docC.ID).
		Update("status", models.SegmentStatusReviewed).Error)

	for _, id := range []string{docA.ID, docB.ID, docC.ID} {
		require.NoError(t, recomputeFromSegment(f.db, id))
	}

	p := f.reloadProject(t, project.ID)
	assert.Equal(t, 50, p.Progress, "(0+50+100)/3, the empty document does not count")
	assert.Equal(t, models.ProjectStatusActive, p.Status)
}

func TestProjectCompletesWhenAllDocumentsComplete(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	doc, _ := f.createDocument(t, project.ID, "a")

	require.NoError(t, f.db.Model(&models.Segment{}).
		Where("document_id = ?", doc.ID).
		Update("status", models.SegmentStatusReviewed).Error)
	require.NoError(t, recomputeFromSegment(f.db, doc.ID))

	p := f.reloadProject(t, project.ID)
	assert.Equal(t, models.ProjectStatusCompleted, p.Status)
	assert.Equal(t, 100, p.Progress)
}

func TestArchivedProjectKeepsStatusOnRecompute(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "owner", "de")
	doc, _ := f.createDocument(t, project.ID, "a")

	require.NoError(t, f.db.Model(&models.Project{}).
		Where("id = ?", project.ID).
		Update("status", models.ProjectStatusArchived).Error)

	require.NoError(t, recomputeFromSegment(f.db, doc.ID))
	p := f.reloadProject(t, project.ID)
	assert.Equal(t, models.ProjectStatusArchived, p.Status, "archival is manual and survives recomputes")
}
