package services

import (
	"context"
	"encoding/json"
	"testing"

	"lingoflow/internal/models"
	"lingoflow/internal/provider"
	"lingoflow/internal/store"
	"lingoflow/internal/types"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Silent),
		PrepareStmt: false,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.SystemSetting{},
		&models.Project{},
		&models.Document{},
		&models.Segment{},
		&models.ReviewComment{},
		&models.TranslationMemoryEntry{},
		&models.GlossaryTerm{},
		&models.Team{},
		&models.TeamMember{},
		&models.ProjectGrant{},
		&models.ProjectTeam{},
		&models.ActivityLog{},
	)
	require.NoError(t, err)

	return db
}

// stubSettings is a fixed settings provider for tests.
type stubSettings struct {
	settings types.SystemSettings
}

func (s stubSettings) GetSettings() types.SystemSettings {
	return s.settings
}

func defaultTestSettings() types.SystemSettings {
	return types.SystemSettings{
		ActivityRetentionDays:    30,
		SimilarityFloor:          70,
		DefaultMachineConfidence: 90,
	}
}

// fixture bundles a fully wired service stack over an in-memory database.
type fixture struct {
	db         *gorm.DB
	store      *store.MemoryStore
	settings   stubSettings
	translator *provider.MockTranslator
	membership *MembershipService
	memory     *TranslationMemoryService
	glossary   *GlossaryService
	activity   *ActivityLogService
	segments   *SegmentService
	documents  *DocumentService
	projects   *ProjectService
	teams      *TeamService
	translate  *TranslateService
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithSettings(t, defaultTestSettings())
}

func newFixtureWithSettings(t *testing.T, settings types.SystemSettings) *fixture {
	t.Helper()

	db := setupTestDB(t)
	st := store.NewMemoryStore()
	t.Cleanup(func() { st.Close() })

	stub := stubSettings{settings: settings}
	translator := &provider.MockTranslator{}

	membership := NewMembershipService(db, st)
	memory := NewTranslationMemoryService(db, stub)
	glossary := NewGlossaryService(db)
	activity := NewActivityLogService(db, st, stub)
	scorer := NewDefaultConfidenceScorer(stub)
	segments := NewSegmentService(db, membership, memory, translator, scorer, activity, stub)
	documents := NewDocumentService(db, membership, activity)
	projects := NewProjectService(db, membership, activity)
	teams := NewTeamService(db, membership)
	translate := NewTranslateService(memory, glossary, translator, scorer)

	return &fixture{
		db:         db,
		store:      st,
		settings:   stub,
		translator: translator,
		membership: membership,
		memory:     memory,
		glossary:   glossary,
		activity:   activity,
		segments:   segments,
		documents:  documents,
		projects:   projects,
		teams:      teams,
		translate:  translate,
	}
}

// createProject inserts a project owned by ownerID with the given target
// languages.
func (f *fixture) createProject(t *testing.T, ownerID string, targets ...string) *models.Project {
	t.Helper()

	raw, err := json.Marshal(targets)
	require.NoError(t, err)

	project := &models.Project{
		Name:            "Website Relaunch",
		SourceLanguage:  "en",
		TargetLanguages: datatypes.JSON(raw),
		Status:          models.ProjectStatusDraft,
		OwnerID:         ownerID,
	}
	require.NoError(t, f.db.Create(project).Error)
	return project
}

// createDocument inserts a document with the given segments.
func (f *fixture) createDocument(t *testing.T, projectID string, texts ...string) (*models.Document, []models.Segment) {
	t.Helper()

	doc := &models.Document{
		ProjectID:      projectID,
		Name:           "landing-page.txt",
		SourceLanguage: "en",
		TargetLanguage: "de",
		Status:         models.DocumentStatusQueued,
		SegmentCount:   int64(len(texts)),
	}
	require.NoError(t, f.db.Create(doc).Error)

	segments := make([]models.Segment, 0, len(texts))
	for i, text := range texts {
		seg := models.Segment{
			DocumentID: doc.ID,
			Ordinal:    i + 1,
			SourceText: text,
			Status:     models.SegmentStatusUntranslated,
			Version:    1,
		}
		require.NoError(t, f.db.Create(&seg).Error)
		segments = append(segments, seg)
	}
	return doc, segments
}

// grant inserts a direct project grant.
func (f *fixture) grant(t *testing.T, projectID, userID, role string) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.ProjectGrant{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}).Error)
	f.membership.InvalidateProject(projectID)
}

func (f *fixture) reloadSegment(t *testing.T, id string) models.Segment {
	t.Helper()
	var seg models.Segment
	require.NoError(t, f.db.First(&seg, "id = ?", id).Error)
	return seg
}

func (f *fixture) reloadDocument(t *testing.T, id string) models.Document {
	t.Helper()
	var doc models.Document
	require.NoError(t, f.db.First(&doc, "id = ?", id).Error)
	return doc
}

func (f *fixture) reloadProject(t *testing.T, id string) models.Project {
	t.Helper()
	var project models.Project
	require.NoError(t, f.db.First(&project, "id = ?", id).Error)
	return project
}

func testCtx() context.Context {
	return context.Background()
}
