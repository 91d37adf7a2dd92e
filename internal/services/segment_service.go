package services

import (
	"context"
	"errors"
	"time"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"
	"lingoflow/internal/permission"
	"lingoflow/internal/provider"
	"lingoflow/internal/types"
	"lingoflow/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// providerRetryBackoff is the pause before the single retry on a transient
// provider failure.
var providerRetryBackoff = 500 * time.Millisecond

// SegmentService implements the segment workflow: creation, machine
// translation, human edit, review, and reset. Every mutation is guarded by
// the segment's version and rolls document and project aggregates up in the
// same transaction.
type SegmentService struct {
	db              *gorm.DB
	membership      *MembershipService
	memory          *TranslationMemoryService
	translator      provider.Translator
	scorer          ConfidenceScorer
	activity        *ActivityLogService
	settingsManager types.SystemSettingsProvider
}

func NewSegmentService(
	db *gorm.DB,
	membership *MembershipService,
	memory *TranslationMemoryService,
	translator provider.Translator,
	scorer ConfidenceScorer,
	activity *ActivityLogService,
	settingsManager types.SystemSettingsProvider,
) *SegmentService {
	return &SegmentService{
		db:              db,
		membership:      membership,
		memory:          memory,
		translator:      translator,
		scorer:          scorer,
		activity:        activity,
		settingsManager: settingsManager,
	}
}

// segmentContext is a segment joined with its document, project, and the
// actor's effective role, loaded once per operation.
type segmentContext struct {
	segment  models.Segment
	document models.Document
	actor    permission.Actor
}

func (s *SegmentService) loadContext(ctx context.Context, segmentID, actorID string) (*segmentContext, error) {
	var seg models.Segment
	if err := s.db.WithContext(ctx).First(&seg, "id = ?", segmentID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", seg.DocumentID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	role, err := s.membership.EffectiveRole(ctx, doc.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	return &segmentContext{
		segment:  seg,
		document: doc,
		actor:    permission.Actor{ID: actorID, Role: role},
	}, nil
}

func (sc *segmentContext) state() *permission.SegmentState {
	return &permission.SegmentState{
		Status:             sc.segment.Status,
		AssignedTranslator: sc.document.TranslatorID,
	}
}

// Get returns a segment.
func (s *SegmentService) Get(ctx context.Context, segmentID, actorID string) (*models.Segment, error) {
	sc, err := s.loadContext(ctx, segmentID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(sc.actor, permission.ActionView, nil) {
		return nil, app_errors.NewUnauthorizedError(actorID, string(permission.ActionView))
	}
	return &sc.segment, nil
}

// List returns a document's segments in ordinal order.
func (s *SegmentService) List(ctx context.Context, documentID, actorID string) ([]models.Segment, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", documentID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	role, err := s.membership.EffectiveRole(ctx, doc.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(permission.Actor{ID: actorID, Role: role}, permission.ActionView, nil) {
		return nil, app_errors.NewUnauthorizedError(actorID, string(permission.ActionView))
	}

	var segments []models.Segment
	if err := s.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("ordinal ASC").
		Find(&segments).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return segments, nil
}

// Create appends a segment to a document. Ordinals are unique per document;
// a duplicate is rejected, not renumbered.
func (s *SegmentService) Create(ctx context.Context, documentID, actorID string, ordinal int, sourceText string) (*models.Segment, error) {
	if utils.IsBlank(sourceText) {
		return nil, app_errors.NewValidationError("source text cannot be empty")
	}
	if ordinal < 1 {
		return nil, app_errors.NewValidationError("ordinal must be positive")
	}

	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", documentID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	role, err := s.membership.EffectiveRole(ctx, doc.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(permission.Actor{ID: actorID, Role: role}, permission.ActionCreateDocument, nil) {
		return nil, app_errors.NewUnauthorizedError(actorID, string(permission.ActionCreateDocument))
	}

	segment := models.Segment{
		DocumentID: documentID,
		Ordinal:    ordinal,
		SourceText: sourceText,
		Status:     models.SegmentStatusUntranslated,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&segment).Error; err != nil {
			parsed := app_errors.ParseDBError(err)
			if app_errors.IsCode(parsed, app_errors.ErrDuplicateResource.Code) {
				return app_errors.NewAPIErrorf(app_errors.ErrDuplicateOrdinal,
					"document %s already has a segment at ordinal %d", documentID, ordinal)
			}
			return parsed
		}
		if err := recomputeFromSegment(tx, documentID); err != nil {
			return err
		}
		return s.activity.recordTx(tx, models.ActivityLog{
			ProjectID:  doc.ProjectID,
			ActorID:    actorID,
			Action:     "segment.created",
			EntityType: "segment",
			EntityID:   segment.ID,
			Detail:     utils.TruncateString(sourceText, 120),
		})
	})
	if err != nil {
		return nil, err
	}
	return &segment, nil
}

// Translate machine-translates a segment. Translation memory is consulted
// first; on a miss the provider is called, with one retry after a short
// backoff on transient failure. Only untranslated segments are translatable.
func (s *SegmentService) Translate(ctx context.Context, segmentID, actorID string, expectedVersion int64) (*models.Segment, error) {
	sc, err := s.loadContext(ctx, segmentID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(sc.actor, permission.ActionEditSegment, sc.state()) {
		return nil, app_errors.NewUnauthorizedError(actorID, string(permission.ActionEditSegment))
	}
	if sc.segment.Status != models.SegmentStatusUntranslated {
		return nil, app_errors.NewInvalidTransitionError(segmentID, sc.segment.Status, models.SegmentStatusMachineTranslated)
	}
	if sc.segment.Version != expectedVersion {
		return nil, app_errors.NewConflictError(segmentID, expectedVersion, sc.segment.Version)
	}

	match, err := s.memory.Lookup(ctx, sc.segment.SourceText, sc.document.SourceLanguage, sc.document.TargetLanguage)
	if err != nil {
		return nil, err
	}

	var targetText string
	var confidence int
	if match != nil {
		targetText = match.TargetText
		confidence = s.scorer.ScoreMemoryMatch(match)
	} else {
		// The provider call stays outside the transaction so a slow or
		// cancelled call never holds a database lock.
		result, err := s.translateWithRetry(ctx, sc.segment.SourceText, sc.document.SourceLanguage, sc.document.TargetLanguage)
		if err != nil {
			return nil, err
		}
		targetText = result.Text
		confidence = s.scorer.ScoreProviderResult(result)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.guardedUpdate(tx, segmentID, expectedVersion, map[string]any{
			"target_text": targetText,
			"status":      models.SegmentStatusMachineTranslated,
			"confidence":  confidence,
		}); err != nil {
			return err
		}
		if match != nil {
			if err := s.memory.touchEntryTx(tx, match.EntryID); err != nil {
				return err
			}
		}
		if err := recomputeFromSegment(tx, sc.document.ID); err != nil {
			return err
		}
		return s.activity.recordTx(tx, models.ActivityLog{
			ProjectID:  sc.document.ProjectID,
			ActorID:    actorID,
			Action:     "segment.translated",
			EntityType: "segment",
			EntityID:   segmentID,
			Detail:     utils.TruncateString(targetText, 120),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, segmentID)
}

// Edit replaces a segment's target text with a human translation. Reviewed
// segments must be reopened first; translators only edit documents assigned
// to them. The edit is recorded into translation memory.
func (s *SegmentService) Edit(ctx context.Context, segmentID, actorID, targetText string, expectedVersion int64) (*models.Segment, error) {
	if utils.IsBlank(targetText) {
		return nil, app_errors.NewValidationError("target text cannot be empty")
	}

	sc, err := s.loadContext(ctx, segmentID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(sc.actor, permission.ActionEditSegment, sc.state()) {
		return nil, app_errors.NewUnauthorizedError(actorID, string(permission.ActionEditSegment))
	}

	updates := map[string]any{
		"target_text": targetText,
		"status":      models.SegmentStatusHumanEdited,
		"reviewer_id": nil,
	}
	// The first human to touch a segment becomes its translator; later
	// touch-ups by reviewers or admins leave authorship alone.
	if sc.segment.TranslatorID == nil {
		updates["translator_id"] = actorID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.guardedUpdate(tx, segmentID, expectedVersion, updates); err != nil {
			return err
		}
		if _, err := s.memory.recordTx(tx, sc.segment.SourceText, targetText,
			sc.document.SourceLanguage, sc.document.TargetLanguage, false, true); err != nil {
			return err
		}
		if err := recomputeFromSegment(tx, sc.document.ID); err != nil {
			return err
		}
		return s.activity.recordTx(tx, models.ActivityLog{
			ProjectID:  sc.document.ProjectID,
			ActorID:    actorID,
			Action:     "segment.edited",
			EntityType: "segment",
			EntityID:   segmentID,
			Detail:     utils.TruncateString(targetText, 120),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, segmentID)
}

// Review approves or rejects a human-edited segment. Approval marks the
// segment reviewed and promotes its translation to a reviewed memory entry;
// rejection keeps it human_edited for rework and requires a comment. With
// dual-control review enabled the approving reviewer must differ from the
// last translator.
func (s *SegmentService) Review(ctx context.Context, segmentID, actorID string, approve bool, comment string, expectedVersion int64) (*models.Segment, error) {
	sc, err := s.loadContext(ctx, segmentID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(sc.actor, permission.ActionReviewSegment, sc.state()) {
		if sc.segment.Status != models.SegmentStatusHumanEdited {
			return nil, app_errors.NewInvalidTransitionError(segmentID, sc.segment.Status, models.SegmentStatusReviewed)
		}
		return nil, app_errors.NewUnauthorizedError(actorID, string(permission.ActionReviewSegment))
	}
	if !approve && utils.IsBlank(comment) {
		return nil, app_errors.NewValidationError("a rejection requires a comment")
	}
	if approve && s.settingsManager.GetSettings().DualControlReview {
		if sc.segment.TranslatorID != nil && *sc.segment.TranslatorID == actorID {
			return nil, app_errors.NewAPIError(app_errors.ErrForbidden,
				"dual-control review: the approving reviewer must differ from the translator")
		}
	}

	newStatus := models.SegmentStatusReviewed
	action := "segment.approved"
	if !approve {
		newStatus = models.SegmentStatusHumanEdited
		action = "segment.rejected"
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.guardedUpdate(tx, segmentID, expectedVersion, map[string]any{
			"status":      newStatus,
			"reviewer_id": actorID,
		}); err != nil {
			return err
		}
		if comment != "" {
			reviewComment := models.ReviewComment{
				SegmentID:  segmentID,
				ReviewerID: actorID,
				Body:       comment,
			}
			if err := tx.Create(&reviewComment).Error; err != nil {
				return app_errors.ParseDBError(err)
			}
		}
		if approve {
			if _, err := s.memory.recordTx(tx, sc.segment.SourceText, sc.segment.TargetText,
				sc.document.SourceLanguage, sc.document.TargetLanguage, true, true); err != nil {
				return err
			}
		}
		if err := recomputeFromSegment(tx, sc.document.ID); err != nil {
			return err
		}
		return s.activity.recordTx(tx, models.ActivityLog{
			ProjectID:  sc.document.ProjectID,
			ActorID:    actorID,
			Action:     action,
			EntityType: "segment",
			EntityID:   segmentID,
			Detail:     utils.TruncateString(comment, 120),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, segmentID)
}

// Reopen returns a reviewed segment to human_edited so it can be corrected.
func (s *SegmentService) Reopen(ctx context.Context, segmentID, actorID string, expectedVersion int64) (*models.Segment, error) {
	sc, err := s.loadContext(ctx, segmentID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(sc.actor, permission.ActionReopenSegment, sc.state()) {
		if sc.segment.Status != models.SegmentStatusReviewed {
			return nil, app_errors.NewInvalidTransitionError(segmentID, sc.segment.Status, models.SegmentStatusHumanEdited)
		}
		return nil, app_errors.NewUnauthorizedError(actorID, string(permission.ActionReopenSegment))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.guardedUpdate(tx, segmentID, expectedVersion, map[string]any{
			"status": models.SegmentStatusHumanEdited,
		}); err != nil {
			return err
		}
		if err := recomputeFromSegment(tx, sc.document.ID); err != nil {
			return err
		}
		return s.activity.recordTx(tx, models.ActivityLog{
			ProjectID:  sc.document.ProjectID,
			ActorID:    actorID,
			Action:     "segment.reopened",
			EntityType: "segment",
			EntityID:   segmentID,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, segmentID)
}

// Reset clears a segment back to untranslated, discarding its target text.
// This is an administrative operation.
func (s *SegmentService) Reset(ctx context.Context, segmentID, actorID string, expectedVersion int64) (*models.Segment, error) {
	sc, err := s.loadContext(ctx, segmentID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(sc.actor, permission.ActionResetSegment, sc.state()) {
		return nil, app_errors.NewUnauthorizedError(actorID, string(permission.ActionResetSegment))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.guardedUpdate(tx, segmentID, expectedVersion, map[string]any{
			"target_text":   "",
			"status":        models.SegmentStatusUntranslated,
			"confidence":    0,
			"translator_id": nil,
			"reviewer_id":   nil,
		}); err != nil {
			return err
		}
		if err := recomputeFromSegment(tx, sc.document.ID); err != nil {
			return err
		}
		return s.activity.recordTx(tx, models.ActivityLog{
			ProjectID:  sc.document.ProjectID,
			ActorID:    actorID,
			Action:     "segment.reset",
			EntityType: "segment",
			EntityID:   segmentID,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, segmentID)
}

// Comments returns a segment's review comments, newest first.
func (s *SegmentService) Comments(ctx context.Context, segmentID, actorID string) ([]models.ReviewComment, error) {
	sc, err := s.loadContext(ctx, segmentID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(sc.actor, permission.ActionView, nil) {
		return nil, app_errors.NewUnauthorizedError(actorID, string(permission.ActionView))
	}

	var comments []models.ReviewComment
	if err := s.db.WithContext(ctx).
		Where("segment_id = ?", segmentID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return comments, nil
}

// guardedUpdate applies updates only when the segment still carries the
// expected version, bumping it in the same statement. A missed update is
// disambiguated into a version conflict or a not-found.
func (s *SegmentService) guardedUpdate(tx *gorm.DB, segmentID string, expectedVersion int64, updates map[string]any) error {
	updates["version"] = gorm.Expr("version + 1")
	result := tx.Model(&models.Segment{}).
		Where("id = ? AND version = ?", segmentID, expectedVersion).
		Updates(updates)
	if result.Error != nil {
		return app_errors.ParseDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		var current models.Segment
		if err := tx.First(&current, "id = ?", segmentID).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		return app_errors.NewConflictError(segmentID, expectedVersion, current.Version)
	}
	return nil
}

// translateWithRetry calls the provider and retries once after a backoff on
// a transient failure. Context cancellation is surfaced immediately.
func (s *SegmentService) translateWithRetry(ctx context.Context, text, sourceLang, targetLang string) (*provider.Result, error) {
	result, err := s.translator.Translate(ctx, text, sourceLang, targetLang)
	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	if !isTransientProviderError(err) {
		return nil, err
	}

	logrus.WithError(err).Warn("provider call failed, retrying once")
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(providerRetryBackoff):
	}
	return s.translator.Translate(ctx, text, sourceLang, targetLang)
}

func isTransientProviderError(err error) bool {
	var apiErr *app_errors.APIError
	if !errors.As(err, &apiErr) {
		// Network-level failures from the HTTP client are worth one retry.
		return true
	}
	return apiErr.Code == app_errors.ErrRateLimited.Code ||
		apiErr.Code == app_errors.ErrProviderUnavailable.Code
}

func (s *SegmentService) reload(ctx context.Context, segmentID string) (*models.Segment, error) {
	var seg models.Segment
	if err := s.db.WithContext(ctx).First(&seg, "id = ?", segmentID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return &seg, nil
}
