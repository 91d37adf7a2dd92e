package services

import (
	"context"
	"time"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"
	"lingoflow/internal/types"
	"lingoflow/internal/utils"

	"gorm.io/gorm"
)

// TMMatch is the outcome of a translation memory lookup.
type TMMatch struct {
	EntryID    string `json:"entry_id"`
	TargetText string `json:"target_text"`
	Similarity int    `json:"similarity"`
	Quality    int    `json:"quality"`
	Exact      bool   `json:"exact"`
}

// TranslationMemoryService stores and retrieves reusable translations. Keys
// are normalized source texts per language pair, so casing and whitespace
// differences still hit.
type TranslationMemoryService struct {
	db              *gorm.DB
	settingsManager types.SystemSettingsProvider
}

func NewTranslationMemoryService(db *gorm.DB, settingsManager types.SystemSettingsProvider) *TranslationMemoryService {
	return &TranslationMemoryService{db: db, settingsManager: settingsManager}
}

// Lookup finds the best reusable translation for sourceText. Exact normalized
// matches score 100; otherwise the closest entry at or above the similarity
// floor wins, ties broken by frequency then recency of use. A nil match with
// a nil error means a clean miss.
func (s *TranslationMemoryService) Lookup(ctx context.Context, sourceText, sourceLang, targetLang string) (*TMMatch, error) {
	return s.lookupTx(s.db.WithContext(ctx), sourceText, sourceLang, targetLang)
}

func (s *TranslationMemoryService) lookupTx(tx *gorm.DB, sourceText, sourceLang, targetLang string) (*TMMatch, error) {
	if utils.IsBlank(sourceText) {
		return nil, app_errors.NewValidationError("source text cannot be empty")
	}
	key := utils.NormalizeText(sourceText)

	var exact models.TranslationMemoryEntry
	err := tx.Where("source_key = ? AND source_language = ? AND target_language = ?", key, sourceLang, targetLang).
		First(&exact).Error
	if err == nil {
		return &TMMatch{
			EntryID:    exact.ID,
			TargetText: exact.TargetText,
			Similarity: 100,
			Quality:    exact.Quality,
			Exact:      true,
		}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, app_errors.ParseDBError(err)
	}

	floor := s.settingsManager.GetSettings().SimilarityFloor

	var candidates []models.TranslationMemoryEntry
	if err := tx.Where("source_language = ? AND target_language = ?", sourceLang, targetLang).
		Find(&candidates).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}

	var best *models.TranslationMemoryEntry
	bestScore := 0
	for i := range candidates {
		c := &candidates[i]
		score := utils.Similarity(key, c.SourceKey)
		if score < floor {
			continue
		}
		if best == nil || score > bestScore ||
			(score == bestScore && moreReusable(c, best)) {
			best = c
			bestScore = score
		}
	}
	if best == nil {
		return nil, nil
	}
	return &TMMatch{
		EntryID:    best.ID,
		TargetText: best.TargetText,
		Similarity: bestScore,
		Quality:    best.Quality,
	}, nil
}

// moreReusable orders equally similar entries: higher frequency first, then
// the one used most recently.
func moreReusable(a, b *models.TranslationMemoryEntry) bool {
	if a.Frequency != b.Frequency {
		return a.Frequency > b.Frequency
	}
	switch {
	case a.LastUsedAt == nil:
		return false
	case b.LastUsedAt == nil:
		return true
	default:
		return a.LastUsedAt.After(*b.LastUsedAt)
	}
}

// Record upserts a translation. An existing entry for the same normalized key
// is only overwritten when supersede is set, and a reviewed entry is never
// overwritten by an unreviewed recording; otherwise the frequency is bumped
// and the stored target kept. Reviewed entries carry quality 100.
func (s *TranslationMemoryService) Record(ctx context.Context, sourceText, targetText, sourceLang, targetLang string, reviewed, supersede bool) (*models.TranslationMemoryEntry, error) {
	var entry *models.TranslationMemoryEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = s.recordTx(tx, sourceText, targetText, sourceLang, targetLang, reviewed, supersede)
		return txErr
	})
	return entry, err
}

func (s *TranslationMemoryService) recordTx(tx *gorm.DB, sourceText, targetText, sourceLang, targetLang string, reviewed, supersede bool) (*models.TranslationMemoryEntry, error) {
	if utils.IsBlank(sourceText) || utils.IsBlank(targetText) {
		return nil, app_errors.NewValidationError("source and target text cannot be empty")
	}
	if sourceLang == targetLang {
		return nil, app_errors.NewValidationError("source and target language must differ")
	}
	key := utils.NormalizeText(sourceText)
	now := time.Now()

	quality := 0
	if reviewed {
		quality = 100
	}

	var existing models.TranslationMemoryEntry
	err := tx.Where("source_key = ? AND source_language = ? AND target_language = ?", key, sourceLang, targetLang).
		First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		entry := models.TranslationMemoryEntry{
			SourceKey:      key,
			SourceLanguage: sourceLang,
			TargetLanguage: targetLang,
			SourceText:     sourceText,
			TargetText:     targetText,
			Frequency:      1,
			Quality:        quality,
			Reviewed:       reviewed,
			LastUsedAt:     &now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return nil, app_errors.ParseDBError(err)
		}
		return &entry, nil
	}
	if err != nil {
		return nil, app_errors.ParseDBError(err)
	}

	updates := map[string]any{
		"frequency":    gorm.Expr("frequency + 1"),
		"last_used_at": now,
	}
	// A reviewed translation is never replaced by an unreviewed one; the
	// unreviewed recording still counts as a use of the entry.
	if existing.Reviewed && !reviewed {
		supersede = false
	}
	if supersede {
		updates["target_text"] = targetText
		updates["reviewed"] = reviewed
		updates["quality"] = quality
	}
	if err := tx.Model(&models.TranslationMemoryEntry{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}

	if err := tx.First(&existing, "id = ?", existing.ID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return &existing, nil
}

// touchEntryTx marks a TM entry as reused: frequency up, last_used_at now.
func (s *TranslationMemoryService) touchEntryTx(tx *gorm.DB, entryID string) error {
	err := tx.Model(&models.TranslationMemoryEntry{}).
		Where("id = ?", entryID).
		Updates(map[string]any{
			"frequency":    gorm.Expr("frequency + 1"),
			"last_used_at": time.Now(),
		}).Error
	if err != nil {
		return app_errors.ParseDBError(err)
	}
	return nil
}

// List returns TM entries for a language pair, most frequently used first.
func (s *TranslationMemoryService) List(ctx context.Context, sourceLang, targetLang string, page, pageSize int) ([]models.TranslationMemoryEntry, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.TranslationMemoryEntry{})
	if sourceLang != "" {
		query = query.Where("source_language = ?", sourceLang)
	}
	if targetLang != "" {
		query = query.Where("target_language = ?", targetLang)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, app_errors.ParseDBError(err)
	}

	var entries []models.TranslationMemoryEntry
	if err := query.Order("frequency DESC, updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error; err != nil {
		return nil, 0, app_errors.ParseDBError(err)
	}
	return entries, total, nil
}

// Delete removes a TM entry.
func (s *TranslationMemoryService) Delete(ctx context.Context, entryID string) error {
	result := s.db.WithContext(ctx).Delete(&models.TranslationMemoryEntry{}, "id = ?", entryID)
	if result.Error != nil {
		return app_errors.ParseDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return app_errors.NewNotFoundError("translation memory entry")
	}
	return nil
}
