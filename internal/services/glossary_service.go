package services

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"
	"lingoflow/internal/utils"

	"gorm.io/gorm"
)

// TermHit is a glossary term found in a source text, with the translation the
// term mandates.
type TermHit struct {
	TermID      string `json:"term_id"`
	Term        string `json:"term"`
	Domain      string `json:"domain"`
	Translation string `json:"translation"`
}

// GlossaryService manages mandated terminology and matches terms against
// source texts.
type GlossaryService struct {
	db *gorm.DB
}

func NewGlossaryService(db *gorm.DB) *GlossaryService {
	return &GlossaryService{db: db}
}

// CreateTerm adds a glossary term. Terms are unique per (term, domain); the
// empty domain is the general glossary.
func (s *GlossaryService) CreateTerm(ctx context.Context, term, domain, translation, definition, notes string) (*models.GlossaryTerm, error) {
	if utils.IsBlank(term) || utils.IsBlank(translation) {
		return nil, app_errors.NewValidationError("term and translation cannot be empty")
	}

	entry := models.GlossaryTerm{
		Term:        strings.TrimSpace(term),
		Domain:      strings.TrimSpace(domain),
		Translation: strings.TrimSpace(translation),
		Definition:  definition,
		Notes:       notes,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return &entry, nil
}

// UpdateTerm changes the translation, definition, or notes of a term. The
// term text and domain are its identity and do not change.
func (s *GlossaryService) UpdateTerm(ctx context.Context, termID, translation, definition, notes string) (*models.GlossaryTerm, error) {
	if utils.IsBlank(translation) {
		return nil, app_errors.NewValidationError("translation cannot be empty")
	}

	var entry models.GlossaryTerm
	if err := s.db.WithContext(ctx).First(&entry, "id = ?", termID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}

	entry.Translation = strings.TrimSpace(translation)
	entry.Definition = definition
	entry.Notes = notes
	if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return &entry, nil
}

// DeleteTerm removes a glossary term.
func (s *GlossaryService) DeleteTerm(ctx context.Context, termID string) error {
	result := s.db.WithContext(ctx).Delete(&models.GlossaryTerm{}, "id = ?", termID)
	if result.Error != nil {
		return app_errors.ParseDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return app_errors.NewNotFoundError("glossary term")
	}
	return nil
}

// ListTerms returns terms, optionally filtered by domain or a substring of
// the term text.
func (s *GlossaryService) ListTerms(ctx context.Context, domain, search string, page, pageSize int) ([]models.GlossaryTerm, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.GlossaryTerm{})
	if domain != "" {
		query = query.Where("domain = ?", domain)
	}
	if search != "" {
		query = query.Where("term LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, app_errors.ParseDBError(err)
	}

	var terms []models.GlossaryTerm
	if err := query.Order("term ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&terms).Error; err != nil {
		return nil, 0, app_errors.ParseDBError(err)
	}
	return terms, total, nil
}

// MatchTerms finds every glossary term occurring in sourceText, matched
// case-insensitively on word boundaries. Domain-specific terms shadow the
// general glossary for the same term text.
func (s *GlossaryService) MatchTerms(ctx context.Context, sourceText, domain string) ([]TermHit, error) {
	query := s.db.WithContext(ctx).Model(&models.GlossaryTerm{})
	if domain != "" {
		query = query.Where("domain = ? OR domain = ''", domain)
	} else {
		query = query.Where("domain = ''")
	}

	var terms []models.GlossaryTerm
	if err := query.Find(&terms).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}

	normalized := utils.NormalizeText(sourceText)
	byTerm := make(map[string]models.GlossaryTerm)
	for _, t := range terms {
		key := utils.NormalizeText(t.Term)
		if !containsTerm(normalized, key) {
			continue
		}
		if prev, ok := byTerm[key]; ok && prev.Domain != "" && t.Domain == "" {
			continue
		}
		byTerm[key] = t
	}

	hits := make([]TermHit, 0, len(byTerm))
	for _, t := range byTerm {
		hits = append(hits, TermHit{
			TermID:      t.ID,
			Term:        t.Term,
			Domain:      t.Domain,
			Translation: t.Translation,
		})
	}
	return hits, nil
}

// containsTerm reports whether term occurs in text bounded by non-word runes,
// so terms next to punctuation still match while substrings of longer words
// do not.
func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for start := 0; ; {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		idx += start
		if wordBoundaryBefore(text, idx) && wordBoundaryAfter(text, idx+len(term)) {
			return true
		}
		start = idx + len(term)
	}
}

func wordBoundaryBefore(text string, idx int) bool {
	if idx == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:idx])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func wordBoundaryAfter(text string, idx int) bool {
	if idx >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[idx:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
