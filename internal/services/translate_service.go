package services

import (
	"context"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/provider"
	"lingoflow/internal/utils"
)

// QuickTranslation is the result of an ad-hoc translation outside any
// project.
type QuickTranslation struct {
	SourceText   string    `json:"source_text"`
	TargetText   string    `json:"target_text"`
	Confidence   int       `json:"confidence"`
	FromMemory   bool      `json:"from_memory"`
	Similarity   int       `json:"similarity,omitempty"`
	GlossaryHits []TermHit `json:"glossary_hits,omitempty"`
}

// TranslateService serves one-off translations: memory first, provider on a
// miss, and the result recorded back into memory for reuse.
type TranslateService struct {
	memory     *TranslationMemoryService
	glossary   *GlossaryService
	translator provider.Translator
	scorer     ConfidenceScorer
}

func NewTranslateService(memory *TranslationMemoryService, glossary *GlossaryService, translator provider.Translator, scorer ConfidenceScorer) *TranslateService {
	return &TranslateService{memory: memory, glossary: glossary, translator: translator, scorer: scorer}
}

// QuickTranslate translates text between two languages without touching any
// project. Glossary hits for the source text ride along so the caller can
// check mandated terminology.
func (s *TranslateService) QuickTranslate(ctx context.Context, text, sourceLang, targetLang, domain string) (*QuickTranslation, error) {
	if utils.IsBlank(text) {
		return nil, app_errors.NewValidationError("text cannot be empty")
	}
	if sourceLang == "" || targetLang == "" {
		return nil, app_errors.NewValidationError("source and target language are required")
	}
	if sourceLang == targetLang {
		return nil, app_errors.NewValidationError("source and target language must differ")
	}

	hits, err := s.glossary.MatchTerms(ctx, text, domain)
	if err != nil {
		return nil, err
	}

	match, err := s.memory.Lookup(ctx, text, sourceLang, targetLang)
	if err != nil {
		return nil, err
	}
	if match != nil {
		return &QuickTranslation{
			SourceText:   text,
			TargetText:   match.TargetText,
			Confidence:   s.scorer.ScoreMemoryMatch(match),
			FromMemory:   true,
			Similarity:   match.Similarity,
			GlossaryHits: hits,
		}, nil
	}

	result, err := s.translator.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return nil, err
	}
	if _, err := s.memory.Record(ctx, text, result.Text, sourceLang, targetLang, false, false); err != nil {
		return nil, err
	}
	return &QuickTranslation{
		SourceText:   text,
		TargetText:   result.Text,
		Confidence:   s.scorer.ScoreProviderResult(result),
		GlossaryHits: hits,
	}, nil
}
