package services

import (
	"lingoflow/internal/provider"
	"lingoflow/internal/types"
)

// ConfidenceScorer assigns a confidence value to a machine translation,
// whether it came from translation memory or from the provider. It is a
// strategy point so deployments can plug in their own scoring.
type ConfidenceScorer interface {
	ScoreMemoryMatch(match *TMMatch) int
	ScoreProviderResult(result *provider.Result) int
}

// settingsScorer is the default scorer: memory matches score their
// similarity, provider results use the reported confidence or fall back to
// the configured default when the provider reports none.
type settingsScorer struct {
	settingsManager types.SystemSettingsProvider
}

func NewDefaultConfidenceScorer(settingsManager types.SystemSettingsProvider) ConfidenceScorer {
	return &settingsScorer{settingsManager: settingsManager}
}

func (s *settingsScorer) ScoreMemoryMatch(match *TMMatch) int {
	return match.Similarity
}

func (s *settingsScorer) ScoreProviderResult(result *provider.Result) int {
	if result.Confidence > 0 {
		return result.Confidence
	}
	return s.settingsManager.GetSettings().DefaultMachineConfidence
}
