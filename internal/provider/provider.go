// Package provider wraps the external machine translation service. The engine
// treats it as a black box: text in, translated text out.
package provider

import "context"

// Result is a single translation outcome. Confidence is 0 when the provider
// does not report one; the segment engine applies its configured default.
type Result struct {
	Text       string
	Confidence int
}

// Translator is the external translation collaborator.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error)
}
