package provider

import (
	"context"
	"sync/atomic"
)

// MockTranslator implements Translator for testing.
type MockTranslator struct {
	Result *Result
	Err    error
	// Errs, when non-empty, is consumed one call at a time before Result/Err
	// apply. A nil entry means that call succeeds with Result.
	Errs  []error
	calls atomic.Int64
}

// Translate returns the scripted result or error.
func (m *MockTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := int(m.calls.Add(1)) - 1
	if n < len(m.Errs) {
		if m.Errs[n] != nil {
			return nil, m.Errs[n]
		}
		return m.result(text), nil
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.result(text), nil
}

// Calls reports how many times Translate ran.
func (m *MockTranslator) Calls() int {
	return int(m.calls.Load())
}

func (m *MockTranslator) result(text string) *Result {
	if m.Result != nil {
		return m.Result
	}
	return &Result{Text: "[mt] " + text}
}
