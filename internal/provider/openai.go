package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lingoflow/internal/config"
	app_errors "lingoflow/internal/errors"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const systemPrompt = "You are a professional translator."

// OpenAITranslator calls an OpenAI-compatible chat completions endpoint.
// Connection values (base URL, model, key, timeout) come from the runtime
// settings so they can be changed without a restart.
type OpenAITranslator struct {
	client          *resty.Client
	settingsManager *config.SystemSettingsManager
}

// NewOpenAITranslator creates the provider client.
func NewOpenAITranslator(settingsManager *config.SystemSettingsManager) *OpenAITranslator {
	client := resty.New().
		SetRetryCount(0). // the segment engine owns retry policy
		SetHeader("Content-Type", "application/json")
	return &OpenAITranslator{
		client:          client,
		settingsManager: settingsManager,
	}
}

// Translate sends the text to the chat completions endpoint and returns the
// translated text. Rate limiting and provider outages map onto the engine's
// error kinds; the caller decides whether to retry.
func (t *OpenAITranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error) {
	settings := t.settingsManager.GetSettings()
	if settings.ProviderAPIKey == "" {
		return nil, app_errors.NewAPIError(app_errors.ErrProviderUnavailable, "translation provider API key is not configured")
	}

	prompt := fmt.Sprintf(
		"Translate the following text from %s to %s. Maintain the original formatting and tone. Only return the translated text without any additional comments or explanations:\n\n%s",
		sourceLang, targetLang, text,
	)

	body := `{"temperature":0.3}`
	body, _ = sjson.Set(body, "model", settings.ProviderModel)
	body, _ = sjson.Set(body, "messages.0.role", "system")
	body, _ = sjson.Set(body, "messages.0.content", systemPrompt)
	body, _ = sjson.Set(body, "messages.1.role", "user")
	body, _ = sjson.Set(body, "messages.1.content", prompt)

	timeout := time.Duration(settings.ProviderTimeoutSeconds) * time.Second
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := t.client.R().
		SetContext(callCtx).
		SetAuthToken(settings.ProviderAPIKey).
		SetBody(body).
		Post(strings.TrimRight(settings.ProviderBaseURL, "/") + "/chat/completions")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logrus.WithError(err).Warn("Translation provider request failed")
		return nil, app_errors.NewAPIError(app_errors.ErrProviderUnavailable, err.Error())
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		return nil, app_errors.ErrRateLimited
	}
	if resp.StatusCode() != http.StatusOK {
		message := gjson.GetBytes(resp.Body(), "error.message").String()
		if message == "" {
			message = fmt.Sprintf("provider returned status %d", resp.StatusCode())
		}
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode(),
		}).Warn("Translation provider returned an error")
		return nil, app_errors.NewAPIError(app_errors.ErrProviderUnavailable, message)
	}

	translated := strings.TrimSpace(gjson.GetBytes(resp.Body(), "choices.0.message.content").String())
	if translated == "" {
		return nil, app_errors.NewAPIError(app_errors.ErrProviderUnavailable, "provider returned an empty translation")
	}

	// Chat completion APIs report no confidence; leave it to the engine default.
	return &Result{Text: translated, Confidence: 0}, nil
}
