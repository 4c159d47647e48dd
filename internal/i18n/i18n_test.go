//go:build !integration

package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetTranslator(t *testing.T) {
	assert.Same(t, GetTranslator(), GetTranslator())
}

func TestTranslator_Translate(t *testing.T) {
	translator := NewTranslator()

	tests := []struct {
		name     string
		key      string
		locale   string
		expected string
	}{
		{"english", ErrKeyComputationTimeout, "en", "The packing computation ran out of time"},
		{"portuguese", ErrKeyNotFound, "pt", "Não encontrado"},
		{"empty locale", ErrKeyNotFound, "", "Not found"},
		{"unsupported locale", ErrKeyNotFound, "fr", "Not found"},
		{"unknown key", "unknown.key", "pt", "unknown.key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, translator.Translate(tt.key, tt.locale))
		})
	}
}

func TestTranslator_EveryKeyTranslated(t *testing.T) {
	keys := []string{
		ErrKeyInvalidRequest, ErrKeyInvalidRequestBody, ErrKeyInvalidRules,
		ErrKeyNoSuitableCarton, ErrKeyItemExceedsAllCartons, ErrKeyWeightLimitExceeded,
		ErrKeyComputationTimeout, ErrKeyInternalValidationFailure, ErrKeyDependencyUnavailable,
		ErrKeyInternalError, ErrKeyNotFound, ErrKeyRateLimitExceeded, ErrKeyTimeout,
	}
	for locale, catalog := range messages {
		for _, key := range keys {
			assert.Contains(t, catalog, key, "locale %s", locale)
		}
	}
}

func TestGetLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		acceptLanguage string
		expected       string
	}{
		{"no header", "", DefaultLocale},
		{"portuguese", "pt", "pt"},
		{"region suffix", "pt-BR", "pt"},
		{"first supported wins", "fr-FR,pt;q=0.8,en;q=0.5", "pt"},
		{"unsupported", "fr", DefaultLocale},
		{"case insensitive", "PT", "pt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.acceptLanguage != "" {
				req.Header.Set(AcceptLanguageHeader, tt.acceptLanguage)
			}
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = req

			assert.Equal(t, tt.expected, GetLocale(c))
		})
	}
}
