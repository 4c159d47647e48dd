// Package i18n translates user-facing error messages of the cartonization API.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is used when the caller sends no supported language.
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator maps message keys to localized text.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a translator with the built-in catalog.
func NewTranslator() *Translator {
	return &Translator{messages: messages}
}

// GetTranslator returns the shared translator.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the message for key in locale, falling back to
// DefaultLocale and finally to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Supports reports whether locale has a message catalog.
func (t *Translator) Supports(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// GetLocale picks the first supported language from Accept-Language.
// Quality values are ignored; the header order is taken as preference order.
func GetLocale(c *gin.Context) string {
	header := c.GetHeader(AcceptLanguageHeader)
	if header == "" {
		return DefaultLocale
	}

	t := GetTranslator()
	for _, part := range strings.Split(header, ",") {
		lang := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if idx := strings.Index(lang, "-"); idx > 0 {
			lang = lang[:idx]
		}
		lang = strings.ToLower(lang)
		if t.Supports(lang) {
			return lang
		}
	}
	return DefaultLocale
}

var messages = map[string]map[string]string{
	"en": {
		ErrKeyInvalidRequest:            "The packing request is invalid",
		ErrKeyInvalidRequestBody:        "Invalid request body",
		ErrKeyInvalidRules:              "The packing rules are invalid",
		ErrKeyNoSuitableCarton:          "No carton combination can hold the order",
		ErrKeyItemExceedsAllCartons:     "An item is larger than every available carton",
		ErrKeyWeightLimitExceeded:       "An item is heavier than every available carton allows",
		ErrKeyComputationTimeout:        "The packing computation ran out of time",
		ErrKeyInternalValidationFailure: "The packing engine produced an invalid solution",
		ErrKeyDependencyUnavailable:     "A required dependency is unavailable, please retry",
		ErrKeyInternalError:             "An unexpected error occurred",
		ErrKeyNotFound:                  "Not found",
		ErrKeyRateLimitExceeded:         "Too many requests, please try again later",
		ErrKeyTimeout:                   "The request timed out",
	},
	"pt": {
		ErrKeyInvalidRequest:            "A requisição de empacotamento é inválida",
		ErrKeyInvalidRequestBody:        "Corpo da requisição inválido",
		ErrKeyInvalidRules:              "As regras de empacotamento são inválidas",
		ErrKeyNoSuitableCarton:          "Nenhuma combinação de caixas comporta o pedido",
		ErrKeyItemExceedsAllCartons:     "Um item é maior que todas as caixas disponíveis",
		ErrKeyWeightLimitExceeded:       "Um item excede o peso suportado por todas as caixas",
		ErrKeyComputationTimeout:        "O cálculo de empacotamento excedeu o tempo limite",
		ErrKeyInternalValidationFailure: "O motor de empacotamento gerou uma solução inválida",
		ErrKeyDependencyUnavailable:     "Uma dependência necessária está indisponível, tente novamente",
		ErrKeyInternalError:             "Ocorreu um erro inesperado",
		ErrKeyNotFound:                  "Não encontrado",
		ErrKeyRateLimitExceeded:         "Muitas requisições, tente novamente mais tarde",
		ErrKeyTimeout:                   "A requisição excedeu o tempo limite",
	},
}
