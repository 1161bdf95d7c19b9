package translation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// Limits bounds what the API accepts.
type Limits struct {
	MaxTextLength        int
	RequireDeliveryToken bool
}

// Validate checks a submission before it reaches the queue.
func (r *SubmitRequest) Validate(limits Limits) error {
	if err := validateCommon(r.Text, r.SourceLanguage, r.TargetLanguage, limits); err != nil {
		return err
	}
	if limits.RequireDeliveryToken && strings.TrimSpace(r.DeliveryToken) == "" {
		return ErrInvalidRequest("deliveryToken is required")
	}
	return nil
}

// Validate checks a synchronous translation request.
func (r *TranslateRequest) Validate(limits Limits) error {
	return validateCommon(r.Text, r.SourceLanguage, r.TargetLanguage, limits)
}

func validateCommon(text string, source *string, target string, limits Limits) error {
	if strings.TrimSpace(text) == "" {
		return ErrInvalidRequest("text is required")
	}
	if limits.MaxTextLength > 0 && utf8.RuneCountInString(text) > limits.MaxTextLength {
		return ErrInvalidRequest(fmt.Sprintf("text exceeds %d characters", limits.MaxTextLength))
	}
	if strings.TrimSpace(target) == "" {
		return ErrInvalidRequest("targetLanguage is required")
	}
	if _, err := ParseLocale(target); err != nil {
		return ErrInvalidRequest(fmt.Sprintf("targetLanguage %q is not a valid locale", target))
	}
	if source != nil && *source != "" {
		if _, err := ParseLocale(*source); err != nil {
			return ErrInvalidRequest(fmt.Sprintf("sourceLanguage %q is not a valid locale", *source))
		}
	}
	return nil
}

// ParseLocale parses a BCP-47 tag such as "es" or "pt-BR".
func ParseLocale(s string) (language.Tag, error) {
	return language.Parse(strings.TrimSpace(s))
}

// NormalizeSource turns an empty hint into nil so it round-trips as null.
func NormalizeSource(source *string) *string {
	if source == nil || strings.TrimSpace(*source) == "" {
		return nil
	}
	s := strings.TrimSpace(*source)
	return &s
}
