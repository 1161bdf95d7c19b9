package translatex

import (
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DetectLocale guesses the language of text. It returns "" when the guess is
// not reliable.
func DetectLocale(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}

// LanguageName renders a locale tag as an English name, "Spanish (Mexico)"
// for es-MX. Unparseable tags are returned unchanged.
func LanguageName(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return locale
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return locale
	}
	return name
}

// SystemPrompt is the instruction shared by the chat-model providers.
const SystemPrompt = "You are a professional translator. Translate the user's text faithfully. " +
	"Preserve meaning, tone, formatting and placeholders. " +
	"Reply with the translation only, without quotes, notes or explanations."

// UserPrompt builds the per-request instruction.
func UserPrompt(req Request) string {
	var b strings.Builder

	source := req.SourceLocale
	if source == "" {
		source = DetectLocale(req.Text)
	}
	if source != "" {
		fmt.Fprintf(&b, "Translate the following text from %s to %s.\n\n", LanguageName(source), LanguageName(req.TargetLocale))
	} else {
		fmt.Fprintf(&b, "Detect the language of the following text and translate it to %s.\n\n", LanguageName(req.TargetLocale))
	}
	b.WriteString(req.Text)
	return b.String()
}
