// Package lang resolves the four languages the pipeline speaks.
package lang

// Language codes accepted across the pipeline boundary.
const (
	English = "en"
	Hindi   = "hi"
	Tamil   = "ta"
	Telugu  = "te"
)

// Supported reports whether code is one of the four pipeline languages.
func Supported(code string) bool {
	switch code {
	case English, Hindi, Tamil, Telugu:
		return true
	}
	return false
}

// Detect resolves a language code from query text by script. The three
// Indic scripts occupy disjoint Unicode blocks, so the first Indic rune
// decides; Latin-only text resolves to English.
func Detect(text string) string {
	for _, r := range text {
		switch {
		case r >= 0x0900 && r <= 0x097F:
			return Hindi
		case r >= 0x0B80 && r <= 0x0BFF:
			return Tamil
		case r >= 0x0C00 && r <= 0x0C7F:
			return Telugu
		}
	}
	return English
}

// Resolve returns code when it names a supported language, otherwise
// the language detected from text.
func Resolve(code, text string) string {
	if Supported(code) {
		return code
	}
	return Detect(text)
}
