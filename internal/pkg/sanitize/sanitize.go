package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Text strips markup and control bytes from free-form user input and caps
// its length in runes.
func Text(input string, maxLen int) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = strictPolicy.Sanitize(input)
	input = strings.TrimSpace(input)

	if maxLen > 0 {
		runes := []rune(input)
		if len(runes) > maxLen {
			input = string(runes[:maxLen])
		}
	}
	return input
}
