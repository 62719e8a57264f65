package autothread

import (
	"unicode/utf16"

	"github.com/user/autothread/internal/types"
)

// MaxThreadNameLength is the platform limit for channel names, counted in
// UTF-16 code units.
const MaxThreadNameLength = 100

// ThreadName cuts title to MaxThreadNameLength UTF-16 code units. The cut
// is not word aware. A high surrogate orphaned by the cut is dropped.
func ThreadName(title string) string {
	units := utf16.Encode([]rune(title))
	if len(units) <= MaxThreadNameLength {
		return title
	}
	units = units[:MaxThreadNameLength]
	if last := units[len(units)-1]; last >= 0xd800 && last < 0xdc00 {
		units = units[:len(units)-1]
	}
	return string(utf16.Decode(units))
}

// FallbackClassification is used whenever the classifier cannot produce a
// result.
func FallbackClassification(msg *types.IncomingMessage) types.Classification {
	return types.Classification{
		ShortTitle:      msg.DisplayName() + "'s thread",
		HasCodeExamples: false,
		HasCodeFences:   false,
	}
}
