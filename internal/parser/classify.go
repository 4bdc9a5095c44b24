package parser

import (
	"strings"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

// MediaMarkers are body substrings that mark an omitted attachment.
// Matching is case-sensitive.
var MediaMarkers = []string{
	"Media omitted",
	"image omitted",
	"video omitted",
	"audio omitted",
	"sticker omitted",
	"document omitted",
	"GIF omitted",
}

// SystemPhrases are body substrings that mark a group event.
// Matching is case-sensitive and not word-bounded, so ordinary text such as
// "I added sugar" is classified as system.
var SystemPhrases = []string{
	"added",
	"left",
	"changed",
}

// Classify returns the message type for body.
// Media markers take precedence over system phrases.
func Classify(body string) domain.MessageType {
	if containsAny(body, MediaMarkers) {
		return domain.MessageTypeMedia
	}
	if containsAny(body, SystemPhrases) {
		return domain.MessageTypeSystem
	}
	return domain.MessageTypeText
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
