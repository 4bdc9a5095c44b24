package normalisers

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

// DecodeText converts exported bytes to a UTF-8 string.
//
// A UTF-8 or UTF-16 byte order mark selects the encoding and is removed.
// Content without a BOM that is not valid UTF-8 is read as Windows-1252.
func DecodeText(content []byte) (string, error) {
	if len(content) == 0 {
		return "", domain.ErrEmptyInput
	}

	var fallback transform.Transformer = unicode.UTF8.NewDecoder()
	if !utf8.Valid(content) {
		fallback = charmap.Windows1252.NewDecoder()
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), content)
	if err != nil {
		return "", fmt.Errorf("%w: decode text: %v", domain.ErrInvalidInput, err)
	}

	return string(out), nil
}
