package extractor

import (
	"errors"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned for text uploads that are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("document is not valid UTF-8")

// ExtractText returns data unchanged as a string. No BOM stripping or
// whitespace trimming is done.
func ExtractText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrInvalidUTF8
	}
	return string(data), nil
}
