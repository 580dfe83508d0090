package sanitizer

import "strings"

const MaxIdempotencyKeyLength = 128

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var roomTypePipeline = Pipeline{
	stripControl,
	TrimAndNormalize,
}

// NormalizeRoomType cleans a room category label. Case is preserved because
// the label is shown back to guests verbatim.
func NormalizeRoomType(roomType string) string {
	return roomTypePipeline.Apply(roomType)
}

// NormalizeIdempotencyKey trims the header value and drops anything that is
// too long to be a sensible client key.
func NormalizeIdempotencyKey(key string) string {
	key = strings.TrimSpace(stripControl(key))
	if len(key) > MaxIdempotencyKeyLength {
		return ""
	}
	return key
}
