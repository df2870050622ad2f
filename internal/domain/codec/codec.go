// Package codec decodes the wire forms entities arrive in: timestamp-prefixed tags and
// base64 content blobs.
package codec

import (
	"encoding/base64"
	"strings"
)

// TimestampSeparator separates the provenance timestamp from the tag body ("<nanos>|key:value").
const TimestampSeparator = "|"

// StripTimestamp returns the part of tag after the first pipe, or tag unchanged when it has none.
func StripTimestamp(tag string) string {
	if _, after, ok := strings.Cut(tag, TimestampSeparator); ok {
		return after
	}
	return tag
}

// CleanTags strips the timestamp prefix from every tag, preserving order.
func CleanTags(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = StripTimestamp(t)
	}
	return out
}

// DecodeContent decodes a base64 blob. Padding is optional and ASCII whitespace is ignored.
// ok is false when the blob is not valid base64; the returned text is then empty.
func DecodeContent(blob string) (text string, ok bool) {
	if blob == "" {
		return "", true
	}
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			return -1
		}
		return r
	}, blob)

	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return string(b), true
	}
	if b, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); err == nil {
		return string(b), true
	}
	return "", false
}

// Encode is the inverse of DecodeContent, used by callers building entities from plain text.
func Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}
