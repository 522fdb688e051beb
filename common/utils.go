// Package common provides the shared normalization helpers used across
// the scraping pipeline.
package common

import (
	"hash/fnv"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// countPattern matches human-readable counts like "1.2K", "3.4M" or "1,500",
// optionally followed by trailing text ("1.2K subscribers").
var countPattern = regexp.MustCompile(`([\d,.]+)\s*([KMBkmb]?)`)

// channelPathPattern extracts the ID segment from /channel/<id> URLs.
var channelPathPattern = regexp.MustCompile(`/channel/([^/?#]+)`)

// handlePathPattern extracts the handle segment from /@handle URLs.
var handlePathPattern = regexp.MustCompile(`/(@[^/?#]+)`)

// ParseCount converts a human-readable count string to an integer.
// Non-numeric characters other than the decimal point are stripped, the
// remainder is parsed as a float and scaled by the K/M/B suffix, then
// floored. Empty or unparseable input yields 0.
func ParseCount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	m := countPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	num, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}

	switch strings.ToUpper(m[2]) {
	case "K":
		num *= 1_000
	case "M":
		num *= 1_000_000
	case "B":
		num *= 1_000_000_000
	}

	return int64(math.Floor(num))
}

// ExtractChannelID normalizes a channel URL, handle or raw ID to the
// canonical channel identifier. Returns the empty string when the input
// cannot be parsed into an identifier at all.
func ExtractChannelID(urlOrID string) string {
	s := strings.TrimSpace(urlOrID)
	if s == "" {
		return ""
	}

	if m := channelPathPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}

	if strings.Contains(s, "://") || strings.HasPrefix(s, "www.") || strings.HasPrefix(s, "youtube.com") {
		if m := handlePathPattern.FindStringSubmatch(s); m != nil {
			return m[1]
		}
		return ""
	}

	// Bare identifiers: raw channel IDs, handles and synthetic IDs pass
	// through untouched.
	if strings.HasPrefix(s, "UC") && len(s) >= 10 {
		return s
	}
	if strings.HasPrefix(s, "@") && len(s) > 1 {
		return s
	}
	if strings.HasPrefix(s, "demo-") {
		return s
	}

	return ""
}

// HashString returns the FNV-1a 64-bit hash of s. The algorithm is fixed
// so that synthetic data seeded from channel IDs is reproducible across
// runs and reimplementations.
func HashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// GenerateRunID generates a unique identifier based on the current timestamp.
// The identifier is formatted as a string in the "YYYYMMDDHHMMSS" format.
func GenerateRunID() string {
	return time.Now().Format("20060102150405")
}
