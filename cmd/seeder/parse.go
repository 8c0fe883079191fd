package main

import (
	"strconv"
	"strings"
	"time"
)

var importDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// parseDateField falls back to the current time for unusable dates, so a
// bad row still lands inside the browsable range.
func parseDateField(raw string) time.Time {
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

// parseAmountField strips currency symbols and digit grouping before
// parsing; anything unusable becomes 0.
func parseAmountField(raw string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parseCountField keeps digits only; anything unusable becomes 0
func parseCountField(raw string) int {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return v
}

// parseTagsField splits a possibly-quoted comma separated tag list
func parseTagsField(raw string) []string {
	raw = strings.Trim(raw, `"`)
	if raw == "" {
		return []string{}
	}

	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
