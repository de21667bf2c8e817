// Package timeinput interprets the structured time expressions accepted by
// the reminder add command: absolute timestamps and Japanese relative
// phrases like 「10分後」.
package timeinput

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativePatterns = []struct {
	re   *regexp.Regexp
	unit string
}{
	{regexp.MustCompile(`^([0-9０-９]+)\s*分\s*後$`), "minutes"},
	{regexp.MustCompile(`^([0-9０-９]+)\s*時間\s*後$`), "hours"},
	{regexp.MustCompile(`^([0-9０-９]+)\s*日\s*後$`), "days"},
}

var canonicalRelative = regexp.MustCompile(`^in (\d+) (minutes?|hours?|days?)$`)

// NormalizeDigits converts full-width digits to ASCII.
func NormalizeDigits(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return r - '０' + '0'
		}
		return r
	}, value)
}

// Normalize rewrites Japanese relative phrases into the canonical
// "in N units" form. Anything it does not recognize passes through
// untouched.
func Normalize(value string) string {
	trimmed := strings.TrimSpace(value)
	for _, p := range relativePatterns {
		m := p.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		amount, err := strconv.Atoi(NormalizeDigits(m[1]))
		if err != nil {
			return value
		}
		unit := p.unit
		if amount == 1 {
			unit = strings.TrimSuffix(unit, "s")
		}
		return fmt.Sprintf("in %d %s", amount, unit)
	}
	return value
}

var absoluteLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Parse resolves a time expression against a reference instant and the
// user's resolved UTC offset. Absolute forms are read as wall time at that
// offset; RFC 3339 input carries its own offset and is taken as-is.
func Parse(input string, ref time.Time, offsetMinutes int) (time.Time, error) {
	normalized := Normalize(input)

	if m := canonicalRelative.FindStringSubmatch(normalized); m != nil {
		amount, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid amount %q", m[1])
		}
		switch strings.TrimSuffix(m[2], "s") {
		case "minute":
			return ref.Add(time.Duration(amount) * time.Minute), nil
		case "hour":
			return ref.Add(time.Duration(amount) * time.Hour), nil
		case "day":
			return ref.AddDate(0, 0, amount), nil
		}
	}

	if t, err := time.Parse(time.RFC3339, normalized); err == nil {
		return t, nil
	}

	zone := time.FixedZone("", offsetMinutes*60)
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, normalized, zone); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time expression %q", input)
}
