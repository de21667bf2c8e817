// Package timezone turns user-supplied timezone tokens into UTC offsets.
package timezone

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultZone is the process-wide fallback when neither the user nor the
// configuration names a zone.
const DefaultZone = "Asia/Tokyo"

// Source records which resolution path produced an offset. Only the iana
// path is sensitive to daylight-saving rules.
type Source string

const (
	SourceOffset Source = "offset"
	SourceAbbr   Source = "abbr"
	SourceIANA   Source = "iana"
)

// Resolution is the canonical form of a timezone token at a reference
// instant.
type Resolution struct {
	Label         string
	OffsetMinutes int
	Source        Source
}

// ErrUnknownZone marks input that no resolution path could interpret. It is
// a validation outcome for user feedback, not an internal failure.
var ErrUnknownZone = errors.New("unknown timezone")

var abbrOffsets = map[string]int{
	"JST": 540,
	"UTC": 0,
	"GMT": 0,
}

var offsetPattern = regexp.MustCompile(`(?i)^(?:UTC|GMT)?([+-])(\d{1,2})(?::?(\d{2}))?$`)

// ParseOffset parses an explicit numeric UTC offset such as +09:00, -0530,
// UTC+9, GMT-2 or a bare +05. Hours above 14 or minutes above 59 are
// rejected. The bounds apply per component, so +14:59 passes even though it
// exceeds ±14:00 total; sheets written since launch rely on this lenient
// check.
func ParseOffset(input string) (int, bool) {
	m := offsetPattern.FindStringSubmatch(input)
	if m == nil {
		return 0, false
	}
	sign := 1
	if m[1] == "-" {
		sign = -1
	}
	hours, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	minutes := 0
	if m[3] != "" {
		minutes, err = strconv.Atoi(m[3])
		if err != nil {
			return 0, false
		}
	}
	if hours > 14 || minutes > 59 {
		return 0, false
	}
	return sign * (hours*60 + minutes), true
}

// ZoneOffsetMinutes computes a geographic zone's wall-clock-vs-UTC delta at
// a specific instant using the tz database.
func ZoneOffsetMinutes(zone string, at time.Time) (int, bool) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return 0, false
	}
	_, offsetSeconds := at.In(loc).Zone()
	return offsetSeconds / 60, true
}

// Resolve interprets a timezone token at a reference instant. Resolution
// order: empty input falls back to defaultZone, then explicit numeric
// offset, then the abbreviation table, then an IANA zone lookup.
func Resolve(input, defaultZone string, referenceInstant time.Time) (Resolution, error) {
	raw := strings.TrimSpace(input)
	fallback := raw
	if fallback == "" {
		fallback = defaultZone
	}
	if fallback == "" {
		fallback = DefaultZone
	}

	if offset, ok := ParseOffset(fallback); ok {
		return Resolution{Label: fallback, OffsetMinutes: offset, Source: SourceOffset}, nil
	}

	abbr := strings.ToUpper(fallback)
	if offset, ok := abbrOffsets[abbr]; ok {
		return Resolution{Label: abbr, OffsetMinutes: offset, Source: SourceAbbr}, nil
	}

	if offset, ok := ZoneOffsetMinutes(fallback, referenceInstant); ok {
		return Resolution{Label: fallback, OffsetMinutes: offset, Source: SourceIANA}, nil
	}

	return Resolution{}, fmt.Errorf("%w: %q", ErrUnknownZone, fallback)
}

// AdjustForZone corrects an instant parsed against the reference instant's
// offset. Natural-language parsing is anchored to "now"; when the target
// instant sits on the other side of a DST transition, the zone's offset at
// the parsed instant differs from the reference offset and the instant must
// shift by the difference.
func AdjustForZone(parsed time.Time, zoneLabel string, referenceOffsetMinutes int) time.Time {
	targetOffset, ok := ZoneOffsetMinutes(zoneLabel, parsed)
	if !ok || targetOffset == referenceOffsetMinutes {
		return parsed
	}
	return parsed.Add(time.Duration(referenceOffsetMinutes-targetOffset) * time.Minute)
}
