package matching

import (
	"strings"

	"listing-range-api/internal/model"
)

// Containment length floors. Normalized names squash out separators, so a
// slightly shorter floor still rules out noise words; the lowercase form
// keeps spaces and needs one more rune.
const (
	minNormalizedMatch = 4
	minLowerMatch      = 5
)

// Derive precomputes the comparison fields for a catalog entry.
func Derive(e model.CatalogEntry) model.DerivedEntry {
	return model.DerivedEntry{
		FullName:            e.FullName,
		FullNameLower:       NormalizeSpaces(e.FullName),
		FullNameNormalized:  Normalize(e.FullName),
		PrimaryLower:        NormalizeSpaces(e.Primary),
		PrimaryNormalized:   Normalize(e.Primary),
		SecondaryLower:      NormalizeSpaces(e.Secondary),
		SecondaryNormalized: Normalize(e.Secondary),
		DeviceType:          e.DeviceType,
	}
}

// DeriveName converts a bare range name into the candidate shape, with
// empty secondary attributes. Used to fold existing ranges into the match
// pool.
func DeriveName(name string) model.DerivedEntry {
	return model.DerivedEntry{
		FullName:           name,
		FullNameLower:      NormalizeSpaces(name),
		FullNameNormalized: Normalize(name),
	}
}

// FindBestMatch returns the single best candidate mentioned in a line, or
// false when nothing qualifies. A candidate qualifies when its full name is
// contained in the line, checked against the aggressive key first and the
// lowercase key second. Across candidates the earliest containment start
// wins; on equal starts the longer matched name wins, so "Ford F-250"
// beats "Ford F-2" at the same position. Matching is full-name only:
// a bare model word never promotes to an entry that merely contains it.
func FindBestMatch(lineNormalized, lineLower string, candidates []model.DerivedEntry) (model.DerivedEntry, bool) {
	bestIdx := -1
	bestStart := 0
	bestLen := 0

	for i := range candidates {
		start, length, ok := locate(&candidates[i], lineNormalized, lineLower)
		if !ok {
			continue
		}
		if bestIdx < 0 || start < bestStart || (start == bestStart && length > bestLen) {
			bestIdx, bestStart, bestLen = i, start, length
		}
	}

	if bestIdx < 0 {
		return model.DerivedEntry{}, false
	}
	return candidates[bestIdx], true
}

func locate(c *model.DerivedEntry, lineNormalized, lineLower string) (start, length int, ok bool) {
	if len(c.FullNameNormalized) >= minNormalizedMatch {
		if idx := strings.Index(lineNormalized, c.FullNameNormalized); idx >= 0 {
			return idx, len(c.FullNameNormalized), true
		}
	}
	if len(c.FullNameLower) >= minLowerMatch {
		if idx := strings.Index(lineLower, c.FullNameLower); idx >= 0 {
			return idx, len(c.FullNameLower), true
		}
	}
	return 0, 0, false
}
