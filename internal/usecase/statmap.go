package usecase

import (
	"regexp"
	"sort"
	"strings"
)

// statEntry keeps both the numeric value and the raw display string so
// callers can re-parse pair-style values ("80-200") that have no numeric
// representation.
type statEntry struct {
	Value   float64
	HasNum  bool
	Display string
}

// flattenStats collapses the upstream season-statistics document into a
// flat name -> entry table. Keys are lowercased stat names, display names
// and abbreviations so lookups are insensitive to which alias a season
// happens to carry.
func flattenStats(doc map[string]any) map[string]statEntry {
	flat := map[string]statEntry{}
	if doc == nil {
		return flat
	}
	splits := getMap(doc, "splits")
	categories := getSlice(splits, "categories")
	if categories == nil {
		categories = getSlice(doc, "categories")
	}
	for _, c := range categories {
		cat, ok := c.(map[string]any)
		if !ok {
			continue
		}
		for _, s := range getSlice(cat, "stats") {
			stat, ok := s.(map[string]any)
			if !ok {
				continue
			}
			entry := statEntry{Display: firstNonEmpty(
				getString(stat, "displayValue"),
				getString(stat, "value"),
			)}
			if v, ok := getFloat(stat, "value"); ok {
				entry.Value = v
				entry.HasNum = true
			}
			for _, key := range []string{
				getString(stat, "name"),
				getString(stat, "shortDisplayName"),
				getString(stat, "displayName"),
				getString(stat, "abbreviation"),
			} {
				key = strings.ToLower(strings.TrimSpace(key))
				if key == "" {
					continue
				}
				if _, exists := flat[key]; !exists {
					flat[key] = entry
				}
			}
		}
	}
	return flat
}

// pickNum resolves a stat by exact name first, then by regex over every
// known key. Only numeric entries count; pair and clock displays are
// skipped so a later targeted parse can handle them.
func pickNum(flat map[string]statEntry, names []string, patterns []*regexp.Regexp) (float64, bool) {
	for _, name := range names {
		if e, ok := flat[strings.ToLower(name)]; ok && e.HasNum {
			return e.Value, true
		}
	}
	for _, re := range patterns {
		for _, key := range sortedKeys(flat) {
			if e := flat[key]; e.HasNum && re.MatchString(key) {
				return e.Value, true
			}
		}
	}
	return 0, false
}

func sortedKeys(flat map[string]statEntry) []string {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// pickDisplay resolves a stat's display string, used for pair-style values.
func pickDisplay(flat map[string]statEntry, names []string, patterns []*regexp.Regexp) (string, bool) {
	for _, name := range names {
		if e, ok := flat[strings.ToLower(name)]; ok && e.Display != "" {
			return e.Display, true
		}
	}
	for _, re := range patterns {
		for _, key := range sortedKeys(flat) {
			if e := flat[key]; e.Display != "" && re.MatchString(key) {
				return e.Display, true
			}
		}
	}
	return "", false
}
