package planner

import (
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	bulletPrefix      = "- "
	titleSeparator    = ": "
	perCategoryQuota  = 2
	maxCombinedResult = 6
	maxCategoryResult = 3
)

// ParseBullets returns one recommendation per "- Title: Description" line, in
// input order. Other lines are ignored. Only the first ": " splits title from
// description.
func ParseBullets(text string, itemType types.ItemType) []types.Recommendation {
	recs := []types.Recommendation{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if rec, ok := parseBullet(line, itemType); ok {
			recs = append(recs, rec)
		}
	}
	return recs
}

func parseBullet(line string, itemType types.ItemType) (types.Recommendation, bool) {
	if !strings.HasPrefix(line, bulletPrefix) {
		return types.Recommendation{}, false
	}
	title, description, _ := strings.Cut(line[len(bulletPrefix):], titleSeparator)
	return types.Recommendation{
		Type:        string(itemType),
		Title:       title,
		Description: description,
	}, true
}

// ParseCategory parses a single-category response and keeps the first three.
func ParseCategory(text string, category types.RecommendationCategory) []types.Recommendation {
	recs := ParseBullets(text, category.ItemType())
	if len(recs) > maxCategoryResult {
		recs = recs[:maxCategoryResult]
	}
	return recs
}

// ParseCategorized parses a response with "Activities:", "Accommodations:" and
// "Transportation:" sections. Bullets take the type of the last header seen
// (activity before any header). At most six are returned: the first two of each
// category in order of appearance, then leftovers in discovery order.
func ParseCategorized(text string) []types.Recommendation {
	current := types.ItemTypeActivity
	var all []types.Recommendation
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if rec, ok := parseBullet(line, current); ok {
			all = append(all, rec)
			continue
		}
		if t, ok := headerType(line); ok {
			current = t
		}
	}
	return selectBalanced(all)
}

// headerType recognises "Activities:" style lines, tolerating markdown emphasis.
func headerType(line string) (types.ItemType, bool) {
	s := strings.Trim(strings.TrimSpace(line), "*#_ ")
	if !strings.HasSuffix(s, ":") {
		return "", false
	}
	name := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(s, ":")))
	name = strings.Trim(name, "*_ ")
	switch {
	case strings.HasSuffix(name, "ies"):
		name = strings.TrimSuffix(name, "ies") + "y"
	case strings.HasSuffix(name, "s"):
		name = strings.TrimSuffix(name, "s")
	}

	switch t := types.ItemType(name); t {
	case types.ItemTypeActivity, types.ItemTypeAccommodation, types.ItemTypeTransportation, types.ItemTypeFood:
		return t, true
	}
	return "", false
}

func selectBalanced(all []types.Recommendation) []types.Recommendation {
	var order []string
	taken := make(map[string]int)
	picked := make([]bool, len(all))
	result := []types.Recommendation{}

	for _, rec := range all {
		if _, seen := taken[rec.Type]; !seen {
			taken[rec.Type] = 0
			order = append(order, rec.Type)
		}
	}
	for _, typ := range order {
		for i, rec := range all {
			if len(result) == maxCombinedResult {
				return result
			}
			if rec.Type == typ && taken[typ] < perCategoryQuota {
				taken[typ]++
				picked[i] = true
				result = append(result, rec)
			}
		}
	}
	for i, rec := range all {
		if len(result) == maxCombinedResult {
			break
		}
		if !picked[i] {
			result = append(result, rec)
		}
	}
	return result
}
