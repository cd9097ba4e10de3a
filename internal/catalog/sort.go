package catalog

import (
	"slices"
	"strings"
)

// Sort orders for the grid, as stored in config.
const (
	SortNameAsc  = "name_asc"
	SortNameDesc = "name_desc"
	SortDateDesc = "date_desc"
	SortDateAsc  = "date_asc"
)

// SortOptions lists the sort orders in the order the UI offers them.
var SortOptions = []string{SortNameAsc, SortNameDesc, SortDateDesc, SortDateAsc}

// SortLabel is the text shown for a sort order.
func SortLabel(by string) string {
	switch by {
	case SortNameAsc:
		return "Name (A-Z)"
	case SortNameDesc:
		return "Name (Z-A)"
	case SortDateDesc:
		return "Newest first"
	case SortDateAsc:
		return "Oldest first"
	}
	return by
}

// Sort orders assets in place. Ties keep their scan order.
// An unknown order falls back to name_asc.
func Sort(assets []Asset, by string) {
	switch by {
	case SortNameDesc:
		slices.SortStableFunc(assets, func(a, b Asset) int {
			return compareTitle(b, a)
		})
	case SortDateDesc:
		slices.SortStableFunc(assets, func(a, b Asset) int {
			return b.ModTime.Compare(a.ModTime)
		})
	case SortDateAsc:
		slices.SortStableFunc(assets, func(a, b Asset) int {
			return a.ModTime.Compare(b.ModTime)
		})
	default:
		slices.SortStableFunc(assets, compareTitle)
	}
}

func compareTitle(a, b Asset) int {
	if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// Match does a case-insensitive substring search over the asset's text
// fields and tags. An empty query matches everything.
func Match(asset Asset, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(asset.Title), query) ||
		strings.Contains(strings.ToLower(asset.Description), query) ||
		strings.Contains(strings.ToLower(asset.ID), query) {
		return true
	}
	for _, tag := range asset.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
