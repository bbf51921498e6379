package grouping

import "meldify/pkg/models"

// FindDuplicates returns display names seen more than once (exact,
// case-sensitive). Each name is reported once, in the order its second
// occurrence appears. Duplicates are advisory only.
func FindDuplicates(files []*models.FileEntry) []string {
	seen := make(map[string]int, len(files))
	var dups []string
	for _, f := range files {
		if f == nil {
			continue
		}
		seen[f.DisplayName]++
		if seen[f.DisplayName] == 2 {
			dups = append(dups, f.DisplayName)
		}
	}
	return dups
}
