package catalog

import "strings"

var spaceCollapser = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// dedupKey normalizes (title, artists, label) for duplicate detection:
// lower-cased, whitespace-collapsed, pipe-joined.
func dedupKey(r AcceptedRecord) string {
	parts := []string{r.AlbumTitle, r.MainArtists, r.Label}
	for i, p := range parts {
		parts[i] = strings.Join(strings.Fields(spaceCollapser.Replace(strings.ToLower(p))), " ")
	}
	return strings.Join(parts, "|")
}

// Dedup collapses records sharing a normalized (title, artists, label) key.
// The first record for a key wins; dropped records are counted in
// DuplicatesRemoved. It runs once over the full accepted set, after all
// candidates have been resolved.
func Dedup(records []AcceptedRecord, stats *Stats) []AcceptedRecord {
	seen := make(map[string]struct{}, len(records))
	out := records[:0:0]
	for _, r := range records {
		key := dedupKey(r)
		if _, dup := seen[key]; dup {
			stats.DuplicatesRemoved.Add(1)
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
