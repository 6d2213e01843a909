package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDedupCollapsesNormalizedKeys(t *testing.T) {
	t.Parallel()

	date, _ := MakeDate(2024, time.January, 10)
	records := []AcceptedRecord{
		{AlbumTitle: "String Quartets", MainArtists: "Ensemble X", Label: "Alpha", AlbumURL: "https://example.com/album/1", ReleaseDate: date},
		{AlbumTitle: "string  quartets", MainArtists: "ENSEMBLE X", Label: "alpha", AlbumURL: "https://example.com/album/2", ReleaseDate: date},
		{AlbumTitle: "String Quartets", MainArtists: "Ensemble Y", Label: "Alpha", AlbumURL: "https://example.com/album/3", ReleaseDate: date},
	}

	stats := &Stats{}
	out := Dedup(records, stats)

	require.Len(t, out, 2)
	require.Equal(t, "https://example.com/album/1", out[0].AlbumURL, "first record for a key wins")
	require.Equal(t, int64(1), stats.DuplicatesRemoved.Load())
}

func TestDedupEmptyInput(t *testing.T) {
	t.Parallel()

	stats := &Stats{}
	require.Empty(t, Dedup(nil, stats))
	require.Zero(t, stats.DuplicatesRemoved.Load())
}
