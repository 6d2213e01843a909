package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() Config {
	from, _ := MakeDate(2024, time.January, 1)
	to, _ := MakeDate(2024, time.January, 31)
	return Config{
		DateFrom:   from,
		DateTo:     to,
		MinMinutes: 15,
		GenreRoot:  "Classical",
	}
}

func inRangeDate() Date {
	d, _ := MakeDate(2024, time.January, 10)
	return d
}

func TestFilterAcceptsDetailDate(t *testing.T) {
	t.Parallel()

	stats := &Stats{}
	f := NewFilter(testConfig(), stats, zap.NewNop())

	cand := Candidate{AlbumURL: "https://example.com/album/a", Label: "Alpha", ListingDate: inRangeDate()}
	detailDate, _ := MakeDate(2024, time.January, 12)
	rec, missing, ok := f.Apply(cand, AlbumDetails{
		Title:        "Quartets",
		MainArtists:  "Ensemble X",
		TotalSeconds: 3600,
		ReleaseDate:  detailDate,
		GenreFirst:   "Classical",
	})

	require.True(t, ok)
	require.Nil(t, missing)
	require.Equal(t, detailDate, rec.ReleaseDate, "detail date wins over listing date")
	require.Equal(t, int64(1), stats.Accepted.Load())
}

func TestFilterDateMismatchShortCircuits(t *testing.T) {
	t.Parallel()

	stats := &Stats{}
	f := NewFilter(testConfig(), stats, zap.NewNop())

	outOfRange, _ := MakeDate(2024, time.February, 15)
	// Genre and length would both fail too; only the date counter may move.
	_, missing, ok := f.Apply(
		Candidate{AlbumURL: "https://example.com/album/b", Label: "Alpha", ListingDate: inRangeDate()},
		AlbumDetails{TotalSeconds: 60, ReleaseDate: outOfRange, GenreFirst: "Jazz"},
	)

	require.False(t, ok)
	require.Nil(t, missing)
	require.Equal(t, int64(1), stats.RejectedByDateMismatch.Load())
	require.Zero(t, stats.RejectedByGenre.Load())
	require.Zero(t, stats.RejectedByLength.Load())
}

func TestFilterMissingDateFallback(t *testing.T) {
	t.Parallel()

	stats := &Stats{}
	f := NewFilter(testConfig(), stats, zap.NewNop())

	cand := Candidate{AlbumURL: "https://example.com/album/c", Label: "Alpha", ListingDate: inRangeDate()}
	rec, missing, ok := f.Apply(cand, AlbumDetails{
		Title:        "Nocturnes",
		MainArtists:  "Pianist Y",
		TotalSeconds: 2400,
		GenreFirst:   "Classical",
	})

	require.True(t, ok)
	require.NotNil(t, missing)
	require.Equal(t, cand.ListingDate, rec.ReleaseDate)
	require.Equal(t, cand.AlbumURL, missing.AlbumURL)
	require.Equal(t, int64(1), stats.MissingAlbumDate.Load())
}

func TestFilterMissingDateEntrySurvivesLaterRejection(t *testing.T) {
	t.Parallel()

	stats := &Stats{}
	f := NewFilter(testConfig(), stats, zap.NewNop())

	_, missing, ok := f.Apply(
		Candidate{AlbumURL: "https://example.com/album/d", Label: "Alpha", ListingDate: inRangeDate()},
		AlbumDetails{TotalSeconds: 2400, GenreFirst: "Jazz"},
	)

	require.False(t, ok)
	require.NotNil(t, missing, "report entry is recorded before the genre stage runs")
	require.Equal(t, int64(1), stats.MissingAlbumDate.Load())
	require.Equal(t, int64(1), stats.RejectedByGenre.Load())
}

func TestFilterGenreThenLengthOrder(t *testing.T) {
	t.Parallel()

	stats := &Stats{}
	f := NewFilter(testConfig(), stats, zap.NewNop())
	date := inRangeDate()

	_, _, ok := f.Apply(
		Candidate{AlbumURL: "https://example.com/album/e", Label: "Alpha", ListingDate: date},
		AlbumDetails{TotalSeconds: 60, ReleaseDate: date, GenreFirst: "Jazz"},
	)
	require.False(t, ok)
	require.Equal(t, int64(1), stats.RejectedByGenre.Load())
	require.Zero(t, stats.RejectedByLength.Load(), "length stage must not run after a genre rejection")

	_, _, ok = f.Apply(
		Candidate{AlbumURL: "https://example.com/album/f", Label: "Alpha", ListingDate: date},
		AlbumDetails{TotalSeconds: 600, ReleaseDate: date, GenreFirst: "classical piano"},
	)
	require.False(t, ok)
	require.Equal(t, int64(1), stats.RejectedByLength.Load(), "10 minutes is under the 15 minute floor")
}
