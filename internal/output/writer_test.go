package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/beckettonfilm-sys/raffaello/internal/catalog"
)

func date(t *testing.T, s string) catalog.Date {
	t.Helper()
	d, err := catalog.ParseDate(s)
	require.NoError(t, err)
	return d
}

func sampleRecords(t *testing.T) []catalog.AcceptedRecord {
	t.Helper()
	return []catalog.AcceptedRecord{
		{
			AlbumTitle:  "Piano Nocturnes",
			MainArtists: "Jan Kowalski",
			Label:       "Alpha",
			AlbumURL:    "https://example.com/album/nocturnes",
			ReleaseDate: date(t, "03.05.2024"),
		},
		{
			AlbumTitle:  "String Quartets",
			MainArtists: "Quartet Aurora",
			Label:       "Beta",
			AlbumURL:    "https://example.com/album/quartets",
			ReleaseDate: date(t, "15.02.2024"),
		},
	}
}

func TestWriteProducesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, false, zap.NewNop())

	missing := []catalog.MissingDateEntry{
		{
			Label:       "Alpha",
			AlbumURL:    "https://example.com/album/nocturnes",
			ListingDate: date(t, "03.05.2024"),
			AlbumTitle:  "Piano Nocturnes",
			MainArtists: "Jan Kowalski",
		},
	}
	files, err := w.Write(sampleRecords(t), missing)
	require.NoError(t, err)

	links, err := os.ReadFile(files.Links)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/album/nocturnes\nhttps://example.com/album/quartets\n", string(links))

	report, err := os.ReadFile(files.MissingDates)
	require.NoError(t, err)
	assert.Equal(t, "Alpha\thttps://example.com/album/nocturnes\t03.05.2024\tPiano Nocturnes\tJan Kowalski\n", string(report))

	book, err := excelize.OpenFile(files.Spreadsheet)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Albums")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"album_title", "main_artists", "label", "album_url", "release_date"}, rows[0])
	assert.Equal(t, []string{"Piano Nocturnes", "Jan Kowalski", "Alpha", "https://example.com/album/nocturnes", "03.05.2024"}, rows[1])
	assert.Equal(t, "15.02.2024", rows[2][4])
}

func TestWriteEmptyRunStillWritesLinkFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, false, zap.NewNop())

	files, err := w.Write(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, files.MissingDates)

	links, err := os.ReadFile(files.Links)
	require.NoError(t, err)
	assert.Empty(t, links)

	_, err = os.Stat(filepath.Join(dir, MissingDatesFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteRemovesStaleMissingDateReport(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, MissingDatesFileName)
	require.NoError(t, os.WriteFile(stale, []byte("old\n"), 0o600))

	w := NewWriter(dir, false, zap.NewNop())
	_, err := w.Write(sampleRecords(t), nil)
	require.NoError(t, err)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteDryRunTouchesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")
	w := NewWriter(dir, true, zap.NewNop())

	files, err := w.Write(sampleRecords(t), nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, LinksFileName), files.Links)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
