package scrape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const albumPage = `
<html><body>
<h1>Piano Nocturnes by Jan Kowalski</h1>
<div class="meta">
  <p>Main artists: <a href="/artist/1">Jan Kowalski</a>, <a href="/artist/2">Anna Nowak</a></p>
  <p>Released on May 3, 2024</p>
  <p>Total length: 1:02:30</p>
</div>
<h2>About the album</h2>
<p>Genre: Classical / Piano</p>
<p>A quiet hour of nocturnes.</p>
</body></html>`

func TestParseAlbumFullPage(t *testing.T) {
	t.Parallel()

	details, ok := ParseAlbum(albumPage)
	require.True(t, ok)
	require.Equal(t, "Piano Nocturnes", details.Title, `title is cut at " by "`)
	require.Equal(t, "Jan Kowalski, Anna Nowak", details.MainArtists)
	require.Equal(t, "1:02:30", details.TotalLengthText)
	require.Equal(t, 3750, details.TotalSeconds)
	require.True(t, details.HasReleaseDate())
	require.Equal(t, "03.05.2024", details.ReleaseDate.Format())
	require.Equal(t, "Classical", details.GenreFirst)
}

func TestParseAlbumMissingDurationInvalidatesRecord(t *testing.T) {
	t.Parallel()

	_, ok := ParseAlbum(`<html><body>
<h1>Untimed</h1>
<p>Main artists: Someone</p>
<p>Released on May 3, 2024</p>
</body></html>`)
	require.False(t, ok, "no total length means no AlbumDetails at all")
}

func TestParseAlbumShortDurationForm(t *testing.T) {
	t.Parallel()

	details, ok := ParseAlbum(`<html><body>
<h1>Miniatures</h1>
<p>Total length: 0:45</p>
</body></html>`)
	require.True(t, ok)
	require.Equal(t, "0:45", details.TotalLengthText)
	require.Equal(t, 45*60, details.TotalSeconds, "H:MM is hours and minutes")
	require.False(t, details.HasReleaseDate())
}

func TestParseAlbumArtistsFallbackWithoutAnchors(t *testing.T) {
	t.Parallel()

	details, ok := ParseAlbum(`<html><body>
<h1>Trio</h1>
<p>Main artists: The Borodin Trio</p>
<p>Total length: 0:40:00</p>
</body></html>`)
	require.True(t, ok)
	require.Equal(t, "The Borodin Trio", details.MainArtists)
}

func TestParseAlbumGenreHeuristics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"key value shape",
			`<h2>About the album</h2><p>Genre: Chamber music / Baroque</p>`,
			"Chamber music",
		},
		{
			"remainder after word",
			`<h2>About the album</h2><p>genre Romantic, orchestral</p>`,
			"Romantic",
		},
		{
			"next line fallback",
			`<h2>About the album</h2><p>Genre:</p><p>Heading:</p><p>Baroque concertos</p>`,
			"Baroque",
		},
		{
			"classical prefix collapses",
			`<h2>About the album</h2><p>Genre: classical piano music</p>`,
			"Classical",
		},
		{
			"no about block",
			`<p>Genre: Jazz</p>`,
			"",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			body := `<html><body><h1>X</h1><p>Total length: 0:30:00</p>` + tc.body + `</body></html>`
			details, ok := ParseAlbum(body)
			require.True(t, ok)
			require.Equal(t, tc.want, details.GenreFirst)
		})
	}
}
