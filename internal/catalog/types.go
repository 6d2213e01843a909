package catalog

import "time"

// Config captures every knob that influences a crawl run. It is built once
// by the config loader and treated as immutable afterwards.
type Config struct {
	DateFrom         Date
	DateTo           Date
	MinMinutes       int
	DelayListing     float64
	DelayAlbum       float64
	MaxPagesPerLabel int
	Retries          int
	Timeout          time.Duration
	GenreRoot        string
	AcceptLanguage   string
	UserAgent        string
	LabelsFile       string
}

// ListingDelay converts the listing lane spacing to a duration.
func (c Config) ListingDelay() time.Duration {
	return time.Duration(c.DelayListing * float64(time.Second))
}

// AlbumDelay converts the album-detail lane spacing to a duration.
func (c Config) AlbumDelay() time.Duration {
	return time.Duration(c.DelayAlbum * float64(time.Second))
}

// MinSeconds is the minimum accepted album length in seconds.
func (c Config) MinSeconds() int {
	return c.MinMinutes * 60
}

// Label is one entry of the label list: a display name and the absolute URL
// of its catalog page.
type Label struct {
	Name string
	URL  string
}

// Candidate is an album link discovered during the listing phase, carrying
// the release date attributed to it on the listing page. Candidates are only
// ever created with an in-range listing date.
type Candidate struct {
	AlbumURL    string
	Label       string
	ListingDate Date
}

// AlbumDetails holds the fields parsed from one album page. A missing or
// unparsable total length invalidates the whole value; partial details are
// never produced.
type AlbumDetails struct {
	Title           string
	MainArtists     string
	TotalLengthText string
	TotalSeconds    int
	ReleaseDate     Date // zero when the page had no parsable date
	GenreFirst      string
}

// HasReleaseDate reports whether the album page yielded a parsable date.
func (d AlbumDetails) HasReleaseDate() bool {
	return !d.ReleaseDate.IsZero()
}

// AcceptedRecord is the unit written to output: a candidate that survived
// every filter stage, with its resolved release date.
type AcceptedRecord struct {
	AlbumTitle  string
	MainArtists string
	Label       string
	AlbumURL    string
	ReleaseDate Date
}

// MissingDateEntry records a candidate whose detail page had no parsable
// release date, so the listing date was used as a fallback.
type MissingDateEntry struct {
	Label       string
	AlbumURL    string
	ListingDate Date
	AlbumTitle  string
	MainArtists string
}
