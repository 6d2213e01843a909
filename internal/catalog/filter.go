package catalog

import (
	"strings"

	"go.uber.org/zap"
)

// RejectReason identifies the single filter stage that dropped a candidate.
type RejectReason string

// Filter stages, applied strictly in this order. A candidate rejected at an
// earlier stage never reaches a later one.
const (
	RejectDateMismatch RejectReason = "date_mismatch"
	RejectGenre        RejectReason = "genre"
	RejectLength       RejectReason = "length"
)

// Filter applies the three-stage accept/reject policy to resolved candidates.
type Filter struct {
	cfg    Config
	stats  *Stats
	logger *zap.Logger
}

// NewFilter builds a Filter bound to one run's config and stats.
func NewFilter(cfg Config, stats *Stats, logger *zap.Logger) *Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filter{cfg: cfg, stats: stats, logger: logger}
}

// Apply resolves the candidate's final release date and runs the filter
// stages: date-mismatch, then genre-root, then minimum-length. It returns the
// accepted record, the missing-date report entry when the listing date was
// used as a fallback, and whether the candidate was accepted. The report
// entry is produced at the resolution stage, so it is returned even when a
// later stage rejects the candidate.
func (f *Filter) Apply(cand Candidate, details AlbumDetails) (AcceptedRecord, *MissingDateEntry, bool) {
	finalDate := cand.ListingDate
	var missing *MissingDateEntry

	if !details.HasReleaseDate() {
		// The listing date stands in for the album date with no range
		// re-check; the record is flagged for the missing-date report.
		f.stats.MissingAlbumDate.Add(1)
		missing = &MissingDateEntry{
			Label:       cand.Label,
			AlbumURL:    cand.AlbumURL,
			ListingDate: cand.ListingDate,
			AlbumTitle:  details.Title,
			MainArtists: details.MainArtists,
		}
		f.logger.Info("album page has no release date, using listing date",
			zap.String("album_url", cand.AlbumURL),
			zap.String("listing_date", cand.ListingDate.Format()),
		)
	} else if !details.ReleaseDate.Within(f.cfg.DateFrom, f.cfg.DateTo) {
		f.reject(cand, RejectDateMismatch, &f.stats.RejectedByDateMismatch)
		return AcceptedRecord{}, nil, false
	} else {
		finalDate = details.ReleaseDate
	}

	genre := strings.ToLower(strings.TrimSpace(details.GenreFirst))
	if !strings.HasPrefix(genre, strings.ToLower(f.cfg.GenreRoot)) {
		f.reject(cand, RejectGenre, &f.stats.RejectedByGenre)
		return AcceptedRecord{}, missing, false
	}

	if details.TotalSeconds < f.cfg.MinSeconds() {
		f.reject(cand, RejectLength, &f.stats.RejectedByLength)
		return AcceptedRecord{}, missing, false
	}

	f.stats.Accepted.Add(1)
	return AcceptedRecord{
		AlbumTitle:  details.Title,
		MainArtists: details.MainArtists,
		Label:       cand.Label,
		AlbumURL:    cand.AlbumURL,
		ReleaseDate: finalDate,
	}, missing, true
}

func (f *Filter) reject(cand Candidate, reason RejectReason, counter interface{ Add(int64) int64 }) {
	counter.Add(1)
	f.logger.Debug("candidate rejected",
		zap.String("album_url", cand.AlbumURL),
		zap.String("label", cand.Label),
		zap.String("reason", string(reason)),
	)
}
