package catalog

import "sync/atomic"

// Stats is the mutable counter bag for one crawl run. The listing and album
// phases run on separate goroutines, so all counters are atomics.
type Stats struct {
	LabelsTotal            atomic.Int64
	LabelsProcessed        atomic.Int64
	CandidatesTotal        atomic.Int64
	AlbumsFetched          atomic.Int64
	Accepted               atomic.Int64
	RejectedByGenre        atomic.Int64
	RejectedByLength       atomic.Int64
	RejectedByDateMismatch atomic.Int64
	MissingAlbumDate       atomic.Int64
	DuplicatesRemoved      atomic.Int64
	HTTPErrors             atomic.Int64
	ParseErrors            atomic.Int64
}

// Snapshot is an immutable copy of Stats taken at the end of a run.
type Snapshot struct {
	LabelsTotal            int64 `json:"labels_total"`
	LabelsProcessed        int64 `json:"labels_processed"`
	CandidatesTotal        int64 `json:"candidates_total"`
	AlbumsFetched          int64 `json:"albums_fetched"`
	Accepted               int64 `json:"accepted"`
	RejectedByGenre        int64 `json:"rejected_by_genre"`
	RejectedByLength       int64 `json:"rejected_by_length"`
	RejectedByDateMismatch int64 `json:"rejected_by_date_mismatch"`
	MissingAlbumDate       int64 `json:"missing_album_date"`
	DuplicatesRemoved      int64 `json:"duplicates_removed"`
	HTTPErrors             int64 `json:"http_errors"`
	ParseErrors            int64 `json:"parse_errors"`
}

// Snapshot copies the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		LabelsTotal:            s.LabelsTotal.Load(),
		LabelsProcessed:        s.LabelsProcessed.Load(),
		CandidatesTotal:        s.CandidatesTotal.Load(),
		AlbumsFetched:          s.AlbumsFetched.Load(),
		Accepted:               s.Accepted.Load(),
		RejectedByGenre:        s.RejectedByGenre.Load(),
		RejectedByLength:       s.RejectedByLength.Load(),
		RejectedByDateMismatch: s.RejectedByDateMismatch.Load(),
		MissingAlbumDate:       s.MissingAlbumDate.Load(),
		DuplicatesRemoved:      s.DuplicatesRemoved.Load(),
		HTTPErrors:             s.HTTPErrors.Load(),
		ParseErrors:            s.ParseErrors.Load(),
	}
}
