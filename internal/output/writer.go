// Package output writes the run artifacts: the accepted link list, the
// structured spreadsheet, and the conditional missing-date report.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/beckettonfilm-sys/raffaello/internal/catalog"
)

// Artifact file names, fixed by the import pipeline that consumes them.
const (
	LinksFileName        = "list_links.txt"
	SpreadsheetFileName  = "title_artist_label.xlsx"
	MissingDatesFileName = "album_date_missing.txt"
)

const sheetName = "Albums"

var spreadsheetHeader = []string{"album_title", "main_artists", "label", "album_url", "release_date"}

// Files lists the artifacts produced by one run. MissingDates is empty when
// the run had no missing-date fallbacks.
type Files struct {
	Links        string `json:"links_txt"`
	Spreadsheet  string `json:"xlsx"`
	MissingDates string `json:"missing_dates_txt,omitempty"`
}

// Writer emits the run artifacts into one directory. In dry-run mode the
// paths are computed and logged but nothing touches the filesystem.
type Writer struct {
	dir    string
	dryRun bool
	logger *zap.Logger
}

// NewWriter builds a Writer rooted at dir.
func NewWriter(dir string, dryRun bool, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{dir: dir, dryRun: dryRun, logger: logger}
}

// Write emits all artifacts for the accepted records, in their final
// post-dedup order. The missing-date report is written only when there is at
// least one entry; a stale report from a previous run is removed otherwise.
func (w *Writer) Write(records []catalog.AcceptedRecord, missing []catalog.MissingDateEntry) (Files, error) {
	files := Files{
		Links:       filepath.Join(w.dir, LinksFileName),
		Spreadsheet: filepath.Join(w.dir, SpreadsheetFileName),
	}
	missingPath := filepath.Join(w.dir, MissingDatesFileName)
	if len(missing) > 0 {
		files.MissingDates = missingPath
	}

	if w.dryRun {
		w.logger.Info("dry run, skipping output files",
			zap.String("dir", w.dir),
			zap.Int("records", len(records)),
			zap.Int("missing_dates", len(missing)),
		)
		return files, nil
	}

	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return Files{}, fmt.Errorf("create output dir %s: %w", w.dir, err)
	}
	if err := w.writeLinks(files.Links, records); err != nil {
		return Files{}, err
	}
	if err := w.writeSpreadsheet(files.Spreadsheet, records); err != nil {
		return Files{}, err
	}
	if err := w.writeMissingDates(missingPath, missing); err != nil {
		return Files{}, err
	}
	return files, nil
}

// writeLinks writes one album URL per line; zero records produce an empty
// file.
func (w *Writer) writeLinks(path string, records []catalog.AcceptedRecord) error {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.AlbumURL)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write link list %s: %w", path, err)
	}
	return nil
}

// writeSpreadsheet renders one row per accepted record, dates formatted
// DD.MM.YYYY.
func (w *Writer) writeSpreadsheet(path string, records []catalog.AcceptedRecord) error {
	book := excelize.NewFile()
	defer func() {
		if err := book.Close(); err != nil {
			w.logger.Warn("close spreadsheet", zap.Error(err))
		}
	}()

	index, err := book.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	book.SetActiveSheet(index)
	if err := book.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := make([]any, len(spreadsheetHeader))
	for i, h := range spreadsheetHeader {
		header[i] = h
	}
	if err := book.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	for i, r := range records {
		row := []any{r.AlbumTitle, r.MainArtists, r.Label, r.AlbumURL, r.ReleaseDate.Format()}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d cell name: %w", i+2, err)
		}
		if err := book.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("save spreadsheet %s: %w", path, err)
	}
	return nil
}

// writeMissingDates writes the tab-separated report, or removes a stale one
// when this run produced no fallback cases.
func (w *Writer) writeMissingDates(path string, missing []catalog.MissingDateEntry) error {
	if len(missing) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove stale report %s: %w", path, err)
		}
		return nil
	}
	var b strings.Builder
	for _, m := range missing {
		b.WriteString(strings.Join([]string{
			m.Label, m.AlbumURL, m.ListingDate.Format(), m.AlbumTitle, m.MainArtists,
		}, "\t"))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write missing-date report %s: %w", path, err)
	}
	return nil
}
