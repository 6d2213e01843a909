// Package config loads and validates the run configuration file.
//
// The file is line-oriented "key = value" text: '#' starts a trailing
// comment, blank lines are ignored, and any other line without '=' is a
// fatal error. Loading fails fast; no network I/O happens on a bad config.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/beckettonfilm-sys/raffaello/internal/catalog"
)

// Error codes for fatal configuration failures.
const (
	CodeFileNotFound        = "ConfigFileNotFound"
	CodeInvalidInputLine    = "InvalidInputLine"
	CodeMissingRequiredKeys = "MissingRequiredKeys"
	CodeInvalidNumericValue = "InvalidNumericValue"
	CodeValueOutOfRange     = "ValueOutOfRange"
	CodeInvalidDate         = "InvalidDate"
)

// Error is a fatal configuration error with a stable code and context.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code, format string, details map[string]any, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Details: details}
}

// Defaults for optional keys.
const (
	DefaultMinMinutes     = 20
	DefaultDelayListing   = 2.0
	DefaultDelayAlbum     = 3.0
	DefaultMaxPages       = 5
	DefaultRetries        = 3
	DefaultTimeoutMs      = 20000
	DefaultGenreRoot      = "Classical"
	DefaultAcceptLanguage = "en-US,en;q=0.9"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultLabelsFile     = "FILES/labels.txt"
)

var requiredKeys = []string{"date_from", "date_to"}

// Load parses the run configuration at path into an immutable catalog.Config.
// A swapped date range (date_from after date_to) is corrected with a warning.
func Load(path string, logger *zap.Logger) (catalog.Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	raw, err := readPairs(path)
	if err != nil {
		return catalog.Config{}, err
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return catalog.Config{}, newError(CodeMissingRequiredKeys,
			"missing required keys: %s", map[string]any{"keys": missing},
			strings.Join(missing, ", "))
	}

	cfg := catalog.Config{
		MinMinutes:       DefaultMinMinutes,
		DelayListing:     DefaultDelayListing,
		DelayAlbum:       DefaultDelayAlbum,
		MaxPagesPerLabel: DefaultMaxPages,
		Retries:          DefaultRetries,
		Timeout:          DefaultTimeoutMs * time.Millisecond,
		GenreRoot:        DefaultGenreRoot,
		AcceptLanguage:   DefaultAcceptLanguage,
		UserAgent:        DefaultUserAgent,
		LabelsFile:       DefaultLabelsFile,
	}

	if cfg.DateFrom, err = parseDateKey(raw, "date_from"); err != nil {
		return catalog.Config{}, err
	}
	if cfg.DateTo, err = parseDateKey(raw, "date_to"); err != nil {
		return catalog.Config{}, err
	}
	if cfg.DateFrom.After(cfg.DateTo) {
		logger.Warn("date_from is after date_to, swapping range",
			zap.String("date_from", cfg.DateFrom.Format()),
			zap.String("date_to", cfg.DateTo.Format()),
		)
		cfg.DateFrom, cfg.DateTo = cfg.DateTo, cfg.DateFrom
	}

	if err := applyNumeric(raw, &cfg); err != nil {
		return catalog.Config{}, err
	}

	if v, ok := raw["genre_root"]; ok && strings.TrimSpace(v) != "" {
		cfg.GenreRoot = strings.TrimSpace(v)
	}
	if v, ok := raw["accept_language"]; ok && v != "" {
		cfg.AcceptLanguage = v
	}
	if v, ok := raw["user_agent"]; ok && v != "" {
		cfg.UserAgent = v
	}
	if v, ok := raw["labels_file"]; ok && v != "" {
		cfg.LabelsFile = v
	}

	return cfg, nil
}

func readPairs(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(CodeFileNotFound, "config file %s: %v",
			map[string]any{"path": path}, path, err)
	}
	defer f.Close()

	pairs := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		eq := strings.Index(line, "=")
		if eq < 0 {
			return nil, newError(CodeInvalidInputLine,
				"line %d has no '=' separator: %q",
				map[string]any{"line": lineNo, "text": line}, lineNo, line)
		}
		key := strings.ToLower(strings.TrimSpace(line[:eq]))
		pairs[key] = strings.TrimSpace(line[eq+1:])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return pairs, nil
}

func parseDateKey(raw map[string]string, key string) (catalog.Date, error) {
	d, err := catalog.ParseDate(raw[key])
	if err != nil {
		return catalog.Date{}, newError(CodeInvalidDate, "%s: %v",
			map[string]any{"key": key, "value": raw[key]}, key, err)
	}
	return d, nil
}

func applyNumeric(raw map[string]string, cfg *catalog.Config) error {
	var err error
	if cfg.MinMinutes, err = intKey(raw, "min_minutes", 1, cfg.MinMinutes); err != nil {
		return err
	}
	if cfg.DelayListing, err = floatKey(raw, "delay_listing", 0, cfg.DelayListing); err != nil {
		return err
	}
	if cfg.DelayAlbum, err = floatKey(raw, "delay_album", 0, cfg.DelayAlbum); err != nil {
		return err
	}
	if cfg.MaxPagesPerLabel, err = intKey(raw, "max_pages_per_label", 1, cfg.MaxPagesPerLabel); err != nil {
		return err
	}
	if cfg.Retries, err = intKey(raw, "retries", 0, cfg.Retries); err != nil {
		return err
	}
	timeoutMs, err := intKey(raw, "timeout_ms", 1000, DefaultTimeoutMs)
	if err != nil {
		return err
	}
	cfg.Timeout = time.Duration(timeoutMs) * time.Millisecond
	return nil
}

func intKey(raw map[string]string, key string, min, fallback int) (int, error) {
	v, ok := raw[key]
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, newError(CodeInvalidNumericValue, "%s: %q is not an integer",
			map[string]any{"key": key, "value": v}, key, v)
	}
	if n < min {
		return 0, newError(CodeValueOutOfRange, "%s: %d is below the minimum %d",
			map[string]any{"key": key, "value": n, "min": min}, key, n, min)
	}
	return n, nil
}

func floatKey(raw map[string]string, key string, min, fallback float64) (float64, error) {
	v, ok := raw[key]
	if !ok {
		return fallback, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, newError(CodeInvalidNumericValue, "%s: %q is not a number",
			map[string]any{"key": key, "value": v}, key, v)
	}
	if n < min {
		return 0, newError(CodeValueOutOfRange, "%s: %v is below the minimum %v",
			map[string]any{"key": key, "value": n, "min": min}, key, n, min)
	}
	return n, nil
}
