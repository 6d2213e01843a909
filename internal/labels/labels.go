// Package labels loads the label list consumed by the listing crawler.
//
// One label per line, "Name - https://...". Comment and blank handling match
// the run config file; any malformed line aborts the run before network I/O.
package labels

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/beckettonfilm-sys/raffaello/internal/catalog"
)

// Error codes for fatal label-file failures.
const (
	CodeFileNotFound = "LabelsFileNotFound"
	CodeInvalidLine  = "InvalidLabelsLine"
)

// Error is a fatal labels-file error with a stable code and context.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const separator = " - "

// Load reads the label file at path and returns labels in file order.
func Load(path string) ([]catalog.Label, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{
			Code:    CodeFileNotFound,
			Message: fmt.Sprintf("labels file %s: %v", path, err),
			Details: map[string]any{"path": path},
		}
	}
	defer f.Close()

	var out []catalog.Label
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
		label, err := parseLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		out = append(out, label)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read labels %s: %w", path, err)
	}
	return out, nil
}

func parseLine(line string, lineNo int) (catalog.Label, error) {
	invalid := func(reason string) error {
		return &Error{
			Code:    CodeInvalidLine,
			Message: fmt.Sprintf("line %d: %s: %q", lineNo, reason, line),
			Details: map[string]any{"line": lineNo, "text": line},
		}
	}

	sep := strings.Index(line, separator)
	if sep < 0 {
		return catalog.Label{}, invalid("no ' - ' separator")
	}
	name := strings.TrimSpace(line[:sep])
	rawURL := strings.TrimSpace(line[sep+len(separator):])
	if name == "" {
		return catalog.Label{}, invalid("empty label name")
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return catalog.Label{}, invalid("not an absolute http(s) URL")
	}
	return catalog.Label{Name: name, URL: rawURL}, nil
}
