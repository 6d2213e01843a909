package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/beckettonfilm-sys/raffaello/internal/catalog"
)

// genreScanLines bounds the search below the "About the album" heading.
const genreScanLines = 160

const mainArtistsPrefix = "Main artists:"

var (
	totalLengthRe = regexp.MustCompile(`(?i)total\s+length:?\s*(\d{1,2}):(\d{2})(?::(\d{2}))?`)
	genreDelims   = []string{"/", ",", "|", "›", ">"}
)

// ParseAlbum extracts album details from one album page body. A missing or
// unparsable total length invalidates the whole record: no partial details
// are ever returned.
func ParseAlbum(body string) (catalog.AlbumDetails, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return catalog.AlbumDetails{}, false
	}

	lines := pageLines(doc)
	flat := strings.Join(lines, " ")

	lengthText, seconds, ok := parseTotalLength(flat)
	if !ok {
		return catalog.AlbumDetails{}, false
	}

	details := catalog.AlbumDetails{
		Title:           parseTitle(doc),
		MainArtists:     parseMainArtists(doc),
		TotalLengthText: lengthText,
		TotalSeconds:    seconds,
		GenreFirst:      parseGenre(lines),
	}
	if d, found := ExtractDetailDate(lines, flat); found {
		details.ReleaseDate = d
	}
	return details, true
}

// parseTitle takes the first heading's text; a " by " infix cuts off the
// artist suffix some pages append to the title.
func parseTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("h1, h2, h3, h4, h5, h6").First().Text())
	if i := strings.Index(title, " by "); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	return title
}

// parseMainArtists finds the first block whose text starts with
// "Main artists:" and comma-joins the anchors inside it, falling back to the
// text after the colon when the block has no links.
func parseMainArtists(doc *goquery.Document) string {
	var artists string
	doc.Find("ul, ol, p, div, li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(collapseText(s))
		if !strings.HasPrefix(text, mainArtistsPrefix) {
			return true
		}
		var names []string
		s.Find("a").Each(func(_ int, a *goquery.Selection) {
			if name := strings.TrimSpace(a.Text()); name != "" {
				names = append(names, name)
			}
		})
		if len(names) > 0 {
			artists = strings.Join(names, ", ")
		} else if i := strings.Index(text, ":"); i >= 0 {
			artists = strings.TrimSpace(text[i+1:])
		}
		return false
	})
	return artists
}

// parseTotalLength matches "Total length: H:MM[:SS]" and converts it to
// seconds.
func parseTotalLength(flat string) (string, int, bool) {
	m := totalLengthRe.FindStringSubmatch(flat)
	if m == nil {
		return "", 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if minutes > 59 {
		return "", 0, false
	}
	seconds := 0
	text := m[1] + ":" + m[2]
	if m[3] != "" {
		seconds, _ = strconv.Atoi(m[3])
		if seconds > 59 {
			return "", 0, false
		}
		text += ":" + m[3]
	}
	return text, hours*3600 + minutes*60 + seconds, true
}

// parseGenre applies the "About the album" heuristic: inside the block below
// the heading, take the first line mentioning "genre" ("key: value" wins,
// else the remainder after the word), and when that yields nothing, the next
// non-empty non-heading line. The result is cut to its first segment.
func parseGenre(lines []string) string {
	start := -1
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), "about the album") {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}
	end := start + genreScanLines
	if end > len(lines) {
		end = len(lines)
	}

	for i := start; i < end; i++ {
		line := lines[i]
		lower := strings.ToLower(line)
		idx := strings.Index(lower, "genre")
		if idx < 0 {
			continue
		}
		var value string
		if colon := strings.Index(line, ":"); colon >= 0 {
			value = strings.TrimSpace(line[colon+1:])
		} else {
			value = strings.TrimLeft(strings.TrimSpace(line[idx+len("genre"):]), ":-– ")
		}
		if value == "" {
			value = nextContentLine(lines, i+1, end)
		}
		return normalizeGenre(value)
	}
	return ""
}

// nextContentLine returns the first non-empty line in [from, to) that does
// not look like a heading.
func nextContentLine(lines []string, from, to int) string {
	for i := from; i < to && i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}
		return line
	}
	return ""
}

// normalizeGenre reduces a raw genre string to its first segment: the text
// before the first delimiter, or the first whitespace token when there is no
// delimiter. Anything starting with "classical" collapses to "Classical".
func normalizeGenre(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	cut := -1
	for _, d := range genreDelims {
		if i := strings.Index(s, d); i >= 0 && (cut < 0 || i < cut) {
			cut = i
		}
	}
	if cut >= 0 {
		s = strings.TrimSpace(s[:cut])
	} else if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}
	if strings.HasPrefix(strings.ToLower(s), "classical") {
		return "Classical"
	}
	return s
}
