// Package scrape implements the two crawl phases: listing-page discovery of
// album candidates and album-page metadata extraction, plus the shared
// release-date heuristics both phases use.
package scrape

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/beckettonfilm-sys/raffaello/internal/catalog"
)

// maxAncestorHops bounds the tree climb when looking for an album link's
// unique container on a listing page.
const maxAncestorHops = 10

// detailScanLines bounds the line scan on album pages before falling back to
// a single full-text match.
const detailScanLines = 120

// albumPathSegment marks an anchor as an album link.
const albumPathSegment = "/album/"

// Date templates, tried in order: "Released by ... on", "Released on",
// "To be released on". Month-name forms with a comma before the year are
// tried first, then the same templates with numeric M/D/YY[YY] dates.
var (
	monthNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)released\s+by\s+.+?\s+on\s+([A-Za-z]+)\.?\s+(\d{1,2}),\s*(\d{4})`),
		regexp.MustCompile(`(?i)released\s+on\s+([A-Za-z]+)\.?\s+(\d{1,2}),\s*(\d{4})`),
		regexp.MustCompile(`(?i)to\s+be\s+released\s+on\s+([A-Za-z]+)\.?\s+(\d{1,2}),\s*(\d{4})`),
	}
	numericPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)released\s+by\s+.+?\s+on\s+(\d{1,2})/(\d{1,2})/(\d{2,4})`),
		regexp.MustCompile(`(?i)released\s+on\s+(\d{1,2})/(\d{1,2})/(\d{2,4})`),
		regexp.MustCompile(`(?i)to\s+be\s+released\s+on\s+(\d{1,2})/(\d{1,2})/(\d{2,4})`),
	}
	releasedMarker = regexp.MustCompile(`(?i)released`)
)

// ExtractDate pulls a calendar date out of free-form text using the release
// templates. It returns no date when nothing matches.
func ExtractDate(text string) (catalog.Date, bool) {
	for _, re := range monthNamePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		month, ok := parseMonth(m[1])
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if d, valid := catalog.MakeDate(year, month, day); valid {
			return d, true
		}
	}
	for _, re := range numericPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		// Month-first, then day-first; validity decides, not locale.
		if d, valid := catalog.MakeDate(year, time.Month(a), b); valid {
			return d, true
		}
		if d, valid := catalog.MakeDate(year, time.Month(b), a); valid {
			return d, true
		}
	}
	return catalog.Date{}, false
}

// parseMonth resolves an English month name or abbreviation. "Sept" is
// normalized to "Sep".
func parseMonth(raw string) (time.Month, bool) {
	s := strings.ToLower(strings.TrimSuffix(raw, "."))
	if s == "sept" {
		s = "sep"
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || (len(s) == 3 && s == name[:3]) {
			return m, true
		}
	}
	return 0, false
}

// ExtractDetailDate scans the first ~120 lines of album-page text for a
// "released" line and parses it; when no such line yields a date it falls
// back to matching the flattened page text once.
func ExtractDetailDate(lines []string, flat string) (catalog.Date, bool) {
	limit := len(lines)
	if limit > detailScanLines {
		limit = detailScanLines
	}
	for _, line := range lines[:limit] {
		if !releasedMarker.MatchString(line) {
			continue
		}
		if d, ok := ExtractDate(line); ok {
			return d, true
		}
	}
	return ExtractDate(flat)
}

// IsAlbumLink reports whether a resolved URL points at an album page.
func IsAlbumLink(u *url.URL) bool {
	return u != nil && strings.Contains(u.Path, albumPathSegment)
}

// FindUniqueContainerDate climbs at most maxAncestorHops ancestors above the
// anchor. An ancestor whose album-link set is exactly {target} is a unique
// container: its text is run through the date templates, and the climb
// continues to wider still-unique containers until a date is found. As soon
// as a second album link enters the set the search stops, since a date in a
// shared container cannot be attributed to this album.
func FindUniqueContainerDate(anchor *goquery.Selection, target string, base *url.URL) (catalog.Date, bool) {
	node := anchor.Parent()
	for hop := 0; hop < maxAncestorHops && node.Length() > 0; hop++ {
		links := albumLinkSet(node, base)
		if len(links) > 1 {
			return catalog.Date{}, false
		}
		if len(links) == 1 {
			if _, ok := links[target]; ok {
				if d, found := ExtractDate(collapseText(node)); found {
					return d, true
				}
			}
		}
		node = node.Parent()
	}
	return catalog.Date{}, false
}

// albumLinkSet collects the distinct resolved album links inside sel.
func albumLinkSet(sel *goquery.Selection, base *url.URL) map[string]struct{} {
	links := make(map[string]struct{})
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		resolved, ok := resolveLink(base, href)
		if !ok {
			return
		}
		links[resolved] = struct{}{}
	})
	return links
}

// resolveLink resolves href against base and reports whether it is an album
// link.
func resolveLink(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if !IsAlbumLink(abs) {
		return "", false
	}
	abs.Fragment = ""
	return abs.String(), true
}
