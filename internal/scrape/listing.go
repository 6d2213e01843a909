package scrape

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/beckettonfilm-sys/raffaello/internal/catalog"
	"github.com/beckettonfilm-sys/raffaello/internal/fetch"
)

// PageFetcher fetches one URL and reports whether a 200 body was obtained.
// Failures are already counted by the implementation; the crawler just skips.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, bool)
}

// ListingCrawler paginates each label's catalog page and discovers album
// candidates with an in-range listing date.
type ListingCrawler struct {
	cfg     catalog.Config
	fetcher PageFetcher
	lane    *fetch.Lane
	stats   *catalog.Stats
	logger  *zap.Logger

	// OnPage, when set, is called after each listing page dispatch.
	OnPage func(label catalog.Label, page int)
}

// NewListingCrawler builds a crawler throttled by the given listing lane.
func NewListingCrawler(
	cfg catalog.Config,
	fetcher PageFetcher,
	lane *fetch.Lane,
	stats *catalog.Stats,
	logger *zap.Logger,
) *ListingCrawler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingCrawler{cfg: cfg, fetcher: fetcher, lane: lane, stats: stats, logger: logger}
}

// CrawlLabel walks up to MaxPagesPerLabel listing pages for one label and
// emits every unique album link whose listing date falls inside the run's
// date window. A failed page fetch skips that page; the only error returned
// is a canceled context.
func (c *ListingCrawler) CrawlLabel(ctx context.Context, label catalog.Label, emit func(catalog.Candidate)) error {
	base, err := url.Parse(label.URL)
	if err != nil {
		c.stats.ParseErrors.Add(1)
		c.logger.Warn("unparsable label URL", zap.String("label", label.Name), zap.String("url", label.URL))
		return nil
	}

	seen := make(map[string]struct{})
	for page := 1; page <= c.cfg.MaxPagesPerLabel; page++ {
		pageURL := buildPageURL(label.URL, page)

		var body string
		var ok bool
		if err := c.lane.Do(ctx, func(ctx context.Context) {
			body, ok = c.fetcher.Fetch(ctx, pageURL)
		}); err != nil {
			return err
		}
		if c.OnPage != nil {
			c.OnPage(label, page)
		}
		if !ok {
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
		if err != nil {
			c.stats.ParseErrors.Add(1)
			c.logger.Warn("listing page did not parse",
				zap.String("label", label.Name),
				zap.Int("page", page),
				zap.Error(err),
			)
			continue
		}

		c.scanPage(doc, base, label, seen, emit)

		if page == 1 && !hasSecondPageLink(doc) {
			break
		}
	}
	return nil
}

// scanPage walks every album anchor on the page, attributes a listing date
// via the unique-container climb, and emits in-range candidates.
func (c *ListingCrawler) scanPage(
	doc *goquery.Document,
	base *url.URL,
	label catalog.Label,
	seen map[string]struct{},
	emit func(catalog.Candidate),
) {
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		target, ok := resolveLink(base, href)
		if !ok {
			return
		}
		if _, dup := seen[target]; dup {
			return
		}
		seen[target] = struct{}{}

		date, found := c.containerDate(a, target, base)
		if !found {
			// Without a date the link cannot become a candidate.
			return
		}
		if !date.Within(c.cfg.DateFrom, c.cfg.DateTo) {
			return
		}
		c.stats.CandidatesTotal.Add(1)
		emit(catalog.Candidate{AlbumURL: target, Label: label.Name, ListingDate: date})
	})
}

// containerDate isolates the ancestor climb so a panicking DOM walk is
// downgraded to "no date found" for that link.
func (c *ListingCrawler) containerDate(a *goquery.Selection, target string, base *url.URL) (date catalog.Date, found bool) {
	defer func() {
		if r := recover(); r != nil {
			c.stats.ParseErrors.Add(1)
			c.logger.Warn("DOM walk failed", zap.String("album_url", target), zap.Any("panic", r))
			date, found = catalog.Date{}, false
		}
	}()
	return FindUniqueContainerDate(a, target, base)
}

// buildPageURL appends the page query parameter; page 1 is the bare URL.
func buildPageURL(base string, page int) string {
	if page <= 1 {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// hasSecondPageLink reports whether the page links to a second listing page.
func hasSecondPageLink(doc *goquery.Document) bool {
	found := false
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, "page=2") || strings.Contains(href, "/page/2") {
			found = true
			return false
		}
		return true
	})
	return found
}
