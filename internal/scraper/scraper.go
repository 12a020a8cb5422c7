package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/notion-meetings/internal/config"
	"github.com/pfrederiksen/notion-meetings/internal/logger"
	"github.com/pfrederiksen/notion-meetings/internal/meeting"
)

// Options selects which parts of a meeting page are extracted
type Options struct {
	ExtractSummary bool
	ExtractNotes   bool
}

// Scraper fetches pages and turns them into meetings. It is not safe for concurrent use.
type Scraper struct {
	client  *http.Client
	crawl   config.CrawlConfig
	opts    Options
	log     *logger.Logger
	metrics *logger.Metrics

	// fetched counts requests so far; every request after the first waits crawl.WaitTime
	fetched int
}

// New creates a Scraper. A nil log uses the default logger and nil metrics are discarded.
func New(crawl config.CrawlConfig, opts Options, log *logger.Logger, metrics *logger.Metrics) *Scraper {
	if log == nil {
		log = logger.Default()
	}
	if metrics == nil {
		metrics = logger.NewMetrics()
	}
	if crawl.LinkSelector == "" {
		crawl.LinkSelector = DefaultLinkSelector
	}
	return &Scraper{
		client: &http.Client{
			Timeout: crawl.TimeoutDuration(),
		},
		crawl:   crawl,
		opts:    opts,
		log:     log,
		metrics: metrics,
	}
}

// Fetch loads and parses the page at target. It returns the document together with the
// URL relative links on the page resolve against.
func (s *Scraper) Fetch(ctx context.Context, target string) (*goquery.Document, *url.URL, error) {
	if err := s.wait(ctx); err != nil {
		return nil, nil, err
	}
	s.fetched++

	start := time.Now()
	defer func() {
		s.metrics.RecordTiming("page.fetch", time.Since(start))
	}()

	base, err := pageURL(target)
	if err != nil {
		return nil, nil, err
	}

	var doc *goquery.Document
	if base.Scheme == "file" {
		doc, err = s.readFile(base)
	} else {
		doc, err = s.get(ctx, base)
	}
	if err != nil {
		s.metrics.IncrCounter("pages.failed")
		return nil, nil, err
	}

	s.metrics.IncrCounter("pages.fetched")
	return doc, base, nil
}

func (s *Scraper) get(ctx context.Context, u *url.URL) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.crawl.UserAgent)

	s.log.Debug("Fetching page", logger.Fields{"url": u.String()})

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, u)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

func (s *Scraper) readFile(u *url.URL) (*goquery.Document, error) {
	s.log.Debug("Reading page", logger.Fields{"path": u.Path})

	f, err := os.Open(u.Path)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer f.Close() // nolint:errcheck

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// wait sleeps for the configured delay before every request but the first
func (s *Scraper) wait(ctx context.Context) error {
	delay := s.crawl.WaitDuration()
	if s.fetched == 0 || delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// pageURL parses target as an http(s) or file URL. Anything without one of those schemes
// is taken as a filesystem path.
func pageURL(target string) (*url.URL, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("empty page URL")
	}

	if u, err := url.Parse(target); err == nil {
		switch u.Scheme {
		case "http", "https":
			return u, nil
		case "file":
			return u, nil
		}
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("resolving page path: %w", err)
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
}

// CrawlCategory collects the meetings of one category: those reachable from the category
// page and from each configured sub-page. Failing meeting pages are logged and skipped;
// only a failure to load the category page itself is returned.
func (s *Scraper) CrawlCategory(ctx context.Context, category config.Category) ([]*meeting.Meeting, error) {
	s.log.Info("Crawling category", logger.Fields{
		"category": category.Name,
		"url":      category.URL,
		"subpages": len(category.Subpages),
	})

	meetings, err := s.crawlPage(ctx, category.Name, "", category.URL)
	if err != nil {
		return nil, fmt.Errorf("loading category %s: %w", category.Name, err)
	}

	for _, sub := range category.Subpages {
		found, err := s.crawlPage(ctx, category.Name, sub.Name, sub.URL)
		if err != nil {
			if ctx.Err() != nil {
				return meetings, ctx.Err()
			}
			s.log.Warn("Skipping subcategory page", logger.Fields{
				"category":    category.Name,
				"subcategory": sub.Name,
				"url":         sub.URL,
				"error":       err.Error(),
			})
			continue
		}
		meetings = append(meetings, found...)
	}

	meetings = meeting.Dedupe(meetings)
	s.metrics.AddCounter("meetings.scraped", int64(len(meetings)))
	s.log.Info("Category crawled", logger.Fields{
		"category": category.Name,
		"meetings": len(meetings),
	})

	return meetings, nil
}

// crawlPage handles a listing page. Linked sub-pages are followed when present, each
// yielding one meeting; otherwise inline listings are read, and failing that the page
// itself is taken as a single meeting. An empty subcategory means each linked page's
// title is used.
func (s *Scraper) crawlPage(ctx context.Context, category, subcategory, pageURL string) ([]*meeting.Meeting, error) {
	doc, base, err := s.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	if links := Subpages(doc, base, s.crawl.LinkSelector); len(links) > 0 {
		return s.crawlLinks(ctx, category, subcategory, links), nil
	}

	var meetings []*meeting.Meeting
	for i, item := range ExtractListing(doc) {
		// Recurring meetings repeat titles, so each entry gets its own position anchor.
		src := *base
		src.Fragment = fmt.Sprintf("meeting-%d", i+1)
		m := meeting.New(category, subcategory, item.Title, item.DateText, src.String())
		if s.opts.ExtractSummary {
			m.Summary = item.Summary
		}
		meetings = append(meetings, m)
	}
	if len(meetings) > 0 {
		s.log.Debug("Read inline listing", logger.Fields{"url": base.String(), "meetings": len(meetings)})
		return meetings, nil
	}

	if m := s.pageMeeting(doc, category, subcategory, base.String()); m != nil {
		meetings = append(meetings, m)
	}
	return meetings, nil
}

func (s *Scraper) crawlLinks(ctx context.Context, category, subcategory string, links []Link) []*meeting.Meeting {
	if limit := s.crawl.MaxPagesPerCategory; limit > 0 && len(links) > limit {
		s.log.Debug("Limiting sub-pages", logger.Fields{"found": len(links), "limit": limit})
		links = links[:limit]
	}

	var meetings []*meeting.Meeting
	for _, link := range links {
		if ctx.Err() != nil {
			break
		}

		doc, base, err := s.Fetch(ctx, link.URL)
		if err != nil {
			s.log.Warn("Skipping meeting page", logger.Fields{
				"category": category,
				"title":    link.Title,
				"url":      link.URL,
				"error":    err.Error(),
			})
			continue
		}

		sub := subcategory
		if sub == "" {
			sub = link.Title
		}
		if m := s.pageMeeting(doc, category, sub, base.String()); m != nil {
			meetings = append(meetings, m)
		}
	}
	return meetings
}

// pageMeeting builds a meeting from a meeting page, or nil when the page has neither a
// title nor a summary
func (s *Scraper) pageMeeting(doc *goquery.Document, category, subcategory, sourceURL string) *meeting.Meeting {
	info := ExtractMeeting(doc, s.opts.ExtractSummary, s.opts.ExtractNotes)

	m := meeting.New(category, subcategory, info.Title, info.DateText, sourceURL)
	m.Summary = info.Summary
	m.Notes = info.Notes
	if !m.HasContent() {
		s.log.Debug("Page has no meeting content", logger.Fields{"url": sourceURL})
		return nil
	}

	s.log.Debug("Extracted meeting", logger.Fields{
		"title": truncate(m.Title, 30),
		"date":  m.DateText,
	})
	return m
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
