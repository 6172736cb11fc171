package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsRater/internal/domain"
	"NewsRater/internal/sources"
)

// Selector option keys understood by the headline scanner. Each site
// configures its own CSS selectors; the scanner stays site-agnostic.
const (
	optItemSelector    = "itemSelector"
	optTitleSelector   = "titleSelector"
	optLinkSelector    = "linkSelector"
	optSummarySelector = "summarySelector"
)

// HeadlineScanner crawls listing pages of a news site and extracts article
// stubs via configured CSS selectors. Full article text comes from the
// linked summary/teaser; sites without teasers are rated on headlines only.
type HeadlineScanner struct {
	client *http.Client
}

// NewHeadlineScanner wires an HTTP client; nil falls back to a 20s timeout.
func NewHeadlineScanner(client *http.Client) *HeadlineScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &HeadlineScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (h *HeadlineScanner) Name() string {
	return "headline"
}

// Fetch walks each section URL and returns the articles listed there.
func (h *HeadlineScanner) Fetch(ctx context.Context, req sources.Request) ([]domain.Article, error) {
	if len(req.Sections) == 0 {
		return nil, fmt.Errorf("no sections provided for site %s", req.SiteName)
	}

	itemSel := req.Options[optItemSelector]
	if itemSel == "" {
		return nil, fmt.Errorf("site %s: %s option is required", req.SiteName, optItemSelector)
	}

	results := make([]domain.Article, 0)
	seen := map[string]struct{}{}

	for _, section := range req.Sections {
		doc, err := h.fetchDocument(ctx, section.URL)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", section.Name, err)
		}

		base, err := url.Parse(section.URL)
		if err != nil {
			return nil, fmt.Errorf("section %s: invalid url: %w", section.Name, err)
		}

		doc.Find(itemSel).Each(func(i int, item *goquery.Selection) {
			article, ok := h.extractArticle(item, base, req, section.Name)
			if !ok {
				return
			}
			if _, dup := seen[article.ID]; dup {
				return
			}
			seen[article.ID] = struct{}{}
			results = append(results, article)
		})
	}

	return results, nil
}

func (h *HeadlineScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsRater/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("site returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (h *HeadlineScanner) extractArticle(item *goquery.Selection, base *url.URL, req sources.Request, section string) (domain.Article, bool) {
	titleSel := req.Options[optTitleSelector]
	if titleSel == "" {
		titleSel = "a"
	}
	linkSel := req.Options[optLinkSelector]
	if linkSel == "" {
		linkSel = "a"
	}

	title := strings.TrimSpace(item.Find(titleSel).First().Text())
	href, _ := item.Find(linkSel).First().Attr("href")
	href = strings.TrimSpace(href)
	if title == "" || href == "" {
		return domain.Article{}, false
	}

	link, err := base.Parse(href)
	if err != nil {
		return domain.Article{}, false
	}

	summary := ""
	if sel := req.Options[optSummarySelector]; sel != "" {
		summary = strings.TrimSpace(item.Find(sel).First().Text())
	}

	source := req.SiteName
	if section != "" {
		source = fmt.Sprintf("%s/%s", req.SiteName, section)
	}

	text := summary
	if text == "" {
		text = title
	}

	return domain.Article{
		ID:          link.String(),
		Title:       title,
		Source:      source,
		URL:         link.String(),
		RawText:     text,
		PublishedAt: req.Now.UTC(),
	}, true
}
