package khinsider

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// userAgents are rotated across retries so a 403 from the edge cache does
// not stick to one browser fingerprint.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:120.0) Gecko/20100101 Firefox/120.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

const (
	maxRetries       = 3
	maxSearchResults = 20
)

// Client fetches and parses catalog pages.
type Client struct {
	// BaseURL is the catalog host, without a trailing slash.
	BaseURL string

	// HTTP is the underlying client. NewClient sets a 20s timeout.
	HTTP *http.Client

	// Backoff sleeps between retry attempts. Defaults to a randomized
	// 1-3s pause; tests replace it.
	Backoff func(ctx context.Context, attempt int) error
}

// NewClient returns a Client pointed at the production catalog.
func NewClient() *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		HTTP:    &http.Client{Timeout: 20 * time.Second},
		Backoff: randomBackoff,
	}
}

func randomBackoff(ctx context.Context, attempt int) error {
	d := time.Duration(1+rand.Float64()*2) * time.Second
	if attempt > 1 {
		// Longer pause after a 403: the throttle window is a few seconds.
		d = time.Duration(2+rand.Float64()*3) * time.Second
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Get fetches rawURL with retry and user-agent rotation. A 403 response is
// retried; other non-2xx statuses fail immediately. The caller closes the
// body.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			if err := c.Backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusForbidden && attempt < maxRetries-1 {
			resp.Body.Close()
			lastErr = fmt.Errorf("%s returned 403", rawURL)
			continue
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("%s returned %s", rawURL, resp.Status)
		}
		return resp, nil
	}
	return nil, fmt.Errorf("failed to fetch %s after %d attempts: %w", rawURL, maxRetries, lastErr)
}

func (c *Client) fetchDoc(ctx context.Context, rawURL string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", rawURL, err)
	}
	return doc, nil
}

// Search queries the catalog and returns up to 20 album hits. Results come
// from the album list table when present, with a page-wide link scan as a
// fallback for layout changes.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	searchURL := c.BaseURL + "/search?" + url.Values{"search": {query}}.Encode()
	doc, err := c.fetchDoc(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	doc.Find("table#albumlist tr, table.albumlist tr, table.chart tr").Each(func(_ int, row *goquery.Selection) {
		if row.Find("th").Length() > 0 {
			return
		}
		link := row.Find(`a[href*="/game-soundtracks/album/"]`).First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		name := strings.TrimSpace(link.Text())
		if name == "" {
			return
		}
		results = append(results, SearchResult{
			ID:   albumIDFromURL(href),
			Name: name,
			URL:  c.absURL(href),
			Icon: c.iconNear(row),
		})
	})

	if len(results) == 0 {
		doc.Find(`a[href*="/game-soundtracks/album/"]`).Each(func(_ int, link *goquery.Selection) {
			href, _ := link.Attr("href")
			name := strings.TrimSpace(link.Text())
			if len(name) <= 2 {
				return
			}
			results = append(results, SearchResult{
				ID:   albumIDFromURL(href),
				Name: name,
				URL:  c.absURL(href),
				Icon: c.iconNear(link.Parent()),
			})
		})
	}

	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results, nil
}

var titleNoise = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*-\s*Download.*$`),
	regexp.MustCompile(`(?i)\s*-\s*KHInsider.*$`),
	regexp.MustCompile(`(?i)\s*MP3.*$`),
}

// Album fetches an album page and its track table. id may be a bare album
// slug or a full album URL.
func (c *Client) Album(ctx context.Context, id string) (*Album, error) {
	pageURL := id
	albumID := id
	if strings.HasPrefix(id, "http") {
		albumID = albumIDFromURL(id)
	} else {
		pageURL = c.BaseURL + "/game-soundtracks/album/" + id
	}

	doc, err := c.fetchDoc(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	album := &Album{
		ID:    albumID,
		Title: c.extractTitle(doc, albumID),
		Icon:  c.extractIcon(doc),
	}

	n := 0
	doc.Find("table#songlist tr").Each(func(_ int, row *goquery.Selection) {
		if id, _ := row.Attr("id"); id == "songlist_header" || id == "songlist_footer" {
			return
		}
		link := row.Find("td.clickable-row a[href]").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		name := strings.TrimSpace(link.Text())
		if name == "" {
			return
		}
		n++
		album.Tracks = append(album.Tracks, Track{Number: n, Name: name, URL: c.absURL(href)})
	})
	album.TotalTracks = len(album.Tracks)

	if album.TotalTracks == 0 {
		return nil, fmt.Errorf("album %q has no track table", albumID)
	}
	return album, nil
}

func (c *Client) extractTitle(doc *goquery.Document, fallbackID string) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title != "" && !strings.Contains(title, "403") && !strings.Contains(strings.ToLower(title), "error") {
		for _, re := range titleNoise {
			title = re.ReplaceAllString(title, "")
		}
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	for _, tag := range []string{"h1", "h2", "h3"} {
		if text := strings.TrimSpace(doc.Find(tag).First().Text()); len(text) > 3 {
			return text
		}
	}
	return titleCase(fallbackID)
}

func (c *Client) extractIcon(doc *goquery.Document) string {
	icon := ""
	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		alt, _ := img.Attr("alt")
		hay := strings.ToLower(src + " " + alt)
		for _, k := range []string{"album", "cover", "artwork", "thumb"} {
			if strings.Contains(hay, k) {
				icon = c.absURL(src)
				return false
			}
		}
		return true
	})
	return icon
}

// audioExts are the formats the catalog serves.
var audioExts = []string{".mp3", ".flac", ".ogg", ".wav"}

// StreamURL resolves a track page to its direct audio URL, trying the inline
// player source first and falling back to download links.
func (c *Client) StreamURL(ctx context.Context, trackPageURL string) (string, error) {
	doc, err := c.fetchDoc(ctx, trackPageURL)
	if err != nil {
		return "", err
	}

	if src, ok := doc.Find("audio[src]").First().Attr("src"); ok && src != "" {
		return src, nil
	}
	if href, ok := doc.Find("a.songDownloadLink[href]").First().Attr("href"); ok && href != "" {
		return href, nil
	}

	found := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, "vgmsite.com") {
			found = href
			return false
		}
		return true
	})
	if found == "" {
		doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			lower := strings.ToLower(href)
			for _, ext := range audioExts {
				if strings.Contains(lower, ext) {
					found = href
					return false
				}
			}
			return true
		})
	}
	if found == "" {
		return "", fmt.Errorf("no audio link on %s", trackPageURL)
	}
	return found, nil
}

func (c *Client) absURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return c.BaseURL + href
	}
	return href
}

func (c *Client) iconNear(sel *goquery.Selection) string {
	src, ok := sel.Find("img[src]").First().Attr("src")
	if !ok {
		return ""
	}
	return c.absURL(src)
}

// titleCase turns an album slug like "hollow-knight-ost" into a readable
// fallback title.
func titleCase(slug string) string {
	words := strings.Fields(strings.ReplaceAll(slug, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func albumIDFromURL(u string) string {
	if i := strings.LastIndex(u, "/album/"); i >= 0 {
		return u[i+len("/album/"):]
	}
	return u
}
