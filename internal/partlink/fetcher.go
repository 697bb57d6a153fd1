package partlink

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gearboxapp/gearbox-backend/pkg/config"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
)

// Fetcher retrieves a product page and reduces it to text the extractor can
// work with.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type httpFetcher struct {
	client       *http.Client
	maxHTMLBytes int
}

// NewFetcher builds the default HTTP fetcher. Retailer sites tend to reject
// obvious bot traffic, so requests go out with ordinary browser headers.
func NewFetcher(cfg config.PartLinkConfig) Fetcher {
	return &httpFetcher{
		client:       &http.Client{Timeout: cfg.FetchTimeout},
		maxHTMLBytes: cfg.MaxHTMLBytes,
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeFetch, err, "unable to fetch page")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeFetch, err, "unable to fetch page")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", pkgerrors.New(pkgerrors.CodeFetch, "unable to fetch page")
	}

	body := io.LimitReader(resp.Body, int64(f.maxHTMLBytes))
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeFetch, err, "unable to fetch page")
	}

	// markup noise only dilutes the prompt
	doc.Find("script, style, noscript, svg, iframe").Remove()

	text := collapseWhitespace(doc.Text())
	if text == "" {
		return "", pkgerrors.New(pkgerrors.CodeFetch, "unable to fetch page")
	}
	return text, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
