package fetch

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/document"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxBytes  = 25 << 20
	defaultUserAgent = "spigell/resume-scorer"
	contentEncoding  = "gzip"

	driveHost        = "drive.google.com"
	driveDownloadURL = "https://drive.google.com/uc?export=download&id="
)

var (
	// ErrFetchFailure is returned for transport errors and non-2xx responses.
	ErrFetchFailure = errors.New("fetch failure")
	// ErrUnresolvableReference is returned when a share link carries no file id.
	ErrUnresolvableReference = errors.New("unresolvable reference")
)

var drivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`id=([a-zA-Z0-9_-]+)`),
}

type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	MaxBytes   int64
	logger     *zap.Logger
}

// Options tune the client. Zero values select the defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

func New(logger *zap.Logger, opts Options) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent: userAgent,
		MaxBytes:  maxBytes,
		logger:    logger,
	}
}

// Fetch retrieves the document behind ref. HTTP(S) references are downloaded,
// any other scheme is rejected and everything else is read as a local path.
func (c *Client) Fetch(ctx context.Context, ref string) (*document.RawDocument, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrFetchFailure)
	}

	lower := strings.ToLower(ref)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return c.fetchURL(ctx, ref)
	case strings.Contains(ref, "://"):
		return nil, fmt.Errorf("%w: unsupported scheme in %q", ErrFetchFailure, ref)
	default:
		return c.readFile(ref)
	}
}

// ResolveDriveLink rewrites a Google Drive share link into its direct
// download form. Other URLs are returned unchanged.
func ResolveDriveLink(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: parse url: %v", ErrUnresolvableReference, err)
	}

	if !strings.EqualFold(parsed.Hostname(), driveHost) {
		return rawURL, nil
	}

	for _, pattern := range drivePatterns {
		if match := pattern.FindStringSubmatch(rawURL); len(match) == 2 {
			return driveDownloadURL + match[1], nil
		}
	}

	return "", fmt.Errorf("%w: no file id in %q", ErrUnresolvableReference, rawURL)
}

func (c *Client) fetchURL(ctx context.Context, ref string) (*document.RawDocument, error) {
	target, err := ResolveDriveLink(ref)
	if err != nil {
		return nil, err
	}

	logger := c.logger.With(zap.String("fetch_id", uuid.NewString()), zap.String("url", target))
	if target != ref {
		logger.Debug("rewrote share link", zap.String("original", ref))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetchFailure, err)
	}
	req = c.setHeaders(req)

	resp, err := c.request(req, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: bad status: %s", ErrFetchFailure, resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrFetchFailure, err)
		}
		defer gzipReader.Close()
		body = gzipReader
	}

	data, err := c.readLimited(body)
	if err != nil {
		return nil, err
	}

	mediaType := resp.Header.Get("Content-Type")
	logger.Debug("fetched document",
		zap.Int("bytes", len(data)),
		zap.String("content_type", mediaType),
	)

	return &document.RawDocument{
		Source:            ref,
		Data:              data,
		DeclaredExt:       document.ExtensionFromReference(ref, mediaType),
		DeclaredMediaType: mediaType,
	}, nil
}

func (c *Client) readFile(path string) (*document.RawDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	defer f.Close()

	data, err := c.readLimited(f)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("read local document", zap.String("path", path), zap.Int("bytes", len(data)))

	return &document.RawDocument{
		Source:      path,
		Data:        data,
		DeclaredExt: strings.ToLower(filepath.Ext(path)),
	}, nil
}

func (c *Client) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, c.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetchFailure, err)
	}
	if int64(len(data)) > c.MaxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrFetchFailure, c.MaxBytes)
	}
	return data, nil
}

func (c *Client) request(req *http.Request, logger *zap.Logger) (*http.Response, error) {
	logger.Debug("make request")
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
