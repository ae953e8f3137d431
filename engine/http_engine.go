package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"
	"golang.org/x/net/html"
)

// DefaultUserAgent is a current desktop Chrome on Windows.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// HTTPOptions configures an HTTPEngine.
type HTTPOptions struct {
	// MaxRedirects is the number of redirects followed before giving up.
	MaxRedirects int

	// MaxBodyBytes caps how much of a body Fetch reads. Zero means 10 MiB.
	MaxBodyBytes int64

	// Proxy is an optional http(s) proxy URL.
	Proxy string

	// UserAgent overrides DefaultUserAgent.
	UserAgent string
}

// HTTPEngine is the plain HTTP engine. It sends browser-like headers over a
// Chrome TLS fingerprint and never executes JavaScript.
type HTTPEngine struct {
	client    *http.Client
	maxBody   int64
	userAgent string
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// net/http cannot speak h2 over a utls connection, so h2 is never offered.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// NewHTTPEngine creates an HTTPEngine with a Chrome-like TLS fingerprint.
func NewHTTPEngine(opts HTTPOptions) *HTTPEngine {
	transport := &http.Transport{
		DialTLSContext:      dialChromeTLS,
		ForceAttemptHTTP2:   false,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	if opts.Proxy != "" {
		if proxyURL, err := url.Parse(opts.Proxy); err == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		} else {
			slog.Warn("ignoring unsupported proxy URL", "proxy", opts.Proxy)
		}
	}

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 10 << 20
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	maxRedirects := opts.MaxRedirects

	return &HTTPEngine{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, maxRedirects)
				}
				return nil
			},
		},
		maxBody:   maxBody,
		userAgent: ua,
	}
}

func dialChromeTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("http_engine: apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}

func (e *HTTPEngine) Name() string { return "http" }

// Fetch GETs the page. Any final status outside 2xx is a *StatusError.
func (e *HTTPEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("http_engine: build request: %w", err)
	}

	httpReq.Header.Set("User-Agent", e.userAgent)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.5")
	httpReq.Header.Set("Connection", "keep-alive")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http_engine: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: resp.Request.URL.String()}
	}

	ct := resp.Header.Get("Content-Type")
	if isBinaryContentType(ct) {
		return nil, fmt.Errorf("http_engine: binary content-type %q", ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBody))
	if err != nil {
		return nil, fmt.Errorf("http_engine: read body: %w", err)
	}
	bodyStr := string(body)

	return &FetchResult{
		HTML:       bodyStr,
		Title:      extractTitle(bodyStr),
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
		EngineName: e.Name(),
	}, nil
}

// Head issues a HEAD request and returns the final status code. Only
// transport failures (including the redirect ceiling) are errors; any
// status the server answers with is returned as-is.
func (e *HTTPEngine) Head(ctx context.Context, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("http_engine: build head request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http_engine: head: %w", err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// binaryTypes are media types that can never hold markup. Anything else,
// mislabelled text/plain pages included, is handed to the parser.
var binaryTypes = []string{"image/", "video/", "audio/", "font/", "application/octet-stream", "application/pdf", "application/zip"}

func isBinaryContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	for _, prefix := range binaryTypes {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}

// extractTitle uses the Go HTML tokenizer to find the first <title> element.
func extractTitle(htmlStr string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(htmlStr))
	inTitle := false
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			if tn, _ := tokenizer.TagName(); string(tn) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(tokenizer.Text()))
			}
		case html.EndTagToken:
			if inTitle {
				return ""
			}
		}
	}
}
