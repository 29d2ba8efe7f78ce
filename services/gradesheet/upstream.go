package gradesheet

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http/cookiejar"
	"time"

	"resultrelay/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

var (
	ErrUpstreamTimeout     = errors.New("upstream request timed out")
	ErrUpstreamUnreachable = errors.New("upstream request failed")
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type ClientOptions struct {
	BaseUrl   string
	UserAgent string
	// bounds the whole fetch, connect included
	Timeout time.Duration
	// skips upstream certificate verification, never enable outside
	// of development
	InsecureTls bool
	// routes requests through the Cloudflare-bypass transport, for
	// periods when the upstream fronts itself with Cloudflare
	CloudflareBypass bool
}

// Client talks to the third-party gradesheet site. Safe for concurrent
// use, construct once per service.
type Client struct {
	http *resty.Client
}

func NewClient(opts ClientOptions) (*Client, error) {
	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client.SetHeader("user-agent", userAgent)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Second * 10
	}
	client.SetTimeout(timeout)

	if opts.InsecureTls {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	telemetry.InstrumentResty(client, "gradesheet/upstream")

	return &Client{http: client}, nil
}

// FetchGradesheet submits the upstream search form once, no retries.
func (c *Client) FetchGradesheet(ctx context.Context, symbol, dob string) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"symbol": symbol,
			"dob":    dob,
			"submit": "Search Result",
		}).
		Post("")
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		return "", fmt.Errorf("%w: unexpected status %d", ErrUpstreamUnreachable, res.StatusCode())
	}
	return res.String(), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
