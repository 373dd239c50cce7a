package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"listingsdash/internal/components/assert"
	"listingsdash/internal/components/telemetry"
	"listingsdash/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("internal/listings")

const (
	report_client_listings       = "client.listings"
	report_client_scraper_status = "client.scraper-status"
	report_client_run_scraper    = "client.run-scraper"
	report_client_login          = "client.login"
)

type ClientOptions struct {
	BaseUrl string
	// Timeout bounds every request, 30s if zero.
	Timeout time.Duration
	// RequestsPerSecond limits the request rate, unlimited if zero.
	RequestsPerSecond float64
	// Dump receives every request/response exchange when set.
	Dump restyutil.Output
}

type client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	tel telemetry.API
}

// NewClient creates a Client talking to the dashboard server at opts.BaseUrl. The client
// keeps cookies, so a successful Login carries over to later requests.
func NewClient(opts ClientOptions, tel telemetry.API) (Client, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.BaseUrl)
	tel = telemetry.NewScopedAPI("listings", tel)

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", opts.BaseUrl)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.SetHeader("accept", "application/json")
	httpClient.SetTimeout(timeout)

	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, "internal/listings/http", tel)
	if opts.Dump != nil {
		restyutil.DumpExchanges(httpClient, opts.Dump)
	}

	return &client{
		BaseUrl: baseUrl,
		Http:    httpClient,
		tel:     tel,
	}, nil
}

// decode unmarshals a successful response body into out.
func decode(res *resty.Response, out any) error {
	if res.IsError() {
		return fmt.Errorf("unexpected status: %s", res.Status())
	}
	err := json.Unmarshal(res.Body(), out)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func (c *client) Listings(ctx context.Context, scope Scope, filters FilterMap) (Dataset, error) {
	ctx, span := tracer.Start(ctx, "client:Listings")
	defer span.End()
	span.SetAttributes(
		attribute.String("table_type", string(scope)),
		attribute.Int("filters", len(filters)),
	)

	req := c.Http.R().
		SetContext(ctx).
		SetQueryParam("table_type", string(scope))
	for key, value := range filters {
		req.SetQueryParam(key, value)
	}

	res, err := req.Get("/listings")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch listings")
		c.tel.ReportBroken(report_client_listings, fmt.Errorf("fetch: %w", err), scope)
		return Dataset{}, err
	}

	var body struct {
		Dataset
		Error string `json:"error"`
	}
	err = decode(res, &body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_listings, err, scope)
		return Dataset{}, err
	}
	// the server reports query failures in the body with a 200
	if body.Error != "" {
		err := fmt.Errorf("server: %s", body.Error)
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_listings, err, scope)
		return Dataset{}, err
	}
	if body.Rows == nil {
		body.Rows = []Record{}
	}

	span.SetAttributes(attribute.Int("rows", len(body.Rows)))
	return body.Dataset, nil
}

func (c *client) ScraperStatus(ctx context.Context) (JobStatus, error) {
	ctx, span := tracer.Start(ctx, "client:ScraperStatus")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/scraper-status")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch status")
		c.tel.ReportWarning(report_client_scraper_status, fmt.Errorf("fetch: %w", err))
		return JobStatus{}, err
	}

	var status JobStatus
	err = decode(res, &status)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportWarning(report_client_scraper_status, err)
		return JobStatus{}, err
	}
	span.SetAttributes(attribute.Bool("is_running", status.IsRunning))
	return status, nil
}

func (c *client) RunScraper(ctx context.Context) (StartStatus, error) {
	ctx, span := tracer.Start(ctx, "client:RunScraper")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Post("/run-scraper")
	if err != nil {
		span.SetStatus(codes.Error, "failed to post run request")
		c.tel.ReportBroken(report_client_run_scraper, fmt.Errorf("fetch: %w", err))
		return "", err
	}

	var body struct {
		Status StartStatus `json:"status"`
	}
	err = decode(res, &body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_run_scraper, err)
		return "", err
	}
	span.SetAttributes(attribute.String("status", string(body.Status)))
	return body.Status, nil
}

func (c *client) Login(ctx context.Context, username, password string) (bool, error) {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": username,
			"password": password,
		}).
		Post("/login")
	if err != nil {
		span.SetStatus(codes.Error, "failed to post login request")
		c.tel.ReportBroken(report_client_login, fmt.Errorf("fetch: %w", err))
		return false, err
	}

	var body struct {
		Success bool `json:"success"`
	}
	err = decode(res, &body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_login, err)
		return false, err
	}
	return body.Success, nil
}
