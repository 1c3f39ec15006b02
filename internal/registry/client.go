package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/NordCoderd/sbomconfusion/internal/model"
)

// Default client settings.
const (
	// DefaultTimeout is the per-lookup timeout when the caller does not
	// override it.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies sbomconfusion in registry requests.
	// Registries ask automated clients to identify themselves.
	DefaultUserAgent = "sbomconfusion (+https://github.com/NordCoderd/sbomconfusion)"

	// retryInterval is the pause before the single retry of a transient
	// failure. Registry lookups run one at a time, so anything longer
	// would noticeably slow down large SBOMs.
	retryInterval = 500 * time.Millisecond

	// maxRetries bounds retries of transient failures. One retry covers
	// flaky connections; repeated failures become a lookup-error finding.
	maxRetries = 1

	// maxBodySize limits the response body size to read. Registry
	// metadata for packages with many versions can be large, but 20MB
	// covers even the biggest npm documents.
	maxBodySize = 20 * 1024 * 1024
)

// Result is the outcome of a registry lookup.
type Result struct {
	// Status is exists or not-found. Lookup errors are returned as errors
	// by Lookup, not encoded here.
	Status model.RegistryStatus

	// Latest is the most recent published version, when the registry
	// reports one. Empty for not-found results.
	Latest string

	// Versions lists all published versions, sorted lexically.
	// Used by the checker's declared-version heuristic.
	Versions []string
}

// Client looks up package names on one registry.
//
// Design decision: We use an interface so npm/PyPI/others can be added as
// variants without changing the checker logic, and so tests can substitute
// a stub for the network.
type Client interface {
	// Lookup queries the registry for an exact package name.
	// It returns a conclusive Result (exists or not-found), or an error
	// when the registry could not be consulted.
	Lookup(ctx context.Context, name string) (Result, error)

	// Ecosystem returns the registry namespace this client serves.
	Ecosystem() model.Ecosystem
}

// options holds shared client configuration.
type options struct {
	baseURL    string
	token      string
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
}

// Option configures a registry client.
type Option func(*options)

// WithBaseURL overrides the registry base URL.
// Useful for private mirrors and for tests.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithToken sets a bearer token sent on lookup requests.
func WithToken(token string) Option {
	return func(o *options) {
		o.token = token
	}
}

// WithTimeout sets the per-lookup timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithHTTPClient sets the underlying HTTP client.
// Tests use this to inject transports; production code keeps the default.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// newOptions applies opts over defaults.
func newOptions(opts ...Option) options {
	o := options{
		timeout:    DefaultTimeout,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ForEcosystem returns the client variant for the given ecosystem.
// The second return value is false when no registry client exists for the
// ecosystem; such entries are classified as unknown by the checker.
func ForEcosystem(eco model.Ecosystem, opts ...Option) (Client, bool) {
	switch eco {
	case model.EcosystemNPM:
		return NewNPMClient(opts...), true
	case model.EcosystemPyPI:
		return NewPyPIClient(opts...), true
	default:
		return nil, false
	}
}

// getJSON performs a GET with the shared retry policy.
// It returns the body and status for conclusive responses (200, 404) and
// an error for everything else. Transport errors and 5xx responses are
// retried once; other unexpected statuses are permanent.
func getJSON(ctx context.Context, o options, url string) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var body []byte
	var status int

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", o.userAgent)
		req.Header.Set("Accept", "application/json")
		if o.token != "" {
			req.Header.Set("Authorization", "Bearer "+o.token)
		}

		resp, err := o.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
			if err != nil {
				return err
			}
			body = data
			status = resp.StatusCode
			return nil
		case resp.StatusCode == http.StatusNotFound:
			status = resp.StatusCode
			return nil
		case resp.StatusCode >= 500:
			return fmt.Errorf("registry returned status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("unexpected registry status %d", resp.StatusCode))
		}
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), maxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, 0, err
	}
	return body, status, nil
}
