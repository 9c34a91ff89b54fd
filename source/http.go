package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/arloliu/piencode/digits"
	"github.com/arloliu/piencode/internal/options"
)

const (
	// DefaultBaseURL is the public pi.delivery endpoint.
	DefaultBaseURL = "https://api.pi.delivery"

	DefaultAttempts = 3
	DefaultBackoff  = 500 * time.Millisecond
	DefaultTimeout  = 30 * time.Second

	// maxResponseSize bounds body reads; a page response is about 1KiB.
	maxResponseSize = 64 << 10
)

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pi api: status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// HTTPSource fetches digit pages from the pi.delivery API.
type HTTPSource struct {
	client   *http.Client
	baseURL  string
	attempts int
	backoff  time.Duration
	logger   *slog.Logger
}

var _ digits.Source = (*HTTPSource)(nil)

// HTTPOption configures an HTTPSource.
type HTTPOption = options.Option[*HTTPSource]

// WithBaseURL overrides the API endpoint, e.g. for a mirror or a test server.
func WithBaseURL(base string) HTTPOption {
	return options.New(func(s *HTTPSource) error {
		if _, err := url.Parse(base); err != nil {
			return fmt.Errorf("invalid base url %q: %w", base, err)
		}
		s.baseURL = base

		return nil
	})
}

// WithHTTPClient sets the HTTP client. The default client has DefaultTimeout.
func WithHTTPClient(client *http.Client) HTTPOption {
	return options.NoError(func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	})
}

// WithRetry sets the total number of attempts per page and the base backoff.
// The wait before attempt n+1 is n*backoff.
func WithRetry(attempts int, backoff time.Duration) HTTPOption {
	return options.New(func(s *HTTPSource) error {
		if attempts < 1 {
			return fmt.Errorf("attempts must be at least 1: %d", attempts)
		}
		if backoff < 0 {
			return fmt.Errorf("backoff must not be negative: %s", backoff)
		}
		s.attempts = attempts
		s.backoff = backoff

		return nil
	})
}

// WithHTTPLogger sets the logger used for request diagnostics.
func WithHTTPLogger(logger *slog.Logger) HTTPOption {
	return options.NoError(func(s *HTTPSource) {
		if logger != nil {
			s.logger = logger
		}
	})
}

// NewHTTPSource creates a source for the pi.delivery API.
func NewHTTPSource(opts ...HTTPOption) (*HTTPSource, error) {
	s := &HTTPSource{
		client:   &http.Client{Timeout: DefaultTimeout},
		baseURL:  DefaultBaseURL,
		attempts: DefaultAttempts,
		backoff:  DefaultBackoff,
		logger:   slog.New(slog.DiscardHandler),
	}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return s, nil
}

// FetchPage fetches digits.PageSize digits starting at start, retrying
// transient failures.
func (s *HTTPSource) FetchPage(ctx context.Context, start int) (string, error) {
	for attempt := 1; ; attempt++ {
		page, err := s.fetchOnce(ctx, start)
		if err == nil {
			return page, nil
		}
		if attempt >= s.attempts || !retryable(err) || ctx.Err() != nil {
			return "", err
		}

		wait := time.Duration(attempt) * s.backoff
		s.logger.Warn("digit page request failed, retrying",
			"start", start, "attempt", attempt, "wait", wait, "error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *HTTPSource) fetchOnce(ctx context.Context, start int) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.pageURL(start), nil)
	if err != nil {
		return "", fmt.Errorf("pi api: creating request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := s.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("pi api: sending request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("pi api: reading response: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: response.StatusCode, Body: string(body)}
	}

	var wire struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return "", fmt.Errorf("pi api: decoding response: %w", err)
	}

	return wire.Content, nil
}

func (s *HTTPSource) pageURL(start int) string {
	query := url.Values{}
	query.Set("start", strconv.Itoa(start))
	query.Set("numberOfDigits", strconv.Itoa(digits.PageSize))

	return s.baseURL + "/v1/pi?" + query.Encode()
}

// retryable treats status errors by code and everything else from the
// transport as transient. Malformed bodies are not retried.
func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	return !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr)
}
