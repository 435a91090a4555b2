package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"time"
)

// RetryBaseDelay is the first backoff delay after an HTTP 429. It doubles on
// every further attempt. Tests shrink it.
var RetryBaseDelay = 2 * time.Second

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
)

// Source locates the tabular catalog resource: a file path or an http(s) URL.
type Source struct {
	Location   string
	Timeout    time.Duration // HTTP only; zero means 10s
	MaxRetries int           // retries on HTTP 429; zero means 3
	Client     *http.Client  // optional, http.DefaultClient otherwise
}

// IsRemote reports whether the source is fetched over HTTP.
func (s Source) IsRemote() bool {
	return strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://")
}

// LoadSource reads, parses and loads the catalog in one step.
// Any failure yields an empty catalog and a *LoadError naming the source.
func LoadSource(ctx context.Context, src Source) (*Catalog, error) {
	rc, err := src.open(ctx)
	if err != nil {
		return Empty(), &LoadError{Source: src.Location, Err: fmt.Errorf("%w: %v", ErrUnreachable, err)}
	}
	defer func() { _ = rc.Close() }()

	header, rows, err := ReadCSV(rc)
	if err != nil {
		return Empty(), &LoadError{Source: src.Location, Err: err}
	}
	if missing := missingHeader(header); len(missing) > 0 {
		return Empty(), &LoadError{
			Source: src.Location,
			Err:    fmt.Errorf("%w: missing columns %s", ErrMalformed, strings.Join(missing, ", ")),
		}
	}

	cat, err := Load(rows)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Source = src.Location
		}
		return cat, err
	}
	return cat, nil
}

// ReadCSV turns CSV text into header-keyed rows. Short rows get empty values
// for their missing cells; blank lines are skipped. Cells are kept verbatim.
func ReadCSV(r io.Reader) ([]string, []Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: no header row", ErrMalformed)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

func missingHeader(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, col := range RequiredColumns() {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

func (s Source) open(ctx context.Context) (io.ReadCloser, error) {
	if s.Location == "" {
		return nil, errors.New("no location configured")
	}
	if !s.IsRemote() {
		return os.Open(s.Location)
	}
	return s.fetch(ctx)
}

// fetch downloads a remote source. A non-2xx status is an error.
func (s Source) fetch(ctx context.Context) (io.ReadCloser, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Location, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", "text/csv, text/plain")

	resp, err := doWithRetry(ctx, client, req, s.MaxRetries)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

// doWithRetry retries on HTTP 429 with exponential backoff starting at
// RetryBaseDelay. After the last retry the 429 response is returned as is.
func doWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// cancelOnClose keeps the request context alive until the body is consumed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
