package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"
)

// ErrNotFound is returned when a model artifact does not exist at the
// source.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// DefaultBaseURL hosts the gensim-data release artifacts.
const DefaultBaseURL = "https://github.com/RaRe-Technologies/gensim-data/releases/download"

// Source fetches model artifacts by key.
type Source interface {
	// Fetch streams the artifact at key into dst.
	Fetch(ctx context.Context, key string, dst io.Writer) error
}

// LocalSource serves artifacts from a local directory tree.
type LocalSource struct {
	root string
}

// NewLocalSource creates a LocalSource rooted at the given directory.
func NewLocalSource(root string) *LocalSource {
	return &LocalSource{root: root}
}

// Fetch copies the artifact file into dst.
func (s *LocalSource) Fetch(ctx context.Context, key string, dst io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(dst, f)
	return err
}

// HTTPSource fetches artifacts over HTTP(S), optionally throttled to a
// byte rate.
type HTTPSource struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient overrides the HTTP client (default http.DefaultClient).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.client = c
	}
}

// WithByteRate throttles downloads to bytesPerSec.
func WithByteRate(bytesPerSec int) HTTPOption {
	return func(s *HTTPSource) {
		if bytesPerSec > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec)
		}
	}
}

// NewHTTPSource creates an HTTPSource. baseURL defaults to the
// gensim-data releases when empty.
func NewHTTPSource(baseURL string, opts ...HTTPOption) *HTTPSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	s := &HTTPSource{
		client:  http.DefaultClient,
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads baseURL/key into dst.
func (s *HTTPSource) Fetch(ctx context.Context, key string, dst io.Writer) error {
	url := s.baseURL + "/" + key
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	body := io.Reader(resp.Body)
	if s.limiter != nil {
		body = &throttledReader{ctx: ctx, r: body, limiter: s.limiter}
	}
	_, err = io.Copy(dst, body)
	return err
}

// throttledReader paces reads through a rate limiter.
type throttledReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func (t *throttledReader) Read(p []byte) (int, error) {
	// Cap the chunk at the limiter burst so WaitN can always succeed.
	if burst := t.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}
	n, err := t.r.Read(p)
	if n > 0 {
		if werr := t.limiter.WaitN(t.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
