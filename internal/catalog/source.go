package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/dukerupert/vitrine/internal/telemetry"
	"github.com/rs/zerolog"
)

// maxDocumentBytes bounds a product document read from any source.
const maxDocumentBytes = 32 << 20

// ObjectOpener reads whole objects from a bucket. storage.ObjectReader
// satisfies it.
type ObjectOpener interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// document is the wire shape of the product data source.
type document struct {
	Data *[]domain.Product `json:"data"`
}

// Decode reads a { "data": [...] } document. A missing data member is an
// error; an empty array is a valid empty catalog.
func Decode(r io.Reader) ([]domain.Product, error) {
	var doc document
	if err := json.NewDecoder(io.LimitReader(r, maxDocumentBytes)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode product document: %w", err)
	}
	if doc.Data == nil {
		return nil, fmt.Errorf("decode product document: missing \"data\" array")
	}
	return *doc.Data, nil
}

// Source loads the catalog once from a path, an http(s) URL or an
// s3://bucket/key location.
type Source struct {
	location string
	client   *http.Client
	objects  ObjectOpener
	metrics  *telemetry.BusinessMetrics
	logger   zerolog.Logger
}

type SourceOption func(*Source)

func WithHTTPClient(c *http.Client) SourceOption {
	return func(s *Source) { s.client = c }
}

func WithObjectOpener(o ObjectOpener) SourceOption {
	return func(s *Source) { s.objects = o }
}

func WithMetrics(m *telemetry.BusinessMetrics) SourceOption {
	return func(s *Source) { s.metrics = m }
}

func NewSource(location string, logger zerolog.Logger, opts ...SourceOption) *Source {
	s := &Source{
		location: location,
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: &telemetry.HTTPTransport{Transport: http.DefaultTransport},
		},
		logger: logger.With().Str("catalog_source", location).Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsObjectLocation reports whether location names an s3:// object.
func IsObjectLocation(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

// Load fetches and decodes the document.
func (s *Source) Load(ctx context.Context) (*Catalog, error) {
	rc, err := s.open(ctx)
	if err != nil {
		return nil, domain.WrapError(err, domain.EUNAVAILABLE, "catalog.load", "Product data unavailable")
	}
	defer rc.Close()

	products, err := Decode(rc)
	if err != nil {
		return nil, domain.WrapError(err, domain.EUNAVAILABLE, "catalog.load", "Product data unavailable")
	}
	return New(products), nil
}

// LoadOrEmpty never fails: a source error is logged, reported and replaced
// by an empty catalog.
func (s *Source) LoadOrEmpty(ctx context.Context) *Catalog {
	c, err := s.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("catalog load failed, serving empty catalog")
		telemetry.CaptureError(err, map[string]any{"catalog_source": s.location})
		s.metrics.RecordCatalogLoaded(0, true)
		return Empty()
	}
	s.logger.Info().Int("products", c.Len()).Msg("catalog loaded")
	s.metrics.RecordCatalogLoaded(c.Len(), false)
	return c
}

func (s *Source) open(ctx context.Context) (io.ReadCloser, error) {
	switch {
	case s.location == "":
		return nil, fmt.Errorf("no catalog source configured")
	case strings.HasPrefix(s.location, "http://"), strings.HasPrefix(s.location, "https://"):
		return s.openHTTP(ctx)
	case IsObjectLocation(s.location):
		return s.openObject(ctx)
	default:
		return os.Open(s.location)
	}
}

func (s *Source) openHTTP(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, s.location)
	}
	return resp.Body, nil
}

func (s *Source) openObject(ctx context.Context) (io.ReadCloser, error) {
	if s.objects == nil {
		return nil, fmt.Errorf("no object store configured for %s", s.location)
	}
	bucket, key, err := ParseObjectLocation(s.location)
	if err != nil {
		return nil, err
	}
	return s.objects.Open(ctx, bucket, key)
}

// ParseObjectLocation splits s3://bucket/key.
func ParseObjectLocation(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid object location %q: %w", location, err)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid object location %q: want s3://bucket/key", location)
	}
	return u.Host, key, nil
}
