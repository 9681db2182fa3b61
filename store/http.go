package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/domain"
)

// DefaultHTTPTimeout bounds each call to the REST backend.
const DefaultHTTPTimeout = 10 * time.Second

// HTTPStore reads the catalog from the storefront REST backend.
// Only reviews can be written; product creation is an admin operation the
// backend does not expose to the storefront.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

var _ domain.CatalogStore = (*HTTPStore)(nil)

// NewHTTPStore constructs an HTTPStore for the backend at baseURL.
// A nil client gets one with DefaultHTTPTimeout.
func NewHTTPStore(baseURL string, client *http.Client) (*HTTPStore, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base URL required for http store")
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &HTTPStore{baseURL: baseURL, client: client}, nil
}

// reviewRequest is the body accepted by POST /products/{id}/review
type reviewRequest struct {
	Username string `json:"username"`
	Comment  string `json:"comment"`
	Rating   int    `json:"rating"`
}

func (s *HTTPStore) Catalog(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	start := time.Now()
	if err := s.call(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	slog.Debug("catalog fetched", "source", s.baseURL, "products", len(out), "duration_ms", time.Since(start).Milliseconds())
	if out == nil {
		out = []domain.Product{}
	}
	return out, nil
}

func (s *HTTPStore) Get(ctx context.Context, id int) (domain.Product, error) {
	var p domain.Product
	err := s.call(ctx, http.MethodGet, "/products/"+strconv.Itoa(id), nil, &p)
	if err != nil {
		return domain.Product{}, notFoundOr(err, id)
	}
	return p, nil
}

func (s *HTTPStore) Create(ctx context.Context, product domain.Product) error {
	return domain.ErrReadOnly
}

func (s *HTTPStore) BulkImport(ctx context.Context, products []domain.Product) error {
	return domain.ErrReadOnly
}

func (s *HTTPStore) AddReview(ctx context.Context, id int, review domain.Review) (domain.Product, error) {
	review, err := domain.NormalizeReview(review)
	if err != nil {
		return domain.Product{}, err
	}
	body := reviewRequest{Username: review.ReviewerName, Comment: review.Comment, Rating: review.Rating}
	if err := s.call(ctx, http.MethodPost, "/products/"+strconv.Itoa(id)+"/review", body, nil); err != nil {
		return domain.Product{}, notFoundOr(err, id)
	}
	return s.Get(ctx, id)
}

// call performs one request and decodes a JSON response into out when out
// is non-nil. Non-2xx answers become a CatalogFetchError carrying the
// backend's {"error": "..."} message when present.
func (s *HTTPStore) call(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return domain.NewCatalogFetchError(path, 0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr)
		return domain.NewCatalogFetchError(path, resp.StatusCode, apiErr.Error, nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewCatalogFetchError(path, resp.StatusCode, "invalid response body", err)
	}
	return nil
}

// notFoundOr maps a 404 from the backend to ProductNotFoundError.
func notFoundOr(err error, id int) error {
	var cfe *domain.CatalogFetchError
	if errors.As(err, &cfe) && cfe.Status == http.StatusNotFound {
		return domain.NewProductNotFoundError(id)
	}
	return err
}
