package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/niksmo/good-goods/internal/adapter/httphandler"
	"github.com/niksmo/good-goods/internal/core/domain"
)

const defaultRequestTimeout = 10 * time.Second

var ErrUnavailable = errors.New("catalog is unavailable")

var _ Fetcher = (*HTTPFetcher)(nil)

// An HTTPFetcher loads pages from the catalog HTTP API.
type HTTPFetcher struct {
	baseURL string
	cl      *http.Client
}

func NewHTTPFetcher(baseURL string, cl *http.Client) HTTPFetcher {
	if cl == nil {
		cl = &http.Client{Timeout: defaultRequestTimeout}
	}
	return HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		cl:      cl,
	}
}

func (f HTTPFetcher) FetchPage(
	ctx context.Context, filter domain.FilterSpec,
) (domain.Page, error) {
	const op = "HTTPFetcher.FetchPage"

	u := f.baseURL + "/v1/items"
	if q := filter.Values(true).Encode(); q != "" {
		u += "?" + q
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Page{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := f.cl.Do(req)
	if err != nil {
		return domain.Page{}, fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	var body httphandler.ItemsResponse
	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return domain.Page{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidFilter)
	default:
		return domain.Page{}, fmt.Errorf(
			"%s: %w: status %d", op, ErrUnavailable, res.StatusCode,
		)
	}

	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return domain.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]domain.CatalogItem, len(body.Items))
	for i, v := range body.Items {
		items[i] = v.ToDomain()
	}
	return domain.Page{Items: items, HasMore: body.HasMore}, nil
}
