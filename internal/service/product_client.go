package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/guttosm/cartonization-service/internal/domain/model"
)

// ProductClient is a DimensionProvider backed by the product service's
// HTTP API: GET {baseURL}/products/{sku}/dimensions.
type ProductClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ DimensionProvider = (*ProductClient)(nil)

// NewProductClient creates a client with the given per-request timeout.
func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ProductClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lookup fetches the dimensions of one SKU.
func (c *ProductClient) Lookup(ctx context.Context, sku string) (model.ProductDimensions, error) {
	endpoint := fmt.Sprintf("%s/products/%s/dimensions", c.baseURL, url.PathEscape(sku))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.ProductDimensions{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.ProductDimensions{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return model.ProductDimensions{}, fmt.Errorf("%w: %s", ErrProductNotFound, sku)
	case resp.StatusCode != http.StatusOK:
		return model.ProductDimensions{}, fmt.Errorf("product service returned %d for %s", resp.StatusCode, sku)
	}

	var dims model.ProductDimensions
	if err := json.NewDecoder(resp.Body).Decode(&dims); err != nil {
		return model.ProductDimensions{}, fmt.Errorf("decode product %s: %w", sku, err)
	}
	if dims.SKU == "" {
		dims.SKU = sku
	}
	return dims, nil
}
