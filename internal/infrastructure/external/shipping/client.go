// Package shipping provides a client for the GHN-style shipping provider API.
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	infraconfig "github.com/agrimarket/backend/internal/infrastructure/config"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// maxResponseSize caps provider responses at 10MB
const maxResponseSize = 10 * 1024 * 1024

// Typed failures so callers can distinguish retryable transport problems
// from provider-side rejections.
var (
	ErrTimeout         = errors.New("shipping: request timed out")
	ErrUnavailable     = errors.New("shipping: provider unreachable")
	ErrInvalidResponse = errors.New("shipping: malformed provider response")
	ErrRequestFailed   = errors.New("shipping: provider rejected request")
	ErrInvalidRequest  = errors.New("shipping: invalid fee request")
)

// Province is an administrative level-1 division in the provider's registry
type Province struct {
	ProvinceID int    `json:"ProvinceID"`
	Name       string `json:"ProvinceName"`
}

// District is an administrative level-2 division
type District struct {
	DistrictID int    `json:"DistrictID"`
	ProvinceID int    `json:"ProvinceID"`
	Name       string `json:"DistrictName"`
}

// Ward is an administrative level-3 division
type Ward struct {
	WardCode   string `json:"WardCode"`
	DistrictID int    `json:"DistrictID"`
	Name       string `json:"WardName"`
}

// FeeRequest describes a shipment for fee calculation
type FeeRequest struct {
	FromDistrictID int    `json:"from_district_id" validate:"required,gt=0"`
	ToDistrictID   int    `json:"to_district_id" validate:"required,gt=0"`
	ToWardCode     string `json:"to_ward_code" validate:"required"`
	WeightGrams    int    `json:"weight" validate:"required,gt=0"`
	LengthCm       int    `json:"length" validate:"gte=0"`
	WidthCm        int    `json:"width" validate:"gte=0"`
	HeightCm       int    `json:"height" validate:"gte=0"`
	ServiceTypeID  int    `json:"service_type_id" validate:"gte=0"`
}

// FeeQuote is the provider's fee calculation result
type FeeQuote struct {
	Total        decimal.Decimal
	ServiceFee   decimal.Decimal
	InsuranceFee decimal.Decimal
}

// Client calls the shipping provider's REST API
type Client struct {
	baseURL    string
	token      string
	shopID     string
	httpClient *http.Client
	validate   *validator.Validate
}

// NewClient creates a shipping client from configuration
func NewClient(cfg *infraconfig.ShippingConfig) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("shipping configuration is required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("shipping base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		shopID:  cfg.ShopID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		validate: validator.New(),
	}, nil
}

// envelope is the provider's common response wrapper
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Provinces fetches the province registry
func (c *Client) Provinces(ctx context.Context) ([]Province, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/master-data/province", nil, nil)
	if err != nil {
		return nil, err
	}

	var provinces []Province
	if err := json.Unmarshal(body, &provinces); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return provinces, nil
}

// Districts fetches the districts of one province
func (c *Client) Districts(ctx context.Context, provinceID int) ([]District, error) {
	query := url.Values{}
	query.Set("province_id", strconv.Itoa(provinceID))

	body, err := c.doRequest(ctx, http.MethodGet, "/master-data/district", query, nil)
	if err != nil {
		return nil, err
	}

	var districts []District
	if err := json.Unmarshal(body, &districts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return districts, nil
}

// Wards fetches the wards of one district
func (c *Client) Wards(ctx context.Context, districtID int) ([]Ward, error) {
	query := url.Values{}
	query.Set("district_id", strconv.Itoa(districtID))

	body, err := c.doRequest(ctx, http.MethodGet, "/master-data/ward", query, nil)
	if err != nil {
		return nil, err
	}

	var wards []Ward
	if err := json.Unmarshal(body, &wards); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return wards, nil
}

// CalculateFee requests a shipping fee quote for one shipment
func (c *Client) CalculateFee(ctx context.Context, req FeeRequest) (*FeeQuote, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("shipping: failed to encode fee request: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/v2/shipping-order/fee", nil, payload)
	if err != nil {
		return nil, err
	}

	var fee struct {
		Total        int64 `json:"total"`
		ServiceFee   int64 `json:"service_fee"`
		InsuranceFee int64 `json:"insurance_fee"`
	}
	if err := json.Unmarshal(body, &fee); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &FeeQuote{
		Total:        decimal.NewFromInt(fee.Total),
		ServiceFee:   decimal.NewFromInt(fee.ServiceFee),
		InsuranceFee: decimal.NewFromInt(fee.InsuranceFee),
	}, nil
}

// doRequest performs one HTTP call and unwraps the provider envelope
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload []byte) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("shipping: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Token", c.token)
	}
	if c.shopID != "" {
		req.Header.Set("ShopId", c.shopID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shipping: failed to read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	// the provider signals business failures in the envelope code
	if resp.StatusCode >= 400 || env.Code != 200 {
		return nil, fmt.Errorf("%w: %d - %s", ErrRequestFailed, env.Code, env.Message)
	}

	return env.Data, nil
}
