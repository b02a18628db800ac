// Package weather provides a client for the Open-Meteo-style forecast API.
package weather

import (
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
)

const maxResponseSize = 5 * 1024 * 1024

var (
	ErrTimeout         = errors.New("weather: request timed out")
	ErrUnavailable     = errors.New("weather: service unreachable")
	ErrInvalidResponse = errors.New("weather: malformed response")
)

// CurrentConditions holds the latest observed conditions at a location
type CurrentConditions struct {
	Time         string  `json:"time"`
	TemperatureC float64 `json:"temperature_2m"`
	HumidityPct  float64 `json:"relative_humidity_2m"`
	RainfallMm   float64 `json:"rain"`
	WindSpeedKmh float64 `json:"wind_speed_10m"`
	WeatherCode  int     `json:"weather_code"`
}

// HourlyForecast holds parallel hourly series, Open-Meteo style
type HourlyForecast struct {
	Time         []string  `json:"time"`
	TemperatureC []float64 `json:"temperature_2m"`
	HumidityPct  []float64 `json:"relative_humidity_2m"`
	RainfallMm   []float64 `json:"rain"`
}

// DailyForecast holds parallel daily series
type DailyForecast struct {
	Time            []string  `json:"time"`
	TemperatureMaxC []float64 `json:"temperature_2m_max"`
	TemperatureMinC []float64 `json:"temperature_2m_min"`
	RainfallSumMm   []float64 `json:"rain_sum"`
}

// Forecast is the combined forecast response for one location
type Forecast struct {
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
	Current   *CurrentConditions `json:"current"`
	Hourly    *HourlyForecast    `json:"hourly"`
	Daily     *DailyForecast     `json:"daily"`
}

// Client calls the forecast API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a weather client from configuration
func NewClient(cfg *infraconfig.WeatherConfig) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("weather configuration is required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("weather base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Current fetches the latest conditions at a farm's coordinates
func (c *Client) Current(ctx context.Context, latitude, longitude float64) (*CurrentConditions, error) {
	query := c.locationQuery(latitude, longitude)
	query.Set("current", "temperature_2m,relative_humidity_2m,rain,wind_speed_10m,weather_code")

	forecast, err := c.fetchForecast(ctx, "/forecast", query)
	if err != nil {
		return nil, err
	}
	if forecast.Current == nil {
		return nil, fmt.Errorf("%w: missing current block", ErrInvalidResponse)
	}
	return forecast.Current, nil
}

// Hourly fetches an hourly forecast for the given number of days ahead
func (c *Client) Hourly(ctx context.Context, latitude, longitude float64, days int) (*HourlyForecast, error) {
	if days <= 0 {
		days = 1
	}

	query := c.locationQuery(latitude, longitude)
	query.Set("hourly", "temperature_2m,relative_humidity_2m,rain")
	query.Set("forecast_days", strconv.Itoa(days))

	forecast, err := c.fetchForecast(ctx, "/forecast", query)
	if err != nil {
		return nil, err
	}
	if forecast.Hourly == nil {
		return nil, fmt.Errorf("%w: missing hourly block", ErrInvalidResponse)
	}
	return forecast.Hourly, nil
}

// Daily fetches a daily forecast for the given number of days ahead
func (c *Client) Daily(ctx context.Context, latitude, longitude float64, days int) (*DailyForecast, error) {
	if days <= 0 {
		days = 7
	}

	query := c.locationQuery(latitude, longitude)
	query.Set("daily", "temperature_2m_max,temperature_2m_min,rain_sum")
	query.Set("forecast_days", strconv.Itoa(days))

	forecast, err := c.fetchForecast(ctx, "/forecast", query)
	if err != nil {
		return nil, err
	}
	if forecast.Daily == nil {
		return nil, fmt.Errorf("%w: missing daily block", ErrInvalidResponse)
	}
	return forecast.Daily, nil
}

// Historical fetches archived daily data for a past date range
func (c *Client) Historical(ctx context.Context, latitude, longitude float64, from, to time.Time) (*DailyForecast, error) {
	query := c.locationQuery(latitude, longitude)
	query.Set("daily", "temperature_2m_max,temperature_2m_min,rain_sum")
	query.Set("start_date", from.Format("2006-01-02"))
	query.Set("end_date", to.Format("2006-01-02"))

	forecast, err := c.fetchForecast(ctx, "/archive", query)
	if err != nil {
		return nil, err
	}
	if forecast.Daily == nil {
		return nil, fmt.Errorf("%w: missing daily block", ErrInvalidResponse)
	}
	return forecast.Daily, nil
}

func (c *Client) locationQuery(latitude, longitude float64) url.Values {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', 4, 64))
	query.Set("timezone", "auto")
	return query
}

func (c *Client) fetchForecast(ctx context.Context, path string, query url.Values) (*Forecast, error) {
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("weather: failed to create request: %w", err)
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
		return nil, fmt.Errorf("weather: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var forecast Forecast
	if err := json.Unmarshal(body, &forecast); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &forecast, nil
}
