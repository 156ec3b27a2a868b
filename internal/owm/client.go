package owm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Priyanshut972/Weatherapp/internal/models"
	"github.com/Priyanshut972/Weatherapp/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseURL = "https://api.openweathermap.org"

// ErrCityNotFound is returned for every failed lookup, whatever the cause.
var ErrCityNotFound = errors.New("city not found")

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type httpStatusError struct {
	status int
	body   string
}

func (e httpStatusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("API returned status %d", e.status)
	}
	return fmt.Sprintf("API returned status %d: %s", e.status, e.body)
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			c.baseURL = u
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New returns a client for the current-weather endpoint. With an empty
// apiKey the client serves built-in sample data instead of calling out.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DemoMode reports whether the client answers from sample data.
func (c *Client) DemoMode() bool { return c.apiKey == "" }

// FetchCurrentWeather issues one request for cityName. Any failure is
// reported as ErrCityNotFound with the cause wrapped alongside it.
func (c *Client) FetchCurrentWeather(ctx context.Context, cityName string) (models.WeatherResult, error) {
	ctx, span := otel.Tracer(observability.ServiceName).Start(ctx, "owm.FetchCurrentWeather")
	span.SetAttributes(attribute.String("weather.city", cityName), attribute.Bool("weather.demo", c.DemoMode()))
	defer span.End()

	var (
		result models.WeatherResult
		err    error
	)
	if c.DemoMode() {
		result, err = c.mockCurrentWeather(cityName)
	} else {
		result, err = c.fetchCurrent(ctx, cityName)
	}
	if err != nil {
		observability.FetchCounter.WithLabelValues("not_found").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "city not found")
		slog.Debug("current weather lookup failed", "city", cityName, "error", err)
		if errors.Is(err, ErrCityNotFound) {
			return models.WeatherResult{}, err
		}
		return models.WeatherResult{}, fmt.Errorf("%w: %w", ErrCityNotFound, err)
	}
	observability.FetchCounter.WithLabelValues("ok").Inc()
	return result, nil
}

func (c *Client) fetchCurrent(ctx context.Context, cityName string) (models.WeatherResult, error) {
	q := url.Values{}
	q.Set("q", cityName)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	currentResp, err := c.fetchJSON(ctx, c.baseURL+"/data/2.5/weather?"+q.Encode())
	if err != nil {
		return models.WeatherResult{}, fmt.Errorf("fetching current weather: %w", err)
	}

	weather := getFirstInArray(currentResp, "weather")
	name := getString(currentResp, "name")
	if weather == nil || name == "" {
		return models.WeatherResult{}, errors.New("response is missing name or weather conditions")
	}
	main := getMap(currentResp, "main")

	return models.WeatherResult{
		LocationName:         name,
		CountryCode:          getString(getMap(currentResp, "sys"), "country"),
		ConditionMain:        getString(weather, "main"),
		ConditionDescription: getString(weather, "description"),
		TemperatureC:         getFloat(main, "temp"),
		FeelsLikeC:           getFloat(main, "feels_like"),
		HumidityPercent:      int(getFloat(main, "humidity")),
		PressureHPa:          int(getFloat(main, "pressure")),
		WindSpeedMs:          getFloat(getMap(currentResp, "wind"), "speed"),
	}, nil
}

func (c *Client) fetchJSON(ctx context.Context, u string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, redactKey(err, c.apiKey)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, httpStatusError{status: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return result, nil
}

// url.Error carries the full request URL, appid included.
func redactKey(err error, key string) error {
	var ue *url.Error
	if key == "" || !errors.As(err, &ue) {
		return err
	}
	return fmt.Errorf("%s %s: %w", ue.Op, strings.ReplaceAll(ue.URL, key, "REDACTED"), ue.Err)
}

func getMap(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

func getArray(m map[string]any, key string) []any {
	if v, ok := m[key].([]any); ok {
		return v
	}
	return nil
}

func getFirstInArray(m map[string]any, key string) map[string]any {
	arr := getArray(m, key)
	if len(arr) > 0 {
		if v, ok := arr[0].(map[string]any); ok {
			return v
		}
	}
	return nil
}

func getFloat(m map[string]any, key string) float64 {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
