package owm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const londonJSON = `{
  "name": "London",
  "sys": {"country": "GB"},
  "weather": [{"main": "Clouds", "description": "broken clouds"}, {"main": "Rain", "description": "light rain"}],
  "main": {"temp": 15.3, "feels_like": 14.6, "humidity": 77, "pressure": 1012},
  "wind": {"speed": 4.1}
}`

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(ts.Close)
	return New("test-key", WithBaseURL(ts.URL), WithHTTPClient(ts.Client())), &calls
}

func TestFetchCurrentWeatherParsesResponse(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/data/2.5/weather" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "New York" || q.Get("appid") != "test-key" || q.Get("units") != "metric" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(londonJSON))
	})

	got, err := c.FetchCurrentWeather(context.Background(), "New York")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *calls != 1 {
		t.Fatalf("expected exactly one request, got %d", *calls)
	}
	if got.LocationName != "London" || got.CountryCode != "GB" {
		t.Fatalf("unexpected location %+v", got)
	}
	if got.ConditionMain != "Clouds" || got.ConditionDescription != "broken clouds" {
		t.Fatalf("expected first weather entry, got %+v", got)
	}
	if got.TemperatureC != 15.3 || got.FeelsLikeC != 14.6 {
		t.Fatalf("unexpected temperatures %+v", got)
	}
	if got.HumidityPercent != 77 || got.PressureHPa != 1012 || got.WindSpeedMs != 4.1 {
		t.Fatalf("unexpected details %+v", got)
	}
}

func TestFetchCurrentWeatherNonSuccessIsNotFound(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusInternalServerError} {
		c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		})
		_, err := c.FetchCurrentWeather(context.Background(), "Zzzqqq")
		if !errors.Is(err, ErrCityNotFound) {
			t.Fatalf("status %d: expected ErrCityNotFound, got %v", status, err)
		}
		if *calls != 1 {
			t.Fatalf("status %d: expected no retries, got %d calls", status, *calls)
		}
	}
}

func TestFetchCurrentWeatherMalformedIsNotFound(t *testing.T) {
	bodies := []string{
		`not json`,
		`{"name":"London","weather":[]}`,
		`{"weather":[{"main":"Clear","description":"clear sky"}]}`,
	}
	for _, body := range bodies {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		if _, err := c.FetchCurrentWeather(context.Background(), "London"); !errors.Is(err, ErrCityNotFound) {
			t.Fatalf("body %q: expected ErrCityNotFound, got %v", body, err)
		}
	}
}

func TestFetchCurrentWeatherTransportErrorIsNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := New("secret-key", WithBaseURL(url))
	_, err := c.FetchCurrentWeather(context.Background(), "London")
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("api key leaked into error: %v", err)
	}
}

func TestFetchCurrentWeatherCanceledContext(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(londonJSON))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.FetchCurrentWeather(ctx, "London"); !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
}

func TestDemoMode(t *testing.T) {
	c := New("")
	if !c.DemoMode() {
		t.Fatalf("expected demo mode without api key")
	}
	got, err := c.FetchCurrentWeather(context.Background(), " london ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.LocationName != "London" || got.TemperatureC != 15.3 {
		t.Fatalf("unexpected sample %+v", got)
	}
	if _, err := c.FetchCurrentWeather(context.Background(), "Zzzqqq"); !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound for unknown sample city, got %v", err)
	}
	if _, err := c.FetchCurrentWeather(context.Background(), "los vegas"); !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("demo data must not apply corrections, got %v", err)
	}
}

func TestWithBaseURLTrimsSlash(t *testing.T) {
	c := New("k", WithBaseURL("http://example.test/ "))
	if c.baseURL != "http://example.test" {
		t.Fatalf("unexpected base url %q", c.baseURL)
	}
	c = New("k", WithBaseURL(""))
	if c.baseURL != DefaultBaseURL {
		t.Fatalf("empty base url should keep default, got %q", c.baseURL)
	}
}
