package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"cropgenius-api/internal/config"
	"cropgenius-api/internal/oracle"
)

const openWeatherOneCallURL = "https://api.openweathermap.org/data/3.0/onecall"

// WeatherInsight is the forecast slice the dashboard shows, plus simple
// agronomic flags derived from it.
type WeatherInsight struct {
	Lat           float64        `json:"lat"`
	Lon           float64        `json:"lon"`
	Timezone      string         `json:"timezone"`
	Current       CurrentWeather `json:"current"`
	Daily         []DailyWeather `json:"daily"`
	RainExpected  bool           `json:"rain_expected"`
	HeatStress    bool           `json:"heat_stress"`
	FarmingAdvice []string       `json:"farming_advice"`
	FetchedAt     time.Time      `json:"fetched_at"`
}

type CurrentWeather struct {
	Temp      float64 `json:"temp"`
	Humidity  float64 `json:"humidity"`
	WindSpeed float64 `json:"wind_speed"`
	Condition string  `json:"condition"`
}

type DailyWeather struct {
	Date       string  `json:"date"`
	TempMin    float64 `json:"temp_min"`
	TempMax    float64 `json:"temp_max"`
	RainChance float64 `json:"rain_chance"`
	RainMm     float64 `json:"rain_mm"`
	Condition  string  `json:"condition"`
}

// oneCallResponse mirrors the subset of the One Call 3.0 payload we read.
type oneCallResponse struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Timezone string  `json:"timezone"`
	Current  struct {
		Temp      float64 `json:"temp"`
		Humidity  float64 `json:"humidity"`
		WindSpeed float64 `json:"wind_speed"`
		Weather   []struct {
			Main string `json:"main"`
		} `json:"weather"`
	} `json:"current"`
	Daily []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
		Pop     float64 `json:"pop"`
		Rain    float64 `json:"rain"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	} `json:"daily"`
}

// WeatherService proxies OpenWeatherMap with a short-TTL cache keyed by
// coarse coordinates, so a dashboard poll does not burn the rate limit.
type WeatherService struct {
	cfg     config.WeatherAPIConfig
	cache   oracle.Cache
	httpc   *http.Client
	baseURL string
}

func NewWeatherService(cfg config.WeatherAPIConfig, cache oracle.Cache) *WeatherService {
	return &WeatherService{
		cfg:     cfg,
		cache:   cache,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		baseURL: openWeatherOneCallURL,
	}
}

func (s *WeatherService) GetInsight(ctx context.Context, lat, lon float64) (*WeatherInsight, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("weather API key not configured")
	}

	cacheKey := fmt.Sprintf("weather:%s:%s", oracle.CoarseCoord(lat), oracle.CoarseCoord(lon))
	if s.cache != nil {
		var cached WeatherInsight
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			slog.Warn("weather cache read failed", "error", err)
		} else if found {
			return &cached, nil
		}
	}

	url := fmt.Sprintf("%s?lat=%f&lon=%f&appid=%s&units=metric&exclude=minutely,hourly,alerts",
		s.baseURL, lat, lon, s.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch weather data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("weather API returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload oneCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	insight := buildInsight(&payload)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, insight, s.cfg.CacheTTL); err != nil {
			slog.Warn("weather cache write failed", "error", err)
		}
	}

	return insight, nil
}

func buildInsight(payload *oneCallResponse) *WeatherInsight {
	insight := &WeatherInsight{
		Lat:      payload.Lat,
		Lon:      payload.Lon,
		Timezone: payload.Timezone,
		Current: CurrentWeather{
			Temp:      payload.Current.Temp,
			Humidity:  payload.Current.Humidity,
			WindSpeed: payload.Current.WindSpeed,
		},
		FetchedAt: time.Now(),
	}
	if len(payload.Current.Weather) > 0 {
		insight.Current.Condition = payload.Current.Weather[0].Main
	}

	for _, day := range payload.Daily {
		daily := DailyWeather{
			Date:       time.Unix(day.Dt, 0).Format("2006-01-02"),
			TempMin:    day.Temp.Min,
			TempMax:    day.Temp.Max,
			RainChance: day.Pop * 100,
			RainMm:     day.Rain,
		}
		if len(day.Weather) > 0 {
			daily.Condition = day.Weather[0].Main
		}
		insight.Daily = append(insight.Daily, daily)

		if day.Pop >= 0.5 {
			insight.RainExpected = true
		}
		if day.Temp.Max >= 35 {
			insight.HeatStress = true
		}
	}

	insight.FarmingAdvice = deriveAdvice(insight)
	return insight
}

func deriveAdvice(insight *WeatherInsight) []string {
	advice := []string{}
	if insight.RainExpected {
		advice = append(advice, "Rain expected within the week: delay irrigation and hold off on spraying")
	} else {
		advice = append(advice, "No significant rain forecast: plan irrigation for early morning")
	}
	if insight.HeatStress {
		advice = append(advice, "Heat stress likely: mulch around plants and water more frequently")
	}
	if insight.Current.Humidity >= 85 {
		advice = append(advice, "High humidity favors fungal disease: scout fields and improve airflow")
	}
	return advice
}
