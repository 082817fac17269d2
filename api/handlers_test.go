package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptengelmann/ProfilanIQ/adapters/csvparse"
	"github.com/ptengelmann/ProfilanIQ/app"
	"github.com/ptengelmann/ProfilanIQ/internal/cache"
	"github.com/ptengelmann/ProfilanIQ/internal/config"
	"github.com/ptengelmann/ProfilanIQ/internal/profiling"
	"github.com/ptengelmann/ProfilanIQ/internal/sampling"
)

func testConfig(rateLimit int) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Environment: "development"},
		Cache:  config.CacheConfig{TTL: time.Hour, Enabled: true},
		Limits: config.LimitConfig{
			MaxBodyBytes:    50 * 1024 * 1024,
			RateLimitMax:    rateLimit,
			RateLimitWindow: 15 * time.Minute,
			RequestTimeout:  time.Minute,
		},
	}
}

func newTestServer(t *testing.T, rateLimit int) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := cache.New(t.TempDir(), time.Hour, nil)
	require.NoError(t, err)

	engine := profiling.New(nil, nil, profiling.Options{})
	sampler := sampling.New()
	profiles := app.NewProfileService(csvparse.New(nil), store, sampler, engine, nil, time.Minute)
	compares := app.NewCompareService(sampler, engine, nil, time.Minute)

	return NewServer(testConfig(rateLimit), profiles, compares, nil)
}

func doJSON(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t, 0)

	rec := doJSON(t, server, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, Version, body["version"])
	assert.NotEmpty(t, body["requestId"])
	assert.Contains(t, body, "memory")
}

func TestProfileEndpoint(t *testing.T) {
	server := newTestServer(t, 0)

	rec := doJSON(t, server, http.MethodPost, "/api/profile", map[string]interface{}{
		"csv": "a,b\n1,2\n2,4\n3,6\n4,8\n5,10\n",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Success   bool   `json:"success"`
		FromCache bool   `json:"fromCache"`
		RequestID string `json:"requestId"`
		Data      struct {
			Summary struct {
				TotalRows      int `json:"totalRows"`
				NumericColumns int `json:"numericColumns"`
			} `json:"summary"`
			Correlations struct {
				All []struct {
					Correlation float64 `json:"correlation"`
				} `json:"all"`
			} `json:"correlations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.False(t, body.FromCache)
	assert.Equal(t, 5, body.Data.Summary.TotalRows)
	assert.Equal(t, 2, body.Data.Summary.NumericColumns)
	require.Len(t, body.Data.Correlations.All, 1)
	assert.InDelta(t, 1.0, body.Data.Correlations.All[0].Correlation, 1e-9)
}

func TestProfileCacheHit(t *testing.T) {
	server := newTestServer(t, 0)
	payload := map[string]interface{}{"csv": "a,b\n1,2\n2,4\n3,6\n"}

	first := doJSON(t, server, http.MethodPost, "/api/profile", payload)
	require.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, server, http.MethodPost, "/api/profile", payload)
	require.Equal(t, http.StatusOK, second.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, true, body["fromCache"])
}

func TestProfileValidation(t *testing.T) {
	server := newTestServer(t, 0)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing csv", map[string]interface{}{}},
		{"csv not a string", map[string]interface{}{"csv": 12345}},
		{"csv too short", map[string]interface{}{"csv": "a,b\n1"}},
		{"no data rows", map[string]interface{}{"csv": "alpha,beta,gamma\n"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, server, http.MethodPost, "/api/profile", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.NotEmpty(t, body["requestId"])
		})
	}
}

func TestCompareEndpoint(t *testing.T) {
	server := newTestServer(t, 0)

	records := func(slope float64) []map[string]interface{} {
		out := make([]map[string]interface{}, 0, 10)
		for i := 0; i < 10; i++ {
			out = append(out, map[string]interface{}{"u": float64(i), "v": slope * float64(i)})
		}
		return out
	}

	rec := doJSON(t, server, http.MethodPost, "/api/compare", map[string]interface{}{
		"dataset1": records(1),
		"dataset2": records(-1),
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Data struct {
			Comparison struct {
				Correlations struct {
					Changed []struct {
						SignChange bool `json:"signChange"`
					} `json:"changed"`
				} `json:"correlations"`
			} `json:"comparison"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Comparison.Correlations.Changed, 1)
	assert.True(t, body.Data.Comparison.Correlations.Changed[0].SignChange)
}

func TestCompareRejectsMissingDataset(t *testing.T) {
	server := newTestServer(t, 0)

	rec := doJSON(t, server, http.MethodPost, "/api/compare", map[string]interface{}{
		"dataset1": []map[string]interface{}{{"a": 1.0}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileUsageDocument(t *testing.T) {
	server := newTestServer(t, 0)

	rec := doJSON(t, server, http.MethodGet, "/api/profile", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/api/profile", body["endpoint"])
	assert.Contains(t, body, "defaults")
}

func TestDocsRendered(t *testing.T) {
	server := newTestServer(t, 0)

	rec := doJSON(t, server, http.MethodGet, "/api/docs", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "ProfilanIQ API")
}

func TestRateLimit(t *testing.T) {
	server := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, server, http.MethodGet, "/api/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := doJSON(t, server, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
