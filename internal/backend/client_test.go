package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/niche-analyzer/internal/models"
	"github.com/BerylCAtieno/niche-analyzer/internal/testkit"
)

func TestAnalyzeDecodesReport(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testkit.SampleJSON))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, zap.NewNop())
	analysis, err := c.Analyze(context.Background(), models.AnalysisRequest{Nicho: "nutrição", Preco: "497"})
	require.NoError(t, err)

	assert.Equal(t, "nutrição", got["nicho"])
	assert.Equal(t, "497", got["preco"])
	assert.Equal(t, "Maria", analysis.Avatar.Name)
	assert.Equal(t, "50000", analysis.Metrics.Revenue.String())
}

func TestAnalyzeAcceptsTextMetrics(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(testkit.SampleJSON), &doc))
	metrics := doc["metrics"].(map[string]any)
	metrics["roi"] = "300%"
	metrics["leads_projetados"] = "5.000"
	body, err := json.Marshal(doc)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	analysis, err := NewClient(srv.URL, time.Second, nil).Analyze(context.Background(), models.AnalysisRequest{Nicho: "nutrição"})
	require.NoError(t, err)
	assert.Equal(t, "300%", analysis.Metrics.ROI.String())
	assert.Equal(t, "5.000", analysis.Metrics.Leads.String())
	assert.Equal(t, "50000", analysis.Metrics.Revenue.String())
}

func TestAnalyzeNon2xxIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"nicho": ["invalid"]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.Analyze(context.Background(), models.AnalysisRequest{Nicho: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.NotContains(t, err.Error(), "invalid")
}

func TestAnalyzeMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"metrics": {"faturamento": "muito"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.Analyze(context.Background(), models.AnalysisRequest{Nicho: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStatus)
}

func TestAnalyzeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, nil)
	_, err := c.Analyze(context.Background(), models.AnalysisRequest{Nicho: "x"})
	require.Error(t, err)
}

func TestSearchNiches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/nichos", r.URL.Path)
		assert.Equal(t, "fit ness", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`{"nichos": ["fitness feminino", "fitness kids"], "count": 2}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	nichos, err := c.SearchNiches(context.Background(), "fit ness")
	require.NoError(t, err)
	assert.Equal(t, []string{"fitness feminino", "fitness kids"}, nichos)
}

func TestSearchNichesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.SearchNiches(context.Background(), "yoga")
	assert.ErrorIs(t, err, ErrStatus)
}
