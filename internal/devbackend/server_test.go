package devbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/niche-analyzer/internal/backend"
	"github.com/BerylCAtieno/niche-analyzer/internal/models"
)

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, models.AnalysisRequest) (*models.Analysis, error) {
	return nil, errors.New("quota exceeded")
}

func newBackend(t *testing.T, gen Generator) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewServer(gen, nil).Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url+"/api/analyze", "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAnalyzeThroughClient(t *testing.T) {
	srv := newBackend(t, FallbackGenerator{})
	client := backend.NewClient(srv.URL, 5*time.Second, nil)

	a, err := client.Analyze(context.Background(), models.AnalysisRequest{Nicho: "fitness", Produto: "Treino 360", Preco: "500"})
	require.NoError(t, err)
	assert.Empty(t, a.MissingSections())
	assert.Contains(t, a.Avatar.Name, "fitness")
	assert.Equal(t, "8000", a.Metrics.Leads.String())
	assert.Equal(t, "2.5", a.Metrics.Conversion.String())
	// 8000 * 2.5% = 200 sales at R$ 500.
	assert.Equal(t, "100000", a.Metrics.Revenue.String())
	assert.Equal(t, "100", a.Metrics.ROI.String())
	require.Len(t, a.Competition.Competitors, 3)
	assert.Equal(t, "300", a.Competition.Competitors[0].Price.String())
}

func TestFallbackDefaultPrice(t *testing.T) {
	a, err := FallbackGenerator{}.Generate(context.Background(), models.AnalysisRequest{Nicho: "saúde"})
	require.NoError(t, err)
	assert.Equal(t, "199400", a.Metrics.Revenue.String())
	assert.Contains(t, a.Positioning.Statement, "Programa saúde")

	var total int
	for _, item := range a.Metrics.Investment {
		require.True(t, item.Amount.Numeric)
		total += int(item.Amount.Value)
	}
	assert.Equal(t, totalInvestment, total)
}

func TestFallbackRejectsBadPrice(t *testing.T) {
	_, err := FallbackGenerator{}.Generate(context.Background(), models.AnalysisRequest{Nicho: "saúde", Preco: "caro"})
	assert.Error(t, err)
}

func TestAnalyzeValidation(t *testing.T) {
	srv := newBackend(t, FallbackGenerator{})

	for _, niche := range []string{"ab", "  ab  ", "<script>", "dados [x]"} {
		resp := postJSON(t, srv.URL, models.AnalysisRequest{Nicho: niche})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, niche)
	}
	resp := postJSON(t, srv.URL, models.AnalysisRequest{Nicho: "pão"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyzeGeneratorFailure(t *testing.T) {
	srv := newBackend(t, failingGenerator{})
	client := backend.NewClient(srv.URL, 5*time.Second, nil)

	_, err := client.Analyze(context.Background(), models.AnalysisRequest{Nicho: "fitness"})
	var statusErr *backend.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestNichesAreDistinctSortedAndFiltered(t *testing.T) {
	srv := newBackend(t, FallbackGenerator{})
	client := backend.NewClient(srv.URL, 5*time.Second, nil)
	ctx := context.Background()

	for _, n := range []string{"fitness feminino", "marketing digital", "fitness feminino", "Finanças pessoais"} {
		_, err := client.Analyze(ctx, models.AnalysisRequest{Nicho: n})
		require.NoError(t, err)
	}

	all, err := client.SearchNiches(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Finanças pessoais", "fitness feminino", "marketing digital"}, all)

	fi, err := client.SearchNiches(ctx, "FI")
	require.NoError(t, err)
	assert.Equal(t, []string{"Finanças pessoais", "fitness feminino"}, fi)
}

func TestParseAnalysis(t *testing.T) {
	a, err := FallbackGenerator{}.Generate(context.Background(), models.AnalysisRequest{Nicho: "yoga"})
	require.NoError(t, err)
	doc, err := json.Marshal(a)
	require.NoError(t, err)

	parsed, err := parseAnalysis("```json\n" + string(doc) + "\n```")
	require.NoError(t, err)
	assert.Equal(t, a.Avatar.Name, parsed.Avatar.Name)

	_, err = parseAnalysis(`{"avatar": {"nome": "x"}}`)
	assert.Error(t, err)
	_, err = parseAnalysis("not json")
	assert.Error(t, err)
}
