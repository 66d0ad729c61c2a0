package a2a

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

	"github.com/BerylCAtieno/niche-analyzer/internal/models"
	"github.com/BerylCAtieno/niche-analyzer/internal/testkit"
)

type stubAnalyzer struct {
	result *models.Analysis
	err    error
	got    []models.AnalysisRequest
}

func (s *stubAnalyzer) Analyze(_ context.Context, req models.AnalysisRequest) (*models.Analysis, error) {
	s.got = append(s.got, req)
	return s.result, s.err
}

func newTestRouter(analyzer Analyzer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(analyzer, DefaultAgentCard("http://agent.test"), nil)
	h.now = func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) }

	r := gin.New()
	r.GET("/.well-known/agent.json", h.ServeAgentCard)
	r.POST("/a2a/analyzer", h.HandleAnalyzer)
	return r
}

func post(t *testing.T, r http.Handler, body string) JSONRPCResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/a2a/analyzer", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp JSONRPCResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func taskOf(t *testing.T, resp JSONRPCResponse) TaskResult {
	t.Helper()
	require.Nil(t, resp.Error)
	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var task TaskResult
	require.NoError(t, json.Unmarshal(raw, &task))
	return task
}

const sendMessage = `{
  "jsonrpc": "2.0",
  "id": "req-1",
  "method": "message/send",
  "params": {"message": {"kind": "message", "role": "user", "parts": [{"kind": "text", "text": "nutrição esportiva"}]}}
}`

func TestServeAgentCard(t *testing.T) {
	r := newTestRouter(&stubAnalyzer{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/.well-known/agent.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var card AgentCard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.Equal(t, "http://agent.test/a2a/analyzer", card.URL)
	require.Len(t, card.Skills, 1)
	assert.Equal(t, "niche-analysis", card.Skills[0].ID)
}

func TestMessageSendCompletesWithReport(t *testing.T) {
	stub := &stubAnalyzer{result: testkit.SampleAnalysis()}
	resp := post(t, newTestRouter(stub), sendMessage)

	assert.Equal(t, "req-1", resp.ID)
	task := taskOf(t, resp)
	assert.Equal(t, StateCompleted, task.Status.State)
	assert.Equal(t, "2024-03-05T14:07:09Z", task.Status.Timestamp)
	require.NotNil(t, task.Status.Message.TaskID)
	assert.Equal(t, "req-1", *task.Status.Message.TaskID)

	text, _ := task.Status.Message.Parts[0].Text.(string)
	assert.Contains(t, text, "Nome: Maria")
	assert.Contains(t, text, "Faturamento Projetado: R$ 50000")
	require.Len(t, task.Artifacts, 1)
	assert.Equal(t, text, task.Artifacts[0].Parts[0].Text)

	require.Len(t, stub.got, 1)
	assert.Equal(t, "nutrição esportiva", stub.got[0].Nicho)
}

func TestInvalidVersion(t *testing.T) {
	resp := post(t, newTestRouter(&stubAnalyzer{}), `{"jsonrpc":"1.0","id":"x","method":"message/send","params":{}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidRequest, resp.Error.Code)
}

func TestUnknownMethod(t *testing.T) {
	resp := post(t, newTestRouter(&stubAnalyzer{}), `{"jsonrpc":"2.0","id":"x","method":"tasks/cancel","params":{}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
}

func TestEmptyNicheFailsTask(t *testing.T) {
	stub := &stubAnalyzer{result: testkit.SampleAnalysis()}
	body := `{"jsonrpc":"2.0","id":"x","method":"agent/task","params":{"message":{"kind":"message","role":"user","parts":[{"kind":"text","text":"   "}]}}}`
	task := taskOf(t, post(t, newTestRouter(stub), body))

	assert.Equal(t, StateFailed, task.Status.State)
	assert.Empty(t, stub.got)
}

func TestBackendErrorFailsTask(t *testing.T) {
	stub := &stubAnalyzer{err: errors.New("backend down")}
	task := taskOf(t, post(t, newTestRouter(stub), sendMessage))

	assert.Equal(t, StateFailed, task.Status.State)
	assert.Empty(t, task.Artifacts)
}

func TestDirectMessage(t *testing.T) {
	stub := &stubAnalyzer{result: testkit.SampleAnalysis()}
	body := `{"message":{"kind":"message","role":"user","parts":[{"kind":"text","text":"pet shop"}]}}`
	resp := post(t, newTestRouter(stub), body)

	task := taskOf(t, resp)
	assert.Equal(t, "direct-message", task.ID)
	assert.Equal(t, StateCompleted, task.Status.State)
}

func TestGarbageBody(t *testing.T) {
	resp := post(t, newTestRouter(&stubAnalyzer{}), `not json`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeParseError, resp.Error.Code)
}

func TestExtractNicheFromHistory(t *testing.T) {
	msg := A2AMessage{
		Parts: []MessagePart{
			{Kind: "data", Data: []interface{}{
				map[string]interface{}{"kind": "text", "text": "<p>marketing para dentistas</p>"},
				map[string]interface{}{"kind": "text", "text": "Analisando nicho..."},
				map[string]interface{}{"kind": "text", "text": "..."},
			}},
		},
	}
	assert.Equal(t, "marketing para dentistas", extractNiche(msg))

	msg.Parts = append(msg.Parts, TextPart("  odontologia "))
	assert.Equal(t, "marketing para dentistas odontologia", extractNiche(msg))
	assert.Empty(t, extractNiche(A2AMessage{}))
}
