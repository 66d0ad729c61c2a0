// Package a2a exposes the niche analysis as an A2A agent speaking JSON-RPC.
package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/niche-analyzer/internal/export"
	"github.com/BerylCAtieno/niche-analyzer/internal/models"
)

// Analyzer runs one analysis against the backend.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.Analysis, error)
}

type Handler struct {
	analyzer Analyzer
	card     AgentCard
	logger   *zap.Logger
	now      func() time.Time
}

func NewHandler(analyzer Analyzer, card AgentCard, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		analyzer: analyzer,
		card:     card,
		logger:   logger.Named("a2a"),
		now:      time.Now,
	}
}

// DefaultAgentCard describes this service for agents reaching it at baseURL.
func DefaultAgentCard(baseURL string) AgentCard {
	return AgentCard{
		Name:        "Niche Analyzer",
		Description: "Analisa um nicho de mercado e devolve avatar, posicionamento, métricas projetadas e concorrência.",
		URL:         strings.TrimRight(baseURL, "/") + "/a2a/analyzer",
		Version:     "1.0.0",
		Capabilities: AgentCapabilities{
			Streaming:         false,
			PushNotifications: false,
		},
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain"},
		Skills: []AgentSkill{
			{
				ID:          "niche-analysis",
				Name:        "Análise de nicho",
				Description: "Gera o relatório de análise de avatar para o nicho informado.",
				Tags:        []string{"marketing", "avatar", "nicho"},
				Examples:    []string{"nutrição para gestantes", "marketing digital para dentistas"},
			},
		},
	}
}

// ServeAgentCard serves the agent card.
func (h *Handler) ServeAgentCard(c *gin.Context) {
	c.JSON(http.StatusOK, h.card)
}

// HandleAnalyzer processes A2A messages.
func (h *Handler) HandleAnalyzer(c *gin.Context) {
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("failed to read request body", zap.Error(err))
		h.sendErrorResponse(c, "", "Failed to read request body", CodeParseError)
		return
	}
	h.logger.Debug("raw request body", zap.ByteString("body", bodyBytes))

	var rpcReq JSONRPCRequest
	if err := json.Unmarshal(bodyBytes, &rpcReq); err != nil || (rpcReq.JSONRPC == "" && rpcReq.Method == "") {
		// Some clients post the message params without the JSON-RPC wrapper.
		h.handleDirectMessage(c, bodyBytes)
		return
	}

	if rpcReq.JSONRPC != "2.0" {
		h.logger.Warn("invalid JSON-RPC version", zap.String("jsonrpc", rpcReq.JSONRPC))
		h.sendErrorResponse(c, rpcReq.ID, "Invalid JSON-RPC version", CodeInvalidRequest)
		return
	}

	switch rpcReq.Method {
	case "agent/task", "message/send":
		h.handleTask(c, rpcReq)
	default:
		h.logger.Warn("unknown method", zap.String("method", rpcReq.Method))
		h.sendErrorResponse(c, rpcReq.ID, fmt.Sprintf("Method not found: %s", rpcReq.Method), CodeMethodNotFound)
	}
}

func (h *Handler) handleDirectMessage(c *gin.Context, bodyBytes []byte) {
	var msgParams MessageParams
	if err := json.Unmarshal(bodyBytes, &msgParams); err != nil || len(msgParams.Message.Parts) == 0 {
		h.logger.Warn("request is neither JSON-RPC nor a direct message")
		h.sendErrorResponse(c, "", "Invalid request format", CodeParseError)
		return
	}

	const taskID = "direct-message"
	h.sendSuccessResponse(c, taskID, h.analyze(c.Request.Context(), taskID, msgParams.Message))
}

func (h *Handler) handleTask(c *gin.Context, rpcReq JSONRPCRequest) {
	var msgParams MessageParams
	if len(rpcReq.Params) == 0 {
		h.sendErrorResponse(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}
	if err := json.Unmarshal(rpcReq.Params, &msgParams); err != nil {
		h.logger.Warn("failed to decode params", zap.Error(err))
		h.sendErrorResponse(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}

	taskID := rpcReq.ID
	if taskID == "" {
		taskID = uuid.NewString()
	}
	h.sendSuccessResponse(c, rpcReq.ID, h.analyze(c.Request.Context(), taskID, msgParams.Message))
}

func (h *Handler) analyze(ctx context.Context, taskID string, msg A2AMessage) TaskResult {
	niche := extractNiche(msg)
	h.logger.Info("analysis requested", zap.String("task", taskID), zap.String("nicho", niche))

	if niche == "" {
		return h.createErrorTaskResult(taskID, "Por favor, informe o nicho de atuação.")
	}

	analysis, err := h.analyzer.Analyze(ctx, models.AnalysisRequest{Nicho: niche})
	if err != nil {
		h.logger.Error("analysis failed", zap.String("task", taskID), zap.Error(err))
		return h.createErrorTaskResult(taskID, "Erro ao realizar análise. Tente novamente.")
	}

	report, err := export.TextReport(analysis, h.now())
	if err != nil {
		h.logger.Error("building report failed", zap.String("task", taskID), zap.Error(err))
		return h.createErrorTaskResult(taskID, "A análise retornada está incompleta.")
	}
	return h.createSuccessTaskResult(taskID, report)
}

// extractNiche collects the user's text parts. Data parts carrying a
// conversation history contribute their most recent user-looking text.
func extractNiche(msg A2AMessage) string {
	var texts []string

	for _, part := range msg.Parts {
		if part.Kind == "text" && part.Text != nil {
			if text, ok := part.Text.(string); ok && strings.TrimSpace(text) != "" {
				texts = append(texts, strings.TrimSpace(text))
			}
		}

		if part.Kind == "data" && part.Data != nil {
			if text := lastHistoryText(part.Data); text != "" {
				texts = append(texts, text)
			}
		}
	}

	return strings.TrimSpace(strings.Join(texts, " "))
}

func lastHistoryText(data interface{}) string {
	var dataBytes []byte
	switch v := data.(type) {
	case string:
		dataBytes = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		dataBytes = b
	}

	var history []map[string]interface{}
	if err := json.Unmarshal(dataBytes, &history); err != nil {
		return ""
	}

	for i := len(history) - 1; i >= 0; i-- {
		item := history[i]
		if kind, _ := item["kind"].(string); kind != "text" {
			continue
		}
		text, _ := item["text"].(string)
		text = strings.TrimSpace(text)
		text = strings.ReplaceAll(text, "<p>", "")
		text = strings.ReplaceAll(text, "</p>", "")
		text = strings.TrimSpace(text)

		if isAgentChatter(text) {
			continue
		}
		return text
	}
	return ""
}

// isAgentChatter matches placeholder messages agents echo back into the
// history while they work.
func isAgentChatter(text string) bool {
	if text == "" || strings.Trim(text, ".") == "" {
		return true
	}
	lower := strings.ToLower(text)
	return strings.Contains(lower, "analisando") || strings.Contains(lower, "gerando")
}

func (h *Handler) createSuccessTaskResult(taskID, report string) TaskResult {
	id := taskID
	return TaskResult{
		ID:   taskID,
		Kind: "task",
		Status: TaskStatus{
			State:     StateCompleted,
			Timestamp: Timestamp(h.now()),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    &id,
				Parts:     []MessagePart{TextPart(report)},
			},
		},
		Artifacts: []Artifact{
			{
				ArtifactID: uuid.NewString(),
				Name:       "Relatório de Análise de Avatar",
				Parts:      []MessagePart{TextPart(report)},
			},
		},
	}
}

func (h *Handler) createErrorTaskResult(taskID, errorMsg string) TaskResult {
	id := taskID
	return TaskResult{
		ID:   taskID,
		Kind: "task",
		Status: TaskStatus{
			State:     StateFailed,
			Timestamp: Timestamp(h.now()),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    &id,
				Parts:     []MessagePart{TextPart(errorMsg)},
			},
		},
	}
}

func (h *Handler) sendSuccessResponse(c *gin.Context, id string, result interface{}) {
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

// JSON-RPC errors are sent with 200 OK.
func (h *Handler) sendErrorResponse(c *gin.Context, id, message string, code int) {
	h.logger.Info("rpc error response", zap.Int("code", code), zap.String("message", message))
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &JSONRPCError{Code: code, Message: message},
	})
}
