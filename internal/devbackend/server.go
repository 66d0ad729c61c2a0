package devbackend

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/niche-analyzer/internal/models"
)

const minNicheLength = 3

var forbiddenNicheChars = "<>{}[]"

// Server answers POST /api/analyze and GET /api/nichos.
type Server struct {
	gen    Generator
	logger *zap.Logger

	mu     sync.RWMutex
	niches map[string]struct{}
}

func NewServer(gen Generator, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		gen:    gen,
		logger: logger.Named("devbackend"),
		niches: make(map[string]struct{}),
	}
}

// Register mounts the backend routes on r.
func (s *Server) Register(r gin.IRoutes) {
	r.POST("/api/analyze", s.handleAnalyze)
	r.GET("/api/nichos", s.handleNiches)
}

// ValidateRequest applies the backend's rules to the form. It returns the
// messages per field, or nil when the request is acceptable.
func ValidateRequest(req models.AnalysisRequest) map[string][]string {
	niche := strings.TrimSpace(req.Nicho)
	var msgs []string
	if utf8.RuneCountInString(niche) < minNicheLength {
		msgs = append(msgs, "O nicho deve ter pelo menos 3 caracteres.")
	}
	if strings.ContainsAny(req.Nicho, forbiddenNicheChars) {
		msgs = append(msgs, "O nicho contém caracteres não permitidos.")
	}
	if len(msgs) == 0 {
		return nil
	}
	return map[string][]string{"nicho": msgs}
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req models.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido"})
		return
	}
	if fieldErrs := ValidateRequest(req); fieldErrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErrs})
		return
	}

	analysis, err := s.gen.Generate(c.Request.Context(), req)
	if err != nil {
		s.logger.Error("generating analysis failed", zap.String("nicho", req.Nicho), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno do servidor"})
		return
	}

	s.mu.Lock()
	s.niches[strings.TrimSpace(req.Nicho)] = struct{}{}
	s.mu.Unlock()

	s.logger.Info("analysis generated", zap.String("nicho", req.Nicho))
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleNiches(c *gin.Context) {
	term := strings.ToLower(strings.TrimSpace(c.Query("search")))

	s.mu.RLock()
	nichos := make([]string, 0, len(s.niches))
	for n := range s.niches {
		if term == "" || strings.Contains(strings.ToLower(n), term) {
			nichos = append(nichos, n)
		}
	}
	s.mu.RUnlock()

	sort.Strings(nichos)
	c.JSON(http.StatusOK, models.NicheSearchResult{Nichos: nichos, Count: len(nichos)})
}
