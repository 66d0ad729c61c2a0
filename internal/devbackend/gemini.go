package devbackend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/BerylCAtieno/niche-analyzer/internal/models"
)

const defaultGeminiModel = "gemini-2.5-flash-lite"

type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiGenerator(ctx context.Context, apiKey, modelName string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if modelName == "" {
		modelName = defaultGeminiModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(8192)
	model.ResponseMIMEType = "application/json"

	return &GeminiGenerator{
		client: client,
		model:  model,
	}, nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func (g *GeminiGenerator) Generate(ctx context.Context, req models.AnalysisRequest) (*models.Analysis, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(req)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return parseAnalysis(text.String())
}

// parseAnalysis decodes the model output, tolerating a markdown code fence
// around the JSON.
func parseAnalysis(text string) (*models.Analysis, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var a models.Analysis
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}
	if missing := a.MissingSections(); len(missing) > 0 {
		return nil, fmt.Errorf("analysis missing sections %v", missing)
	}
	return &a, nil
}

func buildPrompt(req models.AnalysisRequest) string {
	return fmt.Sprintf(`Você é um estrategista de lançamentos digitais no mercado brasileiro. Analise o nicho abaixo e responda APENAS com um objeto JSON, sem markdown.

Nicho: %s
Produto: %s
Descrição: %s
Preço: %s
Público-alvo: %s
Concorrentes: %s
Dados adicionais: %s
Objetivo de receita: %s
Prazo de lançamento: %s
Orçamento de marketing: %s

O JSON deve ter exatamente esta estrutura (números sem aspas):
{
  "avatar": {"nome": "", "contexto": "", "barreira_critica": "", "estado_desejado": "", "frustracoes": [""], "crenca_limitante": ""},
  "positioning": {"declaracao": "", "angulos": [{"tipo": "", "mensagem": ""}]},
  "marketing": {
    "landing_page": {"headline": "", "secoes": [{"titulo": "", "conteudo": ""}]},
    "emails": [{"tipo": "", "assunto": "", "preview": ""}],
    "anuncios": [{"angulo": "", "roteiro": ""}]
  },
  "metrics": {"leads_projetados": 0, "conversao": 0, "faturamento": 0, "roi": 0, "investimento": [{"canal": "", "percentual": 0, "valor": 0}]},
  "competition": {"concorrentes": [{"nome": "", "preco": 0, "forcas": "", "fraquezas": "", "oportunidade": ""}], "lacunas": [""]},
  "funnel": {"fases": [{"nome": "", "duracao": "", "objetivo": "", "acoes": [""]}], "cronograma": [{"periodo": "", "atividade": "", "descricao": ""}]}
}`,
		req.Nicho, req.Produto, req.Descricao, req.Preco, req.Publico, req.Concorrentes,
		req.DadosAdicionais, req.ObjetivoReceita, req.PrazoLancamento, req.OrcamentoMarketing)
}
