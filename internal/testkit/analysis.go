// Package testkit holds fixtures shared by package tests.
package testkit

import (
	"encoding/json"

	"github.com/BerylCAtieno/niche-analyzer/internal/models"
)

// SampleJSON is a complete analysis document as the backend sends it.
const SampleJSON = `{
  "avatar": {
    "nome": "Maria",
    "contexto": "Nutricionista de 34 anos que atende online",
    "barreira_critica": "Não sabe precificar consultas",
    "estado_desejado": "Agenda cheia com clientes recorrentes",
    "frustracoes": ["Pouco tempo livre", "Clientes que somem"],
    "crenca_limitante": "Marketing é coisa de vendedor"
  },
  "positioning": {
    "declaracao": "A consultoria que transforma nutricionistas em referências locais",
    "angulos": [
      {"tipo": "Lógico", "mensagem": "Método validado com 120 profissionais"},
      {"tipo": "Emocional", "mensagem": "Recupere seus fins de semana"}
    ]
  },
  "marketing": {
    "landing_page": {
      "headline": "Agenda cheia em 90 dias",
      "secoes": [
        {"titulo": "A dor", "conteudo": "Você estudou anos e ainda depende de indicação."},
        {"titulo": "A solução", "conteudo": "Um sistema simples de captação."}
      ]
    },
    "emails": [
      {"tipo": "Boas-vindas", "assunto": "Seu guia chegou", "preview": "Obrigado por se inscrever"}
    ],
    "anuncios": [
      {"angulo": "Dor", "roteiro": "Cansada de depender de indicação?"}
    ]
  },
  "metrics": {
    "leads_projetados": 1000,
    "conversao": 5,
    "faturamento": 50000,
    "roi": 150,
    "investimento": [
      {"canal": "Facebook Ads", "percentual": 60, "valor": 12000},
      {"canal": "Google Ads", "percentual": 40, "valor": 8000}
    ]
  },
  "competition": {
    "concorrentes": [
      {"nome": "Nutri Pro", "preco": 497, "forcas": "Marca forte", "fraquezas": "Suporte lento", "oportunidade": "Atendimento próximo"},
      {"nome": "Clínica Digital", "preco": "R$ 197-997", "forcas": "Preço baixo", "fraquezas": "Genérico", "oportunidade": "Especialização"}
    ],
    "lacunas": ["Foco em nutricionistas iniciantes"]
  },
  "funnel": {
    "fases": [
      {"nome": "Atração", "duracao": "2 semanas", "objetivo": "Gerar leads", "acoes": ["Anúncios", "Conteúdo"]},
      {"nome": "Conversão", "duracao": "1 semana", "objetivo": "Vender", "acoes": ["Webinar"]}
    ],
    "cronograma": [
      {"periodo": "Semana 1", "atividade": "Preparação", "descricao": "Criar materiais"}
    ]
  }
}`

// SampleAnalysis decodes SampleJSON. It panics on error since the fixture is
// constant.
func SampleAnalysis() *models.Analysis {
	var a models.Analysis
	if err := json.Unmarshal([]byte(SampleJSON), &a); err != nil {
		panic(err)
	}
	return &a
}

// SampleRequest is a filled analyzer form.
func SampleRequest() models.AnalysisRequest {
	return models.AnalysisRequest{
		Nicho:              "nutrição",
		Produto:            "Mentoria para nutricionistas",
		Descricao:          "Programa de 12 semanas",
		Preco:              "997",
		Publico:            "Nutricionistas recém-formadas",
		ObjetivoReceita:    "50000",
		PrazoLancamento:    "90 dias",
		OrcamentoMarketing: "20000",
	}
}
