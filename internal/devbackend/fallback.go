// Package devbackend is a local stand-in for the analysis backend. It
// serves the same HTTP contract with either a deterministic generator or
// Gemini.
package devbackend

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/niche-analyzer/internal/models"
)

// Generator produces an analysis for a validated request.
type Generator interface {
	Generate(ctx context.Context, req models.AnalysisRequest) (*models.Analysis, error)
}

const (
	defaultPrice      = 997
	projectedLeads    = 8000
	conversionPercent = 2.5
	totalInvestment   = 50000
)

// FallbackGenerator derives a complete document from the niche, product
// and price alone.
type FallbackGenerator struct{}

func (FallbackGenerator) Generate(_ context.Context, req models.AnalysisRequest) (*models.Analysis, error) {
	niche := strings.TrimSpace(req.Nicho)
	product := strings.TrimSpace(req.Produto)
	if product == "" {
		product = "Programa " + niche
	}

	price := float64(defaultPrice)
	if p := strings.TrimSpace(req.Preco); p != "" {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid preco %q: %w", p, err)
		}
		price = v
	}

	sales := int(projectedLeads * (conversionPercent / 100))
	revenue := int(float64(sales) * price)
	roi := int(float64(revenue-totalInvestment) / totalInvestment * 100)

	return &models.Analysis{
		Avatar: &models.Avatar{
			Name:            "Carlos Eduardo Silva - Especialista em " + niche,
			Context:         fmt.Sprintf("Carlos é um profissional experiente que busca dominar %s para escalar seu negócio. Trabalha 12 horas por dia, mas sente que não está progredindo na velocidade desejada.", niche),
			CriticalBarrier: fmt.Sprintf("Paralisia por análise: consome muito conteúdo sobre %s, mas tem dificuldade em transformar conhecimento em ação.", niche),
			DesiredState:    fmt.Sprintf("Ser reconhecido como autoridade em %s, com faturamento consistente e mais tempo com a família.", niche),
			Frustrations: []string{
				fmt.Sprintf("Excesso de informação contraditória sobre %s disponível online", niche),
				"Dificuldade em encontrar estratégias que funcionem no mercado brasileiro",
				"Falta de tempo para implementar todas as táticas que aprende",
				fmt.Sprintf("Dificuldade em mensurar o ROI real das estratégias em %s", niche),
			},
			LimitingBelief: fmt.Sprintf("Acredita que para ter sucesso em %s é preciso trabalhar mais horas e seguir todas as tendências.", niche),
		},
		Positioning: &models.Positioning{
			Statement: fmt.Sprintf("Para empreendedores que querem dominar %s sem perder a sanidade, %s é a metodologia que combina estratégias comprovadas com implementação prática.", niche, product),
			Angles: []models.Angle{
				{Type: "Lógico - Baseado em Dados", Message: fmt.Sprintf("Alunos aumentaram em média 347%% seu faturamento em %s nos primeiros 6 meses.", niche)},
				{Type: "Emocional - Transformação de Vida", Message: fmt.Sprintf("Imagine acordar sabendo exatamente o que fazer para crescer em %s.", niche)},
				{Type: "Contraste - Diferenciação Clara", Message: fmt.Sprintf("Enquanto outros vendem teoria, %s entrega um sistema passo a passo com acompanhamento real.", product)},
				{Type: "Urgência/Escassez - Oportunidade Limitada", Message: fmt.Sprintf("Apenas 50 vagas para a próxima turma de %s.", product)},
			},
		},
		Marketing: &models.Marketing{
			LandingPage: models.LandingPage{
				Headline: fmt.Sprintf("Como Dominar %s e Faturar 6 Dígitos Sem Trabalhar 12 Horas Por Dia", niche),
				Sections: []models.PageSection{
					{Title: fmt.Sprintf("A Frustração Que Todo Empreendedor de %s Conhece", niche), Content: "Abrir com a dor específica: excesso de informação, falta de resultados práticos, sensação de estar sempre correndo atrás."},
					{Title: fmt.Sprintf("Apresentando %s", product), Content: "Apresentação da solução, pilares da metodologia e diferencial competitivo."},
					{Title: "Prova Social - Resultados Reais", Content: "Depoimentos em vídeo, cases de sucesso com números reais, antes e depois dos alunos."},
					{Title: "Garantia de Resultados", Content: "Garantia de 90 dias, condições claras e redução de risco para o cliente."},
				},
			},
			Emails: []models.Email{
				{Type: "Aquecimento", Subject: fmt.Sprintf("[REVELADO] O segredo dos top 1%% em %s", niche), Preview: "O que ninguém te conta sobre crescer de verdade."},
				{Type: "Abertura", Subject: fmt.Sprintf("%s - Vagas abertas", product), Preview: "A turma mais exclusiva do ano começou."},
				{Type: "Encerramento", Subject: fmt.Sprintf("FINAL: %s encerra hoje às 23:59", product), Preview: "Última chance de garantir sua vaga."},
			},
			Ads: []models.Ad{
				{Angle: "Dor + Solução + Prova Social", Script: fmt.Sprintf("Cansado de estudar %s mas não ver resultados? Conheça %s.", niche, product)},
				{Angle: "Urgência + Benefício Claro", Script: fmt.Sprintf("ÚLTIMAS VAGAS: %s está encerrando. Não fique para trás.", product)},
			},
		},
		Metrics: &models.Metrics{
			Leads:      scalarInt(projectedLeads),
			Conversion: models.NewScalar(conversionPercent),
			Revenue:    scalarInt(revenue),
			ROI:        scalarInt(roi),
			Investment: investmentSplit(),
		},
		Competition: &models.Competition{
			Competitors: []models.Competitor{
				{
					Name:        fmt.Sprintf("MasterClass %s Brasil", niche),
					Price:       models.NewPrice(float64(int(price * 0.6))),
					Strengths:   "Marca reconhecida, conteúdo extenso, preço acessível.",
					Weaknesses:  "Conteúdo muito teórico, sem acompanhamento personalizado.",
					Opportunity: "Mentoria em grupo com foco em implementação prática.",
				},
				{
					Name:        fmt.Sprintf("Consultoria Premium %s", niche),
					Price:       models.NewPrice(float64(int(price * 4))),
					Strengths:   "Atendimento 100% personalizado.",
					Weaknesses:  "Preço inacessível para a maioria, não escalável.",
					Opportunity: "Modelo híbrido com sessões em grupo e individuais.",
				},
				{
					Name:        fmt.Sprintf("Agência Full Service %s", niche),
					Price:       models.NewPrice(float64(int(price * 5))),
					Strengths:   "Execução completa para o cliente.",
					Weaknesses:  "Custo mensal alto, cliente não aprende o processo.",
					Opportunity: "Ensinar o cliente a ser independente.",
				},
			},
			Gaps: []string{
				fmt.Sprintf("Ausência de metodologia estruturada para %s com foco no mercado brasileiro", niche),
				"Falta de programas que combinem teoria, prática, acompanhamento e comunidade",
				"Carência de garantias reais de resultado",
			},
		},
		Funnel: &models.Funnel{
			Phases: []models.Phase{
				{Name: "Consciência e Atração", Duration: "2 semanas", Objective: fmt.Sprintf("Atrair o público qualificado e gerar reconhecimento em %s.", niche), Actions: []string{"Conteúdo de valor", "Anúncios de topo de funil", "SEO"}},
				{Name: "Interesse e Educação", Duration: "1 semana", Objective: "Educar o lead sobre o problema e posicionar a solução.", Actions: []string{"Webinars", "E-books", "Sequência de e-mails"}},
				{Name: "Consideração", Duration: "1 semana", Objective: "Demonstrar credibilidade e quebrar objeções.", Actions: []string{"Cases de sucesso", "Depoimentos em vídeo"}},
				{Name: "Compra e Conversão", Duration: "1 semana", Objective: "Converter leads qualificados em clientes.", Actions: []string{"Ofertas por tempo limitado", "Checkout otimizado"}},
				{Name: "Pós-Venda e Fidelização", Duration: "Contínuo", Objective: "Maximizar LTV e gerar indicações.", Actions: []string{"Onboarding estruturado", "Programa de indicações"}},
			},
			Schedule: []models.ScheduleEntry{
				{Period: "Semana 1-2", Activity: "Pré-aquecimento", Description: "Conteúdo de valor e construção de audiência."},
				{Period: "Semana 3", Activity: "Lançamento", Description: "Webinar de lançamento e abertura de carrinho."},
				{Period: "Semana 4", Activity: "Intensificação", Description: "Depoimentos, quebra de objeções e casos de sucesso."},
				{Period: "Semana 5", Activity: "Urgência", Description: "Bônus finais e últimos avisos."},
				{Period: "Semana 6", Activity: "Fechamento", Description: "Encerramento oficial."},
			},
		},
	}, nil
}

func investmentSplit() []models.InvestmentItem {
	split := []struct {
		channel string
		percent int
	}{
		{"Meta Ads (Facebook + Instagram)", 45},
		{"Google Ads (Search + YouTube)", 25},
		{"Conteúdo Orgânico + SEO", 15},
		{"E-mail Marketing + Automação", 10},
		{"Parcerias + Afiliados", 5},
	}
	items := make([]models.InvestmentItem, 0, len(split))
	for _, s := range split {
		items = append(items, models.InvestmentItem{
			Channel:    s.channel,
			Percentage: scalarInt(s.percent),
			Amount:     scalarInt(totalInvestment * s.percent / 100),
		})
	}
	return items
}

func scalarInt(v int) models.Scalar {
	return models.NewScalar(float64(v))
}
