package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyNiche is returned when the required niche field is blank.
var ErrEmptyNiche = errors.New("nicho is required")

// AnalysisRequest is the analyzer form as submitted to the backend. Every
// field is sent, empty or not, the same way a browser form would be.
type AnalysisRequest struct {
	Nicho              string `json:"nicho" form:"nicho"`
	Produto            string `json:"produto" form:"produto"`
	Descricao          string `json:"descricao" form:"descricao"`
	Preco              string `json:"preco" form:"preco"`
	Publico            string `json:"publico" form:"publico"`
	Concorrentes       string `json:"concorrentes" form:"concorrentes"`
	DadosAdicionais    string `json:"dados_adicionais" form:"dados_adicionais"`
	ObjetivoReceita    string `json:"objetivo_receita" form:"objetivo_receita"`
	PrazoLancamento    string `json:"prazo_lancamento" form:"prazo_lancamento"`
	OrcamentoMarketing string `json:"orcamento_marketing" form:"orcamento_marketing"`
}

// Validate checks the only client-side rule: a non-blank niche.
func (r AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.Nicho) == "" {
		return ErrEmptyNiche
	}
	return nil
}

// Analysis is the structured report returned by the analysis backend.
// Sections are pointers so a document missing one can be told apart from
// an empty one.
type Analysis struct {
	// AnalysisID is optional and passed through untouched.
	AnalysisID json.RawMessage `json:"analysis_id,omitempty"`

	Avatar      *Avatar      `json:"avatar"`
	Positioning *Positioning `json:"positioning"`
	Marketing   *Marketing   `json:"marketing"`
	Metrics     *Metrics     `json:"metrics"`
	Competition *Competition `json:"competition"`
	Funnel      *Funnel      `json:"funnel"`
}

// MissingSections lists the JSON names of absent sections, in report order.
func (a *Analysis) MissingSections() []string {
	if a == nil {
		return []string{"avatar", "positioning", "marketing", "metrics", "competition", "funnel"}
	}
	var missing []string
	if a.Avatar == nil {
		missing = append(missing, "avatar")
	}
	if a.Positioning == nil {
		missing = append(missing, "positioning")
	}
	if a.Marketing == nil {
		missing = append(missing, "marketing")
	}
	if a.Metrics == nil {
		missing = append(missing, "metrics")
	}
	if a.Competition == nil {
		missing = append(missing, "competition")
	}
	if a.Funnel == nil {
		missing = append(missing, "funnel")
	}
	return missing
}

type Avatar struct {
	Name            string   `json:"nome"`
	Context         string   `json:"contexto"`
	CriticalBarrier string   `json:"barreira_critica"`
	DesiredState    string   `json:"estado_desejado"`
	Frustrations    []string `json:"frustracoes"`
	LimitingBelief  string   `json:"crenca_limitante"`
}

type Positioning struct {
	Statement string  `json:"declaracao"`
	Angles    []Angle `json:"angulos"`
}

type Angle struct {
	Type    string `json:"tipo"`
	Message string `json:"mensagem"`
}

type Marketing struct {
	LandingPage LandingPage `json:"landing_page"`
	Emails      []Email     `json:"emails"`
	Ads         []Ad        `json:"anuncios"`
}

type LandingPage struct {
	Headline string        `json:"headline"`
	Sections []PageSection `json:"secoes"`
}

type PageSection struct {
	Title   string `json:"titulo"`
	Content string `json:"conteudo"`
}

type Email struct {
	Type    string `json:"tipo"`
	Subject string `json:"assunto"`
	Preview string `json:"preview"`
}

type Ad struct {
	Angle  string `json:"angulo"`
	Script string `json:"roteiro"`
}

// Metrics keeps the backend's values as received, numbers or text such as
// "300%", so they are displayed exactly as sent.
type Metrics struct {
	Leads      Scalar           `json:"leads_projetados"`
	Conversion Scalar           `json:"conversao"`
	Revenue    Scalar           `json:"faturamento"`
	ROI        Scalar           `json:"roi"`
	Investment []InvestmentItem `json:"investimento"`
}

type InvestmentItem struct {
	Channel    string `json:"canal"`
	Percentage Scalar `json:"percentual"`
	Amount     Scalar `json:"valor"`
}

type Competition struct {
	Competitors []Competitor `json:"concorrentes"`
	Gaps        []string     `json:"lacunas"`
}

type Competitor struct {
	Name        string `json:"nome"`
	Price       Price  `json:"preco"`
	Strengths   string `json:"forcas"`
	Weaknesses  string `json:"fraquezas"`
	Opportunity string `json:"oportunidade"`
}

type Funnel struct {
	Phases   []Phase         `json:"fases"`
	Schedule []ScheduleEntry `json:"cronograma"`
}

type Phase struct {
	Name      string   `json:"nome"`
	Duration  string   `json:"duracao"`
	Objective string   `json:"objetivo"`
	Actions   []string `json:"acoes"`
}

type ScheduleEntry struct {
	Period      string `json:"periodo"`
	Activity    string `json:"atividade"`
	Description string `json:"descricao"`
}

// Scalar is a value the backend may send either as a JSON number (497) or
// as free text ("R$ 197-997", "45%"). The literal is kept; Value is only
// meaningful when Numeric is true.
type Scalar struct {
	Raw     string
	Value   float64
	Numeric bool
	quoted  bool
}

// Price is a competitor price.
type Price = Scalar

// NewScalar builds a numeric value.
func NewScalar(v float64) Scalar {
	return Scalar{Raw: strconv.FormatFloat(v, 'f', -1, 64), Value: v, Numeric: true}
}

// NewPrice builds a numeric price.
func NewPrice(v float64) Price {
	return NewScalar(v)
}

// TextScalar builds a value sent as a JSON string.
func TextScalar(s string) Scalar {
	sc := Scalar{Raw: s, quoted: true}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		sc.Value = v
		sc.Numeric = true
	}
	return sc
}

func (s Scalar) String() string {
	return s.Raw
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Scalar{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("decode scalar: %w", err)
		}
		*s = TextScalar(text)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode scalar: %w", err)
	}
	v, err := n.Float64()
	if err != nil {
		return fmt.Errorf("decode scalar: %w", err)
	}
	*s = Scalar{Raw: n.String(), Value: v, Numeric: true}
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if s.Raw == "" && !s.quoted {
		return []byte("null"), nil
	}
	if s.Numeric && !s.quoted {
		return []byte(s.Raw), nil
	}
	return json.Marshal(s.Raw)
}

// NicheSearchResult is the body of GET /api/nichos.
type NicheSearchResult struct {
	Nichos []string `json:"nichos"`
	Count  int      `json:"count"`
}
