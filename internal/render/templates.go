package render

const resultsTemplate = `
{{define "results"}}
{{if .Actions}}
<div class="results-header">
  <div class="neo-enhanced-card">
    <div class="neo-card-header">
      <div class="neo-card-icon"><i class="fas fa-trophy"></i></div>
      <h3 class="neo-card-title">Análise Concluída com Sucesso</h3>
    </div>
    <div class="neo-card-content">
      <p>Sua análise de mercado foi processada. Explore os resultados abaixo para descobrir insights valiosos sobre seu nicho.</p>
      <div class="results-actions">
        <button class="neo-cta-button" data-action="download"><i class="fas fa-download"></i><span>Baixar Relatório</span></button>
        <button class="neo-cta-button secondary" data-action="share"><i class="fas fa-share"></i><span>Compartilhar</span></button>
        <button class="neo-cta-button secondary" data-action="pdf"><i class="fas fa-file-pdf"></i><span>Exportar PDF</span></button>
      </div>
    </div>
  </div>
</div>
{{end}}
<div class="results-grid">
{{template "avatar" .Avatar}}
{{template "positioning" .Positioning}}
{{template "metrics" .}}
{{template "marketing" .Marketing}}
{{template "competition" .}}
{{template "funnel" .}}
</div>
{{end}}

{{define "avatar"}}
<div class="neo-enhanced-card result-card" id="card-avatar">
  <div class="neo-card-header">
    <div class="neo-card-icon"><i class="fas fa-user-circle"></i></div>
    <h3 class="neo-card-title">Perfil do Avatar</h3>
  </div>
  <div class="neo-card-content">
    <div class="avatar-profile">
      <div class="avatar-basic-info">
        <h4>{{.Name}}</h4>
        <p class="avatar-context">{{.Context}}</p>
      </div>
      <div class="avatar-details">
        <div class="detail-item"><strong>Barreira Crítica:</strong><p>{{.CriticalBarrier}}</p></div>
        <div class="detail-item"><strong>Estado Desejado:</strong><p>{{.DesiredState}}</p></div>
        <div class="detail-item"><strong>Principais Frustrações:</strong>
          <ul>{{range .Frustrations}}<li>{{.}}</li>{{end}}</ul>
        </div>
        <div class="detail-item"><strong>Crença Limitante:</strong><p>{{.LimitingBelief}}</p></div>
      </div>
    </div>
  </div>
</div>
{{end}}

{{define "positioning"}}
<div class="neo-enhanced-card result-card" id="card-positioning">
  <div class="neo-card-header">
    <div class="neo-card-icon"><i class="fas fa-bullseye"></i></div>
    <h3 class="neo-card-title">Estratégia de Posicionamento</h3>
  </div>
  <div class="neo-card-content">
    <div class="positioning-content">
      <div class="positioning-statement">
        <h4>Declaração de Posicionamento</h4>
        <blockquote>{{.Statement}}</blockquote>
      </div>
      <div class="messaging-angles">
        <h4>Ângulos de Mensagem</h4>
        {{range $i, $a := .Angles}}
        <div class="angle-item">
          <h5>Ângulo {{inc $i}}: {{$a.Type}}</h5>
          <p>{{$a.Message}}</p>
        </div>
        {{end}}
      </div>
    </div>
  </div>
</div>
{{end}}

{{define "metrics"}}
{{$m := .Metrics}}
<div class="neo-enhanced-card result-card" id="card-metrics">
  <div class="neo-card-header">
    <div class="neo-card-icon"><i class="fas fa-chart-line"></i></div>
    <h3 class="neo-card-title">Projeções e Métricas</h3>
  </div>
  <div class="neo-card-content">
    <div class="metrics-grid">
      <div class="metric-item" data-metric="leads" data-value="{{$m.Leads}}">
        <div class="metric-value">{{$m.Leads}}</div>
        <div class="metric-label">Leads Projetados</div>
      </div>
      <div class="metric-item" data-metric="conversao" data-value="{{$m.Conversion}}">
        <div class="metric-value">{{$m.Conversion}}%</div>
        <div class="metric-label">Taxa de Conversão</div>
      </div>
      <div class="metric-item" data-metric="faturamento" data-value="{{$m.Revenue}}">
        <div class="metric-value">R$ {{money $m.Revenue}}</div>
        <div class="metric-label">Faturamento Projetado</div>
      </div>
      <div class="metric-item" data-metric="roi" data-value="{{$m.ROI}}">
        <div class="metric-value">{{$m.ROI}}%</div>
        <div class="metric-label">ROI Esperado</div>
      </div>
    </div>
    {{if .Charts}}<div class="chart-container" data-chart="investment">{{chart "investment" $m}}</div>{{end}}
    <div class="investment-breakdown">
      <h4>Distribuição do Investimento</h4>
      <div class="investment-items">
        {{range $m.Investment}}
        <div class="investment-item" data-value="{{.Amount}}">
          <span class="channel">{{.Channel}}</span>
          <span class="percentage">{{.Percentage}}%</span>
          <span class="amount">R$ {{money .Amount}}</span>
        </div>
        {{end}}
      </div>
    </div>
  </div>
</div>
{{end}}

{{define "marketing"}}
<div class="neo-enhanced-card result-card" id="card-marketing">
  <div class="neo-card-header">
    <div class="neo-card-icon"><i class="fas fa-bullhorn"></i></div>
    <h3 class="neo-card-title">Materiais de Marketing</h3>
  </div>
  <div class="neo-card-content">
    <div class="marketing-materials">
      <div class="material-tabs">
        <button class="tab-btn active" data-tab="landing">Landing Page</button>
        <button class="tab-btn" data-tab="emails">E-mails</button>
        <button class="tab-btn" data-tab="ads">Anúncios</button>
      </div>
      <div class="material-content">
        <div id="landing-content" class="tab-content active">
          <h4>Página de Vendas</h4>
          <div class="material-preview">
            <p>{{.LandingPage.Headline}}</p>
            <div class="preview-sections">
              {{range .LandingPage.Sections}}
              <div class="section-preview">
                <h5>{{.Title}}</h5>
                <p>{{preview .Content}}</p>
              </div>
              {{end}}
            </div>
          </div>
        </div>
        <div id="emails-content" class="tab-content">
          <h4>Sequência de E-mails</h4>
          {{range $i, $e := .Emails}}
          <div class="email-preview">
            <h5>E-mail {{inc $i}}: {{$e.Type}}</h5>
            <p><strong>Assunto:</strong> {{$e.Subject}}</p>
            <p>{{$e.Preview}}</p>
          </div>
          {{end}}
        </div>
        <div id="ads-content" class="tab-content">
          <h4>Roteiros de Anúncios</h4>
          {{range $i, $ad := .Ads}}
          <div class="ad-preview">
            <h5>Anúncio {{inc $i}}: {{$ad.Angle}}</h5>
            <p>{{$ad.Script}}</p>
          </div>
          {{end}}
        </div>
      </div>
    </div>
  </div>
</div>
{{end}}

{{define "competition"}}
{{$c := .Competition}}
<div class="neo-enhanced-card result-card" id="card-competition">
  <div class="neo-card-header">
    <div class="neo-card-icon"><i class="fas fa-chess"></i></div>
    <h3 class="neo-card-title">Análise Competitiva</h3>
  </div>
  <div class="neo-card-content">
    {{if .Charts}}<div class="chart-container" data-chart="competition">{{chart "competition" $c}}</div>{{end}}
    <div class="competition-analysis">
      {{range $c.Competitors}}
      <div class="competitor-item">
        <h4>{{.Name}}</h4>
        <div class="competitor-details">
          <p><strong>Preço:</strong> R$ {{.Price}}</p>
          <p><strong>Forças:</strong> {{.Strengths}}</p>
          <p><strong>Fraquezas:</strong> {{.Weaknesses}}</p>
          <p><strong>Oportunidade:</strong> {{.Opportunity}}</p>
        </div>
      </div>
      {{end}}
    </div>
    <div class="market-gaps">
      <h4>Lacunas do Mercado</h4>
      <ul>{{range $c.Gaps}}<li>{{.}}</li>{{end}}</ul>
    </div>
  </div>
</div>
{{end}}

{{define "funnel"}}
{{$f := .Funnel}}
<div class="neo-enhanced-card result-card full-width" id="card-funnel">
  <div class="neo-card-header">
    <div class="neo-card-icon"><i class="fas fa-funnel-dollar"></i></div>
    <h3 class="neo-card-title">Funil de Vendas</h3>
  </div>
  <div class="neo-card-content">
    {{if .Charts}}<div class="chart-container" data-chart="funnel">{{chart "funnel" $f}}</div>{{end}}
    <div class="funnel-timeline">
      {{range $i, $p := $f.Phases}}
      <div class="funnel-phase">
        <div class="phase-number">{{inc $i}}</div>
        <div class="phase-content">
          <h4>{{$p.Name}}</h4>
          <p><strong>Duração:</strong> {{$p.Duration}}</p>
          <p><strong>Objetivo:</strong> {{$p.Objective}}</p>
          <div class="phase-actions">
            <h5>Principais Ações:</h5>
            <ul>{{range $p.Actions}}<li>{{.}}</li>{{end}}</ul>
          </div>
        </div>
      </div>
      {{end}}
    </div>
    <div class="funnel-metrics">
      <h4>Cronograma de Execução</h4>
      <div class="timeline">
        {{range $f.Schedule}}
        <div class="timeline-item">
          <div class="timeline-date">{{.Period}}</div>
          <div class="timeline-content">
            <h5>{{.Activity}}</h5>
            <p>{{.Description}}</p>
          </div>
        </div>
        {{end}}
      </div>
    </div>
  </div>
</div>
{{end}}
`
