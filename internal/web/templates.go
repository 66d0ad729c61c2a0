package web

const pageTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>UP Lançamentos - Análise de Avatar</title>
<style>
  body { font-family: Arial, sans-serif; margin: 0; background: #0f172a; color: #e2e8f0; }
  nav { display: flex; gap: 1rem; padding: 1rem 2rem; background: #111827; }
  .nav-link { color: #e2e8f0; text-decoration: none; padding: .5rem 1rem; border-radius: 6px; }
  .nav-link.active { background: #ff6b35; }
  .section { display: none; padding: 2rem; }
  .section.active { display: block; }
  .progress { background: #334155; border-radius: 6px; height: 12px; overflow: hidden; }
  #progressBar { background: #ff6b35; height: 100%; width: 0; transition: width .3s; }
  .tab-content { display: none; }
  .tab-content.active { display: block; }
  #notifications { position: fixed; top: 1rem; right: 1rem; display: flex; flex-direction: column; gap: .5rem; }
  .notification { padding: .75rem 1rem; border-radius: 6px; background: #3742fa; }
  .notification.success { background: #2ed573; }
  .notification.error { background: #ff4757; }
</style>
</head>
<body>
<nav>
  {{range .Nav}}<a href="/?section={{.Section}}" class="nav-link{{if .Active}} active{{end}}" data-section="{{.Section}}">{{.Label}}</a>
  {{end}}
</nav>

<section id="home" class="section{{if eq .Section "home"}} active{{end}}">
  <h1>Descubra o avatar ideal do seu lançamento</h1>
  <p>Informe seu nicho e receba avatar, posicionamento, materiais de marketing, métricas projetadas, concorrência e funil.</p>
  <a href="/?section=analyzer" class="nav-link active" data-section="analyzer">Começar análise</a>
</section>

<section id="analyzer" class="section{{if eq .Section "analyzer"}} active{{end}}">
  <h2>Analisador de Nicho</h2>
  <form id="analyzerForm" method="post" action="/analyze">
    <label>Nicho de atuação <input type="text" name="nicho" id="nicho"></label>
    <label>Produto <input type="text" name="produto"></label>
    <label>Descrição <textarea name="descricao"></textarea></label>
    <label>Preço <input type="text" name="preco"></label>
    <label>Público-alvo <input type="text" name="publico"></label>
    <label>Concorrentes <textarea name="concorrentes"></textarea></label>
    <label>Dados adicionais <textarea name="dados_adicionais"></textarea></label>
    <label>Objetivo de receita <input type="text" name="objetivo_receita"></label>
    <label>Prazo de lançamento <input type="text" name="prazo_lancamento"></label>
    <label>Orçamento de marketing <input type="text" name="orcamento_marketing"></label>
    <button type="submit" id="submitButton">Analisar</button>
  </form>
</section>

<section id="results" class="section{{if eq .Section "results"}} active{{end}}">
  <div id="loadingState" style="display: {{if .Snapshot.Loading}}block{{else}}none{{end}}">
    <div class="progress"><div id="progressBar" style="width: {{.Snapshot.Progress.Percent}}%"></div></div>
    <p><span id="progressText">{{.Snapshot.Progress.Percent}}%</span> <span id="loadingText">{{.Snapshot.Progress.Label}}</span></p>
  </div>
  <div id="resultsContainer" style="display: {{if .Results}}block{{else}}none{{end}}">{{.Results}}</div>
</section>

<div id="notifications"></div>

<script>
(function () {
  var ttl = {{.NotificationTTL}};
  var shared = {{.Shared}};

  function notify(n) {
    var el = document.createElement("div");
    el.className = "notification " + n.type;
    el.textContent = n.message;
    document.getElementById("notifications").appendChild(el);
    setTimeout(function () { el.remove(); }, ttl);
  }

  function showSection(name) {
    document.querySelectorAll(".section").forEach(function (s) { s.classList.toggle("active", s.id === name); });
    document.querySelectorAll("nav .nav-link").forEach(function (a) { a.classList.toggle("active", a.dataset.section === name); });
  }

  function drain() {
    return fetch("/state").then(function (r) { return r.json(); }).then(function (s) {
      (s.notifications || []).forEach(notify);
      return s;
    });
  }

  function progress(step) {
    document.getElementById("progressBar").style.width = step.percent + "%";
    document.getElementById("progressText").textContent = step.percent + "%";
    document.getElementById("loadingText").textContent = step.label;
  }

  function loadResults() {
    return fetch("/results").then(function (r) {
      if (!r.ok) { return drain(); }
      return r.text().then(function (html) {
        var box = document.getElementById("resultsContainer");
        box.innerHTML = html;
        box.style.display = "block";
      });
    });
  }

  function watch() {
    var es = new EventSource("/progress");
    es.addEventListener("state", function (e) {
      var s = JSON.parse(e.data);
      document.getElementById("loadingState").style.display = s.loading ? "block" : "none";
      if (s.loading && s.progress.percent) { progress(s.progress); }
    });
    es.addEventListener("notification", function (e) { notify(JSON.parse(e.data)); });
    es.addEventListener("done", function (e) {
      es.close();
      if (JSON.parse(e.data).results_ready) { loadResults(); }
    });
  }

  function exportPDF() {
    fetch("/export/pdf").then(function (r) {
      if (r.headers.get("X-Export-Fallback") === "print") {
        window.open("/export/print", "_blank");
        return drain();
      }
      if (!r.ok) { return drain(); }
      var disposition = (r.headers.get("Content-Disposition") || "").split('filename="')[1];
      var name = disposition ? disposition.split('"')[0] : "analise-avatar.pdf";
      return r.blob().then(function (blob) {
        var a = document.createElement("a");
        a.href = URL.createObjectURL(blob);
        a.download = name;
        document.body.appendChild(a);
        a.click();
        a.remove();
        URL.revokeObjectURL(a.href);
        return drain();
      });
    });
  }

  document.querySelectorAll("[data-section]").forEach(function (a) {
    a.addEventListener("click", function (e) {
      if (shared) { return; }
      e.preventDefault();
      fetch("/section/" + a.dataset.section, { method: "POST" }).then(function (r) {
        if (r.ok) { showSection(a.dataset.section); }
      });
    });
  });

  var form = document.getElementById("analyzerForm");
  form.addEventListener("submit", function (e) {
    e.preventDefault();
    var data = Object.fromEntries(new FormData(form).entries());
    fetch("/analyze", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(data)
    }).then(function (r) {
      if (r.status === 202) {
        showSection("results");
        document.getElementById("resultsContainer").style.display = "none";
        watch();
      }
      return drain();
    });
  });

  document.addEventListener("click", function (e) {
    var tab = e.target.closest(".tab-btn");
    if (tab) {
      document.querySelectorAll(".tab-btn").forEach(function (b) { b.classList.toggle("active", b === tab); });
      document.querySelectorAll(".tab-content").forEach(function (c) { c.classList.toggle("active", c.id === tab.dataset.tab + "-content"); });
      return;
    }
    var action = e.target.closest("[data-action]");
    if (!action) { return; }
    switch (action.dataset.action) {
    case "download":
      window.location = "/export/text";
      setTimeout(drain, 500);
      break;
    case "pdf":
      exportPDF();
      break;
    case "share":
      fetch("/share", {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify({ native: !!navigator.share })
      }).then(function (r) { return r.ok ? r.json() : null; }).then(function (s) {
        if (s && s.mode === "native") {
          navigator.share({ title: s.title, text: s.text, url: s.url });
        } else if (s) {
          navigator.clipboard.writeText(s.url);
        }
        return drain();
      });
      break;
    }
  });

})();
</script>
</body>
</html>
`
