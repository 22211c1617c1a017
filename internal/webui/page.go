// Package webui serves the single-page demo surface: a document URL input,
// an Analyze trigger, and a per-field result table.
package webui

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register attaches the demo page to the engine root.
func Register(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	})
}

const page = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>CV Analyzer</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 3rem auto; padding: 0 1rem; }
input[type=url] { width: 100%; padding: 0.5rem; box-sizing: border-box; }
button { margin-top: 0.75rem; padding: 0.5rem 1.5rem; }
table { width: 100%; margin-top: 1.5rem; border-collapse: collapse; }
td, th { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #ddd; }
.missing { color: #999; font-style: italic; }
.banner { margin-top: 1.5rem; padding: 0.75rem 1rem; border-radius: 4px; }
.banner.error { background: #fdecea; color: #b71c1c; }
.banner.busy { background: #e8f0fe; color: #1a3c7a; }
</style>
</head>
<body>
<h1>CV Analyzer</h1>
<p>Enter a document URL. The fields <b>education</b>, <b>language</b> and
<b>work_skills</b> are extracted with their confidence scores.</p>
<input id="url" type="url" placeholder="https://example.com/sample.pdf" value="https://example.com/sample.pdf">
<button id="go">Analyze</button>
<div id="out"></div>
<script>
const out = document.getElementById('out');
document.getElementById('go').addEventListener('click', async () => {
  const url = document.getElementById('url').value.trim();
  if (!url) return;
  out.innerHTML = '<div class="banner busy">Analyzing, please wait&hellip;</div>';
  try {
    const resp = await fetch('/api/v1/analyses', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify({documentUrl: url}),
    });
    const data = await resp.json();
    if (!resp.ok) {
      const msg = data.error ? data.error.message : resp.statusText;
      out.innerHTML = '<div class="banner error"></div>';
      out.firstChild.textContent = 'Error: ' + msg;
      return;
    }
    const table = document.createElement('table');
    table.innerHTML = '<tr><th>Field</th><th>Value</th><th>Confidence</th></tr>';
    for (const name of ['education', 'language', 'work_skills']) {
      const f = data.fields[name];
      const row = table.insertRow();
      row.insertCell().textContent = name;
      if (!f || f.missing) {
        const cell = row.insertCell();
        cell.colSpan = 2;
        cell.className = 'missing';
        cell.textContent = 'not found';
      } else {
        row.insertCell().textContent = f.value;
        row.insertCell().textContent = f.confidence === null ? 'n/a' : String(f.confidence);
      }
    }
    out.innerHTML = '';
    out.appendChild(table);
  } catch (err) {
    out.innerHTML = '<div class="banner error"></div>';
    out.firstChild.textContent = 'Error: ' + err;
  }
});
</script>
</body>
</html>
`
