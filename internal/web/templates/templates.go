// Package templates renders the server's HTML as templ components.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// IndexData configures the upload page.
type IndexData struct {
	MaxFilesPerCategory int
	MaxFileSizeMB       int64
	Extensions          []string
	Categories          []string
}

// IndexPage is the upload form. The inline script posts the form to the
// batch API and renders the summary with export links.
func IndexPage(d IndexData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		accept := templ.EscapeString(strings.Join(d.Extensions, ","))

		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<title>CKH / KKH merge</title>`)
		b.WriteString(`<style>body{font-family:sans-serif;max-width:56rem;margin:2rem auto}label{display:block;margin:.75rem 0}.alert{border:1px solid #c00;padding:.5rem;color:#900}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.2rem .4rem}</style>`)
		b.WriteString(`</head><body><h1>CKH / KKH merge</h1>`)
		b.WriteString(`<form id="batch" method="post" action="/api/batches" enctype="multipart/form-data">`)
		for _, c := range d.Categories {
			field := templ.EscapeString(strings.ToLower(c))
			fmt.Fprintf(&b, `<label>%s files <input type="file" name="%s" accept="%s" multiple></label>`,
				templ.EscapeString(c), field, accept)
		}
		fmt.Fprintf(&b, `<p>Up to %d files per group, %d MB each (%s).</p>`,
			d.MaxFilesPerCategory, d.MaxFileSizeMB, accept)
		b.WriteString(`<button type="submit">Merge</button></form><div id="result"></div>`)
		b.WriteString(indexScript)
		b.WriteString(`</body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert" role="alert"><strong>%s</strong> <span>%s</span> <small>(Code: %s)</small></div>`,
			templ.EscapeString(message), templ.EscapeString(action), templ.EscapeString(code))
		return err
	})
}

const indexScript = `<script>
document.getElementById("batch").addEventListener("submit", async (ev) => {
  ev.preventDefault();
  const out = document.getElementById("result");
  const esc = (s) => String(s ?? "").replace(/[&<>"]/g, (c) => ({"&":"&amp;","<":"&lt;",">":"&gt;","\"":"&quot;"}[c]));
  out.textContent = "Merging...";
  const res = await fetch("/api/batches", {method: "POST", body: new FormData(ev.target)});
  const body = await res.json();
  let html = "";
  if (!res.ok) {
    html += "<div class=alert>" + esc(body.message) + " (Code: " + esc(body.code) + ")</div>";
  } else {
    const base = "/api/batches/" + encodeURIComponent(body.batch_id);
    html += "<p>" + body.total_rows + " rows from " + body.tables_read + " of " + body.files_seen + " files. Default column: <b>" + esc(body.default_column) + "</b></p>";
    html += "<p><a href='" + base + "/export/all'>Download all</a></p>";
    html += "<form action='" + base + "/export/filtered'><select name=column>";
    for (const c of body.columns) html += "<option" + (c === body.default_column ? " selected" : "") + ">" + esc(c) + "</option>";
    html += "</select> <input name=q placeholder='1201,1305'> <label style='display:inline'><input type=checkbox name=exact value=true checked> exact codes</label> <button>Download filtered</button></form>";
  }
  for (const f of body.failures || []) html += "<div class=alert>Skipped " + esc(f.file_name) + ": " + esc(f.reason) + " (Code: " + esc(f.code) + ")</div>";
  out.innerHTML = html;
});
</script>`
