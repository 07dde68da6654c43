// Package render turns the ideas and movers documents into page regions.
//
// All document values reach the page through html/template, which escapes
// them for their context (text, attribute, URL). No fragment is assembled by
// string concatenation.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/bobmcallan/filing-ideas/internal/common"
)

var funcs = template.FuncMap{
	"pct": common.FormatPercent,
	"num": common.FormatNumber,
}

var statsTmpl = template.Must(template.New("stats").Funcs(funcs).Parse(
	`<b>Idea buckets</b>` +
		`{{range .}}<div class="bucket-line">{{.Bucket}}: <b>{{.Count}}</b></div>{{end}}`))

var listTmpl = template.Must(template.New("list").Funcs(funcs).Parse(
	`{{range .}}<article class="card">` +
		`<b class="ticker">{{.Ticker}}</b> — <span class="bucket">{{.Bucket}}</span><br>` +
		`<small class="meta">Score: {{num .Score}} | {{.FormType}} | {{.FiledDate}}</small>` +
		`<p class="why-now">{{.WhyNow}}</p>` +
		`<a class="filing" href="{{.FilingURL}}" target="_blank" rel="noopener noreferrer">SEC Filing</a>` +
		`</article>{{end}}`))

var notFoundTmpl = template.Must(template.New("not-found").Funcs(funcs).Parse(
	`No &gt;{{num .Threshold}}% 1-day jump detected for <b>{{.Ticker}}</b> in the last {{.Lookback}} trading days.`))

var moverTmpl = template.Must(template.New("mover").Funcs(funcs).Parse(
	`<div class="mover-head">` +
		`<div class="mover-ticker">{{.Ticker}}</div>` +
		`<span class="badge">{{if .NoObviousNews}}No obvious headlines{{else}}Headlines found{{end}}</span>` +
		`<div class="jump-day">Jump day: <b>{{.JumpDate}}</b></div>` +
		`</div>` +
		`<div class="mover-stats">` +
		`<div class="one-day">1D jump: <b>{{pct .OneDayJump}}</b></div>` +
		`<div class="five-day">5D move: <b>{{pct .FiveDayMove}}</b></div>` +
		`<div class="news-hits">News hits (window): <b>{{.NewsHits}}</b></div>` +
		`</div>` +
		`<div class="mover-news">` +
		`<div class="mover-news-title">Top headlines found before jump</div>` +
		`{{if .TopHeadlines}}<ul class="headlines">{{range .TopHeadlines}}` +
		`<li><a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Title}}</a> <span class="published">({{.Published}})</span></li>` +
		`{{end}}</ul>` +
		`{{else}}<div class="no-headlines">None returned by the news scan in the window before the jump.</div>{{end}}` +
		`</div>`))

func execute(t *template.Template, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return template.HTML(buf.String()), nil
}
