package overlay

import (
	"bytes"
	"html/template"

	"github.com/donation-wallet/internal/money"
)

var pageTemplate = template.Must(template.New("overlay").Parse(`<!DOCTYPE html>
<html lang="tr">
<head>
<meta charset="utf-8">
<title>Bağışlar</title>
<style>
body { margin: 0; min-height: 100vh; display: flex; align-items: center; justify-content: center; background: transparent; color: #fff; font-family: system-ui, sans-serif; }
main { width: 100%; max-width: 42rem; padding: 4rem 1.5rem; }
.panel { border: 1px solid rgba(255,255,255,.2); background: rgba(15,23,42,.8); border-radius: 1.5rem; padding: 1.25rem 1.5rem; }
.notice { margin-bottom: 1rem; color: #fecaca; }
.empty { text-align: center; color: rgba(255,255,255,.8); }
ul { list-style: none; margin: 0; padding: 0; }
li { display: flex; justify-content: space-between; gap: 1.5rem; margin-bottom: 1rem; opacity: 0; animation-name: fadeInUp; animation-timing-function: ease; animation-fill-mode: forwards; }
.name { font-size: 1.5rem; font-weight: 600; }
.amount { font-size: 1.875rem; font-weight: 700; }
.total { text-align: right; font-weight: 700; }
@keyframes fadeInUp { from { transform: translateY(20px); opacity: 0; } to { transform: translateY(0); opacity: 1; } }
</style>
</head>
<body data-state="{{.State}}">
<main>
{{- if .Notice}}
<div class="panel notice" role="status">{{.Notice}}</div>
{{- end}}
{{- if .Rows}}
<ul>
{{- range .Rows}}
<li class="panel" data-id="{{.ID}}" style="animation-delay: {{.DelayMS}}ms; animation-duration: {{.DurationMS}}ms">
<span class="name">{{.Name}}</span>
<span class="amount">{{.Amount}}</span>
</li>
{{- end}}
</ul>
<div class="panel total">Toplam {{.Total}}</div>
{{- else}}
<div class="panel empty">Seçili bağış yok.</div>
{{- end}}
</main>
</body>
</html>
`))

type pageRow struct {
	ID         string
	Name       string
	Amount     string
	DelayMS    int64
	DurationMS int64
}

type pageData struct {
	State  string
	Notice string
	Rows   []pageRow
	Total  string
}

// renderPage drains the frame's reveal into HTML. Amounts are formatted in
// currency here and nowhere earlier.
func renderPage(frame *Frame, currency string) ([]byte, error) {
	data := pageData{
		State:  frame.State.String(),
		Notice: frame.Notice,
		Total:  money.Format(frame.Total, currency),
	}
	for _, row := range frame.Reveal().Drain() {
		data.Rows = append(data.Rows, pageRow{
			ID:         row.Donation.ID,
			Name:       row.Donation.DisplayName(),
			Amount:     money.Format(row.Donation.Amount, currency),
			DelayMS:    row.Delay.Milliseconds(),
			DurationMS: row.Duration.Milliseconds(),
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
