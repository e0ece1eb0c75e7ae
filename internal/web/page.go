package web

import (
	"html/template"
	"strconv"

	"github.com/f3rmion/custseg/internal/record"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Customer Segmentation Dashboard</title>
<style>
body { margin: 0; font-family: sans-serif; display: flex; background: #1a1a2e; color: #f1faee; }
aside { width: 22rem; padding: 1rem; background: #2d3436; min-height: 100vh; }
main { flex: 1; padding: 1.5rem 2rem; }
h1 { color: #ff6b6b; }
label { display: block; margin-top: .75rem; color: #a8dadc; }
input, select { width: 100%; }
output { color: #ffe66d; }
summary { cursor: pointer; color: #4ecdc4; font-weight: bold; }
table { border-collapse: collapse; margin-top: .5rem; }
td { padding: .1rem 1rem .1rem 0; }
button { margin-top: 1.5rem; padding: .5rem 1.5rem; font-size: 1rem; }
.success { margin-top: 1rem; padding: .75rem; background: #a8e6cf; color: #1a1a2e; }
.error { margin-top: 1rem; padding: .75rem; background: #ff6b6b; color: #1a1a2e; }
.error pre { white-space: pre-wrap; }
</style>
</head>
<body>
<form method="post" action="/predict" style="display: contents">
<aside>
<h2>📋 Enter Customer Information</h2>
{{range .Controls}}
<label for="{{.Name}}">{{.Label}}</label>
{{- if .Options}}
<select id="{{.Name}}" name="{{.Name}}">
{{- range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}
</select>
{{- else if .Number}}
<input type="number" id="{{.Name}}" name="{{.Name}}" min="{{.Min}}" max="{{.Max}}" step="{{.Step}}" value="{{.Value}}">
{{- else}}
<input type="range" id="{{.Name}}" name="{{.Name}}" min="{{.Min}}" max="{{.Max}}" step="{{.Step}}" value="{{.Value}}" oninput="this.nextElementSibling.value = this.value">
<output>{{.Value}}</output>
{{- end}}
{{end}}
</aside>
<main>
<h1>🎯 Customer Segmentation Dashboard</h1>
<p>Use the sidebar to enter customer details; the model predicts the customer segment they belong to.</p>
<details>
<summary>🔍 Review Entered Customer Information</summary>
<table>
{{range .Review}}<tr><td>{{.Name}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
</details>
<button type="submit">🔎 Predict Customer Segment</button>
{{with .Result}}
{{if .Err}}
<div class="error">❌ Sorry, something went wrong during the prediction.<pre>{{.Err}}</pre></div>
{{else}}
<div class="success">🎉 The predicted customer segment is: <strong>{{.Label}}</strong></div>
{{end}}
{{end}}
</main>
</form>
</body>
</html>
`))

type pageData struct {
	Controls []control
	Review   []record.Column
	Result   *pageResult
}

type control struct {
	Name    string
	Label   string
	Value   string
	Min     int
	Max     int
	Step    int
	Number  bool
	Options []option
}

type option struct {
	Value    string
	Selected bool
}

type pageResult struct {
	Label string
	Err   string
}

// newPageData builds the view of form f.
func newPageData(f record.Form) pageData {
	fields := record.Fields()
	data := pageData{
		Controls: make([]control, len(fields)),
		Review:   f.Record().Columns(),
	}

	for i, fd := range fields {
		c := control{
			Name:   fd.Name,
			Label:  fd.Label,
			Value:  f.Text(i),
			Min:    fd.Min,
			Max:    fd.Max,
			Step:   fd.Step,
			Number: fd.Control == record.ControlNumber,
		}
		if fd.Control == record.ControlSelect {
			for v := fd.Lower(); v <= fd.Upper(); v++ {
				text := strconv.Itoa(v)
				if fd.Kind == record.KindCategorical {
					text = fd.Options[v]
				}
				c.Options = append(c.Options, option{Value: text, Selected: v == f.Raw(i)})
			}
		}
		data.Controls[i] = c
	}
	return data
}
