package http

import (
	"html/template"
	"io"
	"math"
	"strconv"
)

// Slider describes one range input on the form.
type Slider struct {
	Name    string
	Label   string
	Min     string
	Max     string
	Step    string
	Default string
	// Display is the initial text next to the slider when it differs from Default.
	Display string
}

// Sliders lists the form inputs in feature order X1..X10.
var Sliders = []Slider{
	{Name: "X1", Label: "Problem Size", Min: "1028", Max: "99991", Default: "50000"},
	{Name: "X2", Label: "Threads", Min: "32", Max: "1024", Default: "528"},
	{Name: "X3", Label: "Blocks", Min: "1", Max: "32", Default: "16"},
	{Name: "X4", Label: "Grids", Min: "1", Max: "32", Default: "16"},
	{Name: "X5", Label: "CPU+GPU Cores", Min: "16", Max: "512", Default: "128"},
	{Name: "X6", Label: "Iterations", Min: "100", Max: "10000", Default: "5000"},
	{Name: "X7", Label: "Clock Rate (GHz)", Min: "1", Max: "3", Step: "0.1", Default: "2"},
	{Name: "X8", Label: "FLOPS", Min: "100245008771", Max: "1999736918795", Step: "100000000000", Default: "1000000000000", Display: "1.0e12"},
	{Name: "X9", Label: "Bandwidth (GB/s)", Min: "10", Max: "49", Default: "30"},
	{Name: "X10", Label: "PCI-e Bandwidth", Min: "8", Max: "31", Default: "16"},
}

// PageData is everything the page depends on. Values maps slider name to
// the raw value to show; missing names fall back to the slider default.
type PageData struct {
	Values     map[string]string
	Prediction *float64
}

type sliderView struct {
	Slider
	Value   string
	Shown   string
	OnInput template.JS
}

type pageView struct {
	Sliders    []sliderView
	Prediction string
	HasResult  bool
}

// FormatPrediction rounds half away from zero to two decimals and always
// prints two fractional digits.
func FormatPrediction(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
}

// RenderPage writes the form page. It reads nothing but data.
func RenderPage(w io.Writer, data PageData) error {
	view := pageView{Sliders: make([]sliderView, len(Sliders))}
	for i, s := range Sliders {
		value, shown := s.Default, s.Display
		if shown == "" {
			shown = s.Default
		}
		if v, ok := data.Values[s.Name]; ok {
			value, shown = v, v
		}
		view.Sliders[i] = sliderView{
			Slider:  s,
			Value:   value,
			Shown:   shown,
			OnInput: template.JS("out" + s.Name + ".innerText = this.value"),
		}
	}
	if data.Prediction != nil {
		view.HasResult = true
		view.Prediction = FormatPrediction(*data.Prediction)
	}
	return pageTemplate.Execute(w, view)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>HPC Predictor</title>
    <style>
        body {
            font-family: 'Segoe UI', sans-serif;
            background: linear-gradient(to right, #4facfe, #00f2fe);
            padding: 40px;
            color: #333;
        }
        .container {
            background: white;
            padding: 30px;
            border-radius: 12px;
            max-width: 700px;
            margin: auto;
            box-shadow: 0 6px 16px rgba(0,0,0,0.2);
        }
        h2, h3 { text-align: center; }
        label { display: block; margin-top: 15px; }
        input[type=range] { width: 100%; }
        span.output { font-weight: bold; color: #0066cc; }
        button {
            margin-top: 25px;
            width: 100%;
            padding: 12px;
            font-size: 16px;
            background-color: #0066cc;
            color: white;
            border: none;
            border-radius: 6px;
        }
        button:hover { background-color: #004999; }
    </style>
</head>
<body>
    <div class="container">
        <h2>HPC Execution Time Predictor</h2>
        <form method="post">
{{- range .Sliders}}
            <label>{{.Name}}: {{.Label}} <span id="out{{.Name}}" class="output">{{.Shown}}</span></label>
            <input type="range" name="{{.Name}}" id="{{.Name}}" min="{{.Min}}" max="{{.Max}}"{{if .Step}} step="{{.Step}}"{{end}} value="{{.Value}}" oninput="{{.OnInput}}">
{{- end}}

            <button type="submit">Predict Execution Time</button>
        </form>
{{- if .HasResult}}
        <h3>Predicted Execution Time: {{.Prediction}} seconds</h3>
{{- end}}
    </div>
</body>
</html>
`))
