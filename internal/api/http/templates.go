package httpapi

// ── Base layout ───────────────────────────────────────────────────────────────

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}} · DInSAR dashboard</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:system-ui,sans-serif;background:#0d1117;color:#c9d1d9;font-size:14px;line-height:1.5}
a{color:#58a6ff;text-decoration:none}
a:hover{text-decoration:underline}
nav{background:#161b22;border-bottom:1px solid #30363d;padding:8px 16px;display:flex;gap:16px;align-items:center;flex-wrap:wrap}
nav .brand{color:#f0f6fc;font-weight:700;font-size:15px;margin-right:8px}
nav a{color:#8b949e;padding:4px 8px;border-radius:4px}
nav a.active{color:#f0f6fc;background:#21262d}
main{padding:16px;max-width:1200px}
h1{font-size:18px;font-weight:700;color:#f0f6fc;margin-bottom:12px}
h2{font-size:13px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.06em;margin:16px 0 8px}
p{margin-bottom:8px}
.cards{display:flex;gap:12px;flex-wrap:wrap;margin-bottom:16px}
.card{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:12px 16px;min-width:140px}
.card .val{font-size:20px;font-weight:700;color:#f0f6fc}
.card .lbl{font-size:11px;color:#8b949e;margin-top:2px}
table{width:100%;border-collapse:collapse;font-size:12px}
th{text-align:left;padding:6px 10px;border-bottom:1px solid #30363d;color:#8b949e;font-weight:600;font-size:11px;text-transform:uppercase}
td{padding:5px 10px;border-bottom:1px solid #21262d;vertical-align:top}
.section{background:#161b22;border:1px solid #30363d;border-radius:6px;margin-bottom:16px;overflow:hidden}
.section-hdr{padding:8px 12px;border-bottom:1px solid #30363d;font-size:11px;font-weight:600;color:#8b949e;text-transform:uppercase;background:#0d1117}
.chart{background:#fff;display:block;max-width:100%}
.dim{color:#8b949e}
.warn{color:#f59e0b}
.err{color:#f87171}
.warnings{list-style:none;margin-bottom:12px}
.warnings li{padding:4px 8px;border-left:3px solid currentColor;margin-bottom:4px;background:#161b22}
.filters{display:flex;gap:8px;flex-wrap:wrap;align-items:flex-start;margin-bottom:12px;background:#161b22;padding:8px 12px;border-radius:6px;border:1px solid #30363d}
.filters label{font-size:11px;color:#8b949e}
.filters select{background:#0d1117;border:1px solid #30363d;color:#c9d1d9;border-radius:4px;padding:3px 6px;font-size:12px}
.filters button{background:#1f6feb;border:none;color:#fff;padding:4px 12px;border-radius:4px;cursor:pointer;font-size:12px}
details{margin-bottom:16px}
summary{cursor:pointer;color:#8b949e}
footer{padding:16px;color:#8b949e;font-size:12px;border-top:1px solid #30363d}
</style>
</head>
<body>
<nav>
  <span class="brand">DInSAR</span>
  <a href="/" {{if eq .Active "home"}}class="active"{{end}}>Home</a>
  <a href="/displacement" {{if eq .Active "displacement"}}class="active"{{end}}>Displacement</a>
  <a href="/precipitation" {{if eq .Active "precipitation"}}class="active"{{end}}>Precipitation</a>
  <a href="/combined" {{if eq .Active "combined"}}class="active"{{end}}>Combined</a>
</nav>
<main>
<h1>{{.Title}}</h1>
{{template "warnings" .}}
{{template "content" .}}
</main>
<footer>Displacement and rainfall measurements. Load {{.Report.ID}} · {{fmtTime .Report.StartedAt}}</footer>
</body>
</html>{{end}}

{{define "warnings"}}{{if .Warnings}}<ul class="warnings">
{{range .Warnings}}<li class="{{warnClass .Code}}">{{.Message}}{{if .Source}} <span class="dim">({{.Source}})</span>{{end}}</li>
{{end}}</ul>{{end}}{{end}}

{{define "filters"}}<form class="filters" method="get">
  <label>Run<br>
    <select name="run">
      {{if not .Sensors}}<option value="">All runs</option>{{end}}
      {{range .Runs}}<option value="{{.}}" {{if isRun . $.SelectedRun}}selected{{end}}>Run {{.}}</option>{{end}}
    </select>
  </label>
  {{if .Sensors}}<label>Sensors<br>
    <select name="sensor" multiple size="6">
      {{range .Sensors}}<option value="{{.Name}}" {{if .Selected}}selected{{end}}>{{.Name}}</option>{{end}}
    </select>
  </label>{{end}}
  <button type="submit">Apply</button>
</form>{{end}}

{{define "rejected"}}{{range .Report.Sources}}{{if .Rejected}}
<details>
  <summary>{{len .Rejected}} rejected row(s) in {{.Source}}</summary>
  <table>
    <tr><th>Line</th><th>Reason</th><th>Fields</th></tr>
    {{range .Rejected}}<tr><td>{{.Line}}</td><td>{{.Reason}}</td><td class="dim">{{range $k, $v := .Fields}}{{$k}}={{$v}} {{end}}</td></tr>{{end}}
  </table>
</details>
{{end}}{{end}}{{end}}
`

// ── Pages ─────────────────────────────────────────────────────────────────────

const tmplIndex = `
{{define "content"}}
<p>This dashboard explores ground displacement measured with DInSAR together with the rainfall recorded for each measurement run.
Pick a run and a set of sensors to follow displacement trends, the largest changes per sensor and how they line up with precipitation.</p>
<div class="cards">
  <div class="card"><div class="val">{{len .Catalog}}</div><div class="lbl">runs</div></div>
  <div class="card"><div class="val">{{.Report.DisplacementRows}}</div><div class="lbl">displacement rows</div></div>
  <div class="card"><div class="val">{{.Report.PrecipitationRows}}</div><div class="lbl">rainfall rows</div></div>
  <div class="card"><div class="val">{{fmtDur .Report.Duration}}</div><div class="lbl">load time</div></div>
</div>
<div class="section">
  <div class="section-hdr">Runs</div>
  <table>
    <tr><th>Run</th><th>Sensors</th><th></th></tr>
    {{range .Catalog}}<tr>
      <td>{{.RunID}}</td>
      <td class="dim">{{join .Sensors ", "}}</td>
      <td><a href="/displacement?run={{.RunID}}">displacement</a> · <a href="/combined?run={{.RunID}}">combined</a></td>
    </tr>{{end}}
  </table>
</div>
<div class="section">
  <div class="section-hdr">Sources</div>
  <table>
    <tr><th>Source</th><th>Dataset</th><th>Read</th><th>Accepted</th><th>Missing values</th><th>Dropped columns</th></tr>
    {{range .Report.Sources}}<tr>
      <td>{{.Source}}{{if .Error}} <span class="err">{{.Error}}</span>{{end}}</td>
      <td>{{.Dataset}}</td><td>{{.RowsRead}}</td><td>{{.RowsAccepted}}</td><td>{{.MissingValues}}</td>
      <td class="dim">{{join .DroppedColumns ", "}}</td>
    </tr>{{end}}
  </table>
</div>
{{template "rejected" .}}
{{end}}
`

const tmplDisplacement = `
{{define "content"}}
{{template "filters" .}}
{{with .Displacement}}{{if not .Empty}}
<div class="cards">
  <div class="card"><div class="val">{{len .Readings}}</div><div class="lbl">readings</div></div>
  <div class="card"><div class="val">{{len .Selection.Sensors}}</div><div class="lbl">sensors</div></div>
  {{with .Peak}}<div class="card"><div class="val">{{fmtDate .Date}}</div><div class="lbl">highest average ({{fmtMM .DisplacementMM}} mm)</div></div>{{end}}
</div>
<img class="chart" src="{{chartURL "displacement" $.Query}}" alt="Displacement by sensor">
<h2>Largest change per sensor</h2>
<div class="section">
  <table>
    <tr><th>Sensor</th><th>From</th><th>To</th><th>Change (mm)</th><th>Days</th><th>Rate (mm/day)</th></tr>
    {{range .Events}}<tr><td>{{.Sensor}}</td><td>{{fmtDate .PreviousDate}}</td><td>{{fmtDate .Date}}</td><td>{{fmtMM .DeltaMM}}</td><td>{{.ElapsedDays}}</td><td>{{fmtOpt .RateMMPerDay}}</td></tr>{{end}}
  </table>
</div>
<h2>Sensor summary</h2>
<div class="section">
  <table>
    <tr><th>Sensor</th><th>Count</th><th>Mean</th><th>Min</th><th>Max</th><th>Std dev</th></tr>
    {{range .Summaries}}<tr><td>{{.Sensor}}</td><td>{{.Count}}</td><td>{{fmtMM .Mean}}</td><td>{{fmtMM .Min}}</td><td>{{fmtMM .Max}}</td><td>{{fmtMM .StdDev}}</td></tr>{{end}}
  </table>
</div>
<details>
  <summary>Filtered data</summary>
  <table>
    <tr><th>Date</th><th>Point</th><th>Sensor</th><th>Displacement (mm)</th></tr>
    {{range .Readings}}<tr><td>{{fmtDate .Date}}</td><td>{{.PointID}}</td><td>{{.Sensor}}</td><td>{{fmtOpt .DisplacementMM}}</td></tr>{{end}}
  </table>
</details>
{{end}}{{end}}
{{template "rejected" .}}
{{end}}
`

const tmplPrecipitation = `
{{define "content"}}
<p class="dim">Only days with recorded rainfall are plotted, one line per run.</p>
{{template "filters" .}}
{{with .Precipitation}}{{if not .Empty}}
<img class="chart" src="{{chartURL "precipitation" $.Query}}" alt="Rainfall by run">
<h2>Monthly totals</h2>
<img class="chart" src="{{chartURL "monthly-rainfall" $.Query}}" alt="Monthly rainfall">
<div class="section">
  <table>
    <tr><th>Month</th><th>Total (mm)</th><th>Readings</th></tr>
    {{range .Monthly}}<tr><td>{{fmtMonth .Month}}</td><td>{{fmtMM .RainfallMM}}</td><td>{{.Readings}}</td></tr>{{end}}
  </table>
</div>
<details>
  <summary>Filtered data</summary>
  <table>
    <tr><th>Date</th><th>Rainfall (mm)</th><th>Run</th></tr>
    {{range .Readings}}<tr><td>{{fmtDate .Date}}</td><td>{{fmtOpt .RainfallMM}}</td><td>{{.RunID}}</td></tr>{{end}}
  </table>
</details>
{{end}}{{end}}
{{template "rejected" .}}
{{end}}
`

const tmplCombined = `
{{define "content"}}
{{template "filters" .}}
{{with .Combined}}{{if not .Empty}}
<img class="chart" src="{{chartURL "combined" $.Query}}" alt="Displacement and rainfall">
<p class="dim">{{len .Displacement}} displacement readings and {{len .Rainfall}} rainfall days{{if .From}} between {{fmtDate .From}} and {{fmtDate .To}}{{end}}.</p>
{{end}}{{end}}
{{template "rejected" .}}
{{end}}
`

const tmplError = `
{{define "content"}}
<p class="err">{{.Message}}</p>
<p class="dim">HTTP {{.Status}}</p>
{{end}}
`
