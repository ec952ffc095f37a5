package server

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>TickerScope</title>
<style>
body { font-family: sans-serif; margin: 1.5em; }
form { display: flex; gap: 1.2em; align-items: center; flex-wrap: wrap; }
.error { color: #b00020; margin: 0.8em 0; }
iframe { border: 0; width: 100%; height: 1150px; }
</style>
</head>
<body>
<form method="get" action="/">
  <input type="text" name="ticker" value="{{.Request.Ticker}}">
  <span>
  <input type="hidden" name="ma" value="">
  {{range .AllowedWindows}}<label><input type="checkbox" name="ma" value="{{.}}"{{if index $.Selected .}} checked{{end}}> {{.}}</label> {{end}}
  </span>
  <label><input type="checkbox" name="rsi" value="true"{{if .Request.IncludeRSI}} checked{{end}}> Include RSI</label>
  <input type="date" name="start" min="{{.MinDate}}" max="{{.MaxDate}}" value="{{.Request.Start.Format "2006-01-02"}}">
  <input type="date" name="end" min="{{.MinDate}}" max="{{.MaxDate}}" value="{{.Request.End.Format "2006-01-02"}}">
  <button type="submit">Update</button>
</form>
{{if .Error}}<div class="error">{{.Error}}</div>{{else}}<iframe src="{{.ChartSrc}}"></iframe>{{end}}
</body>
</html>
`
