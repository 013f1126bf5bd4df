package cmd

// defaultAppHTML is the app.html shell used when no --app-html-template
// flag is given: every client script and stylesheet manifest URL, in
// load order, plus the head/body fragment slots packages may contribute.
const defaultAppHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
{{ range .Stylesheets }}<link rel="stylesheet" href="{{ . }}">
{{ end }}{{ .HeadExtra }}
</head>
<body>
{{ .BodyExtra }}
{{ range .Scripts }}<script src="{{ . }}"></script>
{{ end }}</body>
</html>
`
