package templates

import "embed"

//go:embed *.html
var FS embed.FS

const SlipTemplate = "slip_template.html"
