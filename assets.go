package middlemark

import "embed"

// Templates holds the HTML templates rendered by the web app.
//
//go:embed tmpl
var Templates embed.FS
