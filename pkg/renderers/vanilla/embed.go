package vanilla

import "embed"

// Templates holds the built-in page chrome.
//
//go:embed templates/*.tmpl
var Templates embed.FS
