// Package web carries the embedded client assets for the countdown widget.
package web

import (
	"embed"
	"io/fs"
)

//go:embed js
var assets embed.FS

// Assets returns the embedded widget assets, rooted at the asset directory.
func Assets() fs.FS {
	return assets
}
