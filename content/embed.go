// Package content embeds the default MVP Quest game content.
package content

import "embed"

// FS holds the default Lua content files.
//
//go:embed *.lua
var FS embed.FS
