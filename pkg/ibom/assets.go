package ibom

import (
	"embed"
	"strings"
)

// Vendored viewer application. The HTML template and the scripts/styles it
// pulls in are treated as opaque: they are substituted into the output
// verbatim and never inspected by the generator.
//
//go:embed web
var webFS embed.FS

// asset returns an embedded viewer file as a string. The embed directive
// guarantees presence, so a missing name is a programming error.
func asset(name string) string {
	data, err := webFS.ReadFile("web/" + name)
	if err != nil {
		panic("ibom: missing embedded asset " + name)
	}
	return string(data)
}

// Version returns the payload schema version carried in every generated
// pcbdata envelope, as read from the bundled version descriptor.
func Version() string {
	return strings.TrimSpace(asset("version.txt"))
}
