// Package loader resolves an input artifact — a MiniPL script on disk,
// or the bundled default example — into source text ready for the
// parser, the same "resolve an input before the front end sees it"
// responsibility the ARM loader has for program binaries.
package loader

import (
	"embed"
	"os"
	"strings"
)

//go:embed examples/hello.mpl
var bundledExamples embed.FS

// DefaultExampleName is the script run when no --file is given.
const DefaultExampleName = "hello"

// Source is a resolved MiniPL script: its text and a display name
// suitable for diagnostics and the file-context service.
type Source struct {
	Name string
	Text string
}

// Load reads a MiniPL script from path. An empty path loads the
// bundled default example instead of touching the filesystem. A
// leading UTF-8 byte-order mark is stripped, since editors on some
// platforms still add one.
func Load(path string) (*Source, error) {
	if path == "" {
		return loadBundled(DefaultExampleName)
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided script path
	if err != nil {
		return nil, err
	}
	return &Source{Name: path, Text: stripBOM(string(content))}, nil
}

func loadBundled(name string) (*Source, error) {
	content, err := bundledExamples.ReadFile("examples/" + name + ".mpl")
	if err != nil {
		return nil, err
	}
	return &Source{Name: name + ".mpl", Text: stripBOM(string(content))}, nil
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, string(rune(0xFEFF)))
}
