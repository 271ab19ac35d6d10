package parser

import "os"

// ParseSource parses a MiniPL program from in-memory source text.
func ParseSource(source string, opts ...Option) (*Program, *ErrorList) {
	return NewParser(source, opts...).Parse()
}

// ParseFile reads filePath and parses its contents as a MiniPL
// program.
func ParseFile(filePath string, opts ...Option) (*Program, *ErrorList, error) {
	content, err := os.ReadFile(filePath) // #nosec G304 -- user-provided script path
	if err != nil {
		return nil, nil, err
	}
	program, errs := ParseSource(string(content), opts...)
	return program, errs, nil
}
