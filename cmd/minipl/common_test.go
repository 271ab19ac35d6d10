package main

import (
	"strings"
	"testing"

	"github.com/paavohuhtala/minipl-go/loader"
)

func TestParseAndCheck_ValidProgramHasNoReport(t *testing.T) {
	src := &loader.Source{Name: "inline", Text: "var x : int := 1;\nprint x;\n"}
	program, fc, report := parseAndCheck(src)
	if report != "" {
		t.Fatalf("expected no report, got %q", report)
	}
	if program == nil || fc == nil {
		t.Fatal("expected a program and file context")
	}
}

func TestParseAndCheck_UndeclaredIdentifierSuggestsClosestName(t *testing.T) {
	src := &loader.Source{Name: "inline", Text: "var count : int := 1;\nprint cout;\n"}
	_, _, report := parseAndCheck(src)
	if report == "" {
		t.Fatal("expected a type-error report")
	}
	if !strings.Contains(report, `did you mean "count"?`) {
		t.Errorf("report = %q, want a did-you-mean hint for %q", report, "count")
	}
}

func TestParseAndCheck_ParseErrorIsReported(t *testing.T) {
	src := &loader.Source{Name: "inline", Text: "var x : int :=;\n"}
	_, _, report := parseAndCheck(src)
	if report == "" {
		t.Fatal("expected a parse-error report")
	}
}
