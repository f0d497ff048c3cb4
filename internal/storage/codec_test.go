package storage

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseLineQuotedDelimiter(t *testing.T) {
	got := ParseLine(`Acme,"Smith, Jr.",pw`)
	want := []string{"Acme", "Smith, Jr.", "pw"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseLinePlain(t *testing.T) {
	got := ParseLine("a,b,c")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseLineEscapedQuote(t *testing.T) {
	got := ParseLine(`a,"he said ""hi""",b`)
	want := []string{"a", `he said "hi"`, "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseLineUnterminatedQuote(t *testing.T) {
	got := ParseLine(`a,"runs to end, comma included`)
	want := []string{"a", "runs to end, comma included"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseLineEmptyFields(t *testing.T) {
	got := ParseLine(",,")
	want := []string{"", "", ""}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseLineSingleField(t *testing.T) {
	got := ParseLine("no delimiters here")
	want := []string{"no delimiters here"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEscapePassThrough(t *testing.T) {
	if got := Escape("plain value"); got != "plain value" {
		t.Fatalf("expected unchanged value, got %q", got)
	}
}

func TestEscapeParseRoundTrip(t *testing.T) {
	values := []string{
		"plain",
		"with, comma",
		`with "quotes"`,
		"with\nnewline",
		"with\rcarriage",
		`mixed, "all"` + "\nof it",
		"",
	}

	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = Escape(v)
	}
	line := strings.Join(escaped, ",")

	got := ParseLine(line)
	if !reflect.DeepEqual(got, values) {
		t.Fatalf("round trip mismatch:\n want %q\n got  %q", values, got)
	}
}
