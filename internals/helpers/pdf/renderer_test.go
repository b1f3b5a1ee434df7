// file: internals/helpers/pdf/renderer_test.go
package pdf

import (
	"bytes"
	"testing"
)

func TestSimpleRendererProducesValidHeaderAndTrailer(t *testing.T) {
	doc := SubmissionDocument{
		FormTitle:   "Zoo excursion",
		EventDate:   "2026-06-01",
		StudentName: "Budi",
		ParentName:  "Ani",
		Status:      "SIGNED",
		SignedAt:    "2026-05-01T09:00:00Z",
		Answers: []AnswerLine{
			{Label: "Allergies", Value: "none"},
		},
	}

	out, err := SimpleRenderer{}.Render(doc)
	if err != nil {
		t.Fatalf("Render(): %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-1.4")) {
		t.Fatal("missing PDF header")
	}
	if !bytes.Contains(out, []byte("%%EOF")) {
		t.Fatal("missing EOF marker")
	}
	if !bytes.Contains(out, []byte("xref")) {
		t.Fatal("missing xref table")
	}
	for _, want := range []string{"Zoo excursion", "Budi", "Ani", "SIGNED", "Allergies: none"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Fatalf("output missing %q", want)
		}
	}
}

func TestEscapePDFText(t *testing.T) {
	cases := []struct{ in, want string }{
		{`plain`, `plain`},
		{`with (parens)`, `with \(parens\)`},
		{`back\slash`, `back\\slash`},
	}
	for _, tc := range cases {
		if got := escapePDFText(tc.in); got != tc.want {
			t.Errorf("escapePDFText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderEscapesUserContent(t *testing.T) {
	doc := SubmissionDocument{FormTitle: "Trip (final)"}
	out, err := SimpleRenderer{}.Render(doc)
	if err != nil {
		t.Fatalf("Render(): %v", err)
	}
	if !bytes.Contains(out, []byte(`Trip \(final\)`)) {
		t.Fatal("parentheses in user content not escaped")
	}
}
