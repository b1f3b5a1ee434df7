// file: internals/helpers/pdf/renderer.go
package pdf

import (
	"bytes"
	"fmt"
	"strings"
)

// SubmissionDocument is the structured input for the signed-slip artifact.
// Rendering is a pure function of this value.
type SubmissionDocument struct {
	FormTitle    string
	EventDate    string
	StudentName  string
	ParentName   string
	Relationship string
	Status       string
	SignedAt     string
	SignatureRef string
	Answers      []AnswerLine
}

type AnswerLine struct {
	Label string
	Value string
}

type Renderer interface {
	Render(doc SubmissionDocument) ([]byte, error)
}

// SimpleRenderer writes a single-page text PDF. Good enough for the signed
// record artifact; swap for a richer renderer behind the same interface.
type SimpleRenderer struct{}

func (SimpleRenderer) Render(doc SubmissionDocument) ([]byte, error) {
	lines := []string{
		"Permission Slip — Signed Record",
		"",
		"Form: " + doc.FormTitle,
		"Event date: " + doc.EventDate,
		"Student: " + doc.StudentName,
		"Signed by: " + doc.ParentName + " (" + doc.Relationship + ")",
		"Decision: " + doc.Status,
		"Signed at: " + doc.SignedAt,
		"Signature ref: " + doc.SignatureRef,
	}
	if len(doc.Answers) > 0 {
		lines = append(lines, "", "Responses:")
		for _, a := range doc.Answers {
			lines = append(lines, "  "+a.Label+": "+a.Value)
		}
	}
	return writePDF(lines), nil
}

func escapePDFText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// writePDF emits a minimal one-page PDF with a Helvetica text column.
func writePDF(lines []string) []byte {
	var content bytes.Buffer
	content.WriteString("BT /F1 11 Tf 50 780 Td 16 TL\n")
	for _, line := range lines {
		fmt.Fprintf(&content, "(%s) Tj T*\n", escapePDFText(line))
	}
	content.WriteString("ET\n")

	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs)+1)
	for i, obj := range objs {
		offsets[i+1] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for i := 1; i <= len(objs); i++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return out.Bytes()
}
