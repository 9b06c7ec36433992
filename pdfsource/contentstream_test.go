package pdfsource

import (
	"testing"
)

func TestParseContentStream(t *testing.T) {
	stream := []byte(`BT
/F1-Bold 18 Tf
1 0 0 1 72 720 Tm
(Section Heading) Tj
ET
BT
/F2 11 Tf
1 0 0 1 72 690 Tm
(First line of body text) Tj
0 -13 Td
(continues on the next line.) Tj
ET`)

	blocks := parseContentStream(stream, 3)

	if len(blocks) != 2 {
		for _, b := range blocks {
			t.Logf("block: %q size=%f", b.Text, b.FontSize)
		}
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	h := blocks[0]
	if h.Text != "Section Heading" {
		t.Errorf("unexpected heading text: %q", h.Text)
	}
	if h.FontSize != 18 {
		t.Errorf("expected font size 18, got %f", h.FontSize)
	}
	if !h.Bold {
		t.Error("bold font name should mark the block bold")
	}
	if h.Page != 3 {
		t.Errorf("expected page 3, got %d", h.Page)
	}

	body := blocks[1]
	if body.Text != "First line of body text continues on the next line." {
		t.Errorf("adjacent lines should merge into one block, got %q", body.Text)
	}
	if body.FontSize != 11 {
		t.Errorf("expected font size 11, got %f", body.FontSize)
	}
	if body.Bold {
		t.Error("regular font should not be bold")
	}
}

func TestParseContentStreamLargeMoveFlushes(t *testing.T) {
	stream := []byte(`BT
/F1 12 Tf
1 0 0 1 72 700 Tm
(First paragraph.) Tj
1 0 0 1 72 500 Tm
(Second paragraph far below.) Tj
ET`)

	blocks := parseContentStream(stream, 1)
	if len(blocks) != 2 {
		t.Fatalf("expected large vertical move to split blocks, got %d", len(blocks))
	}
}

func TestParseContentStreamTJArray(t *testing.T) {
	stream := []byte(`BT
/F1 12 Tf
1 0 0 1 72 700 Tm
[(Kerned) -20 (text) -15 (array)] TJ
ET`)

	blocks := parseContentStream(stream, 1)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Text != "Kerned text array" {
		t.Errorf("TJ fragments should join with spaces, got %q", blocks[0].Text)
	}
}

func TestParseContentStreamNextLineShow(t *testing.T) {
	stream := []byte(`BT
/F1 12 Tf
1 0 0 1 72 700 Tm
(First line) Tj
(second line) '
ET`)

	blocks := parseContentStream(stream, 1)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 merged block, got %d", len(blocks))
	}
	if blocks[0].Text != "First line second line" {
		t.Errorf("unexpected text: %q", blocks[0].Text)
	}
}

func TestParseContentStreamItalicFont(t *testing.T) {
	stream := []byte(`BT
/Times-Italic 10 Tf
1 0 0 1 72 700 Tm
(emphasized) Tj
ET`)

	blocks := parseContentStream(stream, 1)
	if len(blocks) != 1 || !blocks[0].Italic {
		t.Error("italic font name should mark the block italic")
	}
}

func TestParseTf(t *testing.T) {
	tests := []struct {
		line     string
		wantName string
		wantSize float64
	}{
		{"/F1 12 Tf", "F1", 12},
		{"/Helvetica-Bold 18.5 Tf", "Helvetica-Bold", 18.5},
		{"Tf", "", 0},
	}
	for _, tt := range tests {
		name, size := parseTf([]byte(tt.line))
		if name != tt.wantName || size != tt.wantSize {
			t.Errorf("parseTf(%q) = (%q, %f), want (%q, %f)",
				tt.line, name, size, tt.wantName, tt.wantSize)
		}
	}
}

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain text`, "plain text"},
		{`escaped \( parens \)`, "escaped ( parens )"},
		{`tab\there`, "tab\there"},
		{`octal\040space`, "octal space"},
		{`back\\slash`, `back\slash`},
	}
	for _, tt := range tests {
		if got := decodePDFString([]byte(tt.in)); got != tt.want {
			t.Errorf("decodePDFString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  spaced   out  ", "spaced out"},
		{"line\nbreaks\ttabs", "line breaks tabs"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
