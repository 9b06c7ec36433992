package model

import "testing"

func TestBBoxEdges(t *testing.T) {
	b := NewBBox(10, 20, 100, 50)

	if b.Bottom() != 20 {
		t.Errorf("Bottom() = %v, want 20", b.Bottom())
	}
	if b.Top() != 70 {
		t.Errorf("Top() = %v, want 70", b.Top())
	}
}

func TestDetectCase(t *testing.T) {
	tests := []struct {
		text string
		want CaseProfile
	}{
		{"INTRODUCTION", CaseUpper},
		{"introduction to methods", CaseLower},
		{"Local Cuisine And Wine", CaseTitle},
		{"The quick brown fox jumps", CaseMixed},
		{"ab", CaseMixed}, // too short to call
		{"1.2 Data Collection Methods", CaseTitle},
	}

	for _, tt := range tests {
		if got := DetectCase(tt.text); got != tt.want {
			t.Errorf("DetectCase(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestCaseProfileString(t *testing.T) {
	tests := []struct {
		c    CaseProfile
		want string
	}{
		{CaseLower, "lower"},
		{CaseTitle, "title"},
		{CaseUpper, "upper"},
		{CaseMixed, "mixed"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("CaseProfile(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestDocumentAddBlock(t *testing.T) {
	doc := NewDocument("a.pdf", "/tmp/a.pdf")
	doc.AddBlock(TextBlock{Text: "hello", Page: 1})
	doc.AddBlock(TextBlock{Text: "world", Page: 3})

	if doc.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3", doc.PageCount)
	}
	if len(doc.BlocksOnPage(3)) != 1 {
		t.Errorf("BlocksOnPage(3) returned %d blocks, want 1", len(doc.BlocksOnPage(3)))
	}
	if doc.IsEmpty() {
		t.Error("IsEmpty() = true for a document with text")
	}
}

func TestDocumentIsEmpty(t *testing.T) {
	doc := NewDocument("b.pdf", "/tmp/b.pdf")
	if !doc.IsEmpty() {
		t.Error("new document should be empty")
	}
	doc.AddBlock(TextBlock{Text: "   ", Page: 1})
	if !doc.IsEmpty() {
		t.Error("whitespace-only document should be empty")
	}
}

func TestDocumentText(t *testing.T) {
	doc := NewDocument("c.pdf", "/tmp/c.pdf")
	doc.AddBlock(TextBlock{Text: "one", Page: 1})
	doc.AddBlock(TextBlock{Text: "two", Page: 1})

	if got := doc.Text(); got != "one\ntwo" {
		t.Errorf("Text() = %q, want %q", got, "one\ntwo")
	}
}

func TestWordCount(t *testing.T) {
	b := TextBlock{Text: "1. Introduction to the Study"}
	if got := b.WordCount(); got != 5 {
		t.Errorf("WordCount() = %d, want 5", got)
	}
}
