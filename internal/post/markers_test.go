package post

import "testing"

func TestExtractSection(t *testing.T) {
	t.Parallel()

	output := `intro
---STORY START---
Title: A story
---STORY END---
---ANALYSIS START---
Business Impact: large
---ANALYSIS END---`

	story, ok := ExtractSection(output, SectionStory)
	if !ok {
		t.Fatal("expected story section")
	}
	if story != "Title: A story" {
		t.Errorf("unexpected story %q", story)
	}

	analysis, ok := ExtractSection(output, SectionAnalysis)
	if !ok {
		t.Fatal("expected analysis section")
	}
	if analysis != "Business Impact: large" {
		t.Errorf("unexpected analysis %q", analysis)
	}

	if _, ok := ExtractSection(output, SectionPost); ok {
		t.Error("expected missing post section")
	}
}

func TestExtractSectionRelaxedMarkers(t *testing.T) {
	t.Parallel()

	output := "---STORY (draft) START---\ncontent here\n---STORY (draft) END---"
	story, ok := ExtractSection(output, SectionStory)
	if !ok {
		t.Fatal("expected relaxed match")
	}
	if story != "content here" {
		t.Errorf("unexpected story %q", story)
	}
}

func TestMarker(t *testing.T) {
	t.Parallel()

	if got := Marker(SectionPost, false); got != "---POST START---" {
		t.Errorf("start marker = %q", got)
	}
	if got := Marker(SectionPost, true); got != "---POST END---" {
		t.Errorf("end marker = %q", got)
	}
}
