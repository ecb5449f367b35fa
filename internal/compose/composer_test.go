package compose

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"herald/internal/llm"
	"herald/internal/post"
	"herald/internal/search"
)

// scriptedLLM returns one canned response per call, in order.
type scriptedLLM struct {
	responses []string
	prompts   []string
	calls     int
}

func (s *scriptedLLM) Complete(_ context.Context, messages []llm.Message) (string, error) {
	s.prompts = append(s.prompts, messages[len(messages)-1].Content)
	if s.calls >= len(s.responses) {
		return "", errors.New("no scripted response left")
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

type fixedSource struct {
	results []search.Result
}

func (f *fixedSource) Search(_ context.Context, _ string, _ search.SearchOptions) ([]search.Result, error) {
	return f.results, nil
}

func testSearcher() *search.Aggregator {
	agg := search.NewAggregator(logrus.New(), 3)
	agg.Register("serpapi", "SERP RESULTS", &fixedSource{results: []search.Result{
		{Title: "Chips everywhere", URL: "https://example.com/chips", Snippet: "GPUs are scarce"},
	}})
	return agg
}

const (
	storyStage    = "---STORY START---\nTitle: Chips everywhere\n---STORY END---"
	analysisStage = "---ANALYSIS START---\nBusiness Impact: large\n---ANALYSIS END---"
	postStage     = "---POST START---\n🔥 Chips Everywhere 🚀 💡\n\nCall to Action: discuss\n\n#AI\n---POST END---"
)

func TestComposeRunsThreeStages(t *testing.T) {
	t.Parallel()

	provider := &scriptedLLM{responses: []string{storyStage, analysisStage, postStage}}
	composer := NewComposer(Config{
		LLM:      provider,
		Searcher: testSearcher(),
		Logger:   logrus.New(),
	})

	out, err := composer.Compose(context.Background(), "ai chips")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if provider.calls != 3 {
		t.Fatalf("expected 3 stage calls, got %d", provider.calls)
	}

	// The researcher sees the search digest; later stages see prior output.
	if !strings.Contains(provider.prompts[0], "=== SERP RESULTS ===") {
		t.Errorf("research prompt missing digest:\n%s", provider.prompts[0])
	}
	if !strings.Contains(provider.prompts[1], "Title: Chips everywhere") {
		t.Errorf("analysis prompt missing story:\n%s", provider.prompts[1])
	}
	if !strings.Contains(provider.prompts[2], "Business Impact: large") {
		t.Errorf("creation prompt missing analysis:\n%s", provider.prompts[2])
	}

	body, ok := post.ExtractSection(out.Full, post.SectionPost)
	if !ok {
		t.Fatalf("combined output missing post section:\n%s", out.Full)
	}
	if !strings.Contains(body, "Chips Everywhere") {
		t.Errorf("unexpected post body %q", body)
	}
}

func TestComposeRetriesOverlongPost(t *testing.T) {
	t.Parallel()

	long := "---POST START---\n🔥 " + strings.Repeat("word ", 700) + "\n---POST END---"
	provider := &scriptedLLM{responses: []string{storyStage, analysisStage, long, postStage}}
	composer := NewComposer(Config{LLM: provider, Logger: logrus.New()})

	out, err := composer.Compose(context.Background(), "ai")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if provider.calls != 4 {
		t.Fatalf("expected length retry, got %d calls", provider.calls)
	}
	if !strings.Contains(provider.prompts[3], "too long") {
		t.Errorf("retry prompt missing length correction:\n%s", provider.prompts[3])
	}
	if body, ok := post.ExtractSection(out.Full, post.SectionPost); !ok || !strings.Contains(body, "Chips Everywhere") {
		t.Errorf("expected retried post in output, got %q", body)
	}
}

func TestComposeRetriesMissingPostMarkers(t *testing.T) {
	t.Parallel()

	provider := &scriptedLLM{responses: []string{storyStage, analysisStage, "post text without markers", postStage}}
	composer := NewComposer(Config{LLM: provider, Logger: logrus.New()})

	out, err := composer.Compose(context.Background(), "ai")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if provider.calls != 4 {
		t.Fatalf("expected marker retry, got %d calls", provider.calls)
	}
	if !strings.Contains(provider.prompts[3], "markers") {
		t.Errorf("retry prompt missing marker correction:\n%s", provider.prompts[3])
	}
	if body, ok := post.ExtractSection(out.Full, post.SectionPost); !ok || !strings.Contains(body, "Chips Everywhere") {
		t.Errorf("expected retried post in output, got %q", body)
	}
}

func TestTruncatePostBodyKeepsMarkers(t *testing.T) {
	t.Parallel()

	draft := "---POST START---\n" + strings.Repeat("word ", 700) + "\n---POST END---"
	got := truncatePostBody(draft, 100)

	body, ok := post.ExtractSection(got, post.SectionPost)
	if !ok {
		t.Fatalf("truncated draft lost its markers:\n%s", got)
	}
	if n := len([]rune(body)); n > 100 {
		t.Errorf("body still %d runes", n)
	}
}

func TestComposeWrapsUnmarkedStageOutput(t *testing.T) {
	t.Parallel()

	provider := &scriptedLLM{responses: []string{"bare story text", analysisStage, postStage}}
	composer := NewComposer(Config{LLM: provider, Logger: logrus.New()})

	out, err := composer.Compose(context.Background(), "ai")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	story, ok := post.ExtractSection(out.Full, post.SectionStory)
	if !ok {
		t.Fatalf("story section missing:\n%s", out.Full)
	}
	if story != "bare story text" {
		t.Errorf("unexpected story %q", story)
	}
}

func TestComposeRequiresLLM(t *testing.T) {
	t.Parallel()

	composer := NewComposer(Config{Logger: logrus.New()})
	if _, err := composer.Compose(context.Background(), "ai"); err == nil {
		t.Fatal("expected error without provider")
	}
}

func TestTruncateAtWord(t *testing.T) {
	t.Parallel()

	got := truncateAtWord("one two three four", 12)
	if got != "one two" {
		t.Errorf("truncateAtWord = %q", got)
	}
	if got := truncateAtWord("short", 10); got != "short" {
		t.Errorf("under-limit input should pass through, got %q", got)
	}
}

func TestSaveRun(t *testing.T) {
	t.Parallel()

	postsDir := t.TempDir()
	out := &RunOutput{
		Full: strings.Join([]string{storyStage, analysisStage, postStage}, "\n\n"),
	}

	runDir, err := SaveRun(postsDir, out, logrus.New())
	if err != nil {
		t.Fatalf("save run: %v", err)
	}

	full, err := os.ReadFile(filepath.Join(runDir, post.FullOutputFile))
	if err != nil {
		t.Fatalf("read full output: %v", err)
	}
	if string(full) != out.Full {
		t.Errorf("full output mismatch")
	}

	for _, name := range []string{"story.txt", "analysis.txt", "post.txt"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	recovered, err := post.LatestRunContent(postsDir)
	if err != nil {
		t.Fatalf("latest run content: %v", err)
	}
	if !strings.Contains(recovered, "Chips Everywhere") {
		t.Errorf("publisher should find the saved post, got %q", recovered)
	}
}
