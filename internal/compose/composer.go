// Package compose runs the content pipeline: research a topic across the
// search sources, analyze the strongest story, and write a LinkedIn post in
// the house structure. Stages hand off through marker-delimited text.
package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"herald/internal/llm"
	"herald/internal/logging"
	"herald/internal/post"
	"herald/internal/search"
)

const (
	stageTimeout = 2 * time.Minute
	// maxPostRunes is the platform ceiling, well above the 1300-1700 target
	// the creator prompt asks for.
	maxPostRunes    = 3000
	defaultTopic    = "technology news"
	defaultArticles = 2
)

type Config struct {
	LLM            llm.Provider
	Searcher       *search.Aggregator
	Articles       *search.ArticleFetcher
	ArticleSources int
	Logger         logging.Logger
}

// Composer runs the three pipeline stages.
type Composer struct {
	llm            llm.Provider
	searcher       *search.Aggregator
	articles       *search.ArticleFetcher
	articleSources int
	logger         logging.Logger
}

// RunOutput is everything one pipeline run produced.
type RunOutput struct {
	Topic    string
	Story    string
	Analysis string
	Post     string
	Full     string
}

func NewComposer(cfg Config) *Composer {
	articleSources := cfg.ArticleSources
	if articleSources <= 0 {
		articleSources = defaultArticles
	}
	return &Composer{
		llm:            cfg.LLM,
		searcher:       cfg.Searcher,
		articles:       cfg.Articles,
		articleSources: articleSources,
		logger:         cfg.Logger,
	}
}

// Compose researches topic and produces a post. Search and article fetching
// degrade softly; the LLM stages are required and abort the run on failure.
func (c *Composer) Compose(ctx context.Context, topic string) (*RunOutput, error) {
	if c.llm == nil {
		return nil, errors.New("LLM provider not configured")
	}
	if strings.TrimSpace(topic) == "" {
		topic = defaultTopic
	}

	material := c.collectMaterial(ctx, topic)

	story, err := c.generate(ctx, "research", researcherSystemPrompt, researcherPrompt(topic, material))
	if err != nil {
		return nil, fmt.Errorf("research stage: %w", err)
	}
	c.logger.WithField("chars", len(story)).Info("Research stage complete")

	analysis, err := c.generate(ctx, "analysis", analyzerSystemPrompt, analyzerPrompt(story))
	if err != nil {
		return nil, fmt.Errorf("analysis stage: %w", err)
	}
	c.logger.WithField("chars", len(analysis)).Info("Analysis stage complete")

	draft, err := c.composePost(ctx, story, analysis)
	if err != nil {
		return nil, fmt.Errorf("creation stage: %w", err)
	}
	c.logger.WithField("chars", len(draft)).Info("Creation stage complete")

	return &RunOutput{
		Topic:    topic,
		Story:    story,
		Analysis: analysis,
		Post:     draft,
		Full:     assembleFull(story, analysis, draft),
	}, nil
}

// collectMaterial gathers the research context: the search digest plus
// extracted text from the top result articles.
func (c *Composer) collectMaterial(ctx context.Context, topic string) string {
	if c.searcher == nil {
		return ""
	}

	digest := c.searcher.SearchNews(ctx, topic)
	if digest.Empty() {
		c.logger.Warn("All search sources came back empty")
		return ""
	}

	var b strings.Builder
	b.WriteString(digest.Render())

	if c.articles != nil {
		for _, pageURL := range digest.TopURLs(c.articleSources) {
			text, err := c.articles.Extract(ctx, pageURL)
			if err != nil {
				c.logger.WithError(err).WithField("url", pageURL).Warn("Article extraction failed - skipping")
				continue
			}
			fmt.Fprintf(&b, "\n\n=== ARTICLE CONTENT (%s) ===\n%s", pageURL, text)
		}
	}

	return b.String()
}

// composePost runs the creation stage. Each contract violation gets one
// corrective retry: dropped markers first, then the platform length ceiling
// with word-boundary truncation as the backstop.
func (c *Composer) composePost(ctx context.Context, story, analysis string) (string, error) {
	userPrompt := creatorPrompt(story, analysis)
	draft, err := c.generate(ctx, "creation", creatorSystemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	if _, ok := post.ExtractSection(draft, post.SectionPost); !ok {
		c.logger.Debug("Post markers missing, retrying")
		retried, retryErr := c.generate(ctx, "creation", creatorSystemPrompt,
			userPrompt+"\n\nIMPORTANT: Your previous response was missing the ---POST START--- and ---POST END--- markers. Resend the complete response with every marker in place.")
		if retryErr != nil {
			return "", fmt.Errorf("marker retry: %w", retryErr)
		}
		draft = retried
	}

	if postLength(draft) > maxPostRunes {
		c.logger.WithField("length", postLength(draft)).Debug("Post too long, retrying")
		draft, err = c.generate(ctx, "creation", creatorSystemPrompt,
			userPrompt+"\n\nIMPORTANT: Your previous response was too long. Keep the post between 1300 and 1700 characters.")
		if err != nil {
			return "", fmt.Errorf("length retry: %w", err)
		}
		if postLength(draft) > maxPostRunes {
			draft = truncatePostBody(draft, maxPostRunes)
		}
	}
	postLengthChars.Observe(float64(postLength(draft)))
	return draft, nil
}

// truncatePostBody cuts the post body to the limit and rebuilds the markers
// around it, so truncation never leaves an unterminated section behind.
func truncatePostBody(draft string, maxRunes int) string {
	body, ok := post.ExtractSection(draft, post.SectionPost)
	if !ok {
		body = draft
	}
	body = truncateAtWord(body, maxRunes)
	return fmt.Sprintf("%s\n%s\n%s", post.Marker(post.SectionPost, false), body, post.Marker(post.SectionPost, true))
}

func (c *Composer) generate(ctx context.Context, stage, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, stageTimeout)
	defer cancel()

	start := time.Now()
	out, err := c.llm.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	})
	stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		stageCallsTotal.WithLabelValues(stage, "error").Inc()
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		stageCallsTotal.WithLabelValues(stage, "error").Inc()
		return "", errors.New("model returned empty output")
	}
	stageCallsTotal.WithLabelValues(stage, "success").Inc()
	return out, nil
}

// postLength measures the post body, not the surrounding markers.
func postLength(draft string) int {
	if body, ok := post.ExtractSection(draft, post.SectionPost); ok {
		return utf8.RuneCountInString(body)
	}
	return utf8.RuneCountInString(draft)
}

// assembleFull joins the stage outputs into the combined run output, wrapping
// any stage that dropped its markers so section extraction keeps working.
func assembleFull(story, analysis, draft string) string {
	return strings.Join([]string{
		ensureMarkers(story, post.SectionStory),
		ensureMarkers(analysis, post.SectionAnalysis),
		ensureMarkers(draft, post.SectionPost),
	}, "\n\n")
}

func ensureMarkers(text, section string) string {
	if _, ok := post.ExtractSection(text, section); ok {
		return text
	}
	return fmt.Sprintf("%s\n%s\n%s", post.Marker(section, false), text, post.Marker(section, true))
}

// truncateAtWord cuts at the last space before the limit, unless that would
// drop more than half the text.
func truncateAtWord(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	truncated := string(runes[:maxRunes])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)/2 {
		return truncated[:lastSpace]
	}
	return truncated
}
