// Package pipeline ties the stages into full runs: compose a post from live
// news, drive the browser to publish it, and record the outcome everywhere
// the operator might look for it (run directory, post log, history store,
// inbox).
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"herald/internal/browser"
	"herald/internal/compose"
	"herald/internal/images"
	"herald/internal/linkedin"
	"herald/internal/logging"
	"herald/internal/notify"
	"herald/internal/post"
	"herald/internal/runlog"
	"herald/internal/store"
)

const imageFileName = "post_image.png"

// Config wires the runner. Images, Posts, and Notifier are optional; a nil
// value disables that concern for the run.
type Config struct {
	Composer  *compose.Composer
	Images    *images.Generator
	Browser   browser.Config
	Auth      *linkedin.Authenticator
	Publisher *linkedin.Publisher
	Posts     store.PostStore
	Notifier  *notify.Notifier
	PostsDir  string
	LogsDir   string
	Logger    logging.Logger
}

type Runner struct {
	composer   *compose.Composer
	images     *images.Generator
	browserCfg browser.Config
	auth       *linkedin.Authenticator
	publisher  *linkedin.Publisher
	posts      store.PostStore
	notifier   *notify.Notifier
	postsDir   string
	logsDir    string
	logger     logging.Logger
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		composer:   cfg.Composer,
		images:     cfg.Images,
		browserCfg: cfg.Browser,
		auth:       cfg.Auth,
		publisher:  cfg.Publisher,
		posts:      cfg.Posts,
		notifier:   cfg.Notifier,
		postsDir:   cfg.PostsDir,
		logsDir:    cfg.LogsDir,
		logger:     cfg.Logger,
	}
}

// RunFull composes a fresh post for topic and publishes it.
func (r *Runner) RunFull(ctx context.Context, topic string) error {
	out, _, err := r.ComposeOnly(ctx, topic)
	if err != nil {
		return err
	}
	return r.PublishLatest(ctx, out.Topic)
}

// ComposeOnly runs the content stages and saves the run directory without
// publishing. Returns the run output and its directory.
func (r *Runner) ComposeOnly(ctx context.Context, topic string) (*compose.RunOutput, string, error) {
	if r.composer == nil {
		return nil, "", errors.New("composer not configured")
	}

	out, err := r.composer.Compose(ctx, topic)
	if err != nil {
		runsTotal.WithLabelValues("compose_failed").Inc()
		r.notifyFailure(ctx, notify.Report{
			Topic:      topic,
			Status:     store.StatusFailed,
			Err:        err.Error(),
			FinishedAt: time.Now(),
		})
		return nil, "", err
	}

	runDir, err := compose.SaveRun(r.postsDir, out, r.logger)
	if err != nil {
		runsTotal.WithLabelValues("compose_failed").Inc()
		r.notifyFailure(ctx, notify.Report{
			Topic:      out.Topic,
			Status:     store.StatusFailed,
			Err:        err.Error(),
			FinishedAt: time.Now(),
		})
		return nil, "", fmt.Errorf("save run: %w", err)
	}

	r.generateImage(ctx, out, runDir)
	return out, runDir, nil
}

// PublishLatest formats and posts the newest saved run. topic annotates the
// history record and notifications; it may be empty.
func (r *Runner) PublishLatest(ctx context.Context, topic string) error {
	runDir, err := post.LatestRunDir(r.postsDir)
	if err != nil {
		runsTotal.WithLabelValues("no_content").Inc()
		return err
	}
	content, err := post.RunContent(runDir)
	if err != nil {
		runsTotal.WithLabelValues("no_content").Inc()
		return err
	}
	return r.PublishContent(ctx, topic, runDir, content)
}

// PublishContent formats content and drives the browser to post it, then
// records the outcome. runDir may be empty when the content did not come from
// a saved run.
func (r *Runner) PublishContent(ctx context.Context, topic, runDir, content string) error {
	formatted := post.FormatForLinkedIn(content)
	if strings.TrimSpace(formatted) == "" {
		return fmt.Errorf("%w: formatted content is empty", post.ErrNoPostContent)
	}

	runID := uuid.NewString()
	start := time.Now()
	recordID := r.saveRecord(ctx, runID, topic, runDir, formatted)

	result, err := r.drive(ctx, formatted)
	if err != nil {
		runsTotal.WithLabelValues("publish_failed").Inc()
		r.markFailed(ctx, recordID, err)
		r.notifyFailure(ctx, notify.Report{
			Topic:      topic,
			Content:    formatted,
			Status:     store.StatusFailed,
			RunDir:     runDir,
			Err:        err.Error(),
			FinishedAt: time.Now(),
		})
		return err
	}

	status := store.StatusPublished
	if !result.Verified {
		status = store.StatusUnverified
	}

	if _, err := runlog.Write(r.logsDir, formatted, result.PostedAt); err != nil {
		r.logger.WithError(err).Warn("Failed to write post log")
	}
	r.markPublished(ctx, recordID, status)

	runsTotal.WithLabelValues(status).Inc()
	postsPublishedTotal.WithLabelValues(fmt.Sprintf("%t", result.Verified)).Inc()
	runDuration.Observe(time.Since(start).Seconds())

	r.notifySuccess(ctx, notify.Report{
		Topic:      topic,
		Content:    formatted,
		Status:     status,
		RunDir:     runDir,
		FinishedAt: result.PostedAt,
	})

	r.logger.WithFields(logging.Fields{
		"run_id": runID,
		"status": status,
		"chars":  len(formatted),
	}).Info("Publish run complete")
	return nil
}

// drive owns the browser lifetime for one publish attempt.
func (r *Runner) drive(ctx context.Context, content string) (*linkedin.Result, error) {
	br, err := browser.Launch(r.browserCfg, r.logger)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer br.Close()

	page, err := br.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}

	if err := r.auth.EnsureLoggedIn(ctx, page); err != nil {
		return nil, fmt.Errorf("linkedin login: %w", err)
	}

	return r.publisher.Publish(ctx, page, content)
}

func (r *Runner) generateImage(ctx context.Context, out *compose.RunOutput, runDir string) {
	if r.images == nil {
		return
	}
	prompt := imagePrompt(out)
	if prompt == "" {
		return
	}
	path := filepath.Join(runDir, imageFileName)
	if err := r.images.Generate(ctx, prompt, path); err != nil {
		r.logger.WithError(err).Warn("Image generation failed - continuing without it")
		return
	}
	r.logger.WithField("path", path).Info("Post image generated")
}

// imagePrompt derives the illustration prompt from the post headline.
func imagePrompt(out *compose.RunOutput) string {
	body, ok := post.ExtractSection(out.Full, post.SectionPost)
	if !ok {
		body = out.Post
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return "Professional news illustration for a LinkedIn post headlined: " + line
		}
	}
	return ""
}

func (r *Runner) saveRecord(ctx context.Context, runID, topic, runDir, content string) string {
	if r.posts == nil {
		return ""
	}
	saved, err := r.posts.Save(ctx, store.PostRecord{
		RunID:   runID,
		Topic:   topic,
		Content: content,
		Status:  store.StatusComposed,
		RunDir:  runDir,
	})
	if err != nil {
		r.logger.WithError(err).Warn("Failed to save post record")
		return ""
	}
	return saved.ID
}

func (r *Runner) markPublished(ctx context.Context, recordID, status string) {
	if r.posts == nil || recordID == "" {
		return
	}
	if err := r.posts.MarkPublished(ctx, recordID, status); err != nil {
		r.logger.WithError(err).Warn("Failed to update post record")
	}
}

func (r *Runner) markFailed(ctx context.Context, recordID string, cause error) {
	if r.posts == nil || recordID == "" {
		return
	}
	if err := r.posts.MarkFailed(ctx, recordID, cause.Error()); err != nil {
		r.logger.WithError(err).Warn("Failed to update post record")
	}
}

func (r *Runner) notifySuccess(ctx context.Context, report notify.Report) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.PostPublished(ctx, report); err != nil {
		r.logger.WithError(err).Warn("Post notification failed")
	}
}

func (r *Runner) notifyFailure(ctx context.Context, report notify.Report) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.RunFailed(ctx, report); err != nil {
		r.logger.WithError(err).Warn("Failure notification failed")
	}
}
