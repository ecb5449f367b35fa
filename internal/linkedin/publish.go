package linkedin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"herald/internal/logging"
)

const (
	triggerWait   = 5 * time.Second
	fallbackWait  = 3 * time.Second
	editorWait    = 10 * time.Second
	editorSettle  = 2 * time.Second
	paragraphPace = 500 * time.Millisecond
	preSubmitWait = 3 * time.Second
	submitWait    = 10 * time.Second
	publishWait   = 10 * time.Second
	successWait   = 5 * time.Second
)

// Result reports how a publish attempt ended. Verified is false when the post
// was submitted but none of the success indicators appeared; LinkedIn often
// publishes anyway, so the caller decides how much to trust it.
type Result struct {
	Verified  bool
	Indicator string
	PostedAt  time.Time
}

// Publisher drives the share box on an already logged-in page.
type Publisher struct {
	diags  *Diagnostics
	logger logging.Logger
}

func NewPublisher(diags *Diagnostics, logger logging.Logger) *Publisher {
	return &Publisher{diags: diags, logger: logger}
}

// Publish opens the share box, types the content, submits it, and probes for
// success indicators.
func (p *Publisher) Publish(ctx context.Context, page *rod.Page, content string) (*Result, error) {
	if err := navigate(page, feedURL); err != nil {
		return nil, err
	}

	trigger, loc, err := findFirst(page, postTriggerLocators, triggerWait, fallbackWait)
	if err != nil {
		publishStepsTotal.WithLabelValues("trigger", "failure").Inc()
		p.diags.Capture(page, "pre_post_error")
		return nil, fmt.Errorf("find post trigger: %w", err)
	}
	publishStepsTotal.WithLabelValues("trigger", "success").Inc()
	p.logger.WithField("locator", loc.Desc).Debug("Post trigger found")
	// Plain clicks miss when an overlay sits above the control; a JS click
	// lands regardless.
	if _, err := trigger.Eval(`() => this.click()`); err != nil {
		p.diags.Capture(page, "error_screenshot")
		return nil, fmt.Errorf("open share box: %w", err)
	}
	_ = page.WaitStable(pageSettle)

	editor, loc, err := findFirst(page, editorLocators, editorWait, fallbackWait)
	if err != nil {
		publishStepsTotal.WithLabelValues("editor", "failure").Inc()
		p.diags.Capture(page, "error_screenshot")
		return nil, fmt.Errorf("find share box editor: %w", err)
	}
	publishStepsTotal.WithLabelValues("editor", "success").Inc()
	p.logger.WithField("locator", loc.Desc).Debug("Editor found")

	if _, err := editor.Eval(`() => { this.innerHTML = ''; }`); err != nil {
		p.diags.Capture(page, "error_screenshot")
		return nil, fmt.Errorf("clear editor: %w", err)
	}
	if err := pace(ctx, editorSettle); err != nil {
		return nil, err
	}

	if err := p.typeContent(ctx, editor, content); err != nil {
		p.diags.Capture(page, "error_screenshot")
		return nil, err
	}
	if err := pace(ctx, preSubmitWait); err != nil {
		return nil, err
	}

	submit, loc, err := findFirst(page, submitLocators, submitWait, fallbackWait)
	if err != nil {
		publishStepsTotal.WithLabelValues("submit", "failure").Inc()
		p.diags.Capture(page, "error_screenshot")
		return nil, fmt.Errorf("find submit button: %w", err)
	}
	publishStepsTotal.WithLabelValues("submit", "success").Inc()
	p.logger.WithField("locator", loc.Desc).Debug("Submit button found")
	if _, err := submit.Eval(`() => this.click()`); err != nil {
		p.diags.Capture(page, "error_screenshot")
		return nil, fmt.Errorf("submit post: %w", err)
	}

	if err := pace(ctx, publishWait); err != nil {
		return nil, err
	}

	result := &Result{PostedAt: time.Now()}
	for _, indicator := range successIndicators {
		el, err := find(page, indicator, successWait)
		if err != nil {
			continue
		}
		if visible, _ := el.Visible(); visible {
			publishStepsTotal.WithLabelValues("verify", "success").Inc()
			p.logger.WithField("indicator", indicator.Desc).Info("Post verified")
			result.Verified = true
			result.Indicator = indicator.Desc
			return result, nil
		}
	}

	// Submission went through without errors; the post usually lands even
	// when no indicator shows up.
	publishStepsTotal.WithLabelValues("verify", "unverified").Inc()
	p.logger.Warn("Could not verify post success - no errors detected")
	return result, nil
}

// typeContent writes the post into the editor paragraph by paragraph. The
// share box drops input that arrives faster than its change handlers run,
// hence the pacing.
func (p *Publisher) typeContent(ctx context.Context, editor *rod.Element, content string) error {
	for _, paragraph := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		html := strings.ReplaceAll(paragraph, "\n", "<br>")
		if _, err := editor.Eval(`(html) => { this.innerHTML += html + '<br><br>'; }`, html); err != nil {
			return fmt.Errorf("type paragraph: %w", err)
		}
		if err := pace(ctx, paragraphPace); err != nil {
			return err
		}
	}
	return nil
}
