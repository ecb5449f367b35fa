package main

import (
	"context"
	"database/sql"
	"errors"

	"herald/internal/browser"
	"herald/internal/compose"
	"herald/internal/config"
	"herald/internal/env"
	"herald/internal/images"
	"herald/internal/linkedin"
	"herald/internal/llm"
	"herald/internal/logging"
	"herald/internal/notify"
	"herald/internal/pipeline"
	"herald/internal/search"
	"herald/internal/session"
	"herald/internal/store"
)

// runtime assembles collaborators from configuration for one command
// invocation. Optional pieces (history database, image generation, outcome
// email) degrade to nil with a warning instead of failing the command;
// anything a command cannot run without returns an error from its builder.
type runtime struct {
	logger logging.Logger
	cfg    config.Config

	db          *sql.DB
	posts       store.PostStore
	postsLoaded bool
}

func newRuntime() *runtime {
	logger := logging.NewLoggerWithService("herald")
	env.LoadEnv(logger)
	return &runtime{logger: logger, cfg: config.LoadConfig()}
}

func (rt *runtime) close() {
	if rt.db != nil {
		_ = rt.db.Close()
	}
}

func (rt *runtime) topicOr(flag string) string {
	if flag != "" {
		return flag
	}
	return rt.cfg.Topic
}

// newSearcher registers every configured news source on a fresh aggregator.
// The digest headings are part of the composer's prompt contract, so they
// live here with the registrations.
func (rt *runtime) newSearcher() *search.Aggregator {
	agg := search.NewAggregator(rt.logger, rt.cfg.SearchLimit)

	serp, err := search.NewSerpAPIProvider(rt.cfg.SerpAPIKey, rt.cfg.SerpAPIURL)
	if err != nil {
		rt.logger.WithError(err).Warn("Failed to create SerpAPI provider - web search disabled")
	} else {
		agg.Register("serpapi", "SERP RESULTS", serp)
	}
	agg.Register("google_news", "GOOGLE NEWS", search.NewGoogleNewsProvider(rt.cfg.GoogleNewsURL))
	agg.Register("medium", "MEDIUM BLOGS", search.NewMediumProvider(rt.cfg.MediumURL))
	return agg
}

func (rt *runtime) newComposer() (*compose.Composer, error) {
	if rt.cfg.LLMAPIKey == "" {
		return nil, errors.New("LLM_API_KEY is required to compose posts")
	}
	provider, err := llm.NewProvider(llm.Config{
		Provider:    rt.cfg.LLMProvider,
		Model:       rt.cfg.LLMModel,
		APIKey:      rt.cfg.LLMAPIKey,
		APIURL:      rt.cfg.LLMAPIURL,
		MaxTokens:   rt.cfg.LLMMaxTokens,
		Temperature: rt.cfg.LLMTemperature,
	})
	if err != nil {
		return nil, err
	}
	return compose.NewComposer(compose.Config{
		LLM:            provider,
		Searcher:       rt.newSearcher(),
		Articles:       search.NewArticleFetcher(),
		ArticleSources: rt.cfg.ArticleSources,
		Logger:         rt.logger,
	}), nil
}

// newPosts opens the post history store once per invocation. History is
// optional; callers treat a nil store as "no history".
func (rt *runtime) newPosts(ctx context.Context) store.PostStore {
	if rt.postsLoaded {
		return rt.posts
	}
	rt.postsLoaded = true

	if rt.cfg.DatabaseURL == "" {
		rt.logger.Warn("DATABASE_URL not set - post history disabled")
		return nil
	}

	dbCfg := store.DefaultConfig()
	dbCfg.URL = rt.cfg.DatabaseURL
	db, err := store.Connect(dbCfg, rt.logger)
	if err != nil {
		rt.logger.WithError(err).Warn("Failed to connect to database - post history disabled")
		return nil
	}
	if err := store.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		rt.logger.WithError(err).Warn("Failed to ensure database schema - post history disabled")
		return nil
	}

	rt.db = db
	rt.posts = store.NewPostStore(db)
	return rt.posts
}

func (rt *runtime) newImages() *images.Generator {
	if rt.cfg.StabilityAPIKey == "" {
		rt.logger.Debug("STABILITY_API_KEY not set - image generation disabled")
		return nil
	}
	gen, err := images.NewGenerator(rt.cfg.StabilityAPIKey, rt.cfg.StabilityAPIURL)
	if err != nil {
		rt.logger.WithError(err).Warn("Failed to create image generator - image generation disabled")
		return nil
	}
	return gen
}

func (rt *runtime) newNotifier() *notify.Notifier {
	if !rt.cfg.HasNotifier() {
		rt.logger.Debug("SMTP not configured - outcome email disabled")
		return nil
	}
	return notify.NewNotifier(notify.SMTPConfig{
		Host:     rt.cfg.SMTPHost,
		Port:     rt.cfg.SMTPPort,
		Username: rt.cfg.SMTPUsername,
		Password: rt.cfg.SMTPPassword,
		From:     rt.cfg.SMTPFrom,
	}, rt.cfg.NotifyEmail, rt.logger)
}

func (rt *runtime) newAuthenticator() *linkedin.Authenticator {
	sessions := session.NewStore(rt.cfg.CookiesFile, rt.logger)
	return linkedin.NewAuthenticator(sessions, rt.cfg.LinkedInEmail, rt.cfg.LinkedInPassword, rt.logger)
}

// newRunner builds the full pipeline. withComposer is false for commands
// that only publish, so they do not demand an LLM key.
func (rt *runtime) newRunner(ctx context.Context, withComposer bool) (*pipeline.Runner, error) {
	var composer *compose.Composer
	if withComposer {
		c, err := rt.newComposer()
		if err != nil {
			return nil, err
		}
		composer = c
	}

	diags := linkedin.NewDiagnostics(rt.cfg.ShotsDir, rt.logger)

	return pipeline.NewRunner(pipeline.Config{
		Composer:  composer,
		Images:    rt.newImages(),
		Browser:   browser.Config{Headless: rt.cfg.Headless, UserAgent: rt.cfg.UserAgent},
		Auth:      rt.newAuthenticator(),
		Publisher: linkedin.NewPublisher(diags, rt.logger),
		Posts:     rt.newPosts(ctx),
		Notifier:  rt.newNotifier(),
		PostsDir:  rt.cfg.PostsDir,
		LogsDir:   rt.cfg.LogsDir,
		Logger:    rt.logger,
	}), nil
}
