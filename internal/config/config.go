package config

import (
	"herald/internal/env"
)

// Config stores environment configuration for Herald.
type Config struct {
	// LinkedIn session
	LinkedInEmail    string
	LinkedInPassword string
	CookiesFile      string
	Headless         bool
	UserAgent        string

	// Run artifacts
	PostsDir string
	LogsDir  string
	ShotsDir string

	// Research
	Topic          string
	SearchLimit    int
	SerpAPIKey     string
	SerpAPIURL     string
	GoogleNewsURL  string
	MediumURL      string
	ArticleSources int

	// Composition
	LLMProvider    string
	LLMModel       string
	LLMAPIKey      string
	LLMAPIURL      string
	LLMMaxTokens   int
	LLMTemperature float64

	// Image generation
	StabilityAPIKey string
	StabilityAPIURL string

	// Post history
	DatabaseURL string

	// Outcome notification
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	NotifyEmail  string

	// Service mode
	Port           string
	Schedule       string
	MaxPostsPerDay int
}

// LoadConfig loads the Herald configuration from environment variables.
func LoadConfig() Config {
	return Config{
		LinkedInEmail:    env.GetEnv("LINKEDIN_EMAIL", ""),
		LinkedInPassword: env.GetEnv("LINKEDIN_PASSWORD", ""),
		CookiesFile:      env.GetEnv("HERALD_COOKIES_FILE", "linkedin_cookies.json"),
		Headless:         env.GetEnvBool("HERALD_HEADLESS", true),
		UserAgent:        env.GetEnv("HERALD_USER_AGENT", ""),

		PostsDir: env.GetEnv("HERALD_POSTS_DIR", "linkedin_posts"),
		LogsDir:  env.GetEnv("HERALD_LOGS_DIR", "linkedin_logs"),
		ShotsDir: env.GetEnv("HERALD_SHOTS_DIR", "."),

		Topic:          env.GetEnv("HERALD_TOPIC", "trending technology news today"),
		SearchLimit:    env.GetEnvInt("HERALD_SEARCH_LIMIT", 5),
		SerpAPIKey:     env.GetEnv("SERPAPI_API_KEY", ""),
		SerpAPIURL:     env.GetEnv("SERPAPI_API_URL", ""),
		GoogleNewsURL:  env.GetEnv("GOOGLE_NEWS_RSS_URL", ""),
		MediumURL:      env.GetEnv("MEDIUM_SEARCH_URL", ""),
		ArticleSources: env.GetEnvInt("HERALD_ARTICLE_SOURCES", 2),

		LLMProvider:    env.GetEnv("LLM_PROVIDER", "gemini"),
		LLMModel:       env.GetEnv("LLM_MODEL", "gemini-pro"),
		LLMAPIKey:      env.GetEnv("LLM_API_KEY", env.GetEnv("GOOGLE_API_KEY", "")),
		LLMAPIURL:      env.GetEnv("LLM_API_URL", ""),
		LLMMaxTokens:   env.GetEnvInt("LLM_MAX_TOKENS", 2048),
		LLMTemperature: env.GetEnvFloat("LLM_TEMPERATURE", 0.7),

		StabilityAPIKey: env.GetEnv("STABILITY_API_KEY", ""),
		StabilityAPIURL: env.GetEnv("STABILITY_API_URL", ""),

		DatabaseURL: env.GetEnv("DATABASE_URL", ""),

		SMTPHost:     env.GetEnv("SMTP_HOST", ""),
		SMTPPort:     env.GetEnv("SMTP_PORT", "587"),
		SMTPUsername: env.GetEnv("SMTP_USERNAME", ""),
		SMTPPassword: env.GetEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     env.GetEnv("SMTP_FROM", ""),
		NotifyEmail:  env.GetEnv("HERALD_NOTIFY_EMAIL", ""),

		Port:           env.GetEnv("PORT", "18080"),
		Schedule:       env.GetEnv("HERALD_SCHEDULE", "0 9 * * *"),
		MaxPostsPerDay: env.GetEnvInt("HERALD_MAX_POSTS_PER_DAY", 2),
	}
}

// HasLinkedInCredentials reports whether manual login is possible.
func (c Config) HasLinkedInCredentials() bool {
	return c.LinkedInEmail != "" && c.LinkedInPassword != ""
}

// HasNotifier reports whether outcome email delivery is configured.
func (c Config) HasNotifier() bool {
	return c.SMTPHost != "" && c.SMTPFrom != "" && c.NotifyEmail != ""
}
