package config

import (
	"os"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"LINKEDIN_EMAIL", "LINKEDIN_PASSWORD", "HERALD_COOKIES_FILE", "HERALD_HEADLESS",
		"HERALD_TOPIC", "LLM_PROVIDER", "LLM_MODEL", "LLM_API_KEY", "GOOGLE_API_KEY",
		"SMTP_PORT", "HERALD_SCHEDULE", "HERALD_MAX_POSTS_PER_DAY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := LoadConfig()

	if cfg.CookiesFile != "linkedin_cookies.json" {
		t.Errorf("CookiesFile = %q, want %q", cfg.CookiesFile, "linkedin_cookies.json")
	}
	if !cfg.Headless {
		t.Error("Headless = false, want true by default")
	}
	if cfg.PostsDir != "linkedin_posts" {
		t.Errorf("PostsDir = %q, want %q", cfg.PostsDir, "linkedin_posts")
	}
	if cfg.Topic != "trending technology news today" {
		t.Errorf("Topic = %q, want default topic", cfg.Topic)
	}
	if cfg.LLMProvider != "gemini" {
		t.Errorf("LLMProvider = %q, want %q", cfg.LLMProvider, "gemini")
	}
	if cfg.LLMModel != "gemini-pro" {
		t.Errorf("LLMModel = %q, want %q", cfg.LLMModel, "gemini-pro")
	}
	if cfg.SMTPPort != "587" {
		t.Errorf("SMTPPort = %q, want %q", cfg.SMTPPort, "587")
	}
	if cfg.Schedule != "0 9 * * *" {
		t.Errorf("Schedule = %q, want %q", cfg.Schedule, "0 9 * * *")
	}
	if cfg.MaxPostsPerDay != 2 {
		t.Errorf("MaxPostsPerDay = %d, want 2", cfg.MaxPostsPerDay)
	}
}

func TestLoadConfig_GoogleKeyFallback(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	os.Unsetenv("LLM_API_KEY")
	t.Setenv("GOOGLE_API_KEY", "g-key")

	if got := LoadConfig().LLMAPIKey; got != "g-key" {
		t.Errorf("LLMAPIKey = %q, want fallback %q", got, "g-key")
	}

	t.Setenv("LLM_API_KEY", "llm-key")
	if got := LoadConfig().LLMAPIKey; got != "llm-key" {
		t.Errorf("LLMAPIKey = %q, want %q over fallback", got, "llm-key")
	}
}

func TestHasLinkedInCredentials(t *testing.T) {
	cfg := Config{}
	if cfg.HasLinkedInCredentials() {
		t.Error("expected false with no credentials")
	}
	cfg.LinkedInEmail = "user@example.com"
	if cfg.HasLinkedInCredentials() {
		t.Error("expected false with email only")
	}
	cfg.LinkedInPassword = "hunter2"
	if !cfg.HasLinkedInCredentials() {
		t.Error("expected true with both set")
	}
}

func TestHasNotifier(t *testing.T) {
	cfg := Config{SMTPHost: "smtp.example.com", SMTPFrom: "herald@example.com"}
	if cfg.HasNotifier() {
		t.Error("expected false without a recipient")
	}
	cfg.NotifyEmail = "owner@example.com"
	if !cfg.HasNotifier() {
		t.Error("expected true with host, sender, and recipient")
	}
}
