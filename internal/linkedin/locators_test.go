package linkedin

import "testing"

// The fallback order is a contract: the most specific selector first, looser
// ones after, so a markup change degrades instead of matching the wrong
// element.
func TestLocatorFallbackOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		locators []Locator
		values   []string
	}{
		{
			name:     "post trigger",
			locators: postTriggerLocators,
			values: []string{
				"button[data-control-name='share.sharebox_focus']",
				"//button[contains(.,'Start a post')]",
				"//div[contains(@class, 'share-box-feed-entry__trigger')]",
			},
		},
		{
			name:     "editor",
			locators: editorLocators,
			values: []string{
				"div[data-placeholder='What do you want to talk about?']",
				"div.ql-editor",
				"//div[contains(@class, 'editor-content')]",
			},
		},
		{
			name:     "submit",
			locators: submitLocators,
			values: []string{
				"button.share-actions__primary-action",
				"//button[contains(text(), 'Post')]",
				"button[type='submit']",
			},
		},
		{
			name:     "success indicators",
			locators: successIndicators,
			values: []string{
				"//div[contains(@class, 'share-box-feed-entry__trigger')]",
				"//div[contains(@class, 'feed-shared-update-v2')]",
				"//span[contains(text(), 'Post successful')]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if len(tt.locators) != len(tt.values) {
				t.Fatalf("got %d locators, want %d", len(tt.locators), len(tt.values))
			}
			for i, want := range tt.values {
				if tt.locators[i].Value != want {
					t.Errorf("locator %d = %q, want %q", i, tt.locators[i].Value, want)
				}
			}
		})
	}
}

func TestLoginIndicatorsAreClassProbes(t *testing.T) {
	t.Parallel()

	want := []string{
		".share-box-feed-entry__trigger",
		".global-nav__me-trigger",
		".feed-identity-module",
		".global-nav__primary-link",
	}
	if len(loginIndicators) != len(want) {
		t.Fatalf("got %d indicators, want %d", len(loginIndicators), len(want))
	}
	for i, w := range want {
		if loginIndicators[i].Value != w {
			t.Errorf("indicator %d = %q, want %q", i, loginIndicators[i].Value, w)
		}
	}
}
