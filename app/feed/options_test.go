package feed

import "testing"

func TestOptionsDefaults(t *testing.T) {
	opts := DefaultOptions()

	tests := []struct {
		name     string
		expected string
	}{
		{"cache_enabled", "false"},
		{"cache_directory", ""},
		{"cache_ttl_minutes", "350"},
		{"parse_rss", "true"},
		{"parse_atom", "true"},
		{"build_rss_summary", "true"},
		{"summary_max_length", "140"},
		{"image_source_preference", "serial"},
		{"date_format", ""},
		{"extract_content", "false"},
	}

	for _, tt := range tests {
		got, err := opts.Get(tt.name)
		if err != nil {
			t.Errorf("Get(%s): unexpected error: %v", tt.name, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("Get(%s): expected %q, got: %q", tt.name, tt.expected, got)
		}
	}
}

func TestOptionsSetRoundTrip(t *testing.T) {
	opts := DefaultOptions()

	if err := opts.Set("summary_max_length", "80"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if opts.SummaryMaxLength != 80 {
		t.Errorf("Expected 80, got: %d", opts.SummaryMaxLength)
	}

	if err := opts.Set("parse_atom", "false"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if opts.ParseAtom {
		t.Error("Expected parse_atom to be disabled")
	}

	if err := opts.Set("image_source_preference", "media"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if opts.ImageSource != ImageSourceMedia {
		t.Errorf("Expected media preference, got: %q", opts.ImageSource)
	}

	// The short key form is accepted as an alias.
	if err := opts.Set("cache_dir", "/tmp/mill"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got, err := opts.Get("cache_directory")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "/tmp/mill" {
		t.Errorf("Expected '/tmp/mill', got: %q", got)
	}
}

func TestOptionsUnknownKey(t *testing.T) {
	opts := DefaultOptions()

	if _, err := opts.Get("no_such_option"); err == nil {
		t.Error("Expected error for unknown option on Get")
	}
	if err := opts.Set("no_such_option", "x"); err == nil {
		t.Error("Expected error for unknown option on Set")
	}
}

func TestOptionsInvalidValues(t *testing.T) {
	opts := DefaultOptions()

	if err := opts.Set("parse_rss", "maybe"); err == nil {
		t.Error("Expected error for invalid boolean")
	}
	if err := opts.Set("cache_ttl_minutes", "soon"); err == nil {
		t.Error("Expected error for invalid integer")
	}
	if err := opts.Set("image_source_preference", "gallery"); err == nil {
		t.Error("Expected error for invalid preference")
	}
}
