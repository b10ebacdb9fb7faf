package shared

import "testing"

func TestWarningCollectorDisabled(t *testing.T) {
	wc := NewWarningCollector(false)
	wc.AddCoverFetchWarning("A - B", "timeout")
	if wc.HasWarnings() {
		t.Errorf("disabled collector should not record warnings, got %d", wc.GetWarningCount())
	}
}

func TestWarningCollectorGroupsByType(t *testing.T) {
	wc := NewWarningCollector(true)
	wc.AddCoverFetchWarning("A - B", "timeout")
	wc.AddCoverFetchWarning("A - C", "404")
	wc.AddTaggingWarning("A - B", "invalid FLAC")

	if got := wc.GetWarningCount(); got != 3 {
		t.Fatalf("expected 3 warnings, got %d", got)
	}
	grouped := wc.GetWarningsByType()
	if len(grouped[CoverFetchWarning]) != 2 {
		t.Errorf("expected 2 cover warnings, got %d", len(grouped[CoverFetchWarning]))
	}
	if len(grouped[TaggingWarning]) != 1 {
		t.Errorf("expected 1 tagging warning, got %d", len(grouped[TaggingWarning]))
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		`a/b:c`:       "a_b_c",
		"  .hidden. ": "hidden",
		"":            "unknown",
		`x\y*z?`:      "x_y_z_",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	if got := FormatFileSize(0); got != "0 B" {
		t.Errorf("got %q", got)
	}
	if got := FormatFileSize(512); got != "512 B" {
		t.Errorf("got %q", got)
	}
	if got := FormatFileSize(1536); got != "1.50 KB" {
		t.Errorf("got %q", got)
	}
	if got := FormatFileSize(12 * 1024 * 1024); got != "12.00 MB" {
		t.Errorf("got %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(0); got != "00:00" {
		t.Errorf("got %q", got)
	}
	if got := FormatDuration(185); got != "03:05" {
		t.Errorf("got %q", got)
	}
}
