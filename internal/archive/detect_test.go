package archive

import "testing"

func TestExtractArchiveID(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"twl_en_tw.capsule.tar.xz", "twl_en_tw"},
		{"twl_en_tw.capsule.tar.gz", "twl_en_tw"},
		{"en_tw.tar.xz", "en_tw"},
		{"en_tw.tar.gz", "en_tw"},
		{"en_tw.tar", "en_tw"},
		{"GEN.usfm", "GEN"},
		{"my-vocab-v2.tar.gz", "my-vocab-v2"},
		{"no-extension", "no-extension"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := ExtractArchiveID(tt.filename)
			if got != tt.want {
				t.Errorf("ExtractArchiveID(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.tar.xz", "tar.xz"},
		{"a.tar.gz", "tar.gz"},
		{"a.tar", "tar"},
		{"a.zip", "unknown"},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.path); got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestIsSupportedFormat(t *testing.T) {
	if !IsSupportedFormat("a.tar.gz") {
		t.Error("expected tar.gz to be supported")
	}
	if IsSupportedFormat("a.zip") {
		t.Error("expected zip to be unsupported")
	}
}
