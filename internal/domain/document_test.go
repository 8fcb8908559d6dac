package domain

import (
	"strings"
	"testing"
)

func TestIsPDFFilename(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"REPORT.PDF", true},
		{"Report.Pdf", true},
		{" spaced.pdf ", true},
		{"archive.pdf.zip", false},
		{"notes.txt", false},
		{"pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPDFFilename(tt.name); got != tt.want {
				t.Errorf("IsPDFFilename(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"My Report.PDF", "My_Report.PDF"},
		{"../../etc/passwd.pdf", "etc_passwd.pdf"},
		{`C:\Users\bob\cv.pdf`, "C_Users_bob_cv.pdf"},
		{"résumé.pdf", "rsum.pdf"},
		{"日本.pdf", "document.pdf"},
		{".pdf", "document.pdf"},
		{"__hidden__.pdf", "hidden__.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("a", 300) + ".pdf")
	if len(got) != 255 {
		t.Fatalf("expected 255 characters, got %d", len(got))
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("expected extension to survive truncation, got %q", got)
	}
}

func TestContentHashAndBlobKey(t *testing.T) {
	hash := ContentHash([]byte("hello"))
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if hash != want {
		t.Fatalf("ContentHash = %s, want %s", hash, want)
	}
	if BlobKey(hash) != want+".pdf" {
		t.Fatalf("unexpected blob key %s", BlobKey(hash))
	}
}
