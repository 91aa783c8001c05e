package storage

import (
	"strings"
	"testing"
)

func TestValidateMediaFile(t *testing.T) {
	const mb = 1024 * 1024

	tests := []struct {
		name     string
		mimeType string
		size     int64
		want     bool
	}{
		{name: "small jpeg", mimeType: "image/jpeg", size: 1 * mb, want: true},
		{name: "image at the 5MB limit", mimeType: "image/png", size: 5 * mb, want: true},
		{name: "image over the limit", mimeType: "image/png", size: 5*mb + 1, want: false},
		{name: "video under 50MB", mimeType: "video/mp4", size: 40 * mb, want: true},
		{name: "video at the 50MB limit", mimeType: "video/mp4", size: 50 * mb, want: true},
		{name: "video over the limit", mimeType: "video/mp4", size: 50*mb + 1, want: false},
		{name: "disallowed type", mimeType: "application/pdf", size: 1 * mb, want: false},
		{name: "empty mime type", mimeType: "", size: 1 * mb, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateMediaFile(tt.mimeType, tt.size); got != tt.want {
				t.Errorf("ValidateMediaFile(%q, %d) = %v, want %v", tt.mimeType, tt.size, got, tt.want)
			}
		})
	}
}

func TestUniqueFileName(t *testing.T) {
	name := UniqueFileName("holiday photo.jpg")

	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("UniqueFileName(%q) = %q, extension not preserved", "holiday photo.jpg", name)
	}
	if strings.Contains(name, "holiday") {
		t.Errorf("UniqueFileName(%q) = %q, original base name should not appear", "holiday photo.jpg", name)
	}

	if UniqueFileName("a.jpg") == UniqueFileName("a.jpg") {
		t.Error("two generated names for the same input must differ")
	}
}

func TestUniqueFileNameWithoutExtension(t *testing.T) {
	name := UniqueFileName("README")
	if strings.Contains(name, ".") {
		t.Errorf("UniqueFileName(%q) = %q, no extension expected", "README", name)
	}
}
