package util

import (
	"bytes"
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n[{\"label\":\"cat\"}]\n```", `[{"label":"cat"}]`},
		{"bare fence", "```\n[]\n```", "[]"},
		{"no fence", "  [1,2] ", "[1,2]"},
		{"upper tag", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"one line", "```[1]```", "[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.in); got != tt.want {
				t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', 0, 1, 2, 3}
	u := EncodeDataURL(DisplayMIME, data)
	if want := "data:image/jpeg;base64,"; u[:len(want)] != want {
		t.Fatalf("prefix = %q", u[:len(want)])
	}
	got, mime, err := DecodeDataURL(u)
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	if mime != DisplayMIME {
		t.Errorf("mime = %q", mime)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("bytes = %v, want %v", got, data)
	}
}

func TestPickImageMIME(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if got := PickImageMIME("application/octet-stream", png); got != "image/png" {
		t.Errorf("sniffed png = %q", got)
	}
	if got := PickImageMIME("image/webp; q=1", []byte("not an image")); got != "image/webp" {
		t.Errorf("declared = %q", got)
	}
	if got := PickImageMIME("", nil); got != "image/jpeg" {
		t.Errorf("fallback = %q", got)
	}
}
