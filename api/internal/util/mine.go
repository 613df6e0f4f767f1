package util

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// DisplayMIME is the tag put on every echoed image, whatever the source format.
const DisplayMIME = "image/jpeg"

func MakeDataURL(mime, b64 string) string {
	return "data:" + mime + ";base64," + b64
}

// EncodeDataURL base64-encodes data and wraps it in a data: URI.
func EncodeDataURL(mime string, data []byte) string {
	return MakeDataURL(mime, base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURL parses data:<mime>;base64,<payload>. Plain base64 is accepted too.
func DecodeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	var mime string
	if strings.HasPrefix(s, "data:") {
		if idx := strings.IndexByte(s, ','); idx > 0 {
			meta := s[len("data:"):idx]
			if semi := strings.IndexByte(meta, ';'); semi >= 0 {
				mime = meta[:semi]
			} else {
				mime = meta
			}
			s = s[idx+1:]
		}
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, "", err
	}
	return b, mime, nil
}

// PickImageMIME prefers what the bytes say, then the declared type, else image/jpeg.
func PickImageMIME(declared string, data []byte) string {
	if len(data) > 0 {
		if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
			return sniffed
		}
	}
	if d := strings.ToLower(strings.TrimSpace(declared)); strings.HasPrefix(d, "image/") {
		if semi := strings.IndexByte(d, ';'); semi >= 0 {
			d = strings.TrimSpace(d[:semi])
		}
		return d
	}
	return "image/jpeg"
}
