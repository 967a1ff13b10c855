package handlers

import (
	"encoding/base64"
	"strings"
)

// decodeImageBase64 decodes a base64 image payload. A data: URL prefix is
// tolerated and its MIME is returned as a hint. Standard encoding is tried
// first, then the unpadded variant, since clients disagree about padding.
func decodeImageBase64(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)

	var hintMIME string
	if strings.HasPrefix(s, "data:") {
		// data:<mime>;base64,<payload>
		if idx := strings.IndexByte(s, ','); idx > 0 {
			meta := s[len("data:"):idx]
			if semi := strings.IndexByte(meta, ';'); semi >= 0 {
				hintMIME = meta[:semi]
			} else {
				hintMIME = meta
			}
			s = s[idx+1:]
		}
	}

	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, hintMIME, nil
	}
	b, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, "", err
	}
	return b, hintMIME, nil
}

// detectImageMIME picks the MIME type for the image part: the data: URL hint
// when present, else a sniff of the bytes, else the assumed default of JPEG.
func detectImageMIME(hint string, data []byte) string {
	if h := strings.TrimSpace(hint); h != "" {
		return h
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return "image/jpeg"
	}
	if len(data) >= 8 &&
		data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 &&
		data[4] == 0x0D && data[5] == 0x0A && data[6] == 0x1A && data[7] == 0x0A {
		return "image/png"
	}
	return "image/jpeg"
}
