package web

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/greencart/greencart/internal/llm"
)

const maxImageSize = 10 * 1024 * 1024 // 10 MB

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// handleDescribeImage accepts a produce photo as either a multipart form
// ("image" field) or a JSON body {"image": "<data URL or base64>"}, and
// responds with its structured description.
func (s *Server) handleDescribeImage(w http.ResponseWriter, r *http.Request) {
	imageData, err := s.readImage(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unsupported image format")
		return
	}

	desc, err := s.session.DescribeImage(r.Context(), imageData, mimeType)
	if err != nil {
		s.logger.Error("describe image failed", "error", err)
		if errors.Is(err, llm.ErrUnavailable) {
			s.writeError(w, http.StatusServiceUnavailable, "failed to analyze image")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to analyze image")
		return
	}

	s.writeJSON(w, http.StatusOK, desc)
}

// readImage extracts the raw image bytes from either request encoding.
func (s *Server) readImage(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageSize); err != nil {
			return nil, errors.New("failed to parse form")
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, errors.New("image file required")
		}
		defer func() {
			if err := file.Close(); err != nil {
				s.logger.Error("failed to close upload file", "error", err)
			}
		}()

		data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
		if err != nil {
			return nil, errors.New("failed to read file")
		}
		if len(data) > maxImageSize {
			return nil, errors.New("image too large")
		}
		return data, nil
	}

	var body struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxImageSize)).Decode(&body); err != nil {
		return nil, errors.New("invalid request body")
	}
	if body.Image == "" {
		return nil, errors.New("missing image data")
	}

	// Accept both a full data URL and a bare base64 payload.
	encoded := body.Image
	if idx := strings.Index(encoded, ";base64,"); idx >= 0 {
		encoded = encoded[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.New("invalid image encoding")
	}
	return data, nil
}
