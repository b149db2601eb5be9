package validation

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Request is the JSON body accepted by both endpoints. Quality and Format are
// only read by the download endpoint.
type Request struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Format  string `json:"format"`
}

var (
	validHosts = map[string]bool{
		"youtube.com":              true,
		"www.youtube.com":          true,
		"m.youtube.com":            true,
		"music.youtube.com":        true,
		"gaming.youtube.com":       true,
		"youtube-nocookie.com":     true,
		"www.youtube-nocookie.com": true,
	}
	shortHosts = map[string]bool{
		"youtu.be":     true,
		"www.youtu.be": true,
	}
	pathPrefixes = []string{"/embed/", "/shorts/", "/live/", "/v/", "/e/"}

	videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

const videoIDLength = 11

// ValidateURL accepts only links that identify a single video on the host site.
func ValidateURL(rawURL string) error {
	_, err := VideoID(rawURL)
	return err
}

// VideoID extracts the 11-character video id from rawURL.
func VideoID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", &ValidationError{Message: "URL is required"}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", &ValidationError{Message: "invalid URL format"}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", &ValidationError{Message: "URL must start with http or https"}
	}

	host := strings.ToLower(parsedURL.Hostname())
	var id string
	switch {
	case shortHosts[host]:
		id = strings.SplitN(strings.TrimPrefix(parsedURL.Path, "/"), "/", 2)[0]
	case validHosts[host]:
		id = parsedURL.Query().Get("v")
		if id == "" {
			for _, prefix := range pathPrefixes {
				if strings.HasPrefix(parsedURL.Path, prefix) {
					id = strings.SplitN(strings.TrimPrefix(parsedURL.Path, prefix), "/", 2)[0]
					break
				}
			}
		}
	default:
		return "", &ValidationError{Message: "not a video site URL"}
	}

	if id == "" {
		return "", &ValidationError{Message: "URL does not contain a video id"}
	}
	// Anything after the eleventh character is ignored, e.g. "?v=dQw4w9WgXcQXYZ".
	if len(id) > videoIDLength {
		id = id[:videoIDLength]
	}
	if !videoIDPattern.MatchString(id) {
		return "", &ValidationError{Message: "URL contains a malformed video id"}
	}

	return id, nil
}

// DecodeRequest reads at most maxBytes of JSON from r's body.
func DecodeRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (*Request, error) {
	var req Request
	if r.Body == nil {
		return &req, nil
	}

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return &req, nil
		}
		return nil, errors.Wrap(err, "error decoding request body")
	}
	return &req, nil
}
