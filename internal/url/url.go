package url

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// IsRemote reports whether a table source names an http(s) URL rather than
// a local file.
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func Sanitize(uri string) (string, error) {
	// URL sanitanization for source argument
	parsedURI, err := url.ParseRequestURI(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse URI: %w", err)
	}
	if parsedURI.Host == "" {
		return "", fmt.Errorf("URI has no host: %s", uri)
	}
	// Collapse repeated slashes and drop the trailing one
	if parsedURI.Path != "" {
		parsedURI.Path = strings.TrimSuffix(path.Clean(parsedURI.Path), "/")
		parsedURI.RawPath = ""
	}
	return parsedURI.String(), nil
}
