package search

import (
	"fmt"
	"net/url"
)

// shareParam is the query parameter carrying the shared video id.
const shareParam = "v"

// BuildShareURL mirrors videoID into the shareable URL's query parameter.
// An empty videoID removes the parameter: the URL is a pure projection of the
// current lookup.
func BuildShareURL(base, videoID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing share base URL: %w", err)
	}
	q := u.Query()
	if videoID == "" {
		q.Del(shareParam)
	} else {
		q.Set(shareParam, videoID)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// VideoIDFromURL extracts the shared video id from a share URL, or "" when
// absent. Reading this parameter is the sole trigger for an automatic
// initial lookup.
func VideoIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get(shareParam)
}
