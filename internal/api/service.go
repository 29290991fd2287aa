package api

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Upstream abstracts the Netflix GraphQL client for the API layer.
type Upstream interface {
	FetchMetadata(ctx context.Context, videoID, credential string) ([]byte, error)
}

// CredentialSource resolves the cookie credential to attach to upstream
// calls. Resolution never fails; an unconfigured source yields "".
type CredentialSource interface {
	Resolve() string
}

// LookupService fronts the upstream with per-identifier request collapsing:
// concurrent lookups for the same video id share one upstream call.
type LookupService struct {
	upstream Upstream
	creds    CredentialSource
	group    singleflight.Group
}

func NewLookupService(upstream Upstream, creds CredentialSource) *LookupService {
	return &LookupService{upstream: upstream, creds: creds}
}

// Fetch returns the raw upstream response body for videoID. The credential
// is resolved fresh on every call so cookie updates take effect immediately.
func (s *LookupService) Fetch(ctx context.Context, videoID string) ([]byte, error) {
	v, err, _ := s.group.Do(videoID, func() (any, error) {
		return s.upstream.FetchMetadata(ctx, videoID, s.creds.Resolve())
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
