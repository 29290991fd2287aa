// Package search implements the client-side lookup orchestrator: single and
// batched metadata lookups against the gateway, search history, latency
// analytics, rate-budget mirroring, share-URL state and its persistence.
package search

import (
	"encoding/json"
	"fmt"
	"time"
)

// FocalPoint is the point of interest inside an artwork image.
type FocalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Image is one artwork reference attached to an entity.
type Image struct {
	TypeName   string      `json:"__typename"`
	Available  bool        `json:"available"`
	FocalPoint *FocalPoint `json:"focalPoint"`
	Height     int         `json:"height"`
	Key        string      `json:"key"`
	Status     string      `json:"status"`
	URL        string      `json:"url"`
	Width      int         `json:"width"`
}

// ContentAdvisoryReason is a single maturity-rating reason text.
type ContentAdvisoryReason struct {
	TypeName string `json:"__typename"`
	IconID   int    `json:"iconId"`
	Level    string `json:"level"`
	Text     string `json:"text"`
}

// ContentAdvisory is the maturity-rating block attached to an entity.
type ContentAdvisory struct {
	TypeName                  string                  `json:"__typename"`
	BoardID                   int                     `json:"boardId"`
	BoardName                 string                  `json:"boardName"`
	CertificationRatingID     int                     `json:"certificationRatingId"`
	CertificationValue        string                  `json:"certificationValue"`
	I18nReasonsText           string                  `json:"i18nReasonsText"`
	MaturityDescription       string                  `json:"maturityDescription"`
	MaturityLevel             int                     `json:"maturityLevel"`
	Reasons                   []ContentAdvisoryReason `json:"reasons"`
	VideoSpecificRatingReason *string                 `json:"videoSpecificRatingReason"`
}

// TaglineMessage is one promotional tagline.
type TaglineMessage struct {
	TypeName            string  `json:"__typename"`
	CtaMessage          *string `json:"ctaMessage,omitempty"`
	Tagline             string  `json:"tagline"`
	TypedClassification string  `json:"typedClassification"`
}

// TextEvidence is one free-text descriptor (tags line, context snippet).
type TextEvidence struct {
	TypeName string `json:"__typename"`
	Key      string `json:"key"`
	Text     string `json:"text"`
}

// Entity is the normalized metadata record for one title. Fields whose shape
// this client does not consume (bookmark, live-event markers, promo video)
// are carried as opaque blobs rather than modelled; the upstream owns that
// contract.
type Entity struct {
	TypeName        string `json:"__typename"`
	VideoID         int64  `json:"videoId"`
	Title           string `json:"title"`
	UnifiedEntityID string `json:"unifiedEntityId"`

	Boxart             Image  `json:"boxart"`
	BoxartHighRes      Image  `json:"boxartHighRes"`
	BrandLogoSmall     *Image `json:"brandLogoSmall"`
	StoryArt           Image  `json:"storyArt"`
	TitleLogoBranded   Image  `json:"titleLogoBranded"`
	TitleLogoUnbranded Image  `json:"titleLogoUnbranded"`

	AvailabilityStartTime string   `json:"availabilityStartTime"`
	IsAvailable           bool     `json:"isAvailable"`
	IsPlayable            bool     `json:"isPlayable"`
	UnplayableCauses      []string `json:"unplayableCauses"`

	TaglineMessages   []TaglineMessage `json:"taglineMessages"`
	MostLikedMessages []TaglineMessage `json:"mostLikedMessages"`
	TextEvidence      []TextEvidence   `json:"textEvidence"`

	PlaybackBadges []string `json:"playbackBadges"`
	Badges         []string `json:"badges"`

	RuntimeSec        int64 `json:"runtimeSec"`
	DisplayRuntimeSec int64 `json:"displayRuntimeSec"`
	LatestYear        int   `json:"latestYear"`

	ContentAdvisory ContentAdvisory `json:"contentAdvisory"`
	ContentWarning  *string         `json:"contentWarning"`

	WatchStatus      string   `json:"watchStatus"`
	ThumbsRating     string   `json:"thumbsRating"`
	IsInPlaylist     bool     `json:"isInPlaylist"`
	IsInRemindMeList bool     `json:"isInRemindMeList"`
	PlaylistActions  []string `json:"playlistActions"`

	// Opaque pass-through: preserved on re-encode, never inspected.
	LiveEvent  json.RawMessage `json:"liveEvent,omitempty"`
	LiveNow    json.RawMessage `json:"liveNow,omitempty"`
	Bookmark   json.RawMessage `json:"bookmark,omitempty"`
	PromoVideo json.RawMessage `json:"promoVideo,omitempty"`
}

// Envelope is the gateway's success payload: the upstream GraphQL response
// passed through verbatim.
type Envelope struct {
	Data *struct {
		UnifiedEntities []Entity `json:"unifiedEntities"`
	} `json:"data"`
}

// DecodeEnvelope parses a gateway metadata response body.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding metadata envelope: %w", err)
	}
	return &env, nil
}

// First returns the first entity in the envelope, or nil when the lookup
// resolved no content.
func (e *Envelope) First() *Entity {
	if e == nil || e.Data == nil || len(e.Data.UnifiedEntities) == 0 {
		return nil
	}
	return &e.Data.UnifiedEntities[0]
}

// FormatRuntime renders a runtime in seconds as "1h 52m" or "52m".
func FormatRuntime(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatDate renders an RFC 3339 availability timestamp as "Jan 2, 2006".
// Unparseable input is returned as-is.
func FormatDate(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Format("Jan 2, 2006")
}

// IsFutureDate reports whether the availability timestamp lies in the future
// (an upcoming title).
func IsFutureDate(value string) bool {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return false
	}
	return t.After(time.Now())
}
