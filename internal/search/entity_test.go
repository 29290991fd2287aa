package search

import (
	"strings"
	"testing"
)

const sampleEnvelope = `{
  "data": {
    "unifiedEntities": [
      {
        "__typename": "Movie",
        "videoId": 82156122,
        "title": "The Gray Man",
        "unifiedEntityId": "Video:82156122",
        "boxart": {"__typename": "Image", "available": true, "url": "https://img/boxart.webp", "width": 342, "height": 192, "key": "boxart", "status": "AVAILABLE", "focalPoint": {"x": 0.5, "y": 0.3}},
        "boxartHighRes": {"__typename": "Image", "available": true, "url": "https://img/hi.webp", "width": 1280, "height": 720, "key": "hi", "status": "AVAILABLE", "focalPoint": null},
        "storyArt": {"__typename": "Image", "available": true, "url": "https://img/story.webp", "width": 1920, "height": 1080, "key": "story", "status": "AVAILABLE", "focalPoint": null},
        "titleLogoBranded": {"__typename": "Image", "available": false, "url": "", "width": 0, "height": 0, "key": "", "status": "", "focalPoint": null},
        "titleLogoUnbranded": {"__typename": "Image", "available": false, "url": "", "width": 0, "height": 0, "key": "", "status": "", "focalPoint": null},
        "brandLogoSmall": null,
        "availabilityStartTime": "2022-07-22T07:00:00.000Z",
        "isAvailable": true,
        "isPlayable": true,
        "unplayableCauses": [],
        "bookmark": {"position": 120},
        "liveEvent": null,
        "liveNow": null,
        "promoVideo": null,
        "taglineMessages": [{"__typename": "TaglineMessage", "tagline": "Explosive.", "typedClassification": "REGULAR"}],
        "mostLikedMessages": [],
        "textEvidence": [{"__typename": "TextEvidence", "key": "tags", "text": "Action, Thriller"}],
        "playbackBadges": ["VIDEO_ULTRA_HD", "AUDIO_DOLBY_ATMOS", "OFFLINE_DOWNLOAD_AVAILABLE"],
        "badges": [],
        "runtimeSec": 7320,
        "displayRuntimeSec": 7320,
        "latestYear": 2022,
        "watchStatus": "UNWATCHED",
        "thumbsRating": "NONE",
        "isInPlaylist": false,
        "isInRemindMeList": false,
        "playlistActions": [],
        "contentWarning": null,
        "contentAdvisory": {
          "__typename": "ContentAdvisory",
          "boardId": 10, "boardName": "MPAA",
          "certificationRatingId": 4, "certificationValue": "PG-13",
          "i18nReasonsText": "violence", "maturityDescription": "Teens",
          "maturityLevel": 80,
          "reasons": [{"__typename": "ContentAdvisoryReason", "iconId": 1, "level": "HIGH", "text": "intense violence"}],
          "videoSpecificRatingReason": null
        }
      }
    ]
  }
}`

func TestDecodeEnvelope(t *testing.T) {
	env, err := DecodeEnvelope([]byte(sampleEnvelope))
	if err != nil {
		t.Fatalf("DecodeEnvelope failed: %v", err)
	}

	ent := env.First()
	if ent == nil {
		t.Fatal("First() = nil, want entity")
	}
	if ent.VideoID != 82156122 {
		t.Errorf("VideoID = %d, want 82156122", ent.VideoID)
	}
	if ent.Title != "The Gray Man" {
		t.Errorf("Title = %q", ent.Title)
	}
	if ent.ContentAdvisory.CertificationValue != "PG-13" {
		t.Errorf("CertificationValue = %q", ent.ContentAdvisory.CertificationValue)
	}
	if ent.Boxart.FocalPoint == nil || ent.Boxart.FocalPoint.X != 0.5 {
		t.Errorf("Boxart.FocalPoint = %+v", ent.Boxart.FocalPoint)
	}
	// Unconsumed fields ride along as opaque blobs.
	if string(ent.Bookmark) != `{"position": 120}` {
		t.Errorf("Bookmark = %s, want opaque pass-through", ent.Bookmark)
	}
}

func TestDecodeEnvelopeEmpty(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"data":{"unifiedEntities":[]}}`))
	if err != nil {
		t.Fatalf("DecodeEnvelope failed: %v", err)
	}
	if env.First() != nil {
		t.Error("First() on empty envelope should be nil")
	}

	env, err = DecodeEnvelope([]byte(`{}`))
	if err != nil {
		t.Fatalf("DecodeEnvelope on bare object failed: %v", err)
	}
	if env.First() != nil {
		t.Error("First() without data should be nil")
	}
}

func TestLabelBadges(t *testing.T) {
	labels := LabelBadges([]string{"AUDIO_DOLBY_ATMOS", "VIDEO_ULTRA_HD", "UNKNOWN_TOKEN"})
	// Display order, unknown tokens dropped.
	want := []string{"Ultra 4K HD", "Dolby Atmos"}
	if len(labels) != len(want) {
		t.Fatalf("labels = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestFormatRuntime(t *testing.T) {
	if got := FormatRuntime(7320); got != "2h 2m" {
		t.Errorf("FormatRuntime(7320) = %q, want 2h 2m", got)
	}
	if got := FormatRuntime(2700); got != "45m" {
		t.Errorf("FormatRuntime(2700) = %q, want 45m", got)
	}
}

func TestExportMarkdown(t *testing.T) {
	env, err := DecodeEnvelope([]byte(sampleEnvelope))
	if err != nil {
		t.Fatalf("DecodeEnvelope failed: %v", err)
	}
	md := ExportMarkdown(env.First())

	for _, want := range []string{
		"# The Gray Man (2022)",
		"- **Video ID:** 82156122",
		"- **Runtime:** 2h 2m",
		"Ultra 4K HD, Dolby Atmos, Downloads",
		"- **Rating:** PG-13",
		"- intense violence",
		"Action, Thriller",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}
