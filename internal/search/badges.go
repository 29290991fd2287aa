package search

// CapabilityLabel maps a playback-badge token to its display label.
type CapabilityLabel struct {
	Key   string
	Label string
}

// QualityCapabilities lists the known quality/audio/download badge tokens in
// display order.
var QualityCapabilities = []CapabilityLabel{
	{Key: "VIDEO_ULTRA_HD", Label: "Ultra 4K HD"},
	{Key: "VIDEO_HD", Label: "HD"},
	{Key: "VIDEO_SD", Label: "SD"},
	{Key: "VIDEO_DOLBY_VISION", Label: "Dolby Vision"},
	{Key: "VIDEO_HDR10_PLUS", Label: "HDR10+"},
	{Key: "VIDEO_HDR", Label: "HDR"},
	{Key: "AUDIO_DOLBY_ATMOS", Label: "Dolby Atmos"},
	{Key: "AUDIO_SPATIAL", Label: "Spatial Audio"},
	{Key: "AUDIO_FIVE_DOT_ONE", Label: "5.1 Dolby"},
	{Key: "OFFLINE_DOWNLOAD_AVAILABLE", Label: "Downloads"},
}

// LabelBadges returns display labels for the known tokens present in badges,
// in capability display order. Unknown tokens are ignored.
func LabelBadges(badges []string) []string {
	present := make(map[string]bool, len(badges))
	for _, b := range badges {
		present[b] = true
	}
	var labels []string
	for _, c := range QualityCapabilities {
		if present[c.Key] {
			labels = append(labels, c.Label)
		}
	}
	return labels
}
