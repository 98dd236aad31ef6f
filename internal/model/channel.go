package model

import "strings"

// Canonical marketing channel names produced by the cleaner.
const (
	ChannelEmail     = "Email"
	ChannelSocial    = "Social"
	ChannelSearch    = "Search"
	ChannelDisplay   = "Display"
	ChannelAffiliate = "Affiliate"
	ChannelVideo     = "Video"
	// ChannelOther is the opt-in catch-all for unmapped values.
	ChannelOther = "Other"
)

// channelSynonyms maps trimmed, case-folded raw channel values to their
// canonical names.
var channelSynonyms = map[string]string{
	"email":        ChannelEmail,
	"e-mail":       ChannelEmail,
	"mail":         ChannelEmail,
	"social":       ChannelSocial,
	"social media": ChannelSocial,
	"search":       ChannelSearch,
	"paid search":  ChannelSearch,
	"sem":          ChannelSearch,
	"ppc":          ChannelSearch,
	"display":      ChannelDisplay,
	"banner":       ChannelDisplay,
	"affiliate":    ChannelAffiliate,
	"affiliates":   ChannelAffiliate,
	"video":        ChannelVideo,
	"youtube":      ChannelVideo,
	"other":        ChannelOther,
}

// CanonicalChannel resolves a raw channel value to its canonical name.
// The boolean reports whether the value was resolvable; unresolved values
// come back trimmed but otherwise unchanged so the caller can decide
// whether to pass them through or coerce them.
func CanonicalChannel(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if canon, ok := channelSynonyms[strings.ToLower(trimmed)]; ok {
		return canon, true
	}
	return trimmed, false
}
