package selector

import (
	"fmt"
	"strings"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

// climateGuidance holds drying-time guidance per climate zone. Values are
// indicative working figures for scoping, not engineering limits.
type climateGuidance struct {
	zone         string
	dryingDays   string
	humidityNote string
}

// regionClimates maps region names (and the state codes commonly used as
// regions) to climate zones.
var regionClimates = map[string]string{
	"tropical":    "tropical",
	"subtropical": "subtropical",
	"temperate":   "temperate",
	"arid":        "arid",
	"qld":         "subtropical",
	"nt":          "tropical",
	"nsw":         "temperate",
	"act":         "temperate",
	"vic":         "temperate",
	"tas":         "temperate",
	"sa":          "arid",
	"wa":          "arid",
}

// climateTable is the lookup behind derived notes, keyed by climate zone.
var climateTable = map[string]climateGuidance{
	"tropical": {
		zone:         "tropical",
		dryingDays:   "5–7 days",
		humidityNote: "sustained high ambient humidity; mechanical dehumidification is required for the full drying period",
	},
	"subtropical": {
		zone:         "subtropical",
		dryingDays:   "4–6 days",
		humidityNote: "seasonal humidity extends drying times; verify moisture content daily rather than assuming standard timelines",
	},
	"temperate": {
		zone:         "temperate",
		dryingDays:   "3–5 days",
		humidityNote: "standard drying timelines generally apply outside winter months",
	},
	"arid": {
		zone:         "arid",
		dryingDays:   "2–4 days",
		humidityNote: "low ambient humidity accelerates drying; monitor for over-drying of timber elements",
	},
}

// deriveNotes produces the free-text guidance attached to a candidate
// set, computed from the query's region (falling back to jurisdiction)
// and work type. An unknown region yields no notes.
func deriveNotes(query types.SituationalQuery) string {
	region := strings.ToLower(strings.TrimSpace(query.Region))
	if region == "" {
		region = strings.ToLower(string(query.Jurisdiction))
	}
	zone, ok := regionClimates[region]
	if !ok {
		return ""
	}
	guidance := climateTable[zone]

	var notes strings.Builder
	fmt.Fprintf(&notes, "Climate zone %s: expected structural drying window %s; %s.",
		guidance.zone, guidance.dryingDays, guidance.humidityNote)
	if query.SeverityTier != "" {
		fmt.Fprintf(&notes, " Water category %s procedures apply throughout.", query.SeverityTier)
	}
	return notes.String()
}
