// Package types defines the data model shared across the citation
// resolution engine: regulatory documents and sections, situational
// queries, section tokens, and resolved citations.
package types

import "time"

// RegulatoryDocument is the canonical record of one regulation, standard,
// or act. Documents are read-only to the engine: ingestion and supersession
// happen upstream, and superseded versions are archived rather than
// deleted so historical citations remain resolvable.
type RegulatoryDocument struct {
	// DocumentCode is the canonical short code, e.g. "NCC 2025" or
	// "AS/NZS 3000:2023". Unique within a jurisdiction.
	DocumentCode string `json:"document_code" yaml:"document_code"`

	// Title is the full document name, e.g. "National Construction Code".
	Title string `json:"title" yaml:"title"`

	Category     Category     `json:"category" yaml:"category"`
	Jurisdiction Jurisdiction `json:"jurisdiction,omitempty" yaml:"jurisdiction,omitempty"`

	Version       string     `json:"version" yaml:"version"`
	EffectiveDate time.Time  `json:"effective_date" yaml:"effective_date"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty" yaml:"expiry_date,omitempty"`
	SourceURL     string     `json:"source_url,omitempty" yaml:"source_url,omitempty"`
}

// Active reports whether the document version was in force at the given
// time.
func (d *RegulatoryDocument) Active(at time.Time) bool {
	if at.Before(d.EffectiveDate) {
		return false
	}
	return d.ExpiryDate == nil || at.Before(*d.ExpiryDate)
}

// RegulatorySection is one addressable unit within a document. A section
// belongs to exactly one document; (DocumentCode, Token) is unique.
type RegulatorySection struct {
	DocumentCode string       `json:"document_code" yaml:"document_code"`
	Token        SectionToken `json:"token" yaml:"token"`
	Title        string       `json:"title" yaml:"title"`
	Content      string       `json:"content,omitempty" yaml:"content,omitempty"`

	// Topics and Keywords drive relevance ranking; both are matched
	// case-insensitively against query keywords.
	Topics   []string `json:"topics,omitempty" yaml:"topics,omitempty"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// SituationalQuery is the caller-supplied context for one resolution
// request. It has no identity and is never persisted by the engine.
type SituationalQuery struct {
	// Category is the damage or work type, e.g. "water", "fire", "mould".
	Category string `json:"category"`

	// SeverityTier is an optional severity classification, e.g. the IICRC
	// water category ("1".."3").
	SeverityTier string `json:"severity_tier,omitempty"`

	Jurisdiction Jurisdiction `json:"jurisdiction,omitempty"`

	// Region selects climate-derived notes (e.g. "subtropical").
	Region string `json:"region,omitempty"`

	Insurer string `json:"insurer,omitempty"`

	RequiresElectricalWork bool `json:"requires_electrical_work,omitempty"`

	Keywords []string `json:"keywords,omitempty"`
}
