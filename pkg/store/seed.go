package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

// CorpusFile is the YAML shape of a seedable regulatory corpus.
type CorpusFile struct {
	Documents []CorpusDocument `yaml:"documents"`
}

// CorpusDocument pairs one document with its sections.
type CorpusDocument struct {
	Document types.RegulatoryDocument  `yaml:"document"`
	Sections []types.RegulatorySection `yaml:"sections"`
}

// LoadCorpusFile reads a YAML corpus from disk.
func LoadCorpusFile(path string) (*CorpusFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus file: %w", err)
	}
	var corpus CorpusFile
	if err := yaml.Unmarshal(raw, &corpus); err != nil {
		return nil, fmt.Errorf("parsing corpus file %q: %w", path, err)
	}
	for i := range corpus.Documents {
		entry := &corpus.Documents[i]
		if entry.Document.DocumentCode == "" {
			return nil, fmt.Errorf("corpus entry %d missing document_code", i)
		}
		if !entry.Document.Category.Valid() {
			return nil, fmt.Errorf("corpus entry %q has unknown category %q",
				entry.Document.DocumentCode, entry.Document.Category)
		}
		for j := range entry.Sections {
			entry.Sections[j].DocumentCode = entry.Document.DocumentCode
		}
	}
	return &corpus, nil
}

// Seed writes a corpus into a SQLite store.
func Seed(ctx context.Context, s *SQLiteStore, corpus *CorpusFile) error {
	for _, entry := range corpus.Documents {
		if err := s.UpsertDocument(ctx, entry.Document, entry.Sections); err != nil {
			return err
		}
	}
	return nil
}

// SeedMemory loads a corpus into a memory store.
func SeedMemory(s *MemoryStore, corpus *CorpusFile) {
	for _, entry := range corpus.Documents {
		s.AddDocument(entry.Document, entry.Sections...)
	}
}

// DefaultCorpus returns the built-in Australian restoration-industry
// corpus, so the CLI resolves citations out of the box.
func DefaultCorpus() *CorpusFile {
	date := func(year, month, day int) time.Time {
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	}
	return &CorpusFile{Documents: []CorpusDocument{
		{
			Document: types.RegulatoryDocument{
				DocumentCode:  "NCC 2025",
				Title:         "National Construction Code",
				Category:      types.CategoryBuilding,
				Version:       "2025",
				EffectiveDate: date(2025, 5, 1),
				SourceURL:     "https://ncc.abcb.gov.au/",
			},
			Sections: []types.RegulatorySection{
				{
					Token:    types.SectionToken{Kind: types.KindSection, Number: "3.2.1"},
					Title:    "Moisture management in building elements",
					Topics:   []string{"moisture", "water damage", "drying"},
					Keywords: []string{"structural drying", "moisture content", "dampness"},
				},
				{
					Token:    types.SectionToken{Kind: types.KindSection, Number: "3.8.1"},
					Title:    "Health and amenity: wet areas",
					Topics:   []string{"wet areas", "waterproofing"},
					Keywords: []string{"waterproofing", "bathroom", "membrane"},
				},
			},
		},
		{
			Document: types.RegulatoryDocument{
				DocumentCode:  "NCC 2022",
				Title:         "National Construction Code",
				Category:      types.CategoryBuilding,
				Version:       "2022",
				EffectiveDate: date(2022, 9, 1),
				ExpiryDate:    ptrTime(date(2025, 5, 1)),
				SourceURL:     "https://ncc.abcb.gov.au/",
			},
			Sections: []types.RegulatorySection{
				{
					Token:    types.SectionToken{Kind: types.KindSection, Number: "3.2.1"},
					Title:    "Moisture management in building elements",
					Topics:   []string{"moisture", "water damage"},
					Keywords: []string{"structural drying", "moisture content"},
				},
			},
		},
		{
			Document: types.RegulatoryDocument{
				DocumentCode:  "AS/NZS 3000:2023",
				Title:         "Electrical Installations (Wiring Rules)",
				Category:      types.CategoryElectrical,
				Version:       "2023",
				EffectiveDate: date(2023, 6, 30),
			},
			Sections: []types.RegulatorySection{
				{
					Token:    types.SectionToken{Kind: types.KindSection, Number: "2.4"},
					Title:    "Verification and testing after water ingress",
					Topics:   []string{"testing", "water damage", "electrical safety"},
					Keywords: []string{"post-water-damage testing", "insulation resistance", "verification"},
				},
				{
					Token:    types.SectionToken{Kind: types.KindSection, Number: "1.5"},
					Title:    "Protection against electric shock",
					Topics:   []string{"electrical safety"},
					Keywords: []string{"shock", "rcd", "earthing"},
				},
			},
		},
		{
			Document: types.RegulatoryDocument{
				DocumentCode:  "AS/NZS 3500.2:2021",
				Title:         "Plumbing and Drainage: Sanitary Plumbing and Drainage",
				Category:      types.CategoryPlumbing,
				Version:       "2021",
				EffectiveDate: date(2021, 7, 1),
			},
			Sections: []types.RegulatorySection{
				{
					Token:    types.SectionToken{Kind: types.KindSection, Number: "4.6"},
					Title:    "Drainage of contaminated water",
					Topics:   []string{"drainage", "contamination", "grey water"},
					Keywords: []string{"category 2 water", "sewage", "discharge"},
				},
			},
		},
		{
			Document: types.RegulatoryDocument{
				DocumentCode:  "AS 1668.2:2024",
				Title:         "The Use of Ventilation and Airconditioning in Buildings: Mechanical Ventilation",
				Category:      types.CategoryHVAC,
				Version:       "2024",
				EffectiveDate: date(2024, 3, 1),
			},
			Sections: []types.RegulatorySection{
				{
					Token:    types.SectionToken{Kind: types.KindSection, Number: "5.2"},
					Title:    "Ventilation rates for drying and decontamination",
					Topics:   []string{"ventilation", "drying", "air movement"},
					Keywords: []string{"air changes", "dehumidification", "airflow"},
				},
			},
		},
		{
			Document: types.RegulatoryDocument{
				DocumentCode:  "IICRC S500",
				Title:         "IICRC S500 Standard for Professional Water Damage Restoration",
				Category:      types.CategorySafety,
				Version:       "2021",
				EffectiveDate: date(2021, 1, 1),
			},
			Sections: []types.RegulatorySection{
				{
					Token:    types.SectionToken{Kind: types.KindChapter, Number: "10"},
					Title:    "Structural restoration procedures",
					Topics:   []string{"water damage", "drying", "restoration"},
					Keywords: []string{"category 1", "category 2", "category 3", "structural drying"},
				},
				{
					Token:    types.SectionToken{Kind: types.KindChapter, Number: "12"},
					Title:    "Specialized experts and safety",
					Topics:   []string{"safety", "contamination"},
					Keywords: []string{"hazard", "ppe", "microbial"},
				},
			},
		},
		{
			Document: types.RegulatoryDocument{
				DocumentCode:  "IICRC S520",
				Title:         "IICRC S520 Standard for Professional Mold Remediation",
				Category:      types.CategorySafety,
				Version:       "2024",
				EffectiveDate: date(2024, 1, 1),
			},
			Sections: []types.RegulatorySection{
				{
					Token:    types.SectionToken{Kind: types.KindChapter, Number: "12"},
					Title:    "Remediation procedures",
					Topics:   []string{"mould", "remediation", "contamination"},
					Keywords: []string{"condition 2", "condition 3", "containment"},
				},
			},
		},
		{
			Document: types.RegulatoryDocument{
				DocumentCode:  "Competition and Consumer Act 2010",
				Title:         "Competition and Consumer Act 2010 (Cth), Schedule 2 (Australian Consumer Law)",
				Category:      types.CategoryConsumerProtection,
				Version:       "2010",
				EffectiveDate: date(2011, 1, 1),
			},
			Sections: []types.RegulatorySection{
				{
					Token:    types.SectionToken{Kind: types.KindSection, Number: "60"},
					Title:    "Guarantee as to due care and skill",
					Topics:   []string{"consumer guarantees", "services"},
					Keywords: []string{"due care", "workmanship", "guarantee"},
				},
			},
		},
		{
			Document: types.RegulatoryDocument{
				DocumentCode:  "Electrical Safety Act 2002",
				Title:         "Electrical Safety Act 2002 (Qld)",
				Category:      types.CategoryElectrical,
				Jurisdiction:  types.JurisdictionQLD,
				Version:       "2002",
				EffectiveDate: date(2002, 10, 1),
			},
			Sections: []types.RegulatorySection{
				{
					Token:    types.SectionToken{Kind: types.KindSection, Number: "24"},
					Title:    "Duty of persons conducting a business or undertaking",
					Topics:   []string{"electrical safety", "duties"},
					Keywords: []string{"duty", "electrical work", "safety"},
				},
			},
		},
		{
			Document: types.RegulatoryDocument{
				DocumentCode:  "QDC MP 3.4",
				Title:         "Queensland Development Code MP 3.4",
				Category:      types.CategoryBuilding,
				Jurisdiction:  types.JurisdictionQLD,
				Version:       "2023",
				EffectiveDate: date(2023, 1, 1),
			},
			Sections: []types.RegulatorySection{
				{
					Token:    types.SectionToken{Kind: types.KindSection, Number: "3.2"},
					Title:    "Subtropical construction and drying considerations",
					Topics:   []string{"drying", "humidity", "subtropical"},
					Keywords: []string{"drying times", "humidity", "climate"},
				},
			},
		},
		{
			Document: types.RegulatoryDocument{
				DocumentCode:  "Insurance Contracts Act 1984",
				Title:         "Insurance Contracts Act 1984 (Cth)",
				Category:      types.CategoryInsurance,
				Version:       "1984",
				EffectiveDate: date(1986, 1, 1),
			},
			Sections: []types.RegulatorySection{
				{
					Token:    types.SectionToken{Kind: types.KindSection, Number: "13"},
					Title:    "Utmost good faith",
					Topics:   []string{"claims", "good faith"},
					Keywords: []string{"insurer", "claim handling", "good faith"},
				},
			},
		},
	}}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
