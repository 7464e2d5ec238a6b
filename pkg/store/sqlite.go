package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

// SQLiteStore is a Store backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the corpus database at path and ensures
// the schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening corpus database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating corpus schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		document_code  TEXT NOT NULL,
		title          TEXT NOT NULL,
		category       TEXT NOT NULL,
		jurisdiction   TEXT NOT NULL DEFAULT '',
		version        TEXT NOT NULL DEFAULT '',
		effective_date TEXT NOT NULL,
		expiry_date    TEXT,
		source_url     TEXT,
		PRIMARY KEY (document_code, jurisdiction)
	);
	CREATE INDEX IF NOT EXISTS idx_documents_category
		ON documents(category, jurisdiction);

	CREATE TABLE IF NOT EXISTS sections (
		document_code TEXT NOT NULL,
		kind          TEXT NOT NULL,
		number        TEXT NOT NULL,
		range_end     TEXT NOT NULL DEFAULT '',
		title         TEXT NOT NULL DEFAULT '',
		content       TEXT NOT NULL DEFAULT '',
		topics        TEXT NOT NULL DEFAULT '[]',
		keywords      TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (document_code, kind, number, range_end),
		FOREIGN KEY (document_code) REFERENCES documents(document_code)
	);
	CREATE INDEX IF NOT EXISTS idx_sections_document
		ON sections(document_code);
	`
	_, err := s.db.Exec(schema)
	return err
}

// UpsertDocument writes one document and its sections. Used by the seed
// command; the engine itself never calls this.
func (s *SQLiteStore) UpsertDocument(ctx context.Context, document types.RegulatoryDocument, sections []types.RegulatorySection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	var expiry any
	if document.ExpiryDate != nil {
		expiry = document.ExpiryDate.Format(time.RFC3339)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents
			(document_code, title, category, jurisdiction, version, effective_date, expiry_date, source_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		document.DocumentCode, document.Title, string(document.Category),
		string(document.Jurisdiction), document.Version,
		document.EffectiveDate.Format(time.RFC3339), expiry, document.SourceURL)
	if err != nil {
		return fmt.Errorf("writing document %q: %w", document.DocumentCode, err)
	}

	for _, section := range sections {
		topics, err := json.Marshal(section.Topics)
		if err != nil {
			return fmt.Errorf("encoding topics for %q: %w", document.DocumentCode, err)
		}
		keywords, err := json.Marshal(section.Keywords)
		if err != nil {
			return fmt.Errorf("encoding keywords for %q: %w", document.DocumentCode, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO sections
				(document_code, kind, number, range_end, title, content, topics, keywords)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			document.DocumentCode, string(section.Token.Kind), section.Token.Number,
			section.Token.RangeEnd, section.Title, section.Content,
			string(topics), string(keywords))
		if err != nil {
			return fmt.Errorf("writing section %s %s of %q: %w",
				section.Token.Kind, section.Token.Number, document.DocumentCode, err)
		}
	}

	return tx.Commit()
}

// FindDocumentsByCategoryAndJurisdiction implements Store.
func (s *SQLiteStore) FindDocumentsByCategoryAndJurisdiction(ctx context.Context, category types.Category, jurisdiction types.Jurisdiction) ([]types.RegulatoryDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_code, title, category, jurisdiction, version, effective_date, expiry_date, source_url
		FROM documents
		WHERE category = ? AND jurisdiction = ?
		ORDER BY effective_date DESC, document_code ASC
		LIMIT ?`,
		string(category), string(jurisdiction), MaxResults)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// ListDocuments implements Store.
func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]types.RegulatoryDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_code, title, category, jurisdiction, version, effective_date, expiry_date, source_url
		FROM documents
		ORDER BY effective_date DESC, document_code ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// FindSectionsByDocument implements Store. Topic filtering happens in
// process: topic sets are small and stored as JSON arrays.
func (s *SQLiteStore) FindSectionsByDocument(ctx context.Context, documentCode string, topics []string) ([]types.RegulatorySection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_code, kind, number, range_end, title, content, topics, keywords
		FROM sections
		WHERE document_code = ?
		ORDER BY kind ASC, number ASC`,
		documentCode)
	if err != nil {
		return nil, fmt.Errorf("querying sections of %q: %w", documentCode, err)
	}
	defer rows.Close()

	sections := make([]types.RegulatorySection, 0)
	for rows.Next() {
		var section types.RegulatorySection
		var kind, topicsJSON, keywordsJSON string
		err := rows.Scan(&section.DocumentCode, &kind, &section.Token.Number,
			&section.Token.RangeEnd, &section.Title, &section.Content,
			&topicsJSON, &keywordsJSON)
		if err != nil {
			return nil, fmt.Errorf("scanning section row: %w", err)
		}
		section.Token.Kind = types.SectionKind(kind)
		if err := json.Unmarshal([]byte(topicsJSON), &section.Topics); err != nil {
			return nil, fmt.Errorf("decoding topics: %w", err)
		}
		if err := json.Unmarshal([]byte(keywordsJSON), &section.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords: %w", err)
		}
		if len(topics) > 0 && !sectionTouchesTopics(section, topics) {
			continue
		}
		sections = append(sections, section)
		if len(sections) == MaxResults {
			break
		}
	}
	return sections, rows.Err()
}

func scanDocuments(rows *sql.Rows) ([]types.RegulatoryDocument, error) {
	documents := make([]types.RegulatoryDocument, 0)
	for rows.Next() {
		var document types.RegulatoryDocument
		var category, jurisdiction, effective string
		var expiry, sourceURL sql.NullString
		err := rows.Scan(&document.DocumentCode, &document.Title, &category,
			&jurisdiction, &document.Version, &effective, &expiry, &sourceURL)
		if err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		document.Category = types.Category(category)
		document.Jurisdiction = types.Jurisdiction(jurisdiction)
		document.EffectiveDate, err = time.Parse(time.RFC3339, effective)
		if err != nil {
			return nil, fmt.Errorf("parsing effective date %q: %w", effective, err)
		}
		if expiry.Valid && expiry.String != "" {
			parsed, err := time.Parse(time.RFC3339, expiry.String)
			if err != nil {
				return nil, fmt.Errorf("parsing expiry date %q: %w", expiry.String, err)
			}
			document.ExpiryDate = &parsed
		}
		document.SourceURL = sourceURL.String
		documents = append(documents, document)
	}
	return documents, rows.Err()
}
