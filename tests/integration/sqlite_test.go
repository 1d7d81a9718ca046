//go:build integration
// +build integration

package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cbiohub/cbioqa/internal/db"
)

// fixtureDDL is a small slice of the cBioPortal derived schema, enough to
// exercise primary keys, foreign keys, unique constraints, and indexes.
const fixtureDDL = `
CREATE TABLE cancer_study (
	cancer_study_id INTEGER PRIMARY KEY,
	cancer_study_identifier TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	reference_genome TEXT DEFAULT 'hg19'
);
CREATE TABLE sample_derived (
	sample_unique_id TEXT PRIMARY KEY,
	patient_unique_id TEXT NOT NULL,
	sample_type TEXT,
	cancer_study_identifier TEXT NOT NULL
		REFERENCES cancer_study(cancer_study_identifier)
);
CREATE TABLE clinical_data_derived (
	internal_id INTEGER PRIMARY KEY,
	sample_unique_id TEXT REFERENCES sample_derived(sample_unique_id),
	attribute_name TEXT NOT NULL,
	attribute_value TEXT
);
CREATE TABLE genomic_event_derived (
	internal_id INTEGER PRIMARY KEY,
	sample_unique_id TEXT NOT NULL REFERENCES sample_derived(sample_unique_id),
	hugo_gene_symbol TEXT NOT NULL,
	variant_type TEXT
);
CREATE INDEX idx_sample_study ON sample_derived(cancer_study_identifier);
CREATE INDEX idx_clinical_attr ON clinical_data_derived(attribute_name);
CREATE INDEX idx_event_gene ON genomic_event_derived(hugo_gene_symbol);
`

func provisionSQLite(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cbioportal.db")
	client, err := db.NewSQLiteClient(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to create fixture database: %v", err)
	}
	defer client.Close()

	if _, err := client.GetDB().Exec(fixtureDDL); err != nil {
		t.Fatalf("Failed to provision fixture schema: %v", err)
	}
	return path
}

func TestSQLiteExtraction(t *testing.T) {
	ctx := context.Background()
	dbPath := provisionSQLite(t)

	client, err := db.NewSQLiteClient(ctx, dbPath)
	if err != nil {
		t.Fatalf("Failed to connect to SQLite: %v", err)
	}
	defer client.Close()

	extractor := db.NewSQLiteExtractor(client)

	s, err := extractor.ExtractSchema(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to extract schema: %v", err)
	}

	expectedTables := []string{"cancer_study", "clinical_data_derived", "genomic_event_derived", "sample_derived"}
	verifyTablesExist(t, s, expectedTables)

	table := findTable(s, "sample_derived")
	if table == nil {
		t.Fatal("sample_derived table not found")
	}
	verifyPrimaryKey(t, table, []string{"sample_unique_id"})
	verifyColumns(t, table, []string{"sample_unique_id", "patient_unique_id", "sample_type", "cancer_study_identifier"})

	verifyUniqueConstraint(t, s, "cancer_study", "cancer_study_identifier")

	verifyForeignKey(t, s, "sample_derived", "cancer_study_identifier", "cancer_study")
	verifyForeignKey(t, s, "genomic_event_derived", "sample_unique_id", "sample_derived")

	verifyIndex(t, s, "genomic_event_derived", "idx_event_gene", []string{"hugo_gene_symbol"})
	verifyIndex(t, s, "clinical_data_derived", "idx_clinical_attr", []string{"attribute_name"})
}

func TestSQLiteSpecificTables(t *testing.T) {
	ctx := context.Background()
	dbPath := provisionSQLite(t)

	client, err := db.NewSQLiteClient(ctx, dbPath)
	if err != nil {
		t.Fatalf("Failed to connect to SQLite: %v", err)
	}
	defer client.Close()

	extractor := db.NewSQLiteExtractor(client)

	schema, err := extractor.ExtractSchema(ctx, []string{"cancer_study", "sample_derived"})
	if err != nil {
		t.Fatalf("Failed to extract schema: %v", err)
	}

	if len(schema.Tables) != 2 {
		t.Errorf("Expected 2 tables, got %d", len(schema.Tables))
	}

	tableMap := make(map[string]bool)
	for _, table := range schema.Tables {
		tableMap[table.Name] = true
	}

	if !tableMap["cancer_study"] || !tableMap["sample_derived"] {
		t.Error("Expected cancer_study and sample_derived tables")
	}

	if tableMap["clinical_data_derived"] || tableMap["genomic_event_derived"] {
		t.Error("Should not include the derived data tables")
	}
}
