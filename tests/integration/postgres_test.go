//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/cbiohub/cbioqa/internal/db"
)

// Requires a Postgres instance provisioned with the derived cBioPortal
// fixture in scripts/fixtures/postgres.sql, reachable via POSTGRES_TEST_URL.
func TestPostgresExtraction(t *testing.T) {
	ctx := context.Background()

	connString := os.Getenv("POSTGRES_TEST_URL")
	if connString == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}

	client, err := db.NewPostgresClient(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer client.Close(ctx)

	extractor := db.NewExtractor(client, "public")

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

	verifyForeignKey(t, s, "sample_derived", "cancer_study_identifier", "cancer_study")

	// Comments feed the schema context handed to text-to-SQL agents, so the
	// extractor must surface them.
	verifyTableComment(t, s, "sample_derived", "One row per tumor or normal sample")
	verifyColumnComment(t, s, "sample_derived", "sample_type", "Sample type, e.g. Primary or Metastasis")
}

func TestPostgresSpecificTables(t *testing.T) {
	ctx := context.Background()

	connString := os.Getenv("POSTGRES_TEST_URL")
	if connString == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}

	client, err := db.NewPostgresClient(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer client.Close(ctx)

	extractor := db.NewExtractor(client, "public")

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
}
