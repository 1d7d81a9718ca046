//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/cbiohub/cbioqa/internal/db"
)

// Requires a MySQL instance provisioned with the derived cBioPortal fixture
// in scripts/fixtures/mysql.sql, reachable via MYSQL_TEST_DSN
// (e.g. "user:pass@tcp(localhost:3306)/cbioportal?parseTime=true").
func TestMySQLExtraction(t *testing.T) {
	ctx := context.Background()

	connString := os.Getenv("MYSQL_TEST_DSN")
	if connString == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}

	client, err := db.NewMySQLClient(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to MySQL: %v", err)
	}
	defer client.Close()

	dbName, err := db.ParseDatabaseName(connString)
	if err != nil {
		t.Fatalf("Failed to parse database name: %v", err)
	}

	extractor := db.NewMySQLExtractor(client, dbName)

	s, err := extractor.ExtractSchema(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to extract schema: %v", err)
	}

	expectedTables := []string{"cancer_study", "clinical_data_derived", "genomic_event_derived", "sample_derived"}
	verifyTablesExist(t, s, expectedTables)

	table := findTable(s, "genomic_event_derived")
	if table == nil {
		t.Fatal("genomic_event_derived table not found")
	}
	verifyPrimaryKey(t, table, []string{"internal_id"})
	verifyColumns(t, table, []string{"internal_id", "sample_unique_id", "hugo_gene_symbol", "variant_type"})

	verifyUniqueConstraint(t, s, "cancer_study", "cancer_study_identifier")
	verifyForeignKey(t, s, "genomic_event_derived", "sample_unique_id", "sample_derived")
	verifyIndex(t, s, "genomic_event_derived", "idx_event_gene", []string{"hugo_gene_symbol"})

	verifyTableComment(t, s, "genomic_event_derived", "Mutations, CNAs and structural variants per sample")
	verifyColumnComment(t, s, "genomic_event_derived", "hugo_gene_symbol", "HUGO gene symbol")
}

func TestMySQLSpecificTables(t *testing.T) {
	ctx := context.Background()

	connString := os.Getenv("MYSQL_TEST_DSN")
	if connString == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}

	client, err := db.NewMySQLClient(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to MySQL: %v", err)
	}
	defer client.Close()

	dbName, err := db.ParseDatabaseName(connString)
	if err != nil {
		t.Fatalf("Failed to parse database name: %v", err)
	}

	extractor := db.NewMySQLExtractor(client, dbName)

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
