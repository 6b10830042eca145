package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/spigell/resume-scorer/internal/scoring"
)

func newScoreFlags(t *testing.T) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "score"}
	cmd.Flags().String("title", "", "")
	cmd.Flags().String("description", "", "")
	cmd.Flags().String("description-file", "", "")
	cmd.Flags().String("requirements", "", "")
	cmd.Flags().String("requirements-file", "", "")
	return cmd
}

func TestJobFromFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requirements.txt")
	if err := os.WriteFile(path, []byte("Go, Kubernetes"), 0o600); err != nil {
		t.Fatalf("write requirements: %v", err)
	}

	cmd := newScoreFlags(t)
	if err := cmd.Flags().Parse([]string{
		"--title", "Go Developer",
		"--description", "Build services",
		"--description-file", "/does/not/matter",
		"--requirements-file", path,
	}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	job, err := jobFromFlags(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.Title != "Go Developer" || job.Description != "Build services" || job.Requirements != "Go, Kubernetes" {
		t.Fatalf("unexpected job: %+v", job)
	}

	missing := newScoreFlags(t)
	if err := missing.Flags().Parse([]string{"--requirements-file", filepath.Join(t.TempDir(), "absent")}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := jobFromFlags(missing); err == nil {
		t.Fatalf("expected error for unreadable requirements file")
	}
}

func TestSchemaFromConfig(t *testing.T) {
	cfg := &Config{Scoring: ScoringConfig{Schema: "simple"}}

	schema, err := schemaFromConfig(cfg, "")
	if err != nil || schema != scoring.SchemaSimple {
		t.Fatalf("expected simple schema from config, got %q (%v)", schema, err)
	}

	schema, err = schemaFromConfig(cfg, "extended")
	if err != nil || schema != scoring.SchemaExtended {
		t.Fatalf("expected flag to override config, got %q (%v)", schema, err)
	}

	if _, err := schemaFromConfig(&Config{Scoring: ScoringConfig{Schema: "full"}}, ""); err == nil {
		t.Fatalf("expected error for unknown schema")
	}
}
