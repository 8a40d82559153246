package common

import (
	"path/filepath"
	"testing"
)

func TestAuditLogAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.jsonl")
	log := NewAuditLog(path)
	if log.Path() != path {
		t.Fatalf("Path = %q", log.Path())
	}

	entries := []AuditEntry{
		{Input: "alpha.edi", Sha256: "ab12", Size: 420, Version: "FV2204", Transactions: 2},
		{Input: "beta.edi", Version: "FV2310", Transactions: 0, Error: "unterminated segment"},
	}
	for _, e := range entries {
		if err := log.Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := ReadAuditLog(path)
	if err != nil {
		t.Fatalf("ReadAuditLog: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].Input != "alpha.edi" || got[0].Transactions != 2 {
		t.Fatalf("first entry = %+v", got[0])
	}
	if got[1].Error != "unterminated segment" {
		t.Fatalf("second entry = %+v", got[1])
	}
	if got[0].Ts.IsZero() {
		t.Fatal("timestamp not defaulted")
	}
}

func TestAuditLogRejectsMissingInput(t *testing.T) {
	log := NewAuditLog(filepath.Join(t.TempDir(), "audit.jsonl"))
	if err := log.Append(AuditEntry{}); err == nil {
		t.Fatal("entry without input should fail")
	}
}

func TestNilAuditLog(t *testing.T) {
	var log *AuditLog
	if log.Path() != "" {
		t.Fatal("nil log path should be empty")
	}
	if err := log.Append(AuditEntry{Input: "x"}); err == nil {
		t.Fatal("nil log append should fail")
	}
}

func TestReadAuditLogMissingFile(t *testing.T) {
	if _, err := ReadAuditLog(filepath.Join(t.TempDir(), "missing.jsonl")); err == nil {
		t.Fatal("missing file should fail")
	}
}
