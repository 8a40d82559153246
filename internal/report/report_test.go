package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"example.com/edigate/internal/common"
)

func sampleResults() []InputResult {
	return []InputResult{
		{Input: "alpha.edi", Version: "FV2204", Size: 420, Transactions: 2},
		{Input: "beta.edi", Version: "FV2310", Size: 512, Transactions: 1},
		{Input: "gamma.edi", Version: "FV2204", Size: 64, Error: "unterminated segment at end of input"},
	}
}

func TestBuildDerivesSummary(t *testing.T) {
	rep := Build(sampleResults())
	if rep.Summary.Inputs != 3 {
		t.Fatalf("inputs = %d, want 3", rep.Summary.Inputs)
	}
	if rep.Summary.Transactions != 3 {
		t.Fatalf("transactions = %d, want 3", rep.Summary.Transactions)
	}
	if rep.Summary.Failures != 1 || rep.Summary.Pass {
		t.Fatalf("summary = %+v", rep.Summary)
	}
	if rep.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not set")
	}

	clean := Build(sampleResults()[:2])
	if !clean.Summary.Pass || clean.Summary.Failures != 0 {
		t.Fatalf("clean summary = %+v", clean.Summary)
	}
}

func TestSaveLoadJSONRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	rep := Build(sampleResults())
	if err := SaveJSON(rep, path); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	loaded, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if loaded.Summary != rep.Summary {
		t.Fatalf("summary = %+v, want %+v", loaded.Summary, rep.Summary)
	}
	if len(loaded.Results) != len(rep.Results) {
		t.Fatalf("results = %d, want %d", len(loaded.Results), len(rep.Results))
	}
	if loaded.Results[2].Error != rep.Results[2].Error {
		t.Fatalf("error field = %q", loaded.Results[2].Error)
	}
}

func TestBuildManifest(t *testing.T) {
	dir := t.TempDir()
	ediPath := filepath.Join(dir, "sample.edi")
	jsonPath := filepath.Join(dir, "sample.json")
	if err := os.WriteFile(ediPath, []byte("UNB+UNOC:3'"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(jsonPath, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, err := BuildManifest([]string{ediPath, jsonPath})
	if err != nil {
		t.Fatalf("BuildManifest: %v", err)
	}
	if len(m.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(m.Items))
	}
	if m.Items[0].Type != "edifact" || m.Items[1].Type != "json" {
		t.Fatalf("types = %s, %s", m.Items[0].Type, m.Items[1].Type)
	}
	wantHash, wantSize, err := common.Sha256OfFile(ediPath)
	if err != nil {
		t.Fatalf("Sha256OfFile: %v", err)
	}
	if m.Items[0].Sha256 != wantHash || m.Items[0].Size != wantSize {
		t.Fatalf("item = %+v", m.Items[0])
	}

	digest, err := m.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if len(digest) != 64 {
		t.Fatalf("digest length = %d", len(digest))
	}

	out := filepath.Join(dir, "manifest.json")
	if err := SaveManifest(m, out); err != nil {
		t.Fatalf("SaveManifest: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
}

func TestBuildManifestMissingFile(t *testing.T) {
	_, err := BuildManifest([]string{filepath.Join(t.TempDir(), "missing.edi")})
	if err == nil {
		t.Fatal("missing input should fail")
	}
}

func TestManifestDigestQR(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.edi")
	if err := os.WriteFile(path, []byte("UNB+UNOC:3'"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m, err := BuildManifest([]string{path})
	if err != nil {
		t.Fatalf("BuildManifest: %v", err)
	}
	// Size zero falls back to the default edge length.
	png, err := m.DigestQR(0)
	if err != nil {
		t.Fatalf("DigestQR: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG: % x", png[:8])
	}
	if _, err := (Manifest{}).DigestQR(128); err == nil {
		t.Fatal("manifest without items should fail")
	}
}

func TestSavePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	rep := Build(sampleResults())
	if err := SavePDF(rep, LangGerman, path); err != nil {
		t.Fatalf("SavePDF: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: % x", data[:8])
	}
}

func TestParseLanguage(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Language
	}{
		{"", LangEnglish},
		{"en", LangEnglish},
		{"DE", LangGerman},
		{"deutsch", LangGerman},
	} {
		got, err := ParseLanguage(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseLanguage(%q) = %v, %v", tc.in, got, err)
		}
	}
	if _, err := ParseLanguage("fr"); err == nil {
		t.Fatal("unsupported language should fail")
	}
}

func TestTranslatorFallback(t *testing.T) {
	de := NewTranslator(LangGerman)
	if got := de.T("report.title"); got != "Konvertierungsbericht" {
		t.Fatalf("german title = %q", got)
	}
	if got := de.T("no.such.key"); got != "no.such.key" {
		t.Fatalf("unknown key = %q", got)
	}
	fallback := NewTranslator(Language("fr"))
	if fallback.Lang() != LangEnglish {
		t.Fatalf("fallback lang = %s", fallback.Lang())
	}
}
