package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConvertMetricsSnapshot(t *testing.T) {
	m := NewConvertMetrics()
	m.SetTotalBytes(1000)
	m.Start()
	m.AddInterchange(400, 3)
	m.AddInterchange(200, 1)
	m.IncFailure()
	m.Stop()

	snap := m.Snapshot()
	if snap.Bytes != 600 {
		t.Fatalf("bytes = %d, want 600", snap.Bytes)
	}
	if snap.Interchanges != 2 || snap.Transactions != 4 || snap.Failures != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Duration < 0 {
		t.Fatalf("duration = %v", snap.Duration)
	}
	if got := snap.Completion(); got != 0.6 {
		t.Fatalf("completion = %v, want 0.6", got)
	}
}

func TestConvertSnapshotCompletionBounds(t *testing.T) {
	s := ConvertSnapshot{Bytes: 100, TotalBytes: 0}
	if s.Completion() != 0 {
		t.Fatal("completion without total should be 0")
	}
	s = ConvertSnapshot{Bytes: 2000, TotalBytes: 1000}
	if s.Completion() != 1 {
		t.Fatal("completion should clamp to 1")
	}
}

func TestFormatBytes(t *testing.T) {
	for _, tc := range []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KiB"},
		{3 * 1024 * 1024, "3.00 MiB"},
	} {
		if got := FormatBytes(tc.in); got != tc.want {
			t.Fatalf("FormatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSha256Helpers(t *testing.T) {
	data := []byte("edigate hash probe")
	path := filepath.Join(t.TempDir(), "probe.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	fileHash, size, err := Sha256OfFile(path)
	if err != nil {
		t.Fatalf("Sha256OfFile: %v", err)
	}
	if size != int64(len(data)) {
		t.Fatalf("size = %d, want %d", size, len(data))
	}
	if byteHash := Sha256OfBytes(data); byteHash != fileHash {
		t.Fatalf("hash mismatch: %s vs %s", byteHash, fileHash)
	}

	h := NewHasher()
	if _, err := h.Write(data); err != nil {
		t.Fatalf("Hasher.Write: %v", err)
	}
	if h.Sum() != fileHash {
		t.Fatalf("Hasher sum mismatch")
	}
}
