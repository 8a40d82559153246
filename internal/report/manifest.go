package report

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"example.com/edigate/internal/common"
)

type ManifestItem struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Sha256 string `json:"sha256"`
	Type   string `json:"type"`
}

// Manifest records the integrity digests of every artifact a conversion
// run produced.
type Manifest struct {
	CreatedAt time.Time      `json:"createdAt"`
	ShaAlgo   string         `json:"shaAlgo"`
	Items     []ManifestItem `json:"items"`
}

func BuildManifest(paths []string) (Manifest, error) {
	m := Manifest{CreatedAt: time.Now().UTC(), ShaAlgo: "sha256"}
	for _, p := range paths {
		hex, sz, err := common.Sha256OfFile(p)
		if err != nil {
			return m, err
		}
		typ := "other"
		switch {
		case hasExt(p, ".edi", ".txt"):
			typ = "edifact"
		case hasExt(p, ".json"):
			typ = "json"
		case hasExt(p, ".pdf"):
			typ = "pdf"
		case hasExt(p, ".png"):
			typ = "png"
		}
		m.Items = append(m.Items, ManifestItem{Path: p, Size: sz, Sha256: hex, Type: typ})
	}
	return m, nil
}

func hasExt(path string, exts ...string) bool {
	for _, e := range exts {
		if strings.HasSuffix(path, e) {
			return true
		}
	}
	return false
}

// Digest returns the hash of the canonical JSON form of the manifest,
// suitable for QR encoding.
func (m Manifest) Digest() (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return common.Sha256OfBytes(b), nil
}

func SaveManifest(m Manifest, out string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(out, b, 0644)
}
