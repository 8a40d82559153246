package report

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultQRSize = 128

// DigestQR renders the manifest digest as a QR code PNG. The payload is
// prefixed with the digest algorithm ("sha256:<hex>") so a scanner can match
// it against the manifest file.
func (m Manifest) DigestQR(size int) ([]byte, error) {
	if len(m.Items) == 0 {
		return nil, fmt.Errorf("manifest has no items")
	}
	digest, err := m.Digest()
	if err != nil {
		return nil, err
	}
	algo := m.ShaAlgo
	if algo == "" {
		algo = "sha256"
	}
	if size <= 0 {
		size = defaultQRSize
	}
	return qrcode.Encode(algo+":"+digest, qrcode.Medium, size)
}
