package zone

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
)

// DSRecord is a delegation-signer record shown on the DNSSEC panel.
type DSRecord struct {
	KeyTag     uint16 `json:"keytag"`
	Algorithm  uint8  `json:"algorithm"`
	DigestType uint8  `json:"digest_type"`
	Digest     string `json:"digest"`
}

const (
	dsAlgorithmECDSAP256 = 13
	dsDigestSHA256       = 2
)

// PlaceholderDS fabricates a deterministic DS record for display. There is
// no real key material behind it: the console does not sign zones, it only
// shows what a delegation would look like.
func PlaceholderDS(zoneName string) DSRecord {
	name := Canonical(zoneName)

	tag := fnv.New32a()
	tag.Write([]byte(name))

	digest := sha256.Sum256([]byte(name))

	return DSRecord{
		KeyTag:     uint16(tag.Sum32() % 65536),
		Algorithm:  dsAlgorithmECDSAP256,
		DigestType: dsDigestSHA256,
		Digest:     hex.EncodeToString(digest[:]),
	}
}

// String renders the DS record in presentation format.
func (d DSRecord) String() string {
	return fmt.Sprintf("%d %d %d %s", d.KeyTag, d.Algorithm, d.DigestType, d.Digest)
}
