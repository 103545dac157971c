package audit

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/darmiel/mcauth/internal/core"
)

const (
	DefaultFingerprintType   = "default"
	YggdrasilFingerprintType = "yggdrasil"
)

// fingerprints are short enough for log lines but not reversible
const fingerprintLength = 12

var fingerprintRegistry = map[string]core.Fingerprinter{
	DefaultFingerprintType: func(_ string) string {
		return "(n/a)"
	},
}

func RegisterFingerprinter(providerType string, fn core.Fingerprinter) {
	fingerprintRegistry[providerType] = fn
}

// CalculateFingerprint returns a loggable stand-in for token. Empty tokens have no fingerprint.
func CalculateFingerprint(providerType, token string) string {
	if token == "" {
		return ""
	}
	fn, ok := fingerprintRegistry[providerType]
	if !ok {
		fn = fingerprintRegistry[DefaultFingerprintType]
	}
	return fn(token)
}

func RegisteredFingerprinterTypes() []string {
	types := make([]string, 0, len(fingerprintRegistry))
	for k := range fingerprintRegistry {
		types = append(types, k)
	}
	return types
}

func init() {
	RegisterFingerprinter(YggdrasilFingerprintType, calculateSHA256Fingerprint)
}

func calculateSHA256Fingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(hash[:])[:fingerprintLength]
}
