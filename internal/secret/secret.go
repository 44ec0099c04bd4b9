// Package secret provides reversible obfuscation for the stored API credential.
//
// This is NOT encryption and NOT a security boundary. It only prevents the
// credential from being readable at a glance in the on-disk store. Anyone with
// access to the store can trivially reverse it. If real confidentiality is
// needed, an OS keychain should be used instead.
package secret

import (
	"encoding/base64"
	"strings"
)

// tokenPrefix versions the encoding so malformed or foreign values are
// rejected instead of decoded into garbage.
const tokenPrefix = "cmps1:"

// Obfuscate encodes a secret into a storage token. Deterministic and
// reversible via Reveal. Empty input yields an empty token.
func Obfuscate(secret string) string {
	if secret == "" {
		return ""
	}
	return tokenPrefix + base64.StdEncoding.EncodeToString(reverse([]byte(secret)))
}

// Reveal decodes a storage token back into the original secret.
// Malformed input (missing prefix, invalid base64) returns an empty string;
// callers treat empty as "no usable credential" and prompt re-entry.
func Reveal(token string) string {
	if !strings.HasPrefix(token, tokenPrefix) {
		return ""
	}
	data, err := base64.StdEncoding.DecodeString(token[len(tokenPrefix):])
	if err != nil {
		return ""
	}
	return string(reverse(data))
}

// reverse returns a new slice with the bytes of b in reverse order.
func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
