package encryption

import (
	"fmt"
	"strings"
)

const (
	sealedPrefix = "ENC("
	sealedSuffix = ")"
)

// IsSealed reports whether value is written in the ENC(...) form.
func IsSealed(value string) bool {
	v := strings.TrimSpace(value)
	return strings.HasPrefix(v, sealedPrefix) && strings.HasSuffix(v, sealedSuffix)
}

// Seal encrypts plaintext and wraps it as ENC(<ciphertext>).
func Seal(enc Encryptor, plaintext string) (string, error) {
	ciphertext, err := enc.Encrypt(plaintext)
	if err != nil {
		return "", err
	}
	return sealedPrefix + ciphertext + sealedSuffix, nil
}

// Reveal returns value unchanged unless it is sealed, in which case it is
// decrypted with enc. A sealed value without an encryptor is an error.
func Reveal(enc Encryptor, value string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}
	if enc == nil {
		return "", fmt.Errorf("value is encrypted but no encryption key is configured")
	}
	v := strings.TrimSpace(value)
	inner := v[len(sealedPrefix) : len(v)-len(sealedSuffix)]
	return enc.Decrypt(inner)
}
