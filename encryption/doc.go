// Package encryption protects secret property values, such as data source
// passwords, that are committed to config.yml.
//
// Secrets are written as ENC(<base64>) and decrypted at bind time with a key
// supplied out of band (usually the DMNKIT_ENCRYPTION_KEY environment
// variable). Keys are derived from passphrases with SHA-256; the cipher is
// AES-256-GCM by default or ChaCha20-Poly1305 on request.
//
// # Usage
//
//	enc, err := encryption.New(passphrase)
//	sealed, err := encryption.Seal(enc, "s3cret")   // "ENC(...)"
//	plain, err := encryption.Reveal(enc, sealed)    // "s3cret"
package encryption
