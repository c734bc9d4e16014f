package encryption

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		opts    []Option
		wantAlg Algorithm
		wantErr bool
	}{
		{"default aes", "k", nil, AlgorithmAESGCM, false},
		{"chacha20", "k", []Option{WithAlgorithm(AlgorithmChaCha20)}, AlgorithmChaCha20, false},
		{"empty key", "", nil, "", true},
		{"unknown algorithm", "k", []Option{WithAlgorithm("rot13")}, "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			enc, err := New(tc.key, tc.opts...)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if got := enc.(*aeadEncryptor).algorithm; got != tc.wantAlg {
				t.Errorf("expected %s, got %s", tc.wantAlg, got)
			}
		})
	}
}

func TestEncryptDecrypt(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmAESGCM, AlgorithmChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			enc, err := New("datasource-key", WithAlgorithm(alg))
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			for _, plaintext := range []string{"", "postgres", "p@$$w0rd!#%^&*()", "こんにちは"} {
				sealed, err := enc.Encrypt(plaintext)
				if err != nil {
					t.Fatalf("Encrypt failed: %v", err)
				}
				got, err := enc.Decrypt(sealed)
				if err != nil {
					t.Fatalf("Decrypt failed: %v", err)
				}
				if got != plaintext {
					t.Errorf("expected %q, got %q", plaintext, got)
				}
			}
		})
	}
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	enc, _ := New("k")
	a, _ := enc.Encrypt("same")
	b, _ := enc.Encrypt("same")
	if a == b {
		t.Error("expected different ciphertexts for the same plaintext")
	}
}

func TestDecryptFailures(t *testing.T) {
	enc, _ := New("key-one")
	other, _ := New("key-two")

	sealed, _ := enc.Encrypt("secret")
	if _, err := other.Decrypt(sealed); err == nil {
		t.Error("expected decryption to fail with wrong key")
	}
	if _, err := enc.Decrypt("not-valid-base64!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := enc.Decrypt("YQ=="); err == nil {
		t.Error("expected error for ciphertext too short")
	}
}

func TestSealReveal(t *testing.T) {
	enc, _ := New("k")

	sealed, err := Seal(enc, "hunter2")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if !strings.HasPrefix(sealed, "ENC(") || !IsSealed(sealed) {
		t.Fatalf("expected ENC(...) form, got %q", sealed)
	}

	plain, err := Reveal(enc, sealed)
	if err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if plain != "hunter2" {
		t.Errorf("expected 'hunter2', got %q", plain)
	}
}

func TestRevealPlainValue(t *testing.T) {
	got, err := Reveal(nil, "plain-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "plain-password" {
		t.Errorf("expected value unchanged, got %q", got)
	}
}

func TestRevealSealedWithoutKey(t *testing.T) {
	if _, err := Reveal(nil, "ENC(abc)"); err == nil {
		t.Error("expected error for sealed value without encryptor")
	}
}

func TestIsSealed(t *testing.T) {
	tests := map[string]bool{
		"ENC(abc)":   true,
		" ENC(abc) ": true,
		"ENC(abc":    false,
		"abc":        false,
		"":           false,
	}
	for in, want := range tests {
		if got := IsSealed(in); got != want {
			t.Errorf("IsSealed(%q) = %v, want %v", in, got, want)
		}
	}
}
