// Package cryptox holds the recovery-phrase primitives: phrase generation
// from secure entropy and passphrase-based sealing of the phrase into a hex
// envelope that can travel in a URL or sit in a text store.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/atomist-global-seeds/blockstack-browser/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	envelopeVersion = 1

	SaltBytes  = 16
	NonceBytes = 12
	KeyBytes   = 32

	// version | time | memory | threads | salt | nonce
	headerBytes = 1 + 4 + 4 + 1 + SaltBytes + NonceBytes

	// MaxKDFMemory caps the argon2 memory an envelope may request (1 GiB in KiB).
	MaxKDFMemory = 1 << 20
)

var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted envelope")

// KDFParams are the argon2id cost parameters. Memory is in KiB.
type KDFParams struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultKDFParams: one pass over 64 MiB with four lanes.
func DefaultKDFParams() KDFParams {
	return KDFParams{Time: 1, Memory: 64 * 1024, Threads: 4}
}

// Validate reports whether p is safe to hand to argon2. Costs read from an
// envelope header must pass it before any key is derived.
func (p KDFParams) Validate() error {
	if p.Time < 1 || p.Threads < 1 || p.Memory < 8*uint32(p.Threads) || p.Memory > MaxKDFMemory {
		return fmt.Errorf("%w: bad kdf params", common.ErrEncryption)
	}
	return nil
}

// DeriveKey stretches passphrase with argon2id into a 32-byte AES key.
func DeriveKey(passphrase []byte, salt []byte, p KDFParams) []byte {
	return argon2.IDKey(passphrase, salt, p.Time, p.Memory, p.Threads, KeyBytes)
}

// Sealer encrypts and decrypts recovery phrases under a user passphrase.
// The zero value is not usable; call NewSealer.
type Sealer struct {
	params KDFParams
	rand   io.Reader
}

func NewSealer() *Sealer {
	return &Sealer{params: DefaultKDFParams(), rand: rand.Reader}
}

// NewSealerWithParams uses custom KDF costs and randomness. Intended for
// tests that cannot afford 64 MiB per derivation.
func NewSealerWithParams(p KDFParams, r io.Reader) *Sealer {
	return &Sealer{params: p, rand: r}
}

// Encrypt seals phrase with AES-256-GCM under a key derived from passphrase
// and returns the lowercase hex envelope:
//
//	version(1) | time(4) | memory(4) | threads(1) | salt(16) | nonce(12) | ciphertext
//
// The header is authenticated as additional data, so the KDF parameters
// cannot be altered without failing decryption.
func (s *Sealer) Encrypt(phrase, passphrase string) (string, error) {
	if phrase == "" || passphrase == "" {
		return "", fmt.Errorf("%w: empty phrase or passphrase", common.ErrEncryption)
	}

	salt, err := common.ReadRandBytes(s.rand, SaltBytes)
	if err != nil {
		return "", fmt.Errorf("%w: salt: %w", common.ErrEncryption, err)
	}
	nonce, err := common.ReadRandBytes(s.rand, NonceBytes)
	if err != nil {
		return "", fmt.Errorf("%w: nonce: %w", common.ErrEncryption, err)
	}

	header := make([]byte, 0, headerBytes)
	header = append(header, envelopeVersion)
	header = binary.BigEndian.AppendUint32(header, s.params.Time)
	header = binary.BigEndian.AppendUint32(header, s.params.Memory)
	header = append(header, s.params.Threads)
	header = append(header, salt...)
	header = append(header, nonce...)

	key := DeriveKey([]byte(passphrase), salt, s.params)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	ciphertext := aesgcm.Seal(nil, nonce, []byte(phrase), header)

	return hex.EncodeToString(append(header, ciphertext...)), nil
}

// Decrypt opens an envelope produced by Encrypt. The KDF parameters are taken
// from the envelope, not from the Sealer.
func (s *Sealer) Decrypt(envelopeHex, passphrase string) (string, error) {
	raw, err := hex.DecodeString(envelopeHex)
	if err != nil {
		return "", fmt.Errorf("%w: decode hex: %w", common.ErrEncryption, err)
	}
	if len(raw) <= headerBytes {
		return "", fmt.Errorf("%w: envelope too short", common.ErrEncryption)
	}
	if raw[0] != envelopeVersion {
		return "", fmt.Errorf("%w: unsupported envelope version %d", common.ErrEncryption, raw[0])
	}

	header := raw[:headerBytes]
	p := KDFParams{
		Time:    binary.BigEndian.Uint32(header[1:5]),
		Memory:  binary.BigEndian.Uint32(header[5:9]),
		Threads: header[9],
	}
	if err := p.Validate(); err != nil {
		return "", err
	}
	salt := header[10 : 10+SaltBytes]
	nonce := header[10+SaltBytes:]

	key := DeriveKey([]byte(passphrase), salt, p)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	plaintext, err := aesgcm.Open(nil, nonce, raw[headerBytes:], header)
	if err != nil {
		return "", ErrWrongPassphrase
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrEncryption, err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrEncryption, err)
	}
	return aesgcm, nil
}

// EncryptPhrase seals phrase with the default Sealer.
func EncryptPhrase(phrase, passphrase string) (string, error) {
	return NewSealer().Encrypt(phrase, passphrase)
}

// DecryptPhrase opens an envelope produced by EncryptPhrase.
func DecryptPhrase(envelopeHex, passphrase string) (string, error) {
	return NewSealer().Decrypt(envelopeHex, passphrase)
}
