package cryptox

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/atomist-global-seeds/blockstack-browser/internal/common"
	"github.com/tyler-smith/go-bip39"
)

// EntropyBytes is 128 bits, which BIP-39 encodes as 12 words.
const EntropyBytes = 16

// GenerateRecoveryPhrase draws fresh entropy from r and encodes it as a BIP-39
// mnemonic. A failing source yields common.ErrEntropySource; nothing weaker is
// substituted.
func GenerateRecoveryPhrase(r io.Reader) (string, error) {
	entropy, err := common.ReadRandBytes(r, EntropyBytes)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(entropy)

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("encode mnemonic: %w", err)
	}
	return phrase, nil
}

// ValidRecoveryPhrase reports whether p is a well-formed BIP-39 mnemonic with
// a valid checksum. Surrounding and repeated whitespace is tolerated.
func ValidRecoveryPhrase(p string) bool {
	return bip39.IsMnemonicValid(strings.Join(strings.Fields(p), " "))
}

// PhraseGenerator produces recovery phrases from a secure source.
type PhraseGenerator struct {
	rand io.Reader
}

func NewPhraseGenerator() *PhraseGenerator {
	return &PhraseGenerator{rand: rand.Reader}
}

// NewPhraseGeneratorFrom reads entropy from r instead of crypto/rand.
func NewPhraseGeneratorFrom(r io.Reader) *PhraseGenerator {
	return &PhraseGenerator{rand: r}
}

func (g *PhraseGenerator) Generate() (string, error) {
	return GenerateRecoveryPhrase(g.rand)
}
