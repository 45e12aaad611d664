// Package mnemonic provides BIP39 mnemonic generation and seed derivation
// for the simulated device's demo key material.
package mnemonic

import (
	"crypto/sha512"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

const (
	seedIterations = 2048
	seedKeyLength  = 64
	saltPrefix     = "mnemonic"
)

var wordCountToEntropyBits = map[int]int{
	12: 128,
	15: 160,
	18: 192,
	21: 224,
	24: 256,
}

// Generate produces a mnemonic of the given word count (12, 15, 18, 21 or 24).
func Generate(wordCount int) (string, error) {
	bits, ok := wordCountToEntropyBits[wordCount]
	if !ok {
		return "", errors.Errorf("unsupported mnemonic length: %d words", wordCount)
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate entropy")
	}

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(err, "failed to build mnemonic")
	}

	return phrase, nil
}

func Validate(phrase string) bool {
	return bip39.IsMnemonicValid(phrase)
}

// DeriveSeed stretches the mnemonic and passphrase into a 64-byte seed.
// Both inputs are NFKD-normalized before the KDF, per the BIP39 convention.
func DeriveSeed(phrase, passphrase string) ([]byte, error) {
	if !Validate(phrase) {
		return nil, errors.New("invalid mnemonic")
	}

	normalized := norm.NFKD.String(phrase)
	salt := saltPrefix + norm.NFKD.String(passphrase)

	return pbkdf2.Key([]byte(normalized), []byte(salt), seedIterations, seedKeyLength, sha512.New), nil
}
