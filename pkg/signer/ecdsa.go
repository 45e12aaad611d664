package signer

import (
	"crypto/ecdsa"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// ECDSA signs transaction digests with an ephemeral secp256k1 key. The key
// is generated at construction and never persisted; this implementation
// exists to demonstrate the pluggable signer seam, not key custody.
type ECDSA struct {
	key *ecdsa.PrivateKey
}

func NewECDSA() (*ECDSA, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate signing key")
	}
	return &ECDSA{key: key}, nil
}

func (e *ECDSA) Name() string {
	return "ecdsa"
}

// Address returns the Ethereum-style address of the signing key.
func (e *ECDSA) Address() string {
	return crypto.PubkeyToAddress(e.key.PublicKey).Hex()
}

func (e *ECDSA) Sign(req Request) (Result, error) {
	nonce, err := randomNonce(8)
	if err != nil {
		return Result{}, err
	}

	digest := crypto.Keccak256([]byte(req.ToAddress + req.Amount + req.Fee + nonce))
	signature, err := crypto.Sign(digest, e.key)
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to sign transaction digest")
	}

	return Result{
		Signature:       hex.EncodeToString(signature),
		TransactionHash: hex.EncodeToString(crypto.Keccak256(signature)),
	}, nil
}
