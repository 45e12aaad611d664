package signer

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Request carries the transaction fields that participate in the signature.
type Request struct {
	ToAddress string
	Amount    string
	Fee       string
}

type Result struct {
	Signature       string
	TransactionHash string
}

// Signer produces a signature and transaction hash for a transaction.
// Implementations are a simulation boundary: the Mock signer is hash-based
// and carries no cryptographic meaning, the ECDSA signer demonstrates what a
// real collaborator would plug in.
type Signer interface {
	Name() string
	Sign(req Request) (Result, error)
}

// Mock derives a signature by hashing the transaction fields together with
// the current time, and salts the transaction hash with a fresh nonce so
// repeated confirms of equal-looking transactions differ.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Name() string {
	return "mock"
}

func (m *Mock) Sign(req Request) (Result, error) {
	txData := fmt.Sprintf("%s%s%s", req.ToAddress, req.Amount, time.Now().UTC().Format(time.RFC3339Nano))
	signature := sha256.Sum256([]byte(txData))
	signatureHex := hex.EncodeToString(signature[:])

	nonce, err := randomNonce(16)
	if err != nil {
		return Result{}, err
	}

	txHash := sha256.Sum256([]byte(signatureHex + nonce))

	return Result{
		Signature:       signatureHex,
		TransactionHash: hex.EncodeToString(txHash[:]),
	}, nil
}

func randomNonce(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random nonce")
	}
	return hex.EncodeToString(buf), nil
}
