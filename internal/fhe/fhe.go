// Package fhe simulates homomorphic computation on encrypted values for
// demonstration purposes. Nothing here is cryptographically meaningful; the
// "ciphertexts" are hashes and the noise model is a stand-in for a real
// scheme's error budget.
package fhe

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	maxNoiseLevel    = 10
	computeThreshold = 8
)

var operationCosts = map[Operation]int{
	OpAdd:      100,
	OpMultiply: 500,
	OpCompare:  300,
	OpMax:      400,
	OpAverage:  600,
	OpVote:     200,
}

var operationLatencies = map[Operation]time.Duration{
	OpAdd:      100 * time.Millisecond,
	OpMultiply: 500 * time.Millisecond,
	OpCompare:  300 * time.Millisecond,
	OpMax:      400 * time.Millisecond,
	OpAverage:  600 * time.Millisecond,
	OpVote:     200 * time.Millisecond,
}

// Service is the stateless computation stub. LatencyScale shrinks the
// simulated per-operation delays, mainly for tests and demos.
type Service struct {
	latencyScale float64
	logger       *zap.Logger
}

type ServiceOption func(*Service)

func WithLatencyScale(scale float64) ServiceOption {
	return func(s *Service) {
		s.latencyScale = scale
	}
}

func WithServiceLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger.Named("fhe")
	}
}

func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		latencyScale: 1.0,
		logger:       zap.L().Named("fhe"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Encrypt produces an opaque placeholder for the given plaintext. The
// current time is mixed in so equal plaintexts yield distinct ciphertexts.
func (s *Service) Encrypt(value interface{}, dataType DataType) EncryptedValue {
	payload := fmt.Sprintf("FHE_%v_%d", value, time.Now().UnixNano())
	digest := sha256.Sum256([]byte(payload))

	return EncryptedValue{
		EncryptedData: hex.EncodeToString(digest[:]),
		DataType:      dataType,
		CanCompute:    true,
		NoiseLevel:    1 + rand.Intn(3),
	}
}

// Compute derives a new encrypted value from the operands. The result's
// noise level is one above the noisiest operand, capped at the maximum; past
// the compute threshold the result is flagged as no longer computable.
// Failures are reported in the result rather than as an error, matching the
// wire contract.
func (s *Service) Compute(req ComputeRequest) ComputeResult {
	start := time.Now()

	if len(req.Operands) == 0 {
		return ComputeResult{
			Operation:       req.Operation,
			Result:          EncryptedValue{DataType: TypeInteger},
			ComputationTime: time.Since(start).Seconds(),
			Success:         false,
			ErrorMessage:    "no operands provided",
		}
	}

	latency, ok := operationLatencies[req.Operation]
	if !ok {
		latency = operationLatencies[OpAdd]
	}
	time.Sleep(time.Duration(float64(latency) * s.latencyScale))

	gasUsed, ok := operationCosts[req.Operation]
	if !ok {
		gasUsed = operationCosts[OpAdd]
	}

	result := s.deriveResult(req.Operation, req.Operands)

	s.logger.Debug("computation complete",
		zap.String("operation", string(req.Operation)),
		zap.Int("operands", len(req.Operands)),
		zap.Int("noiseLevel", result.NoiseLevel))

	return ComputeResult{
		Operation:       req.Operation,
		Result:          result,
		ComputationTime: time.Since(start).Seconds(),
		GasUsed:         gasUsed,
		Success:         true,
	}
}

func (s *Service) deriveResult(operation Operation, operands []EncryptedValue) EncryptedValue {
	var combined strings.Builder
	for _, operand := range operands {
		combined.WriteString(operand.EncryptedData)
	}
	digest := sha256.Sum256([]byte(fmt.Sprintf("%s_%s", operation, combined.String())))

	maxNoise := operands[0].NoiseLevel
	for _, operand := range operands[1:] {
		if operand.NoiseLevel > maxNoise {
			maxNoise = operand.NoiseLevel
		}
	}

	noise := maxNoise + 1
	if noise > maxNoiseLevel {
		noise = maxNoiseLevel
	}

	return EncryptedValue{
		EncryptedData: hex.EncodeToString(digest[:]),
		DataType:      operands[0].DataType,
		CanCompute:    noise < computeThreshold,
		NoiseLevel:    noise,
	}
}
