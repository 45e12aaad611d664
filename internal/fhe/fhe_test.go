package fhe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(WithLatencyScale(0))
}

func TestEncrypt(t *testing.T) {
	service := newTestService()

	encrypted := service.Encrypt(42, TypeInteger)
	assert.Len(t, encrypted.EncryptedData, 64)
	assert.Equal(t, TypeInteger, encrypted.DataType)
	assert.True(t, encrypted.CanCompute)
	assert.GreaterOrEqual(t, encrypted.NoiseLevel, 1)
	assert.LessOrEqual(t, encrypted.NoiseLevel, 3)

	// A freshness token is mixed in, so equal plaintexts differ.
	other := service.Encrypt(42, TypeInteger)
	assert.NotEqual(t, encrypted.EncryptedData, other.EncryptedData)
}

func TestComputeEmptyOperands(t *testing.T) {
	service := newTestService()

	result := service.Compute(ComputeRequest{Operation: OpAdd})
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.ErrorMessage)
	assert.Zero(t, result.GasUsed)
}

func TestComputeGasCosts(t *testing.T) {
	service := newTestService()
	operand := service.Encrypt(1, TypeInteger)

	tests := []struct {
		operation Operation
		gas       int
	}{
		{OpAdd, 100},
		{OpMultiply, 500},
		{OpCompare, 300},
		{OpMax, 400},
		{OpAverage, 600},
		{OpVote, 200},
	}

	for _, tc := range tests {
		t.Run(string(tc.operation), func(t *testing.T) {
			result := service.Compute(ComputeRequest{Operation: tc.operation, Operands: []EncryptedValue{operand}})
			require.True(t, result.Success)
			assert.Equal(t, tc.gas, result.GasUsed)
			assert.Equal(t, tc.operation, result.Operation)
		})
	}
}

func TestComputeResultShape(t *testing.T) {
	service := newTestService()
	a := service.Encrypt(1, TypeDecimal)
	b := service.Encrypt(2, TypeInteger)

	result := service.Compute(ComputeRequest{Operation: OpAdd, Operands: []EncryptedValue{a, b}})
	require.True(t, result.Success)
	assert.Equal(t, TypeDecimal, result.Result.DataType, "result type follows first operand")
	assert.Len(t, result.Result.EncryptedData, 64)
	assert.Equal(t, maxNoise(a.NoiseLevel, b.NoiseLevel)+1, result.Result.NoiseLevel)
}

func maxNoise(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func TestNoiseAccumulation(t *testing.T) {
	service := newTestService()

	value := service.Encrypt(1, TypeInteger)
	previous := value.NoiseLevel

	// Noise grows monotonically and caps at 10 when feeding results back in.
	for i := 0; i < 15; i++ {
		result := service.Compute(ComputeRequest{Operation: OpMultiply, Operands: []EncryptedValue{value}})
		require.True(t, result.Success)

		value = result.Result
		assert.GreaterOrEqual(t, value.NoiseLevel, previous)
		assert.LessOrEqual(t, value.NoiseLevel, 10)
		previous = value.NoiseLevel
	}

	assert.Equal(t, 10, value.NoiseLevel)
	assert.False(t, value.CanCompute)
}

func TestComputeThreshold(t *testing.T) {
	service := newTestService()

	operand := EncryptedValue{EncryptedData: "aa", DataType: TypeInteger, CanCompute: true, NoiseLevel: 6}
	result := service.Compute(ComputeRequest{Operation: OpAdd, Operands: []EncryptedValue{operand}})
	require.True(t, result.Success)
	assert.Equal(t, 7, result.Result.NoiseLevel)
	assert.True(t, result.Result.CanCompute)

	operand.NoiseLevel = 7
	result = service.Compute(ComputeRequest{Operation: OpAdd, Operands: []EncryptedValue{operand}})
	require.True(t, result.Success)
	assert.Equal(t, 8, result.Result.NoiseLevel)
	assert.False(t, result.Result.CanCompute, "noise budget exhausted at level 8")
}

func TestCatalogs(t *testing.T) {
	service := newTestService()

	operations := service.Operations()
	require.Len(t, operations, 6)
	assert.Equal(t, OpAdd, operations[0].Name)
	assert.Equal(t, 100, operations[0].GasCost)

	demos := service.DemoScenarios()
	require.Len(t, demos, 4)
	assert.Equal(t, "Private Voting", demos[0].Name)
	assert.Equal(t, OpAdd, demos[0].Operation)
	assert.Len(t, demos[0].DemoData, 4)
}
