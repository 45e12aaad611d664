package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSimulator(opts ...Option) *DeviceSimulator {
	base := []Option{WithTimings(Timings{})}
	return New(append(base, opts...)...)
}

func ledgerInfo() DeviceInfo {
	return DeviceInfo{DeviceType: DeviceLedger, Name: "Ledger Nano S"}
}

func requireInvariants(t *testing.T, sim *DeviceSimulator) {
	t.Helper()
	status := sim.Status()
	if status.DeviceState.Unlocked {
		assert.True(t, status.DeviceState.Connected, "unlocked implies connected")
	}
	if status.DeviceState.AwaitingConfirmation {
		require.NotNil(t, status.PendingTransaction, "awaiting confirmation implies pending transaction")
		assert.True(t, status.DeviceState.Unlocked, "awaiting confirmation implies unlocked")
	}
}

func TestConnect(t *testing.T) {
	sim := newTestSimulator()

	result, err := sim.Connect(ledgerInfo())
	require.NoError(t, err)
	assert.True(t, result.Connected)
	assert.Equal(t, ScreenHome, result.Screen)
	assert.Equal(t, "1.0.0", result.Device.FirmwareVersion)

	status := sim.Status()
	assert.True(t, status.DeviceState.Connected)
	assert.False(t, status.DeviceState.Unlocked)
	assert.Equal(t, 3, status.PinAttemptsRemaining)
	require.NotNil(t, status.DeviceState.DeviceInfo)
	assert.Equal(t, DeviceLedger, status.DeviceState.DeviceInfo.DeviceType)

	_, err = sim.Connect(ledgerInfo())
	assert.ErrorIs(t, err, ErrAlreadyConnected)
}

func TestDisconnectResetsToDefaults(t *testing.T) {
	sim := newTestSimulator()

	_, err := sim.Connect(ledgerInfo())
	require.NoError(t, err)
	_, err = sim.Unlock("1234")
	require.NoError(t, err)
	_, err = sim.SignTransaction(TransactionRequest{ToAddress: "octra1abc", Amount: "10.5"})
	require.NoError(t, err)

	_, err = sim.Disconnect()
	require.NoError(t, err)

	status := sim.Status()
	assert.Equal(t, NewDeviceState(), status.DeviceState)
	assert.Nil(t, status.PendingTransaction)
	assert.Equal(t, 3, status.PinAttemptsRemaining)

	_, err = sim.Disconnect()
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestUnlock(t *testing.T) {
	sim := newTestSimulator()

	_, err := sim.Unlock("1234")
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = sim.Connect(ledgerInfo())
	require.NoError(t, err)

	result, err := sim.Unlock("1234")
	require.NoError(t, err)
	assert.True(t, result.Unlocked)
	assert.Equal(t, "octra1qpzry9x8gf2tvdw0s3jn54khce6mua7l5ta2m8c", result.Address)
	assert.Equal(t, "125.80000000", result.Balance)
	assert.Equal(t, ScreenWallet, result.Screen)
	requireInvariants(t, sim)
}

func TestUnlockIdempotent(t *testing.T) {
	sim := newTestSimulator()

	_, err := sim.Connect(ledgerInfo())
	require.NoError(t, err)
	_, err = sim.Unlock("1234")
	require.NoError(t, err)

	before := sim.Status()
	logsBefore := len(sim.Logs(-1))

	result, err := sim.Unlock("1234")
	require.NoError(t, err)
	assert.True(t, result.Unlocked)
	assert.True(t, result.AlreadyUnlocked)

	assert.Equal(t, before.DeviceState, sim.Status().DeviceState)
	assert.Len(t, sim.Logs(-1), logsBefore, "no new log entry on idempotent unlock")
}

func TestUnlockWrongPIN(t *testing.T) {
	sim := newTestSimulator()

	_, err := sim.Connect(ledgerInfo())
	require.NoError(t, err)

	result, err := sim.Unlock("0000")
	require.NoError(t, err)
	assert.False(t, result.Unlocked)
	assert.Equal(t, 2, result.AttemptsRemaining)
	assert.Equal(t, "Invalid PIN", result.Error)
	assert.Equal(t, 2, sim.Status().PinAttemptsRemaining)
}

func TestUnlockAttemptsExhausted(t *testing.T) {
	sim := newTestSimulator()

	_, err := sim.Connect(ledgerInfo())
	require.NoError(t, err)

	result, err := sim.Unlock("0000")
	require.NoError(t, err)
	assert.Equal(t, 2, result.AttemptsRemaining)

	result, err = sim.Unlock("9999")
	require.NoError(t, err)
	assert.Equal(t, 1, result.AttemptsRemaining)

	_, err = sim.Unlock("1111")
	assert.ErrorIs(t, err, ErrDeviceLocked)

	status := sim.Status()
	assert.False(t, status.DeviceState.Connected)

	// No further unlock attempt is possible until connect() is called again.
	_, err = sim.Unlock("1234")
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = sim.Connect(ledgerInfo())
	require.NoError(t, err)
	assert.Equal(t, 3, sim.Status().PinAttemptsRemaining)
}

func TestSignTransactionPreconditions(t *testing.T) {
	sim := newTestSimulator()
	tx := TransactionRequest{ToAddress: "octra1abc", Amount: "10.5"}

	_, err := sim.SignTransaction(tx)
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = sim.Connect(ledgerInfo())
	require.NoError(t, err)

	_, err = sim.SignTransaction(tx)
	assert.ErrorIs(t, err, ErrNotUnlocked)

	_, err = sim.Unlock("1234")
	require.NoError(t, err)

	_, err = sim.SignTransaction(tx)
	require.NoError(t, err)

	_, err = sim.SignTransaction(tx)
	assert.ErrorIs(t, err, ErrTransactionPending)
}

func TestSignTransactionDefaults(t *testing.T) {
	sim := newTestSimulator()

	_, err := sim.Connect(ledgerInfo())
	require.NoError(t, err)
	_, err = sim.Unlock("1234")
	require.NoError(t, err)

	result, err := sim.SignTransaction(TransactionRequest{ToAddress: "octra1abc", Amount: "10.5"})
	require.NoError(t, err)
	assert.True(t, result.SigningRequested)
	assert.True(t, result.AwaitingConfirmation)
	assert.Equal(t, ScreenConfirm, result.Screen)
	assert.Equal(t, "0.001", result.Transaction.Fee)
	assert.Equal(t, 21000, result.Transaction.GasLimit)
	requireInvariants(t, sim)
}

func TestConfirmTransaction(t *testing.T) {
	sim := newTestSimulator(WithTimings(Timings{SignedScreen: 50 * time.Millisecond}))

	_, err := sim.ConfirmTransaction(true)
	assert.ErrorIs(t, err, ErrNoPendingTransaction)

	_, err = sim.Connect(ledgerInfo())
	require.NoError(t, err)
	_, err = sim.Unlock("1234")
	require.NoError(t, err)
	_, err = sim.SignTransaction(TransactionRequest{ToAddress: "octra1abc", Amount: "10.5"})
	require.NoError(t, err)

	result, err := sim.ConfirmTransaction(true)
	require.NoError(t, err)
	assert.True(t, result.Confirmed)
	assert.Equal(t, ScreenSigned, result.Screen)
	require.NotNil(t, result.SignatureResult)
	assert.NotEmpty(t, result.SignatureResult.Signature)
	assert.NotEmpty(t, result.SignatureResult.TransactionHash)
	assert.Equal(t, DeviceLedger, result.SignatureResult.DeviceType)

	status := sim.Status()
	assert.Nil(t, status.PendingTransaction)
	assert.False(t, status.DeviceState.AwaitingConfirmation)

	// The deferred revert brings the screen back to the wallet.
	require.Eventually(t, func() bool {
		return sim.Status().DeviceState.Screen == ScreenWallet
	}, time.Second, 10*time.Millisecond)
}

func TestConfirmTransactionUniqueHashes(t *testing.T) {
	sim := newTestSimulator()

	_, err := sim.Connect(ledgerInfo())
	require.NoError(t, err)
	_, err = sim.Unlock("1234")
	require.NoError(t, err)

	tx := TransactionRequest{ToAddress: "octra1abc", Amount: "10.5"}
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		_, err = sim.SignTransaction(tx)
		require.NoError(t, err)
		result, err := sim.ConfirmTransaction(true)
		require.NoError(t, err)
		hash := result.SignatureResult.TransactionHash
		assert.False(t, seen[hash], "repeated confirms of equal transactions must differ")
		seen[hash] = true
	}
}

func TestRejectTransaction(t *testing.T) {
	sim := newTestSimulator()

	_, err := sim.Connect(ledgerInfo())
	require.NoError(t, err)
	_, err = sim.Unlock("1234")
	require.NoError(t, err)
	_, err = sim.SignTransaction(TransactionRequest{ToAddress: "octra1abc", Amount: "10.5"})
	require.NoError(t, err)

	result, err := sim.ConfirmTransaction(false)
	require.NoError(t, err)
	assert.False(t, result.Confirmed)
	assert.True(t, result.Rejected)
	assert.Nil(t, result.SignatureResult)
	assert.Equal(t, ScreenWallet, result.Screen)

	status := sim.Status()
	assert.Nil(t, status.PendingTransaction)
	assert.False(t, status.DeviceState.AwaitingConfirmation)
	assert.Equal(t, ScreenWallet, status.DeviceState.Screen)
}

func TestGenerateAddress(t *testing.T) {
	sim := newTestSimulator()

	_, err := sim.GenerateAddress("")
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = sim.Connect(ledgerInfo())
	require.NoError(t, err)

	_, err = sim.GenerateAddress("")
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = sim.Unlock("1234")
	require.NoError(t, err)
	sessionAddress := sim.Status().DeviceState.Address

	info, err := sim.GenerateAddress("")
	require.NoError(t, err)
	assert.Equal(t, "m/44'/60'/0'/0/0", info.DerivationPath)
	assert.Regexp(t, `^octra1[0-9a-f]{32}$`, info.Address)
	assert.NotEmpty(t, info.PublicKey)
	assert.Equal(t, "octra", info.AddressType)

	// The session wallet address is untouched.
	assert.Equal(t, sessionAddress, sim.Status().DeviceState.Address)

	other, err := sim.GenerateAddress("m/44'/60'/0'/0/1")
	require.NoError(t, err)
	assert.NotEqual(t, info.Address, other.Address)
}

func TestReset(t *testing.T) {
	sim := newTestSimulator()

	_, err := sim.Connect(ledgerInfo())
	require.NoError(t, err)
	_, err = sim.Unlock("0000")
	require.NoError(t, err)

	sim.Reset()

	status := sim.Status()
	assert.Equal(t, NewDeviceState(), status.DeviceState)
	assert.Equal(t, 3, status.PinAttemptsRemaining)
}

func TestInvariantsAcrossOperationSequence(t *testing.T) {
	sim := newTestSimulator()
	tx := TransactionRequest{ToAddress: "octra1abc", Amount: "1"}

	steps := []func(){
		func() { _, _ = sim.Connect(ledgerInfo()) },
		func() { _, _ = sim.Unlock("0000") },
		func() { _, _ = sim.Unlock("1234") },
		func() { _, _ = sim.SignTransaction(tx) },
		func() { _, _ = sim.ConfirmTransaction(false) },
		func() { _, _ = sim.SignTransaction(tx) },
		func() { _, _ = sim.ConfirmTransaction(true) },
		func() { _, _ = sim.Disconnect() },
		func() { _, _ = sim.Unlock("1234") },
	}

	for _, step := range steps {
		step()
		requireInvariants(t, sim)
	}
}

// Full walkthrough of the demo flow, from connection to the post-signing
// screen revert.
func TestScenarioConnectUnlockSignConfirm(t *testing.T) {
	sim := newTestSimulator(WithTimings(Timings{SignedScreen: 50 * time.Millisecond}))

	_, err := sim.Connect(ledgerInfo())
	require.NoError(t, err)
	require.True(t, sim.Status().DeviceState.Connected)

	wrong, err := sim.Unlock("0000")
	require.NoError(t, err)
	require.False(t, wrong.Unlocked)
	require.Equal(t, 2, wrong.AttemptsRemaining)

	unlocked, err := sim.Unlock("1234")
	require.NoError(t, err)
	require.True(t, unlocked.Unlocked)
	require.Equal(t, mockAddresses[DeviceLedger], unlocked.Address)

	signReq, err := sim.SignTransaction(TransactionRequest{ToAddress: "octra1abc...", Amount: "10.5"})
	require.NoError(t, err)
	require.True(t, signReq.AwaitingConfirmation)
	require.Equal(t, ScreenConfirm, signReq.Screen)

	confirmed, err := sim.ConfirmTransaction(true)
	require.NoError(t, err)
	require.NotEmpty(t, confirmed.SignatureResult.Signature)
	require.NotEmpty(t, confirmed.SignatureResult.TransactionHash)
	require.Equal(t, ScreenSigned, confirmed.Screen)

	require.Eventually(t, func() bool {
		return sim.Status().DeviceState.Screen == ScreenWallet
	}, time.Second, 10*time.Millisecond)
}
