package simulator

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/octra-labs/wallet-simulator-go/pkg/signer"
)

const (
	defaultPIN            = "1234"
	maxPINAttempts        = 3
	defaultDerivationPath = "m/44'/60'/0'/0/0"
)

// DeviceSimulator owns the single live device session. Every mutating
// operation holds the session mutex for its full duration, simulated delays
// included, so callers always observe atomic transitions.
type DeviceSimulator struct {
	mu                 sync.Mutex
	state              DeviceState
	pendingTransaction *TransactionRequest
	pinAttempts        int

	pin     string
	logs    *LogBuffer
	signer  signer.Signer
	timings Timings
	logger  *zap.Logger
}

func New(opts ...Option) *DeviceSimulator {
	d := &DeviceSimulator{
		state:   NewDeviceState(),
		pin:     defaultPIN,
		logs:    NewLogBuffer(DefaultLogCapacity),
		signer:  signer.NewMock(),
		timings: DefaultTimings(),
		logger:  zap.L().Named("simulator"),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// addLog records an activity entry. Callers must hold the session mutex, as
// the current device type is read off the session.
func (d *DeviceSimulator) addLog(level LogLevel, message string, context map[string]interface{}) {
	var deviceType DeviceType
	if d.state.DeviceInfo != nil {
		deviceType = d.state.DeviceInfo.DeviceType
	}
	d.logs.Append(newLogEntry(level, message, deviceType, context))
}

func (d *DeviceSimulator) touch() {
	now := time.Now().UTC()
	d.state.LastActivity = &now
}

type ConnectResult struct {
	Connected bool       `json:"connected"`
	Device    DeviceInfo `json:"device"`
	Screen    Screen     `json:"screen"`
}

// Connect attaches the simulated device.
func (d *DeviceSimulator) Connect(info DeviceInfo) (ConnectResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state.Connected {
		return ConnectResult{}, ErrAlreadyConnected
	}

	time.Sleep(d.timings.Connect)

	if info.FirmwareVersion == "" {
		info.FirmwareVersion = "1.0.0"
	}

	d.state.Connected = true
	d.state.DeviceInfo = &info
	d.state.Screen = ScreenHome
	d.pinAttempts = 0
	d.touch()

	d.addLog(LogSuccess, fmt.Sprintf("%s connected successfully", info.Name),
		map[string]interface{}{"device_type": info.DeviceType})
	d.logger.Info("device connected", zap.String("deviceType", string(info.DeviceType)), zap.String("name", info.Name))

	return ConnectResult{
		Connected: true,
		Device:    info,
		Screen:    d.state.Screen,
	}, nil
}

type DisconnectResult struct {
	Disconnected bool `json:"disconnected"`
}

// Disconnect resets the entire session to its default values.
func (d *DeviceSimulator) Disconnect() (DisconnectResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.state.Connected {
		return DisconnectResult{}, ErrNotConnected
	}

	deviceName := "Unknown device"
	if d.state.DeviceInfo != nil {
		deviceName = d.state.DeviceInfo.Name
	}

	d.state.Reset()
	d.pendingTransaction = nil
	d.pinAttempts = 0

	d.addLog(LogWarning, fmt.Sprintf("%s disconnected", deviceName), nil)
	d.logger.Info("device disconnected", zap.String("name", deviceName))

	return DisconnectResult{Disconnected: true}, nil
}

type UnlockResult struct {
	Unlocked          bool   `json:"unlocked"`
	AlreadyUnlocked   bool   `json:"alreadyUnlocked,omitempty"`
	Address           string `json:"address,omitempty"`
	Balance           string `json:"balance,omitempty"`
	Screen            Screen `json:"screen,omitempty"`
	Error             string `json:"error,omitempty"`
	AttemptsRemaining int    `json:"attemptsRemaining,omitempty"`
}

// Unlock verifies the PIN. A correct PIN resolves the per-model wallet
// address and balance; a third consecutive wrong PIN forces a disconnect and
// returns ErrDeviceLocked.
func (d *DeviceSimulator) Unlock(pin string) (UnlockResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.state.Connected {
		return UnlockResult{}, ErrNotConnected
	}

	if d.state.Unlocked {
		return UnlockResult{Unlocked: true, AlreadyUnlocked: true}, nil
	}

	time.Sleep(d.timings.PINVerify)

	if pin != d.pin {
		d.pinAttempts++
		remaining := maxPINAttempts - d.pinAttempts

		d.addLog(LogError, fmt.Sprintf("Invalid PIN. %d attempts remaining", remaining),
			map[string]interface{}{"attempts_remaining": remaining})

		if remaining <= 0 {
			d.state.Connected = false
			d.addLog(LogError, "Device locked due to too many invalid PIN attempts", nil)
			d.logger.Warn("device locked, PIN attempts exhausted")
			return UnlockResult{}, ErrDeviceLocked
		}

		return UnlockResult{
			Unlocked:          false,
			Error:             "Invalid PIN",
			AttemptsRemaining: remaining,
		}, nil
	}

	d.state.Unlocked = true
	d.state.Screen = ScreenWallet
	d.pinAttempts = 0
	d.touch()

	if d.state.DeviceInfo != nil {
		deviceType := d.state.DeviceInfo.DeviceType
		if address, ok := mockAddresses[deviceType]; ok {
			d.state.Address = address
		}
		if balance, ok := mockBalances[deviceType]; ok {
			d.state.Balance = balance
		}
	}

	d.addLog(LogSuccess, "Device unlocked successfully", nil)
	d.logger.Info("device unlocked")

	return UnlockResult{
		Unlocked: true,
		Address:  d.state.Address,
		Balance:  d.state.Balance,
		Screen:   d.state.Screen,
	}, nil
}

type SignRequestResult struct {
	SigningRequested     bool               `json:"signingRequested"`
	Transaction          TransactionRequest `json:"transaction"`
	AwaitingConfirmation bool               `json:"awaitingConfirmation"`
	Screen               Screen             `json:"screen"`
}

// SignTransaction stages a transaction for on-device confirmation.
func (d *DeviceSimulator) SignTransaction(tx TransactionRequest) (SignRequestResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.state.Connected {
		return SignRequestResult{}, ErrNotConnected
	}
	if !d.state.Unlocked {
		return SignRequestResult{}, ErrNotUnlocked
	}
	if d.state.AwaitingConfirmation {
		return SignRequestResult{}, ErrTransactionPending
	}

	if tx.Fee == "" {
		tx.Fee = defaultFee
	}
	if tx.GasLimit == 0 {
		tx.GasLimit = defaultGasLimit
	}

	d.pendingTransaction = &tx
	d.state.AwaitingConfirmation = true
	d.state.Screen = ScreenConfirm
	d.touch()

	d.addLog(LogInfo, fmt.Sprintf("Transaction signing requested: %s OCTRA to %s...", tx.Amount, truncate(tx.ToAddress, 10)),
		map[string]interface{}{"transaction": tx})
	d.logger.Info("transaction signing requested", zap.String("amount", tx.Amount))

	return SignRequestResult{
		SigningRequested:     true,
		Transaction:          tx,
		AwaitingConfirmation: true,
		Screen:               d.state.Screen,
	}, nil
}

type ConfirmResult struct {
	Confirmed       bool             `json:"confirmed"`
	Rejected        bool             `json:"rejected,omitempty"`
	SignatureResult *SignatureResult `json:"signatureResult,omitempty"`
	Screen          Screen           `json:"screen"`
}

// ConfirmTransaction resolves the pending transaction. On confirm the device
// shows the signed screen and a detached timer reverts it to the wallet
// screen later; the timer is fire-and-forget and blindly writes the wallet
// screen, which is benign if the session changed in the meantime
// (last-write-wins).
func (d *DeviceSimulator) ConfirmTransaction(confirmed bool) (ConfirmResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.state.AwaitingConfirmation || d.pendingTransaction == nil {
		return ConfirmResult{}, ErrNoPendingTransaction
	}

	var result ConfirmResult

	if confirmed {
		time.Sleep(d.timings.Signing)

		tx := d.pendingTransaction
		signed, err := d.signer.Sign(signer.Request{
			ToAddress: tx.ToAddress,
			Amount:    tx.Amount,
			Fee:       tx.Fee,
		})
		if err != nil {
			return ConfirmResult{}, errors.Wrap(err, "failed to sign transaction")
		}

		signatureResult := &SignatureResult{
			Signature:       signed.Signature,
			TransactionHash: signed.TransactionHash,
			SignedAt:        time.Now().UTC(),
			DeviceType:      d.state.DeviceInfo.DeviceType,
		}

		d.state.Screen = ScreenSigned
		d.addLog(LogSuccess, fmt.Sprintf("Transaction signed successfully: %s...", truncate(signed.TransactionHash, 16)), nil)
		d.logger.Info("transaction signed", zap.String("transactionHash", signed.TransactionHash))

		time.AfterFunc(d.timings.SignedScreen, d.revertToWalletScreen)

		result = ConfirmResult{
			Confirmed:       true,
			SignatureResult: signatureResult,
			Screen:          d.state.Screen,
		}
	} else {
		d.addLog(LogWarning, "Transaction rejected by user", nil)
		d.logger.Info("transaction rejected")
		d.state.Screen = ScreenWallet

		result = ConfirmResult{
			Confirmed: false,
			Rejected:  true,
			Screen:    d.state.Screen,
		}
	}

	d.pendingTransaction = nil
	d.state.AwaitingConfirmation = false
	d.touch()

	return result, nil
}

func (d *DeviceSimulator) revertToWalletScreen() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Screen = ScreenWallet
}

// GenerateAddress derives a new receive address for the given derivation
// path. The session wallet address assigned on unlock is not touched.
func (d *DeviceSimulator) GenerateAddress(derivationPath string) (AddressInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.state.Connected || !d.state.Unlocked {
		return AddressInfo{}, ErrNotReady
	}

	if derivationPath == "" {
		derivationPath = defaultDerivationPath
	}

	entropy := make([]byte, 8)
	if _, err := rand.Read(entropy); err != nil {
		return AddressInfo{}, errors.Wrap(err, "failed to read entropy")
	}

	seed := fmt.Sprintf("%s%s%s", d.state.DeviceInfo.DeviceType, derivationPath, hex.EncodeToString(entropy))
	addressHash := sha256.Sum256([]byte(seed))
	address := "octra1" + hex.EncodeToString(addressHash[:])[:32]
	publicKey := sha256.Sum256([]byte("pubkey" + seed))

	d.addLog(LogInfo, fmt.Sprintf("Generated new address: %s...", truncate(address, 16)), nil)

	return AddressInfo{
		Address:        address,
		DerivationPath: derivationPath,
		PublicKey:      hex.EncodeToString(publicKey[:]),
		AddressType:    "octra",
	}, nil
}

// Status is a consistent snapshot of the session.
func (d *DeviceSimulator) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	var pending *TransactionRequest
	if d.pendingTransaction != nil {
		tx := *d.pendingTransaction
		pending = &tx
	}

	return Status{
		DeviceState:          d.state,
		PendingTransaction:   pending,
		PinAttemptsRemaining: maxPINAttempts - d.pinAttempts,
	}
}

func (d *DeviceSimulator) Logs(limit int) []LogEntry {
	return d.logs.Recent(limit)
}

func (d *DeviceSimulator) ClearLogs() {
	d.logs.Clear()
}

// Reset restores the simulator to its initial state.
func (d *DeviceSimulator) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state.Reset()
	d.pendingTransaction = nil
	d.pinAttempts = 0
	d.addLog(LogInfo, "Device simulator reset", nil)
}

// DeviceTypes lists the supported hardware wallet models.
func (d *DeviceSimulator) DeviceTypes() []DeviceTypeInfo {
	out := make([]DeviceTypeInfo, len(deviceTypeCatalog))
	copy(out, deviceTypeCatalog)
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
