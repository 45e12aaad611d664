package simulator

import (
	"time"
)

type DeviceType string

const (
	DeviceLedger DeviceType = "ledger"
	DeviceTrezor DeviceType = "trezor"
	DeviceOctra  DeviceType = "octra"
)

// Screen is the conceptual UI screen the simulated device is showing.
// It is always derived from the session flags, never set independently.
type Screen string

const (
	ScreenHome    Screen = "home"
	ScreenWallet  Screen = "wallet"
	ScreenConfirm Screen = "confirm"
	ScreenSigned  Screen = "signed"
	ScreenError   Screen = "error"
)

type DeviceInfo struct {
	DeviceType      DeviceType `json:"deviceType"`
	Name            string     `json:"name"`
	FirmwareVersion string     `json:"firmwareVersion,omitempty"`
	SerialNumber    string     `json:"serialNumber,omitempty"`
}

type DeviceState struct {
	Connected            bool        `json:"isConnected"`
	Unlocked             bool        `json:"isUnlocked"`
	Screen               Screen      `json:"screen"`
	Balance              string      `json:"balance"`
	Address              string      `json:"address"`
	AwaitingConfirmation bool        `json:"awaitingConfirmation"`
	LastActivity         *time.Time  `json:"lastActivity,omitempty"`
	DeviceInfo           *DeviceInfo `json:"deviceInfo,omitempty"`
}

const (
	defaultBalance = "0.00000000"
	defaultAddress = "octra1..."
)

func NewDeviceState() DeviceState {
	s := DeviceState{}
	s.Reset()
	return s
}

func (s *DeviceState) Reset() {
	s.Connected = false
	s.Unlocked = false
	s.Screen = ScreenHome
	s.Balance = defaultBalance
	s.Address = defaultAddress
	s.AwaitingConfirmation = false
	s.LastActivity = nil
	s.DeviceInfo = nil
}

type TransactionRequest struct {
	ToAddress string `json:"toAddress"`
	Amount    string `json:"amount"`
	Fee       string `json:"fee,omitempty"`
	Memo      string `json:"memo,omitempty"`
	GasLimit  int    `json:"gasLimit,omitempty"`
}

const (
	defaultFee      = "0.001"
	defaultGasLimit = 21000
)

type SignatureResult struct {
	Signature       string     `json:"signature"`
	TransactionHash string     `json:"transactionHash"`
	SignedAt        time.Time  `json:"signedAt"`
	DeviceType      DeviceType `json:"deviceType"`
}

type AddressInfo struct {
	Address        string `json:"address"`
	DerivationPath string `json:"derivationPath"`
	PublicKey      string `json:"publicKey"`
	AddressType    string `json:"addressType"`
}

// Status is the public view of the session, safe to hand to callers.
type Status struct {
	DeviceState          DeviceState         `json:"deviceState"`
	PendingTransaction   *TransactionRequest `json:"pendingTransaction"`
	PinAttemptsRemaining int                 `json:"pinAttemptsRemaining"`
}

// DeviceTypeInfo describes one supported hardware wallet model.
type DeviceTypeInfo struct {
	ID                  DeviceType `json:"id"`
	Name                string     `json:"name"`
	SupportedOperations []string   `json:"supportedOperations"`
}

// Per-model wallets resolved on unlock. The values are fixtures, not derived.
var (
	mockAddresses = map[DeviceType]string{
		DeviceLedger: "octra1qpzry9x8gf2tvdw0s3jn54khce6mua7l5ta2m8c",
		DeviceTrezor: "octra1abc123def456ghi789jkl012mno345pqr678stu",
		DeviceOctra:  "octra1xyz789abc123def456ghi789jkl012mno345pqr",
	}

	mockBalances = map[DeviceType]string{
		DeviceLedger: "125.80000000",
		DeviceTrezor: "89.45123456",
		DeviceOctra:  "203.12345678",
	}
)

var deviceTypeCatalog = []DeviceTypeInfo{
	{ID: DeviceLedger, Name: "Ledger Nano S", SupportedOperations: []string{"sign", "verify", "generate_address"}},
	{ID: DeviceTrezor, Name: "Trezor Model T", SupportedOperations: []string{"sign", "verify", "generate_address"}},
	{ID: DeviceOctra, Name: "Octra Device", SupportedOperations: []string{"sign", "verify", "generate_address", "fhe_operations"}},
}
