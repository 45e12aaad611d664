package session

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"

	"github.com/octra-labs/wallet-simulator-go/internal/metrics"
	"github.com/octra-labs/wallet-simulator-go/internal/simulator"
	"github.com/octra-labs/wallet-simulator-go/pkg/hub"
	"github.com/octra-labs/wallet-simulator-go/pkg/mnemonic"
)

const defaultLogsLimit = 50

// WalletService is the device-facing RPC surface. It owns no state of its
// own: each method drives the simulator and, on success, mirrors the state
// change to all real-time subscribers through the hub.
type WalletService struct {
	simulator *simulator.DeviceSimulator
	hub       *hub.Hub
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewWalletService(sim *simulator.DeviceSimulator, h *hub.Hub, m *metrics.Metrics, logger *zap.Logger) *WalletService {
	return &WalletService{
		simulator: sim,
		hub:       h,
		metrics:   m,
		logger:    logger.Named("wallet-service"),
	}
}

func (s *WalletService) broadcast(eventType string, fields map[string]interface{}) {
	event := map[string]interface{}{
		"type":      eventType,
		"timestamp": time.Now().UTC(),
	}
	for k, v := range fields {
		event[k] = v
	}

	delivered := s.hub.Broadcast(event)
	s.metrics.ObserveBroadcast(eventType, delivered)
}

func (s *WalletService) GetStatus(args *struct{}, reply *simulator.Status) error {
	*reply = s.simulator.Status()
	s.metrics.ObserveRPCCall("wallet.GetStatus", nil)
	return nil
}

type ConnectRequest struct {
	DeviceType      string `json:"deviceType" validate:"required,oneof=ledger trezor octra"`
	Name            string `json:"name" validate:"required"`
	FirmwareVersion string `json:"firmwareVersion"`
	SerialNumber    string `json:"serialNumber"`
}

func (s *WalletService) Connect(args *ConnectRequest, reply *simulator.ConnectResult) (err error) {
	defer func() { s.metrics.ObserveRPCCall("wallet.Connect", err) }()

	if err = validateRequest(args); err != nil {
		return err
	}

	result, err := s.simulator.Connect(simulator.DeviceInfo{
		DeviceType:      simulator.DeviceType(args.DeviceType),
		Name:            args.Name,
		FirmwareVersion: args.FirmwareVersion,
		SerialNumber:    args.SerialNumber,
	})
	if err != nil {
		return err
	}

	s.broadcast("device_connected", map[string]interface{}{"device": result.Device})

	*reply = result
	return nil
}

func (s *WalletService) Disconnect(args *struct{}, reply *simulator.DisconnectResult) (err error) {
	defer func() { s.metrics.ObserveRPCCall("wallet.Disconnect", err) }()

	result, err := s.simulator.Disconnect()
	if err != nil {
		return err
	}

	s.broadcast("device_disconnected", nil)

	*reply = result
	return nil
}

type UnlockRequest struct {
	PIN string `json:"pin" validate:"required,min=4,max=8"`
}

func (s *WalletService) Unlock(args *UnlockRequest, reply *simulator.UnlockResult) (err error) {
	defer func() { s.metrics.ObserveRPCCall("wallet.Unlock", err) }()

	if err = validateRequest(args); err != nil {
		return err
	}

	result, err := s.simulator.Unlock(args.PIN)
	if err != nil {
		return err
	}

	if result.Unlocked {
		s.broadcast("device_unlocked", nil)
	} else {
		s.broadcast("unlock_failed", map[string]interface{}{"attemptsRemaining": result.AttemptsRemaining})
	}

	*reply = result
	return nil
}

type SignTransactionRequest struct {
	ToAddress string `json:"toAddress" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	Fee       string `json:"fee"`
	Memo      string `json:"memo"`
	GasLimit  int    `json:"gasLimit" validate:"min=0"`
}

func (s *WalletService) SignTransaction(args *SignTransactionRequest, reply *simulator.SignRequestResult) (err error) {
	defer func() { s.metrics.ObserveRPCCall("wallet.SignTransaction", err) }()

	if err = validateRequest(args); err != nil {
		return err
	}

	result, err := s.simulator.SignTransaction(simulator.TransactionRequest{
		ToAddress: args.ToAddress,
		Amount:    args.Amount,
		Fee:       args.Fee,
		Memo:      args.Memo,
		GasLimit:  args.GasLimit,
	})
	if err != nil {
		return err
	}

	s.broadcast("transaction_sign_request", map[string]interface{}{"transaction": result.Transaction})

	*reply = result
	return nil
}

type ConfirmTransactionRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (s *WalletService) ConfirmTransaction(args *ConfirmTransactionRequest, reply *simulator.ConfirmResult) (err error) {
	defer func() { s.metrics.ObserveRPCCall("wallet.ConfirmTransaction", err) }()

	result, err := s.simulator.ConfirmTransaction(args.Confirmed)
	if err != nil {
		return err
	}

	eventType := "transaction_confirmed"
	if result.Rejected {
		eventType = "transaction_rejected"
	}
	s.broadcast(eventType, map[string]interface{}{"result": result})

	*reply = result
	return nil
}

type GenerateAddressRequest struct {
	DerivationPath string `json:"derivationPath"`
}

func (s *WalletService) GenerateAddress(args *GenerateAddressRequest, reply *simulator.AddressInfo) (err error) {
	defer func() { s.metrics.ObserveRPCCall("wallet.GenerateAddress", err) }()

	result, err := s.simulator.GenerateAddress(args.DerivationPath)
	if err != nil {
		return err
	}

	*reply = result
	return nil
}

type GenerateMnemonicRequest struct {
	Length int `json:"length" validate:"omitempty,oneof=12 15 18 21 24"`
}

type GenerateMnemonicResponse struct {
	Mnemonic string `json:"mnemonic"`
}

func (s *WalletService) GenerateMnemonic(args *GenerateMnemonicRequest, reply *GenerateMnemonicResponse) (err error) {
	defer func() { s.metrics.ObserveRPCCall("wallet.GenerateMnemonic", err) }()

	if err = validateRequest(args); err != nil {
		return err
	}

	length := args.Length
	if length == 0 {
		length = 12
	}

	phrase, err := mnemonic.Generate(length)
	if err != nil {
		return err
	}

	reply.Mnemonic = phrase
	return nil
}

type LoadMnemonicRequest struct {
	Mnemonic   string `json:"mnemonic" validate:"required,mnemonic"`
	Passphrase string `json:"passphrase"`
}

type LoadMnemonicResponse struct {
	KeyUID string `json:"keyUID"`
}

// LoadMnemonic derives the demo seed for a mnemonic and returns its key UID
// (the hash of the derived seed). The seed itself never leaves the process.
func (s *WalletService) LoadMnemonic(args *LoadMnemonicRequest, reply *LoadMnemonicResponse) (err error) {
	defer func() { s.metrics.ObserveRPCCall("wallet.LoadMnemonic", err) }()

	if err = validateRequest(args); err != nil {
		return err
	}

	seed, err := mnemonic.DeriveSeed(args.Mnemonic, args.Passphrase)
	if err != nil {
		return err
	}

	keyUID := sha256.Sum256(seed)
	reply.KeyUID = hex.EncodeToString(keyUID[:])
	return nil
}

type DeviceTypesResponse struct {
	Devices []simulator.DeviceTypeInfo `json:"devices"`
}

func (s *WalletService) GetDeviceTypes(args *struct{}, reply *DeviceTypesResponse) error {
	reply.Devices = s.simulator.DeviceTypes()
	s.metrics.ObserveRPCCall("wallet.GetDeviceTypes", nil)
	return nil
}

type GetLogsRequest struct {
	// Limit defaults to 50 when zero; a negative limit returns the full
	// buffer.
	Limit int `json:"limit"`
}

type LogsResponse struct {
	Logs []simulator.LogEntry `json:"logs"`
}

func (s *WalletService) GetLogs(args *GetLogsRequest, reply *LogsResponse) error {
	limit := args.Limit
	if limit == 0 {
		limit = defaultLogsLimit
	}
	reply.Logs = s.simulator.Logs(limit)
	s.metrics.ObserveRPCCall("wallet.GetLogs", nil)
	return nil
}

type ClearLogsResponse struct {
	Cleared bool `json:"cleared"`
}

func (s *WalletService) ClearLogs(args *struct{}, reply *ClearLogsResponse) error {
	s.simulator.ClearLogs()
	reply.Cleared = true
	s.metrics.ObserveRPCCall("wallet.ClearLogs", nil)
	return nil
}

func (s *WalletService) Reset(args *struct{}, reply *struct{}) error {
	s.simulator.Reset()
	s.metrics.ObserveRPCCall("wallet.Reset", nil)
	return nil
}

func (s *WalletService) GetSubscribers(args *struct{}, reply *[]hub.SubscriberInfo) error {
	*reply = s.hub.ListInfo()
	s.metrics.ObserveRPCCall("wallet.GetSubscribers", nil)
	return nil
}
