package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/octra-labs/wallet-simulator-go/internal/fhe"
	"github.com/octra-labs/wallet-simulator-go/internal/metrics"
	"github.com/octra-labs/wallet-simulator-go/pkg/hub"
)

// FHEService is the RPC surface of the computation stub.
type FHEService struct {
	fhe     *fhe.Service
	hub     *hub.Hub
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewFHEService(service *fhe.Service, h *hub.Hub, m *metrics.Metrics, logger *zap.Logger) *FHEService {
	return &FHEService{
		fhe:     service,
		hub:     h,
		metrics: m,
		logger:  logger.Named("fhe-service"),
	}
}

type EncryptRequest struct {
	// Value may legitimately be a zero value (votes encrypt 0 and 1), so it
	// carries no required tag.
	Value    interface{} `json:"value"`
	DataType string      `json:"dataType" validate:"omitempty,oneof=integer decimal boolean"`
}

type EncryptResponse struct {
	EncryptedValue fhe.EncryptedValue `json:"encryptedValue"`
}

func (s *FHEService) Encrypt(args *EncryptRequest, reply *EncryptResponse) (err error) {
	defer func() { s.metrics.ObserveRPCCall("fhe.Encrypt", err) }()

	if err = validateRequest(args); err != nil {
		return err
	}

	dataType := fhe.DataType(args.DataType)
	if dataType == "" {
		dataType = fhe.TypeInteger
	}

	reply.EncryptedValue = s.fhe.Encrypt(args.Value, dataType)
	return nil
}

type ComputeRequest struct {
	Operation  string                 `json:"operation" validate:"required,oneof=add multiply compare max average vote"`
	Operands   []fhe.EncryptedValue   `json:"operands"`
	Parameters map[string]interface{} `json:"parameters"`
}

type ComputeResponse struct {
	ComputationResult fhe.ComputeResult `json:"computationResult"`
}

func (s *FHEService) Compute(args *ComputeRequest, reply *ComputeResponse) (err error) {
	defer func() { s.metrics.ObserveRPCCall("fhe.Compute", err) }()

	if err = validateRequest(args); err != nil {
		return err
	}

	result := s.fhe.Compute(fhe.ComputeRequest{
		Operation:  fhe.Operation(args.Operation),
		Operands:   args.Operands,
		Parameters: args.Parameters,
	})

	event := map[string]interface{}{
		"type":            "fhe_computation_complete",
		"operation":       result.Operation,
		"success":         result.Success,
		"gasUsed":         result.GasUsed,
		"computationTime": result.ComputationTime,
		"timestamp":       time.Now().UTC(),
	}
	delivered := s.hub.Broadcast(event)
	s.metrics.ObserveBroadcast("fhe_computation_complete", delivered)

	reply.ComputationResult = result
	return nil
}

type DemoScenariosResponse struct {
	Demos []fhe.DemoScenario `json:"demos"`
}

func (s *FHEService) GetDemoScenarios(args *struct{}, reply *DemoScenariosResponse) error {
	reply.Demos = s.fhe.DemoScenarios()
	s.metrics.ObserveRPCCall("fhe.GetDemoScenarios", nil)
	return nil
}

type OperationsResponse struct {
	Operations []fhe.OperationInfo `json:"operations"`
}

func (s *FHEService) GetOperations(args *struct{}, reply *OperationsResponse) error {
	reply.Operations = s.fhe.Operations()
	s.metrics.ObserveRPCCall("fhe.GetOperations", nil)
	return nil
}
