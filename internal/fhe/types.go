package fhe

type Operation string

const (
	OpAdd      Operation = "add"
	OpMultiply Operation = "multiply"
	OpCompare  Operation = "compare"
	OpMax      Operation = "max"
	OpAverage  Operation = "average"
	OpVote     Operation = "vote"
)

type DataType string

const (
	TypeInteger DataType = "integer"
	TypeDecimal DataType = "decimal"
	TypeBoolean DataType = "boolean"
)

// EncryptedValue is not real ciphertext: the data is an opaque hash-based
// placeholder so downstream computation has something to derive from.
// NoiseLevel models the FHE noise budget; once it reaches the compute
// threshold the value is flagged as exhausted.
type EncryptedValue struct {
	EncryptedData string   `json:"encryptedData"`
	DataType      DataType `json:"dataType"`
	CanCompute    bool     `json:"canCompute"`
	NoiseLevel    int      `json:"noiseLevel"`
}

type ComputeRequest struct {
	Operation  Operation              `json:"operation"`
	Operands   []EncryptedValue       `json:"operands"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

type ComputeResult struct {
	Operation       Operation      `json:"operation"`
	Result          EncryptedValue `json:"result"`
	ComputationTime float64        `json:"computationTime"`
	GasUsed         int            `json:"gasUsed"`
	Success         bool           `json:"success"`
	ErrorMessage    string         `json:"errorMessage,omitempty"`
}

// OperationInfo describes one supported operation and its cost.
type OperationInfo struct {
	Name        Operation `json:"name"`
	Description string    `json:"description"`
	GasCost     int       `json:"gasCost"`
}

// DemoValue is one labeled input of a demo scenario.
type DemoValue struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// DemoScenario is a pre-built illustrative computation.
type DemoScenario struct {
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Operation      Operation   `json:"operation"`
	DemoData       []DemoValue `json:"demoData"`
	ExpectedResult string      `json:"expectedResult"`
}
