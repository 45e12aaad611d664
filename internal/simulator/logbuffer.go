package simulator

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogSuccess LogLevel = "success"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
)

// LogEntry is immutable once appended.
type LogEntry struct {
	ID         string                 `json:"id"`
	Timestamp  time.Time              `json:"timestamp"`
	Level      LogLevel               `json:"level"`
	Message    string                 `json:"message"`
	DeviceType DeviceType             `json:"deviceType,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// DefaultLogCapacity bounds the activity log. Oldest entries are dropped
// silently once the buffer is full.
const DefaultLogCapacity = 100

// LogBuffer is a fixed-capacity, append-only activity log. Safe for
// concurrent use.
type LogBuffer struct {
	mu       sync.Mutex
	capacity int
	entries  []LogEntry
}

func NewLogBuffer(capacity int) *LogBuffer {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &LogBuffer{
		capacity: capacity,
		entries:  make([]LogEntry, 0, capacity),
	}
}

func newLogEntry(level LogLevel, message string, deviceType DeviceType, context map[string]interface{}) LogEntry {
	return LogEntry{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Level:      level,
		Message:    message,
		DeviceType: deviceType,
		Context:    context,
	}
}

func (b *LogBuffer) Append(entry LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entry)
	if len(b.entries) > b.capacity {
		// Retain only the most recent entries.
		b.entries = append(b.entries[:0:0], b.entries[len(b.entries)-b.capacity:]...)
	}
}

// Recent returns the last limit entries in chronological order.
// A non-positive limit returns the full buffer.
func (b *LogBuffer) Recent(limit int) []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := 0
	if limit > 0 && limit < len(b.entries) {
		start = len(b.entries) - limit
	}

	out := make([]LogEntry, len(b.entries)-start)
	copy(out, b.entries[start:])
	return out
}

// Clear empties the buffer and records that it was cleared.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = b.entries[:0]
	b.entries = append(b.entries, newLogEntry(LogInfo, "Activity logs cleared", "", nil))
}

func (b *LogBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
