package simulator

import (
	"time"

	"go.uber.org/zap"

	"github.com/octra-labs/wallet-simulator-go/pkg/signer"
)

// Timings are the simulated hardware delays. They stand in for the time a
// physical device spends on USB negotiation, PIN verification and on-device
// signing, and for how long the "signed" screen stays up.
type Timings struct {
	Connect      time.Duration
	PINVerify    time.Duration
	Signing      time.Duration
	SignedScreen time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		Connect:      500 * time.Millisecond,
		PINVerify:    300 * time.Millisecond,
		Signing:      1 * time.Second,
		SignedScreen: 2 * time.Second,
	}
}

// Scaled multiplies every delay by factor. Factor 0 disables delays entirely.
func (t Timings) Scaled(factor float64) Timings {
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) * factor)
	}
	return Timings{
		Connect:      scale(t.Connect),
		PINVerify:    scale(t.PINVerify),
		Signing:      scale(t.Signing),
		SignedScreen: scale(t.SignedScreen),
	}
}

type Option func(*DeviceSimulator)

func WithTimings(timings Timings) Option {
	return func(d *DeviceSimulator) {
		d.timings = timings
	}
}

func WithSigner(s signer.Signer) Option {
	return func(d *DeviceSimulator) {
		d.signer = s
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *DeviceSimulator) {
		d.logger = logger.Named("simulator")
	}
}

func WithLogCapacity(capacity int) Option {
	return func(d *DeviceSimulator) {
		d.logs = NewLogBuffer(capacity)
	}
}

func WithPIN(pin string) Option {
	return func(d *DeviceSimulator) {
		d.pin = pin
	}
}
