package simulator

import (
	"github.com/pkg/errors"
)

var (
	ErrAlreadyConnected     = errors.New("device already connected")
	ErrNotConnected         = errors.New("device not connected")
	ErrNotUnlocked          = errors.New("device not unlocked")
	ErrDeviceLocked         = errors.New("device locked due to too many invalid PIN attempts")
	ErrTransactionPending   = errors.New("another transaction is already pending confirmation")
	ErrNoPendingTransaction = errors.New("no transaction pending confirmation")
	ErrNotReady             = errors.New("device must be connected and unlocked")
)
