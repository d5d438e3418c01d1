package bootstrap

import (
	"expo-ledger/internal/pkg/config"
	"expo-ledger/internal/pkg/keylock"

	"go.uber.org/fx"
)

var LockModule = fx.Module("lock",
	fx.Provide(
		NewLockManager,
	),
)

func NewLockManager(cfg config.Config) *keylock.Manager {
	return keylock.NewManager(cfg.Lock.AcquireTimeout)
}
