package state

import (
	"fmt"

	"github.com/Ender-ss/youtubesrapping/config"
)

// NewPersistenceGateway builds the persistence backend selected by the
// configuration.
func NewPersistenceGateway(cfg *config.Config) (PersistenceGateway, error) {
	switch cfg.StateBackend {
	case "local":
		return NewLocalStore(cfg.StoragePath)
	case "dapr":
		return NewDaprStore(cfg.DaprStateStore)
	default:
		return nil, fmt.Errorf("unknown state backend: %s", cfg.StateBackend)
	}
}
