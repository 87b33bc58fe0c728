package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"tableflip.dev/caltrack/pkg/ledger"
)

// Watcher streams change notifications. Only the diskv backend has one.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Backend is the ledger chosen by configuration.
type Backend struct {
	Name    string
	Ledger  ledger.Service
	Watcher Watcher

	close func() error
}

// Close releases whatever the backend holds open.
func (b *Backend) Close() error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close()
}

// Open selects the backend named by cfg.Backend.
func Open(ctx context.Context, cfg *Config, log logrus.FieldLogger) (*Backend, error) {
	switch cfg.Backend {
	case "", BackendDiskv:
		p, err := Load(cfg)
		if err != nil {
			return nil, err
		}
		p.SetLogger(log)
		return &Backend{Name: BackendDiskv, Ledger: p, Watcher: p}, nil

	case BackendAppwrite:
		a, err := NewAppwrite(cfg.Appwrite)
		if err != nil {
			return nil, err
		}
		return &Backend{Name: BackendAppwrite, Ledger: a}, nil

	case BackendPostgres:
		p, err := OpenPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return &Backend{Name: BackendPostgres, Ledger: p, close: p.Close}, nil

	case BackendMemory:
		return &Backend{Name: BackendMemory, Ledger: ledger.NewMemory()}, nil
	}
	return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
}
