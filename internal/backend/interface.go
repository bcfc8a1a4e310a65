package backend

import (
	"context"
	"time"

	"finanzas/internal/ledger"
	"finanzas/internal/services"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult bundles the selected ledger with the service that writes
// through it.
type BackendResult struct {
	Backend ledger.Store
	Ledger  *services.LedgerService
	// Cleanup releases the store and the AMQP connection. Never nil.
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific. AMQP only applies to SQLite: the worker must read the
	// same ledger the server writes to.
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets specific
	GoogleSpreadsheetID     string
	GoogleTransactionsSheet string
	GoogleSavingsSheet      string
	GoogleSettingsSheet     string
	GoogleCacheTTL          time.Duration

	// Memory backend specific
	DataDirectory string
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
