package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tables that emit change events
const (
	TableInventoryItems        = "inventory_items"
	TableInventoryTransactions = "inventory_transactions"
	TableWorkers               = "workers"
	TableServices              = "services"
	TableCustomers             = "customers"
	TableAlerts                = "alerts"
)

// ChangeAction is the kind of row mutation
type ChangeAction string

const (
	ChangeInsert ChangeAction = "INSERT"
	ChangeUpdate ChangeAction = "UPDATE"
	ChangeDelete ChangeAction = "DELETE"
)

// ChangeEvent announces that a row changed. It carries no row data;
// subscribers re-fetch what they need.
type ChangeEvent struct {
	Table    string       `json:"table"`
	Action   ChangeAction `json:"action"`
	RecordID uuid.UUID    `json:"record_id"`
	At       time.Time    `json:"at"`
}

// ChangePublisher announces row changes to subscribers
type ChangePublisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

// ChangeHandler reacts to a change event
type ChangeHandler func(ctx context.Context, event ChangeEvent)

// ChangeSubscriber registers handlers keyed by table name.
// The returned func removes the handler.
type ChangeSubscriber interface {
	Subscribe(table string, handler ChangeHandler) (unsubscribe func())
}
