package enum

import (
	"database/sql/driver"
)

// AlertType classifies inventory alerts
type AlertType string

const (
	AlertTypeLowStock AlertType = "low_stock"
	AlertTypeExpiring AlertType = "expiring"
)

func (a AlertType) String() string {
	return string(a)
}

func (a AlertType) Value() (driver.Value, error) {
	return string(a), nil
}

func (a *AlertType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*a = AlertType(v)
	case []byte:
		*a = AlertType(string(v))
	}
	return nil
}
