package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ServiceStatus tracks a unit of salon work from booking to completion.
// Only completed services earn commission.
type ServiceStatus string

const (
	ServiceStatusPending   ServiceStatus = "pending"
	ServiceStatusCompleted ServiceStatus = "completed"
	ServiceStatusCancelled ServiceStatus = "cancelled"
)

func (s ServiceStatus) String() string {
	return string(s)
}

func (s ServiceStatus) IsValid() bool {
	switch s {
	case ServiceStatusPending, ServiceStatusCompleted, ServiceStatusCancelled:
		return true
	}
	return false
}

func (s *ServiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed := ServiceStatus(str)
	if !parsed.IsValid() {
		return fmt.Errorf("invalid service status %q", str)
	}
	*s = parsed
	return nil
}

func (s ServiceStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *ServiceStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = ServiceStatus(v)
	case []byte:
		*s = ServiceStatus(string(v))
	case nil:
		*s = ServiceStatusPending
	}
	return nil
}
