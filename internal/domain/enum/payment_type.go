package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentType decides how a worker is paid
type PaymentType string

const (
	PaymentTypeMonthly    PaymentType = "monthly"
	PaymentTypeCommission PaymentType = "commission"
)

func (p PaymentType) String() string {
	return string(p)
}

func (p PaymentType) IsValid() bool {
	return p == PaymentTypeMonthly || p == PaymentTypeCommission
}

func (p *PaymentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed := PaymentType(str)
	if !parsed.IsValid() {
		return fmt.Errorf("invalid payment type %q", str)
	}
	*p = parsed
	return nil
}

func (p PaymentType) Value() (driver.Value, error) {
	return string(p), nil
}

func (p *PaymentType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*p = PaymentType(v)
	case []byte:
		*p = PaymentType(string(v))
	case nil:
		*p = PaymentTypeCommission
	}
	return nil
}
