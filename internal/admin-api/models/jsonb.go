package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// jsonbValue marshals v for storage in a jsonb column.
func jsonbValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// jsonbScan decodes a jsonb column into dst. NULL leaves dst untouched.
func jsonbScan(dst any, src any) error {
	if src == nil {
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// StringList is a jsonb-backed list of strings.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return jsonbValue([]string{})
	}
	return jsonbValue([]string(l))
}

func (l *StringList) Scan(src any) error { return jsonbScan(l, src) }

func (StringList) GormDataType() string { return "jsonb" }

// Chapter is a single ordered chapter of a book.
type Chapter struct {
	Heading   string `json:"heading"`
	Body      string `json:"body"`
	Alignment string `json:"alignment"`
}

type ChapterList []Chapter

func (l ChapterList) Value() (driver.Value, error) {
	if l == nil {
		return jsonbValue([]Chapter{})
	}
	return jsonbValue([]Chapter(l))
}

func (l *ChapterList) Scan(src any) error { return jsonbScan(l, src) }

func (ChapterList) GormDataType() string { return "jsonb" }

// Purchase records one purchased book on a user.
type Purchase struct {
	BookID        string    `json:"book_id"`
	PurchasedAt   time.Time `json:"purchased_at"`
	PricePaid     float64   `json:"price_paid"`
	PaymentMethod string    `json:"payment_method"`
}

type PurchaseList []Purchase

func (l PurchaseList) Value() (driver.Value, error) {
	if l == nil {
		return jsonbValue([]Purchase{})
	}
	return jsonbValue([]Purchase(l))
}

func (l *PurchaseList) Scan(src any) error { return jsonbScan(l, src) }

func (PurchaseList) GormDataType() string { return "jsonb" }

// OrderItem is a single line item on an order.
type OrderItem struct {
	BookID   string  `json:"book_id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Format   string  `json:"format"`
}

type OrderItemList []OrderItem

func (l OrderItemList) Value() (driver.Value, error) {
	if l == nil {
		return jsonbValue([]OrderItem{})
	}
	return jsonbValue([]OrderItem(l))
}

func (l *OrderItemList) Scan(src any) error { return jsonbScan(l, src) }

func (OrderItemList) GormDataType() string { return "jsonb" }
