package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCollected = "collected"
)

// DateLayout is the wire format of calendar dates (orderDate, filters).
const DateLayout = "2006-01-02"

type Quantities struct {
	RegularClothesKg   decimal.Decimal `json:"regularClothesKg"`
	BlanketsKg         decimal.Decimal `json:"blanketsKg"`
	WhiteClothesPieces int64           `json:"whiteClothesPieces"`
}

// IsZero reports whether the order carries nothing to bill.
func (q Quantities) IsZero() bool {
	return q.RegularClothesKg.IsZero() && q.BlanketsKg.IsZero() && q.WhiteClothesPieces == 0
}

type Order struct {
	ID             int             `json:"ID"`
	ReceiptNumber  string          `json:"receiptNumber"`
	CustomerName   string          `json:"customerName"`
	MobileNumber   string          `json:"mobileNumber"`
	OrderDate      time.Time       `json:"orderDate"`
	Quantities                     // flattened into the order JSON
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	CreatedAt      time.Time       `json:"createdAt"`
	CollectionDate *time.Time      `json:"collectionDate"`
}

func (o Order) IsCollected() bool {
	return o.CollectionDate != nil
}

func (o Order) Status() string {
	if o.IsCollected() {
		return OrderStatusCollected
	}
	return OrderStatusPending
}

// CanGenerateInvoice is true only once the order has been collected.
func (o Order) CanGenerateInvoice() bool {
	return o.IsCollected()
}

// OrderInput is an order draft as submitted by a caller, before validation.
type OrderInput struct {
	ReceiptNumber string
	CustomerName  string
	MobileNumber  string
	OrderDate     time.Time
	Quantities
}

// OrderPatch is a partial update. Nil fields are left untouched.
// Receipt number and collection date are deliberately absent.
type OrderPatch struct {
	CustomerName       *string
	MobileNumber       *string
	OrderDate          *time.Time
	RegularClothesKg   *decimal.Decimal
	BlanketsKg         *decimal.Decimal
	WhiteClothesPieces *int64
}

func (p OrderPatch) HasQuantities() bool {
	return p.RegularClothesKg != nil || p.BlanketsKg != nil || p.WhiteClothesPieces != nil
}

func (p OrderPatch) IsEmpty() bool {
	return p.CustomerName == nil && p.MobileNumber == nil && p.OrderDate == nil && !p.HasQuantities()
}

// Apply copies the patched fields onto o. TotalAmount is not touched here.
func (p OrderPatch) Apply(o *Order) {
	if p.CustomerName != nil {
		o.CustomerName = strings.TrimSpace(*p.CustomerName)
	}
	if p.MobileNumber != nil {
		o.MobileNumber = strings.TrimSpace(*p.MobileNumber)
	}
	if p.OrderDate != nil {
		o.OrderDate = *p.OrderDate
	}
	if p.RegularClothesKg != nil {
		o.RegularClothesKg = *p.RegularClothesKg
	}
	if p.BlanketsKg != nil {
		o.BlanketsKg = *p.BlanketsKg
	}
	if p.WhiteClothesPieces != nil {
		o.WhiteClothesPieces = *p.WhiteClothesPieces
	}
}

type OrderFilter struct {
	// Search matches receipt number or customer name, case-insensitive.
	Search    string
	OrderDate *time.Time
	MinAmount *decimal.Decimal
	// Status is "", OrderStatusPending or OrderStatusCollected.
	Status string
}

func (f OrderFilter) Match(o Order) bool {
	if f.Search != "" && !containsFold(o.ReceiptNumber, f.Search) && !containsFold(o.CustomerName, f.Search) {
		return false
	}
	if f.OrderDate != nil && !sameDay(o.OrderDate, *f.OrderDate) {
		return false
	}
	if f.MinAmount != nil && o.TotalAmount.LessThan(*f.MinAmount) {
		return false
	}
	if f.Status != "" && o.Status() != f.Status {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sameDay(a, b time.Time) bool {
	return a.Format(DateLayout) == b.Format(DateLayout)
}

type CollectionResult struct {
	Order                 Order `json:"order"`
	NotificationAttempted bool  `json:"notificationAttempted"`
	NotificationSent      bool  `json:"notificationSent"`
}
