package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingTable holds unit rates: per kg for regular clothes and blankets,
// per piece for white clothes.
type PricingTable struct {
	RegularClothes decimal.Decimal `json:"regularClothes"`
	Blankets       decimal.Decimal `json:"blankets"`
	WhiteClothes   decimal.Decimal `json:"whiteClothes"`
}

type Bill struct {
	RegularCost  decimal.Decimal `json:"regularCost"`
	BlanketsCost decimal.Decimal `json:"blanketsCost"`
	WhiteCost    decimal.Decimal `json:"whiteCost"`
	Total        decimal.Decimal `json:"total"`
}

type InvoiceLine struct {
	Service  string          `json:"service"`
	Quantity string          `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

type Invoice struct {
	BusinessName   string          `json:"businessName"`
	ReceiptNumber  string          `json:"receiptNumber"`
	CustomerName   string          `json:"customerName"`
	MobileNumber   string          `json:"mobileNumber"`
	OrderDate      time.Time       `json:"orderDate"`
	CollectionDate time.Time       `json:"collectionDate"`
	Lines          []InvoiceLine   `json:"lines"`
	Bill           Bill            `json:"bill"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

type CustomerRevenue struct {
	CustomerName string          `json:"customerName"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Summary struct {
	TotalOrders       int               `json:"totalOrders"`
	TotalRevenue      decimal.Decimal   `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal   `json:"averageOrderValue"`
	UniqueCustomers   int               `json:"uniqueCustomers"`
	PendingOrders     int               `json:"pendingOrders"`
	CollectedOrders   int               `json:"collectedOrders"`
	RevenueByService  Bill              `json:"revenueByService"`
	TopCustomers      []CustomerRevenue `json:"topCustomers"`
	DailyRevenue      []DailyRevenue    `json:"dailyRevenue"`
	RecentOrders      []Order           `json:"recentOrders"`
}
