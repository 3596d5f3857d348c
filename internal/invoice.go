package internal

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DrGermanius/ExpressWash/internal/model"
)

// Invoice builds the invoice of a collected order. The bill is recomputed
// from the stored quantities so every line is itemised.
func (s Service) Invoice(ctx context.Context, receiptNumber string) (model.Invoice, error) {
	o, err := s.Repository.FindByReceiptNumber(ctx, strings.TrimSpace(receiptNumber))
	if err != nil {
		return model.Invoice{}, err
	}
	return BuildInvoice(o, s.settings.Pricing, s.settings.BusinessName)
}

func BuildInvoice(o model.Order, p model.PricingTable, business string) (model.Invoice, error) {
	if !o.CanGenerateInvoice() {
		return model.Invoice{}, ErrNotCollected
	}

	bill, err := BillFor(o.Quantities, p)
	if err != nil {
		return model.Invoice{}, err
	}

	return model.Invoice{
		BusinessName:   business,
		ReceiptNumber:  o.ReceiptNumber,
		CustomerName:   o.CustomerName,
		MobileNumber:   o.MobileNumber,
		OrderDate:      o.OrderDate,
		CollectionDate: *o.CollectionDate,
		Lines: []model.InvoiceLine{
			{Service: "Regular Clothes", Quantity: o.RegularClothesKg.String() + "kg", Rate: p.RegularClothes, Amount: bill.RegularCost},
			{Service: "Blankets/Bedsheets", Quantity: o.BlanketsKg.String() + "kg", Rate: p.Blankets, Amount: bill.BlanketsCost},
			{Service: "White Clothes", Quantity: strconv.FormatInt(o.WhiteClothesPieces, 10) + " pieces", Rate: p.WhiteClothes, Amount: bill.WhiteCost},
		},
		Bill:        bill,
		TotalAmount: o.TotalAmount,
	}, nil
}

var invoiceTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return "₹" + d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format(model.DateLayout) },
	"stamp": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Invoice - {{.ReceiptNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .invoice { border: 1px solid #ddd; padding: 20px; max-width: 600px; margin: 0 auto; }
        .header { text-align: center; margin-bottom: 20px; }
        .service-table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        .service-table th, .service-table td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        .service-table th { background-color: #f2f2f2; }
        .total { font-weight: bold; text-align: right; margin-top: 20px; }
        .footer { margin-top: 30px; text-align: center; font-size: 12px; color: #777; }
    </style>
</head>
<body>
<div class="invoice">
    <div class="header">
        <h1>{{.BusinessName}}</h1>
        <h2>Invoice</h2>
    </div>
    <div class="details">
        <p><strong>Receipt Number:</strong> {{.ReceiptNumber}}</p>
        <p><strong>Customer:</strong> {{.CustomerName}}</p>
        <p><strong>Mobile:</strong> {{.MobileNumber}}</p>
        <p><strong>Order Date:</strong> {{date .OrderDate}}</p>
        <p><strong>Collection Date:</strong> {{stamp .CollectionDate}}</p>
    </div>
    <h3>Service Details</h3>
    <table class="service-table">
        <tr><th>Service</th><th>Quantity</th><th>Rate</th><th>Amount</th></tr>
        {{- range .Lines}}
        <tr><td>{{.Service}}</td><td>{{.Quantity}}</td><td>{{money .Rate}}</td><td>{{money .Amount}}</td></tr>
        {{- end}}
    </table>
    <div class="total">
        <p>Total Amount: {{money .TotalAmount}}</p>
    </div>
    <div class="footer">
        <p>Thank you for choosing {{.BusinessName}}!</p>
    </div>
</div>
</body>
</html>
`))

func RenderInvoiceHTML(w io.Writer, inv model.Invoice) error {
	if err := invoiceTemplate.Execute(w, inv); err != nil {
		return fmt.Errorf("render invoice %s: %w", inv.ReceiptNumber, err)
	}
	return nil
}
