package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/DrGermanius/ExpressWash/internal/model"
)

type Handlers struct {
	Service IService
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewHandlers(Service IService, logger *zap.SugaredLogger) *Handlers {
	return &Handlers{Service: Service, logger: logger, now: time.Now}
}

// RegisterRoutes mounts the API. Static order paths go before /orders/:id.
func RegisterRoutes(app *fiber.App, h *Handlers) {
	api := app.Group("/api")

	api.Get("/pricing", h.GetPricing)

	api.Get("/receipts/next", h.NextReceiptNumber)
	api.Get("/receipts/:receipt", h.GetOrderByReceipt)
	api.Post("/receipts/:receipt/collect", h.MarkCollected)
	api.Get("/receipts/:receipt/invoice", h.GetInvoice)

	api.Post("/orders", h.CreateOrder)
	api.Get("/orders", h.ListOrders)
	api.Get("/orders/export.csv", h.ExportCSV)
	api.Get("/orders/export.xlsx", h.ExportXLSX)
	api.Get("/orders/:id", h.GetOrder)
	api.Patch("/orders/:id", h.UpdateOrder)
	api.Delete("/orders/:id", h.DeleteOrder)

	api.Get("/reports/summary", h.GetSummary)
}

type OrderRequest struct {
	ReceiptNumber      string          `json:"receiptNumber"`
	CustomerName       string          `json:"customerName"`
	MobileNumber       string          `json:"mobileNumber"`
	OrderDate          string          `json:"orderDate"`
	RegularClothesKg   decimal.Decimal `json:"regularClothesKg"`
	BlanketsKg         decimal.Decimal `json:"blanketsKg"`
	WhiteClothesPieces int64           `json:"whiteClothesPieces"`
}

type OrderPatchRequest struct {
	CustomerName       *string          `json:"customerName"`
	MobileNumber       *string          `json:"mobileNumber"`
	OrderDate          *string          `json:"orderDate"`
	RegularClothesKg   *decimal.Decimal `json:"regularClothesKg"`
	BlanketsKg         *decimal.Decimal `json:"blanketsKg"`
	WhiteClothesPieces *int64           `json:"whiteClothesPieces"`

	// Present only to be rejected.
	ReceiptNumber  json.RawMessage `json:"receiptNumber"`
	TotalAmount    json.RawMessage `json:"totalAmount"`
	CollectionDate json.RawMessage `json:"collectionDate"`
}

func (h *Handlers) GetPricing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.Service.Pricing())
}

func (h *Handlers) NextReceiptNumber(c *fiber.Ctx) error {
	day := h.now()
	if d := c.Query("date"); d != "" {
		t, err := time.Parse(model.DateLayout, d)
		if err != nil {
			return h.fail(c, fiber.StatusBadRequest, "Error on receipt number request", err)
		}
		day = t
	}

	receipt, err := h.Service.NextReceiptNumber(c.Context(), day)
	if err != nil {
		return h.failWith(c, "Error on receipt number request", err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"receiptNumber": receipt})
}

func (h *Handlers) CreateOrder(c *fiber.Ctx) error {
	var i OrderRequest

	if err := c.BodyParser(&i); err != nil {
		return h.fail(c, fiber.StatusBadRequest, "Error on create order request", err)
	}

	in := model.OrderInput{
		ReceiptNumber: i.ReceiptNumber,
		CustomerName:  i.CustomerName,
		MobileNumber:  i.MobileNumber,
		Quantities: model.Quantities{
			RegularClothesKg:   i.RegularClothesKg,
			BlanketsKg:         i.BlanketsKg,
			WhiteClothesPieces: i.WhiteClothesPieces,
		},
	}
	if i.OrderDate != "" {
		d, err := parseDate(i.OrderDate)
		if err != nil {
			return h.failWith(c, "Error on create order request", err)
		}
		in.OrderDate = d
	}

	o, err := h.Service.CreateOrder(c.Context(), in)
	if err != nil {
		return h.failWith(c, "Error on create order request", err)
	}

	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *Handlers) ListOrders(c *fiber.Ctx) error {
	f, err := orderFilter(c)
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, "Error on list orders request", err)
	}

	orders, err := h.Service.ListOrders(c.Context(), f)
	if err != nil {
		return h.failWith(c, "Error on list orders request", err)
	}

	return c.Status(fiber.StatusOK).JSON(orders)
}

func (h *Handlers) GetOrder(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, "Error on get order request", err)
	}

	o, err := h.Service.GetOrder(c.Context(), id)
	if err != nil {
		return h.failWith(c, "Error on get order request", err)
	}

	return c.Status(fiber.StatusOK).JSON(o)
}

func (h *Handlers) GetOrderByReceipt(c *fiber.Ctx) error {
	o, err := h.Service.GetOrderByReceipt(c.Context(), c.Params("receipt"))
	if err != nil {
		return h.failWith(c, "Error on get order request", err)
	}

	return c.Status(fiber.StatusOK).JSON(o)
}

func (h *Handlers) UpdateOrder(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, "Error on update order request", err)
	}

	var i OrderPatchRequest
	if err = c.BodyParser(&i); err != nil {
		return h.fail(c, fiber.StatusBadRequest, "Error on update order request", err)
	}

	patch, err := i.toPatch()
	if err != nil {
		return h.failWith(c, "Error on update order request", err)
	}

	o, err := h.Service.UpdateOrder(c.Context(), id, patch)
	if err != nil {
		return h.failWith(c, "Error on update order request", err)
	}

	return c.Status(fiber.StatusOK).JSON(o)
}

func (h *Handlers) DeleteOrder(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, "Error on delete order request", err)
	}

	if err = h.Service.DeleteOrder(c.Context(), id); err != nil {
		return h.failWith(c, "Error on delete order request", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) MarkCollected(c *fiber.Ctx) error {
	res, err := h.Service.MarkCollected(c.Context(), c.Params("receipt"))
	if err != nil {
		return h.failWith(c, "Error on collect order request", err)
	}

	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *Handlers) GetInvoice(c *fiber.Ctx) error {
	inv, err := h.Service.Invoice(c.Context(), c.Params("receipt"))
	if err != nil {
		return h.failWith(c, "Error on invoice request", err)
	}

	if c.Query("format") != "html" {
		return c.Status(fiber.StatusOK).JSON(inv)
	}

	var buf bytes.Buffer
	if err = RenderInvoiceHTML(&buf, inv); err != nil {
		return h.failWith(c, "Error on invoice request", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (h *Handlers) ExportCSV(c *fiber.Ctx) error {
	return h.export(c, "csv", "text/csv", WriteOrdersCSV)
}

func (h *Handlers) ExportXLSX(c *fiber.Ctx) error {
	return h.export(c, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", WriteOrdersXLSX)
}

func (h *Handlers) GetSummary(c *fiber.Ctx) error {
	sum, err := h.Service.Summary(c.Context())
	if err != nil {
		return h.failWith(c, "Error on summary request", err)
	}

	return c.Status(fiber.StatusOK).JSON(sum)
}

func (h *Handlers) export(c *fiber.Ctx, ext, contentType string, write func(io.Writer, []model.Order) error) error {
	f, err := orderFilter(c)
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, "Error on export request", err)
	}

	orders, err := h.Service.ListOrders(c.Context(), f)
	if err != nil {
		return h.failWith(c, "Error on export request", err)
	}

	var buf bytes.Buffer
	if err = write(&buf, orders); err != nil {
		return h.failWith(c, "Error on export request", err)
	}

	c.Attachment(fmt.Sprintf("express_wash_orders_%s.%s", h.now().Format("20060102"), ext))
	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (h *Handlers) fail(c *fiber.Ctx, status int, message string, err error) error {
	return c.Status(status).JSON(fiber.Map{"status": "error", "message": message, "data": err.Error()})
}

// failWith picks the status code from the error kind.
func (h *Handlers) failWith(c *fiber.Ctx, message string, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError || status == fiber.StatusServiceUnavailable {
		h.logger.Errorf("%s: %s", message, err.Error())
	}
	return h.fail(c, status, message, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrImmutableField):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrDuplicateReceiptNumber), errors.Is(err, ErrAlreadyCollected),
		errors.Is(err, ErrNotCollected), errors.Is(err, ErrOrderCollected):
		return fiber.StatusConflict
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func (i OrderPatchRequest) toPatch() (model.OrderPatch, error) {
	switch {
	case len(i.ReceiptNumber) > 0:
		return model.OrderPatch{}, fmt.Errorf("%w: receiptNumber", ErrImmutableField)
	case len(i.CollectionDate) > 0:
		return model.OrderPatch{}, fmt.Errorf("%w: collectionDate is set only by collecting the order", ErrImmutableField)
	case len(i.TotalAmount) > 0:
		return model.OrderPatch{}, fmt.Errorf("%w: totalAmount is computed from quantities", ErrImmutableField)
	}

	patch := model.OrderPatch{
		CustomerName:       i.CustomerName,
		MobileNumber:       i.MobileNumber,
		RegularClothesKg:   i.RegularClothesKg,
		BlanketsKg:         i.BlanketsKg,
		WhiteClothesPieces: i.WhiteClothesPieces,
	}
	if i.OrderDate != nil {
		d, err := parseDate(*i.OrderDate)
		if err != nil {
			return model.OrderPatch{}, err
		}
		patch.OrderDate = &d
	}
	return patch, nil
}

func orderFilter(c *fiber.Ctx) (model.OrderFilter, error) {
	f := model.OrderFilter{Search: strings.TrimSpace(c.Query("q"))}

	if d := c.Query("date"); d != "" {
		t, err := time.Parse(model.DateLayout, d)
		if err != nil {
			return f, err
		}
		f.OrderDate = &t
	}

	if a := c.Query("minAmount"); a != "" {
		amount, err := decimal.NewFromString(a)
		if err != nil {
			return f, err
		}
		f.MinAmount = &amount
	}

	switch s := c.Query("status"); s {
	case "", model.OrderStatusPending, model.OrderStatusCollected:
		f.Status = s
	default:
		return f, fmt.Errorf("unknown status %q", s)
	}

	return f, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: orderDate must be YYYY-MM-DD", ErrValidation)
	}
	return t, nil
}
