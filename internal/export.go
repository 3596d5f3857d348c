package internal

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/DrGermanius/ExpressWash/internal/model"
)

const ordersSheet = "Orders"

var exportHeader = []string{
	"ID",
	"Receipt Number",
	"Customer Name",
	"Mobile Number",
	"Order Date",
	"Regular (kg)",
	"Blankets (kg)",
	"White (pieces)",
	"Total Amount",
	"Created At",
	"Collection Date",
}

func exportRow(o model.Order) []string {
	collected := ""
	if o.CollectionDate != nil {
		collected = o.CollectionDate.Format("2006-01-02 15:04:05")
	}
	return []string{
		strconv.Itoa(o.ID),
		o.ReceiptNumber,
		o.CustomerName,
		o.MobileNumber,
		o.OrderDate.Format(model.DateLayout),
		o.RegularClothesKg.String(),
		o.BlanketsKg.String(),
		strconv.FormatInt(o.WhiteClothesPieces, 10),
		o.TotalAmount.StringFixed(2),
		o.CreatedAt.Format("2006-01-02 15:04:05"),
		collected,
	}
}

func WriteOrdersCSV(w io.Writer, orders []model.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, o := range orders {
		if err := cw.Write(exportRow(o)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteOrdersXLSX(w io.Writer, orders []model.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return err
	}

	if err := setRow(f, 1, exportHeader); err != nil {
		return err
	}
	for i, o := range orders {
		if err := setRow(f, i+2, exportRow(o)); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(ordersSheet, cell, &cells)
}
