package internal_test

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/xuri/excelize/v2"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/DrGermanius/ExpressWash/internal"
	"github.com/DrGermanius/ExpressWash/internal/model"
)

var _ = Describe("Export", func() {
	var orders []model.Order
	BeforeEach(func() {
		collected := newOrder("A-51", "Jane Doe", model.Quantities{RegularClothesKg: dec("2.5"), WhiteClothesPieces: 3})
		collected.ID = 2
		collected.CreatedAt = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
		at := time.Date(2024, 1, 16, 18, 5, 0, 0, time.UTC)
		collected.CollectionDate = &at

		pending := newOrder("A-50", "John, Roe", model.Quantities{BlanketsKg: dec("1")})
		pending.ID = 1
		pending.CreatedAt = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

		orders = []model.Order{collected, pending}
	})
	It("writes csv", func() {
		var buf bytes.Buffer
		Expect(internal.WriteOrdersCSV(&buf, orders)).Should(Succeed())

		records, err := csv.NewReader(&buf).ReadAll()
		Expect(err).ShouldNot(HaveOccurred())
		Expect(records).Should(HaveLen(3))
		Expect(records[0][0]).Should(Equal("ID"))
		Expect(records[0]).Should(HaveLen(11))

		Expect(records[1]).Should(Equal([]string{
			"2", "A-51", "Jane Doe", "9876543210", "2024-01-15", "2.5", "0", "3", "245.00",
			"2024-01-15 09:30:00", "2024-01-16 18:05:00",
		}))
		Expect(records[2][2]).Should(Equal("John, Roe"))
		Expect(records[2][10]).Should(BeEmpty())
	})
	It("writes xlsx", func() {
		var buf bytes.Buffer
		Expect(internal.WriteOrdersXLSX(&buf, orders)).Should(Succeed())

		f, err := excelize.OpenReader(&buf)
		Expect(err).ShouldNot(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Orders")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(rows).Should(HaveLen(3))
		Expect(rows[0][1]).Should(Equal("Receipt Number"))
		Expect(rows[1][1]).Should(Equal("A-51"))
		Expect(rows[1][8]).Should(Equal("245.00"))
	})
	It("writes only the header without orders", func() {
		var buf bytes.Buffer
		Expect(internal.WriteOrdersCSV(&buf, nil)).Should(Succeed())

		records, err := csv.NewReader(&buf).ReadAll()
		Expect(err).ShouldNot(HaveOccurred())
		Expect(records).Should(HaveLen(1))
	})
})
