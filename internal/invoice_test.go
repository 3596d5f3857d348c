package internal_test

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/DrGermanius/ExpressWash/internal"
	"github.com/DrGermanius/ExpressWash/internal/model"
)

var _ = Describe("Invoice", func() {
	var o model.Order
	BeforeEach(func() {
		o = newOrder("A-51", "Jane Doe", model.Quantities{RegularClothesKg: dec("2.5"), WhiteClothesPieces: 3})
	})
	It("is not built for a pending order", func() {
		_, err := internal.BuildInvoice(o, pricing(), "Express Wash")
		Expect(err).Should(MatchError(internal.ErrNotCollected))
	})
	It("itemises every service", func() {
		at := time.Date(2024, 1, 16, 18, 5, 0, 0, time.UTC)
		o.CollectionDate = &at

		inv, err := internal.BuildInvoice(o, pricing(), "Express Wash")
		Expect(err).ShouldNot(HaveOccurred())

		Expect(inv.Lines).Should(HaveLen(3))
		Expect(inv.Lines[0].Quantity).Should(Equal("2.5kg"))
		Expect(inv.Lines[0].Amount.Equal(dec("125"))).Should(BeTrue())
		Expect(inv.Lines[1].Amount.IsZero()).Should(BeTrue())
		Expect(inv.Lines[2].Quantity).Should(Equal("3 pieces"))
		Expect(inv.Lines[2].Amount.Equal(dec("120"))).Should(BeTrue())
		Expect(inv.TotalAmount.Equal(dec("245"))).Should(BeTrue())
		Expect(inv.CollectionDate).Should(Equal(at))
	})
	It("renders html", func() {
		at := time.Date(2024, 1, 16, 18, 5, 0, 0, time.UTC)
		o.CollectionDate = &at
		inv, err := internal.BuildInvoice(o, pricing(), "Express Wash")
		Expect(err).ShouldNot(HaveOccurred())

		var buf bytes.Buffer
		Expect(internal.RenderInvoiceHTML(&buf, inv)).Should(Succeed())

		page := buf.String()
		Expect(page).Should(ContainSubstring("Invoice - A-51"))
		Expect(page).Should(ContainSubstring("Jane Doe"))
		Expect(page).Should(ContainSubstring("2024-01-15"))
		Expect(page).Should(ContainSubstring("2024-01-16 18:05"))
		Expect(page).Should(ContainSubstring("Total Amount: ₹245.00"))
	})
	It("escapes customer input", func() {
		at := time.Now()
		o.CustomerName = "<script>alert(1)</script>"
		o.CollectionDate = &at
		inv, err := internal.BuildInvoice(o, pricing(), "Express Wash")
		Expect(err).ShouldNot(HaveOccurred())

		var buf bytes.Buffer
		Expect(internal.RenderInvoiceHTML(&buf, inv)).Should(Succeed())
		Expect(buf.String()).ShouldNot(ContainSubstring("<script>"))
	})
})
