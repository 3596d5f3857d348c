package internal_test

import (
	"math/rand"

	"github.com/shopspring/decimal"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/DrGermanius/ExpressWash/internal"
	"github.com/DrGermanius/ExpressWash/internal/model"
)

var _ = Describe("Billing", func() {
	Context("ComputeBill", func() {
		It("prices every service line", func() {
			b, err := internal.ComputeBill(dec("2.5"), decimal.Zero, 3, pricing())
			Expect(err).ShouldNot(HaveOccurred())

			Expect(b.RegularCost.Equal(dec("125"))).Should(BeTrue())
			Expect(b.BlanketsCost.IsZero()).Should(BeTrue())
			Expect(b.WhiteCost.Equal(dec("120"))).Should(BeTrue())
			Expect(b.Total.Equal(dec("245"))).Should(BeTrue())
		})
		It("keeps fractional kilograms exact", func() {
			b, err := internal.ComputeBill(dec("0.1"), dec("0.2"), 0, pricing())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(b.Total.Equal(dec("25"))).Should(BeTrue())
		})
		It("returns zero for an empty order", func() {
			b, err := internal.ComputeBill(decimal.Zero, decimal.Zero, 0, pricing())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(b.Total.IsZero()).Should(BeTrue())
		})
		It("rejects negative kilograms", func() {
			_, err := internal.ComputeBill(dec("-1"), decimal.Zero, 0, pricing())
			Expect(err).Should(MatchError(internal.ErrInvalidQuantity))

			_, err = internal.ComputeBill(decimal.Zero, dec("-0.5"), 0, pricing())
			Expect(err).Should(MatchError(internal.ErrInvalidQuantity))
		})
		It("rejects negative pieces", func() {
			_, err := internal.ComputeBill(decimal.Zero, decimal.Zero, -2, pricing())
			Expect(err).Should(MatchError(internal.ErrInvalidQuantity))
		})
		It("total is always the sum of the lines", func() {
			r := rand.New(rand.NewSource(42))
			p := pricing()
			for i := 0; i < 200; i++ {
				regular := decimal.New(r.Int63n(10000), -2)
				blankets := decimal.New(r.Int63n(10000), -1)
				white := r.Int63n(50)

				b, err := internal.ComputeBill(regular, blankets, white, p)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(b.Total.Equal(b.RegularCost.Add(b.BlanketsCost).Add(b.WhiteCost))).Should(BeTrue())
				Expect(b.RegularCost.Equal(regular.Mul(p.RegularClothes))).Should(BeTrue())
				Expect(b.Total.IsNegative()).Should(BeFalse())
			}
		})
	})
	Context("BillFor", func() {
		It("uses the order quantities", func() {
			b, err := internal.BillFor(model.Quantities{
				RegularClothesKg:   dec("3.0"),
				BlanketsKg:         dec("1.0"),
				WhiteClothesPieces: 2,
			}, pricing())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(b.Total.Equal(dec("330"))).Should(BeTrue())
		})
	})
	Context("ValidatePricing", func() {
		It("accepts positive rates", func() {
			Expect(internal.ValidatePricing(pricing())).Should(Succeed())
		})
		It("rejects a zero rate", func() {
			p := pricing()
			p.Blankets = decimal.Zero
			Expect(internal.ValidatePricing(p)).Should(MatchError(internal.ErrInvalidPricing))
		})
		It("rejects a negative rate", func() {
			p := pricing()
			p.WhiteClothes = dec("-40")
			Expect(internal.ValidatePricing(p)).Should(MatchError(internal.ErrInvalidPricing))
		})
	})
})
