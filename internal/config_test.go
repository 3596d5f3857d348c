package internal_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/DrGermanius/ExpressWash/internal"
)

var _ = Describe("LoadSettings", func() {
	var dir string
	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "expresswash")
		Expect(err).ShouldNot(HaveOccurred())
	})
	AfterEach(func() {
		os.RemoveAll(dir)
		os.Unsetenv("PRICING_BLANKETS")
		os.Unsetenv("SMS_API_KEY")
	})
	It("falls back to defaults", func() {
		s, err := internal.LoadSettings("")
		Expect(err).ShouldNot(HaveOccurred())

		Expect(s.BusinessName).Should(Equal("Express Wash"))
		Expect(s.Pricing.RegularClothes.Equal(dec("50"))).Should(BeTrue())
		Expect(s.Pricing.Blankets.Equal(dec("100"))).Should(BeTrue())
		Expect(s.Pricing.WhiteClothes.Equal(dec("40"))).Should(BeTrue())
		Expect(s.NotifyTimeout).Should(Equal(10 * time.Second))
		Expect(s.SMS.Enabled()).Should(BeFalse())
	})
	It("reads a settings file", func() {
		path := filepath.Join(dir, "settings.yaml")
		Expect(os.WriteFile(path, []byte(`
business:
  name: Clean Co
pricing:
  regular_clothes: "55.5"
store:
  timeout: 2s
sms:
  api_key: secret
`), 0o600)).Should(Succeed())

		s, err := internal.LoadSettings(path)
		Expect(err).ShouldNot(HaveOccurred())

		Expect(s.BusinessName).Should(Equal("Clean Co"))
		Expect(s.Pricing.RegularClothes.Equal(dec("55.5"))).Should(BeTrue())
		Expect(s.Pricing.Blankets.Equal(dec("100"))).Should(BeTrue())
		Expect(s.StoreTimeout).Should(Equal(2 * time.Second))
		Expect(s.SMS.Enabled()).Should(BeTrue())
	})
	It("lets the environment override rates", func() {
		os.Setenv("PRICING_BLANKETS", "120")

		s, err := internal.LoadSettings("")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(s.Pricing.Blankets.Equal(dec("120"))).Should(BeTrue())
	})
	It("rejects a non-positive rate", func() {
		os.Setenv("PRICING_BLANKETS", "0")

		_, err := internal.LoadSettings("")
		Expect(err).Should(MatchError(internal.ErrInvalidPricing))
	})
	It("rejects a rate that is not a number", func() {
		os.Setenv("PRICING_BLANKETS", "cheap")

		_, err := internal.LoadSettings("")
		Expect(err).Should(MatchError(internal.ErrInvalidPricing))
	})
	It("fails on a missing settings file", func() {
		_, err := internal.LoadSettings(filepath.Join(dir, "missing.yaml"))
		Expect(err).Should(HaveOccurred())
	})
})
