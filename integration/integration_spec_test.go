package integration

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var bins map[string]string

var _ = BeforeSuite(func() {
	if os.Getenv("INTEGRATION_SKIP") != "" {
		Skip("INTEGRATION_SKIP is set")
	}
	var err error
	bins, err = Build(GinkgoT().TempDir())
	Expect(err).NotTo(HaveOccurred())
})

var _ = Describe("Integration", func() {
	Describe("validator", func() {
		It("prints the order validity and exits 0", func() {
			res, err := Run(bins["validator"], nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.ExitCode).To(Equal(0))
			Expect(res.Stdout).To(Equal("Order is valid: true\n"))
			Expect(res.Stderr).To(BeEmpty())
		})

		It("prints the version", func() {
			res, err := Run(bins["validator"], nil, "-version")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Stdout).To(HavePrefix("validator "))
		})

		It("exits 1 on an invalid config", func() {
			res, err := Run(bins["validator"], []string{"HANDLERCHAIN_LOG_LEVEL=loud"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.ExitCode).To(Equal(1))
			Expect(res.Stdout).To(BeEmpty())
		})
	})

	Describe("responder", func() {
		It("prints the logger line then the response and exits 0", func() {
			res, err := Run(bins["responder"], nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.ExitCode).To(Equal(0))
			Expect(res.Stdout).To(Equal("Logging request: data\nResponse: Processed: data\n"))
		})

		It("keeps debug logs on stderr", func() {
			textfile := filepath.Join(GinkgoT().TempDir(), "responder.prom")
			res, err := Run(bins["responder"], []string{
				"HANDLERCHAIN_LOG_LEVEL=debug",
				"HANDLERCHAIN_LOG_FORMAT=json",
				"HANDLERCHAIN_METRICS_TEXTFILE=" + textfile,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Stdout).To(Equal("Logging request: data\nResponse: Processed: data\n"))
			Expect(res.Stderr).To(ContainSubstring(`"unit":"business_logic"`))
			Expect(textfile).To(BeAnExistingFile())
		})
	})
})
