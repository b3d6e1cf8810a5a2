package cmd

import (
	"os"
	"path/filepath"

	"github.com/frahmantamala/leave-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const baseConfig = `
http_server:
  port: 8080
database:
  driver: sqlite
  source: ":memory:"
security:
  access_token_secret: test-access-secret-with-32-chars!!
  refresh_token_secret: test-refresh-secret-with-32-chars!
  access_token_duration: 15m
  refresh_token_duration: 168h
  bcrypt_cost: 4
`

var _ = Describe("loadConfig", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	writeConfig := func(leave string) {
		content := baseConfig + "leave:\n  timezone: UTC\n" + leave
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o600)).To(Succeed())
	}

	It("should default the annual LOP cap when the key is missing", func() {
		// Given
		writeConfig("")

		// When
		cfg, err := loadConfig(dir)

		// Then
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Leave.MaxLOPPerYear).To(Equal(internal.DefaultMaxLOPPerYear))
	})

	It("should keep an explicit zero cap", func() {
		writeConfig("  max_lop_per_year: 0\n")

		cfg, err := loadConfig(dir)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Leave.MaxLOPPerYear).To(BeZero())
	})

	It("should reject a negative cap", func() {
		writeConfig("  max_lop_per_year: -1\n")

		_, err := loadConfig(dir)

		Expect(err).To(MatchError(ContainSubstring("max_lop_per_year cannot be negative")))
	})
})
