package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

const testConfig = `
http_server:
  port: 9090
  allowed_origins: http://localhost:3000, http://example.com
  read_header_timeout: 5s
  read_timeout: 10s
database:
  source: postgres://localhost/gearguard
  max_open_conns: 5
  max_idle_conns: 2
  conn_max_lifetime: 30m
  conn_max_idle_time: 5m
redis:
  addr: localhost:6379
security:
  jwt_secret: 0123456789abcdef0123456789abcdef
  token_duration: 24h
  cookie_name: gearguard_token
  bcrypt_cost: 4
otp:
  ttl: 10m
  max_per_hour: 5
  resend_after: 1m
  max_attempts: 5
mail:
  sender_email: no-reply@gearguard.local
observability:
  logging:
    level: info
    format: text
`

var _ = Describe("loadConfig", func() {
	var dir string

	writeConfig := func(body string) {
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600)).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "gearguard-config")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
	})

	It("reads config.yml from the directory", func() {
		writeConfig(testConfig)

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Server.Origins()).To(Equal([]string{"http://localhost:3000", "http://example.com"}))
		Expect(cfg.Security.TokenDuration).To(Equal(24 * time.Hour))
		Expect(cfg.OTP.TTL).To(Equal(10 * time.Minute))
		Expect(cfg.Mail.Enabled).To(BeFalse())
	})

	It("lets ENV_ variables override file values", func() {
		writeConfig(testConfig)
		Expect(os.Setenv("ENV_DATABASE_SOURCE", "postgres://db.internal/gearguard")).To(Succeed())
		DeferCleanup(os.Unsetenv, "ENV_DATABASE_SOURCE")

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Database.Source).To(Equal("postgres://db.internal/gearguard"))
	})

	It("rejects a short jwt secret", func() {
		writeConfig(testConfig)
		Expect(os.Setenv("ENV_SECURITY_JWT_SECRET", "too-short")).To(Succeed())
		DeferCleanup(os.Unsetenv, "ENV_SECURITY_JWT_SECRET")

		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("JWTSecret")))
	})

	It("fails when config.yml is missing", func() {
		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("error reading config")))
	})
})
