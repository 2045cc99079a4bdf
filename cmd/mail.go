package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/gearguard/internal/mailer"
	"github.com/frahmantamala/gearguard/pkg/logger"
	"github.com/spf13/cobra"
)

var mailCmd = &cobra.Command{
	Use:   "mail",
	Short: "Mail delivery utilities",
}

var mailTestCmd = &cobra.Command{
	Use:   "test <email>",
	Short: "Send a test email through the configured provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if !cfg.Mail.Enabled {
			return errors.New("mail delivery is disabled; set mail.enabled to true")
		}

		lg := logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
		client := mailer.NewClient(cfg.Mail, lg)
		defer client.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err = client.Send(ctx, mailer.Message{
			To:          []mailer.Recipient{{Email: args[0]}},
			Subject:     "GearGuard test email",
			HTMLContent: "<p>Mail delivery from GearGuard is working.</p>",
			TextContent: "Mail delivery from GearGuard is working.",
		})
		if err != nil {
			return fmt.Errorf("test email failed: %w", err)
		}

		fmt.Println("Test email sent to", args[0])
		return nil
	},
}

func init() {
	mailCmd.AddCommand(mailTestCmd)
}
