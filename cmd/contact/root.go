package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"portfolio-contact/config"
	"portfolio-contact/internal/contactform"
	"portfolio-contact/internal/domain"
	"portfolio-contact/internal/submission"
	"portfolio-contact/pkg/logger"

	"github.com/spf13/cobra"
)

// errNotSent makes the process exit 1 after a destructive notification
// that was already printed.
var errNotSent = errors.New("message not sent")

type cliState struct {
	cfg *config.ClientConfig
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	rootCmd := &cobra.Command{
		Use:           "contact",
		Short:         "Send portfolio contact messages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClientConfig()
			if err != nil {
				return err
			}
			logger.InitTo(cmd.ErrOrStderr(), cfg.LogLevel)
			state.cfg = cfg
			return nil
		},
	}

	rootCmd.AddCommand(newSendCmd(state))
	return rootCmd
}

func newSendCmd(state *cliState) *cobra.Command {
	var name, email, message string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Submit one contact message",
		Long: `Submit one contact message to the backend configured by BACKEND_URL.

All three fields are required. Pass --message - to read the message from stdin.
The command prints the resulting notification and exits 1 unless the message
was sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read message from stdin: %w", err)
				}
				message = strings.TrimRight(string(b), "\r\n")
			}
			return runSend(cmd.Context(), state.cfg, cmd.OutOrStdout(), map[string]string{
				"name":    name,
				"email":   email,
				"message": message,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "sender name")
	cmd.Flags().StringVar(&email, "email", "", "sender email")
	cmd.Flags().StringVar(&message, "message", "", `message text, "-" reads stdin`)
	return cmd
}

func runSend(ctx context.Context, cfg *config.ClientConfig, out io.Writer, fields map[string]string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := submission.New(cfg.BackendURL)
	if err != nil {
		return err
	}

	form := contactform.NewManager(client, &contactform.WriterNotifier{W: out},
		contactform.WithTimeout(cfg.SubmitTimeout))
	for field, value := range fields {
		if err := form.UpdateFieldByName(field, value); err != nil {
			return err
		}
	}

	ev, err := form.Submit(ctx)
	if err != nil {
		return err
	}
	if ev.Severity == domain.SeverityDestructive {
		return errNotSent
	}
	return nil
}
