package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/zostay/go-pgpmime/pgpmime"
)

var (
	composeCmd = &cobra.Command{
		Use:   "compose [body-file]",
		Short: "Encrypt a message body and attachments into a PGP/MIME message",
		Long: `Reads the message body from the named file (or standard input) and writes
a multipart/encrypted message to standard output. Recipients given with --to
are looked up in the keyring; with --passphrase the message is encrypted with
the passphrase instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: RunCompose,
	}

	composeTo         []string
	composeFrom       string
	composeSubject    string
	composeDate       string
	composeSigner     string
	composePassphrase string
	composeAttach     []string
)

func init() {
	rootCmd.AddCommand(composeCmd)

	composeCmd.Flags().StringSliceVar(&composeTo, "to", nil, "recipient addresses (default from configuration)")
	composeCmd.Flags().StringVar(&composeFrom, "from", "", "the From address (default from configuration)")
	composeCmd.Flags().StringVar(&composeSubject, "subject", "", "the unencrypted Subject")
	composeCmd.Flags().StringVar(&composeDate, "date", "", "the message date in nearly any format (default now)")
	composeCmd.Flags().StringVar(&composeSigner, "signer", "", "the address of the signing key (default from configuration)")
	composeCmd.Flags().StringVar(&composePassphrase, "passphrase", "", "encrypt with this passphrase instead of public keys")
	composeCmd.Flags().StringArrayVar(&composeAttach, "attach", nil, "a file to attach; may be repeated")
}

// RunCompose implements the compose command.
func RunCompose(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	body, err := readInput(cmd, argOrStdin(args))
	if err != nil {
		return err
	}

	mc := pgpmime.MailContent{Body: body}
	for _, path := range composeAttach {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		mc.Attachments = append(mc.Attachments, pgpmime.Attachment{
			Filename: filepath.Base(path),
			Content:  data,
		})
	}

	to := composeTo
	if len(to) == 0 {
		to = cfg.Compose.Recipients
	}

	from := composeFrom
	if from == "" {
		from = cfg.Compose.From
	}

	req := pgpmime.EncryptRequest{Signer: composeSigner}
	if req.Signer == "" && composePassphrase == "" {
		req.Signer = cfg.Compose.Signer
	}
	if composePassphrase != "" {
		req.Passphrases = []string{composePassphrase}
	}

	opts := []pgpmime.ComposeOption{
		pgpmime.WithHeader("X-Mailer", "pgpmime"),
	}
	if from != "" {
		opts = append(opts, pgpmime.WithFrom(from))
	}
	if len(to) > 0 {
		opts = append(opts, pgpmime.WithTo(to...))
	}
	if composeSubject != "" {
		opts = append(opts, pgpmime.WithSubject(composeSubject))
	}
	date := time.Now()
	if composeDate != "" {
		date, err = dateparse.ParseAny(composeDate)
		if err != nil {
			return fmt.Errorf("unable to read --date: %w", err)
		}
	}
	opts = append(opts, pgpmime.WithDate(date))

	eng, done, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = done() }()

	raw, err := pgpmime.Compose(ctx, eng, mc, req, opts...)
	if err != nil {
		return err
	}

	log.WithField("attachments", len(mc.Attachments)).Info("message composed")

	_, err = fmt.Fprint(cmd.OutOrStdout(), raw)
	return err
}
