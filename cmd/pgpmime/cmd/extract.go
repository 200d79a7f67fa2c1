package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zostay/go-pgpmime/message"
	"github.com/zostay/go-pgpmime/pgpmime"
)

var (
	extractCmd = &cobra.Command{
		Use:   "extract [message-file]",
		Short: "Print the armored ciphertext of a PGP/MIME message",
		Long: `Checks that the message is a well formed RFC 3156 multipart/encrypted
message and prints the ASCII-armored payload without decrypting it. With
--plaintext, the message is instead read as an unencrypted message and its
body is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: RunExtract,
	}

	extractPlaintext bool
)

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractPlaintext, "plaintext", false, "read an unencrypted message and print its body")
}

// RunExtract implements the extract command.
func RunExtract(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, argOrStdin(args))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !extractPlaintext {
		payload, err := pgpmime.ExtractEncryptedPayload(raw, cfg.ParseOptions()...)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(out, payload)
		return err
	}

	msg, err := message.Parse(raw, cfg.ParseOptions()...)
	if err != nil {
		return err
	}

	mc, errs, err := pgpmime.ExtractMailContent(msg)
	if err != nil {
		return err
	}
	warnAll(errs)

	_, err = fmt.Fprintln(out, mc.Body)
	return err
}
