package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zostay/go-pgpmime/pgpmime"
)

var (
	openCmd = &cobra.Command{
		Use:   "open [message-file]",
		Short: "Decrypt a PGP/MIME message and print its body",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunOpen,
	}

	openSaveDir string
)

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().StringVar(&openSaveDir, "save-dir", "", "save attachments into this directory")
}

// saveAttachments writes each attachment into dir. Only the base name of the
// attachment filename is used. An attachment without a usable name is saved
// as attachment-N, numbered from 1 by position.
func saveAttachments(dir string, as []pgpmime.Attachment) error {
	for i, a := range as {
		name := filepath.Base(filepath.Clean("/" + a.Filename))
		if name == "/" || name == "." || name == ".." {
			name = fmt.Sprintf("attachment-%d", i+1)
		}

		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, a.Content, 0o600); err != nil {
			return err
		}

		log.WithField("path", path).Info("attachment saved")
	}
	return nil
}

// RunOpen implements the open command.
func RunOpen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	raw, err := readInput(cmd, argOrStdin(args))
	if err != nil {
		return err
	}

	eng, done, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = done() }()

	mc, errs, err := pgpmime.Open(ctx, eng, raw, cfg.ParseOptions()...)
	if err != nil {
		return err
	}
	warnAll(errs)

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, mc.Body); err != nil {
		return err
	}

	for _, a := range mc.Attachments {
		log.WithFields(logrus.Fields{
			"filename": a.Filename,
			"size":     len(a.Content),
		}).Info("attachment")
	}

	if openSaveDir != "" {
		return saveAttachments(openSaveDir, mc.Attachments)
	}

	return nil
}
