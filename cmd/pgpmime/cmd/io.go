package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// readInput reads the named file, or standard input if the name is empty or
// "-". Messages using bare LF line breaks are converted to CRLF.
func readInput(cmd *cobra.Command, name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "" || name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", err
	}

	return toCRLF(string(data)), nil
}

// toCRLF converts bare LF line breaks to CRLF, unless the text already uses
// CRLF.
func toCRLF(s string) string {
	if strings.Contains(s, "\r\n") || !strings.Contains(s, "\n") {
		return s
	}

	log.Debug("converting LF line breaks to CRLF")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

// argOrStdin returns the first argument or "-".
func argOrStdin(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}
