package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zostay/go-pgpmime/internal/config"

	// decode RFC 2047 words in any charset x/text knows
	_ "github.com/zostay/go-pgpmime/message/header/encoding"
)

var (
	rootCmd = &cobra.Command{
		Use:               "pgpmime",
		Short:             "Compose, open, and inspect PGP/MIME messages",
		PersistentPreRunE: setup,
		SilenceUsage:      true,
	}

	configPath string
	logLevel   string

	cfg *config.Config
	log = logrus.New()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "the configuration file to read (default $PGPMIME_CONFIG or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

// setup loads the configuration and configures logging before any command
// runs.
func setup(cmd *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	lvl, err := cfg.LogLevel()
	if err != nil {
		return err
	}

	log.SetLevel(lvl)
	log.SetOutput(cmd.ErrOrStderr())
	log.WithFields(logrus.Fields{
		"config": path,
		"engine": cfg.Engine.Kind,
	}).Debug("configuration loaded")

	return nil
}

// Execute runs the pgpmime command.
func Execute() error {
	return rootCmd.Execute()
}

// warnAll logs each of the errors as a warning.
func warnAll(errs []error) {
	for _, err := range errs {
		log.WithError(err).Warn("skipped attachment")
	}
}
