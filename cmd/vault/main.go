package main

import (
	"fmt"
	"os"

	"github.com/fahmaliyi/passvault/cli"
	"github.com/fahmaliyi/passvault/config"
	"github.com/fahmaliyi/passvault/logging"
	"github.com/fahmaliyi/passvault/vault"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	logFile, err := cli.OpenLogFile(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	log, err := logging.New(logFile, cfg.LogLevel)
	if err != nil {
		return err
	}

	s := vault.NewSession(vault.NewStore(), vault.Options{
		MaxAttempts:    cfg.MaxAttempts,
		Cooldown:       cfg.Cooldown,
		MasterPassword: cfg.MasterPassword,
		Logger:         log.With("component", "session"),
	})
	log.Info("session started", "plain", cfg.Plain, "max_attempts", cfg.MaxAttempts, "cooldown", cfg.Cooldown.String())
	defer log.Info("session ended", "records", s.RecordCount())

	if cfg.Plain {
		return cli.RunCommands(s, os.Stdin, os.Stdout, cli.ReadPassword)
	}
	return cli.RunTUI(s, cli.TUIOptions{ClipboardTimeout: cfg.ClipboardTimeout})
}
