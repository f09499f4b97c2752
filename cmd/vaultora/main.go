package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vaultora-client/pkg/api"
	"github.com/vaultora-client/pkg/config"
	"github.com/vaultora-client/pkg/prices"
	"github.com/vaultora-client/pkg/session"
	"github.com/vaultora-client/pkg/tui"
)

func main() {
	adminMode := flag.Bool("admin", false, "open the admin panel")
	refCode := flag.String("ref", "", "referral code to credit on signup")
	flag.Parse()

	// `vaultora plans` prints the catalog without starting the TUI.
	if flag.Arg(0) == "plans" {
		runPlansCommand(flag.Args()[1:])
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config load failed:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "bad configuration:", err)
		os.Exit(1)
	}

	// The TUI owns the terminal; logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot open log file:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	level, lerr := zerolog.ParseLevel(cfg.LogLevel)
	if lerr != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(logFile).Level(level).With().Timestamp().Logger()
	log.Info().Str("api", cfg.APIBaseURL).Msg("💰 Vaultora client starting")

	store, err := session.NewStore(cfg.SessionDBPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "session store init failed:", err)
		os.Exit(1)
	}
	defer store.Close()

	if code := firstNonEmpty(*refCode, cfg.ReferralCode); code != "" {
		if err := store.SetReferrer(code); err != nil {
			log.Warn().Err(err).Msg("cache referral code")
		}
	}

	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout, store)
	feed := prices.New(cfg.PriceFeedURL, cfg.RequestTimeout)

	app := tui.NewApp(cfg, store, client, feed, *adminMode)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		log.Error().Err(err).Msg("ui error")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	log.Info().Msg("goodbye 👋")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
