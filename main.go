package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/harrisonrobin/donna/pkg/assistant"
	"github.com/harrisonrobin/donna/pkg/auth"
	"github.com/harrisonrobin/donna/pkg/calendar"
	"github.com/harrisonrobin/donna/pkg/config"
	"github.com/harrisonrobin/donna/pkg/email"
	"github.com/harrisonrobin/donna/pkg/llm"
	"github.com/harrisonrobin/donna/pkg/scheduler"
	"github.com/harrisonrobin/donna/pkg/task"
)

func main() {
	doAuth := flag.Bool("auth", false, "Authenticate with Google Calendar")
	setCalendar := flag.String("set-calendar", "", "Set the default Google Calendar ID")
	user := flag.String("user", "", "Email of the user issuing the command (overrides config)")
	daemon := flag.Bool("daemon", false, "Run the reminder scheduler in the foreground")
	slots := flag.Int("slots", 0, "Find free slots of this many minutes instead of running a command")
	day := flag.String("day", "", "Day for -slots in YYYY-MM-DD form (default today)")
	flag.Parse()

	if *setCalendar != "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		cfg.CalendarID = *setCalendar
		if err := config.Save(cfg); err != nil {
			log.Fatalf("Error saving config: %v", err)
		}
		fmt.Printf("Default calendar set to: %s\n", *setCalendar)
		return
	}

	ctx := context.Background()

	if *doAuth {
		xdgConfigBase, err := auth.GetXdgHome()
		if err != nil {
			log.Fatalf("could not find path to configuration file: error %v", err)
		}

		tokenFile := filepath.Join(xdgConfigBase, auth.TokenFile)
		if _, err := os.Stat(tokenFile); err == nil {
			log.Printf("Removing existing token file at '%s'\n", tokenFile)
			if err := os.Remove(tokenFile); err != nil {
				log.Fatalf("could not delete token file '%s', error %v. Please delete it manually", tokenFile, err)
			}
		}

		if _, err := auth.GetCalendarService(ctx); err != nil {
			log.Fatalf("Authentication failed: %v", err)
		}
		log.Printf("Authentication successful! Token saved to %s", auth.TokenFile)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	userEmail := cfg.UserEmail
	if *user != "" {
		userEmail = *user
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	srv, err := auth.GetCalendarService(ctx)
	if err != nil {
		log.Fatalf("Error creating Google Calendar client: %v (run with -auth first)", err)
	}
	cal := calendar.NewGoogleClient(srv, cfg.CalendarID, logger)

	if *slots > 0 {
		runSlots(ctx, cal, cfg, *slots, *day)
		return
	}

	gateway, err := llm.NewOllamaGateway(cfg.Ollama.Host, cfg.Ollama.Model, logger)
	if err != nil {
		log.Fatalf("Error creating Ollama client: %v", err)
	}
	sender := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, logger)
	mail := email.NewService(sender, logger)
	store := task.NewStore(logger)

	if *daemon {
		runDaemon(store, mail, cfg, logger)
		return
	}

	command := strings.Join(flag.Args(), " ")
	if command == "" {
		log.Fatal("No command given. Usage: donna [flags] <natural language command>")
	}

	a := assistant.New(gateway, store, cal, mail, logger)
	result := a.ProcessCommand(ctx, command, userEmail)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("Error encoding result: %v", err)
	}
	if !result.Success {
		os.Exit(1)
	}
}

// runSlots prints the free working-hours slots for the requested day.
func runSlots(ctx context.Context, cal calendar.Client, cfg *config.Config, minutes int, day string) {
	loc := cfg.Location()
	date := time.Now().In(loc)
	if day != "" {
		parsed, err := time.ParseInLocation("2006-01-02", day, loc)
		if err != nil {
			log.Fatalf("Invalid -day %q, want YYYY-MM-DD: %v", day, err)
		}
		date = parsed
	}

	avail := calendar.NewAvailability(cal, loc)
	free, err := avail.FindSlots(ctx, date, time.Duration(minutes)*time.Minute)
	if err != nil {
		log.Fatalf("Error finding slots: %v", err)
	}

	if len(free) == 0 {
		fmt.Printf("No free %d-minute slots on %s.\n", minutes, date.Format("2006-01-02"))
		return
	}
	fmt.Printf("Free slots on %s:\n", date.Format("2006-01-02"))
	for _, s := range free {
		fmt.Printf("  %s - %s (%s)\n", s.Start.Format("15:04"), s.End.Format("15:04"), s.Duration())
	}
}

// runDaemon starts the reminder scheduler and blocks until interrupted.
func runDaemon(store *task.Store, mail *email.Service, cfg *config.Config, logger *slog.Logger) {
	var sink scheduler.DigestSink
	if cfg.Scheduler.DigestRecipient != "" {
		sink = scheduler.EmailDigestSink(mail, cfg.Scheduler.DigestRecipient, logger)
	}

	r := scheduler.New(store, mail, sink, scheduler.Config{
		ReminderLookaheadHours: cfg.Scheduler.ReminderLookaheadHours,
		DigestHour:             cfg.Scheduler.DigestHour,
		Location:               cfg.Location(),
	}, logger)
	if err := r.Start(); err != nil {
		log.Fatalf("Error starting scheduler: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	r.Stop()
}
