// Package scheduler runs the background reminder loop: an hourly scan that
// emails due-task reminders exactly once per task, and a daily digest.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/harrisonrobin/donna/pkg/email"
	"github.com/harrisonrobin/donna/pkg/task"
)

// Config controls cadence and scope.
type Config struct {
	ReminderLookaheadHours int            // default 24
	DigestHour             int            // local hour for the daily digest, default 9
	Location               *time.Location // default UTC
}

func (c Config) withDefaults() Config {
	if c.ReminderLookaheadHours <= 0 {
		c.ReminderLookaheadHours = 24
	}
	if c.DigestHour <= 0 || c.DigestHour > 23 {
		c.DigestHour = 9
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}

// Digest is the daily summary handed to the sink. Delivery is external to
// this core.
type Digest struct {
	Overdue     []task.Task `json:"overdue"`
	DueSoon     []task.Task `json:"dueSoon"`
	Stats       task.Stats  `json:"stats"`
	GeneratedAt time.Time   `json:"generatedAt"`
}

// DigestSink receives the daily digest.
type DigestSink func(Digest)

// Reminders owns the two periodic triggers. Jobs are wrapped with
// SkipIfStillRunning so a slow tick is never overlapped by the next one.
type Reminders struct {
	cron   *cron.Cron
	store  *task.Store
	email  *email.Service
	sink   DigestSink
	config Config
	logger *slog.Logger
}

// New builds the scheduler. A nil sink logs the digest.
func New(store *task.Store, mail *email.Service, sink DigestSink, cfg Config, logger *slog.Logger) *Reminders {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "reminder-scheduler")
	cfg = cfg.withDefaults()

	r := &Reminders{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		store:  store,
		email:  mail,
		sink:   sink,
		config: cfg,
		logger: logger,
	}
	if r.sink == nil {
		r.sink = r.logDigest
	}
	return r
}

// Start registers the hourly reminder scan and the daily digest, then starts
// the cron loop.
func (r *Reminders) Start() error {
	if _, err := r.cron.AddFunc("@hourly", func() {
		if _, err := r.SendDueReminders(); err != nil {
			r.logger.Error("reminder scan failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("register reminder job: %w", err)
	}

	spec := fmt.Sprintf("0 %d * * *", r.config.DigestHour)
	if _, err := r.cron.AddFunc(spec, r.runDigest); err != nil {
		return fmt.Errorf("register digest job: %w", err)
	}

	r.cron.Start()
	r.logger.Info("scheduler started", "lookahead_hours", r.config.ReminderLookaheadHours, "digest_hour", r.config.DigestHour)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (r *Reminders) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("scheduler stopped")
}

// SendDueReminders scans for reminder candidates: non-terminal tasks due
// within the lookahead window whose reminder has not been sent and that have
// an assignee. Each reminder is sent before the task is marked, so a send
// failure leaves the task eligible for the next tick; per-task failures do
// not abort the batch. Returns how many reminders went out.
func (r *Reminders) SendDueReminders() (int, error) {
	upcoming := r.store.Upcoming(r.config.ReminderLookaheadHours)

	sent := 0
	for _, t := range upcoming {
		if t.ReminderSent || t.AssignedTo == "" {
			continue
		}

		_, err := r.email.SendTaskReminder(t.AssignedTo, email.ReminderDetails{
			Title:       t.Title,
			DueDate:     t.DueDate,
			Priority:    string(t.Priority),
			Description: t.Description,
		})
		if err != nil {
			r.logger.Error("reminder send failed", "task", t.ID, "to", t.AssignedTo, "error", err)
			continue
		}
		if err := r.store.MarkReminderSent(t.ID); err != nil {
			// Task vanished between the scan and the mark; the reminder is
			// already out, nothing to roll back.
			r.logger.Warn("could not mark reminder sent", "task", t.ID, "error", err)
			continue
		}
		r.logger.Info("reminder sent", "task", t.ID, "to", t.AssignedTo)
		sent++
	}

	r.logger.Info("reminder scan complete", "candidates", len(upcoming), "sent", sent)
	return sent, nil
}

// BuildDigest assembles the daily summary.
func (r *Reminders) BuildDigest() Digest {
	return Digest{
		Overdue:     r.store.Overdue(),
		DueSoon:     r.store.Upcoming(r.config.ReminderLookaheadHours),
		Stats:       r.store.Stats(),
		GeneratedAt: time.Now().In(r.config.Location),
	}
}

func (r *Reminders) runDigest() {
	d := r.BuildDigest()
	r.sink(d)
}

func (r *Reminders) logDigest(d Digest) {
	r.logger.Info("daily digest",
		"overdue", len(d.Overdue),
		"due_soon", len(d.DueSoon),
		"total", d.Stats.Total,
		"pending", d.Stats.Pending,
		"in_progress", d.Stats.InProgress,
		"completed", d.Stats.Completed,
	)
}
