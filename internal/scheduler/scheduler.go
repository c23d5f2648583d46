package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"ZoneDCA/internal/notifier"
	"ZoneDCA/internal/services"
	"ZoneDCA/internal/snapshot"
)

// Scheduler manages all cron tasks and bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Service   *services.BacktestService
	Snapshots *snapshot.Store
	Notifier  notifier.Notifier
	Ctx       context.Context
	log       zerolog.Logger
	now       func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, svc *services.BacktestService, snaps *snapshot.Store, n notifier.Notifier, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Service:   svc,
		Snapshots: snaps,
		Notifier:  n,
		Ctx:       ctx,
		log:       log.With().Str("component", "scheduler").Logger(),
		now:       time.Now,
	}
}

// RegisterAll registers the daily backtest and the degree sweep.
func (s *Scheduler) RegisterAll(dailyCron, optimizeCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if optimizeCron != "" {
		if _, err := s.Cron.AddFunc(optimizeCron, s.optimizeTask); err != nil {
			return fmt.Errorf("register optimize task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("tasks", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunDailyNow executes the daily task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	s.log.Info().Msg("running daily backtest")
	if msg := s.backtest(s.Ctx, "", "scheduler"); msg != "" {
		s.trySend(msg)
	}
}

// backtest runs symbol, updates its snapshot and returns the message to send.
func (s *Scheduler) backtest(ctx context.Context, symbol, source string) string {
	out, err := s.Service.Run(ctx, symbol, source)
	if err != nil {
		s.log.Error().Err(err).Msg("daily backtest")
		return fmt.Sprintf("❌ Backtest failed: %v", err)
	}

	res := out.Result
	report := notifier.FormatBacktestReport(res, s.now())
	if s.Snapshots != nil {
		fresh := s.Snapshots.Update(res.Symbol, out.RunID, res)
		if alert := notifier.FormatNewTrades(res.Symbol, fresh); alert != "" {
			report = alert + "\n" + report
		}
	}
	return report
}

func (s *Scheduler) optimizeTask() {
	s.log.Info().Msg("running degree sweep")
	s.trySend(s.optimize(s.Ctx, ""))
}

func (s *Scheduler) optimize(ctx context.Context, symbol string) string {
	rep, err := s.Service.Optimize(ctx, symbol)
	if err != nil {
		s.log.Error().Err(err).Msg("degree sweep")
		return fmt.Sprintf("❌ Optimization failed: %v", err)
	}
	return notifier.FormatOptimization(rep)
}

// HandleCommand processes a user command and returns a reply.
// Commands take an optional symbol: "/backtest KO".
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	cmd := strings.ToLower(fields[0])
	// Group chats address the bot as /cmd@BotName.
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	var symbol string
	if len(fields) > 1 {
		symbol = fields[1]
	}

	switch cmd {
	case "/backtest", "/run":
		return s.backtest(ctx, symbol, "telegram")
	case "/position", "/pos":
		pos, err := s.Service.Position(ctx, symbol)
		if err != nil {
			return fmt.Sprintf("❌ Position failed: %v", err)
		}
		if symbol == "" {
			symbol = s.Service.Symbol()
		}
		return notifier.FormatPosition(strings.ToUpper(symbol), pos)
	case "/optimize":
		return s.optimize(ctx, symbol)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if text == "" || s.Notifier == nil {
		return
	}
	var err error
	if tn, ok := s.Notifier.(*notifier.TelegramNotifier); ok {
		err = tn.SendWithRetry(s.Ctx, text, 3)
	} else {
		err = s.Notifier.Send(text)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
