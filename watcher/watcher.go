package watcher

import (
	"bankdash-api/logger"
	"bankdash-api/repository"
	"bankdash-api/service"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func snapshotKey(accountID int) string {
	return fmt.Sprintf("watch:balance:%d", accountID)
}

// BalanceWatcher polls account balances on a fixed interval and records an
// admin notice when an observed balance differs from the last-seen snapshot.
// The poll is strictly read-only towards the ledger; the snapshot lives in
// Redis.
type BalanceWatcher struct {
	cron     *cron.Cron
	accounts repository.IAccountRepository
	cache    service.ICacheClient
	notices  service.INoticeRecorder
	interval int
}

func New(accounts repository.IAccountRepository, cache service.ICacheClient, notices service.INoticeRecorder, intervalSeconds int) *BalanceWatcher {
	if intervalSeconds <= 0 {
		intervalSeconds = 10
	}
	return &BalanceWatcher{
		accounts: accounts,
		cache:    cache,
		notices:  notices,
		interval: intervalSeconds,
	}
}

// Start schedules the poll. Call Stop on shutdown.
func (w *BalanceWatcher) Start() error {
	w.cron = cron.New()
	if _, err := w.cron.AddFunc(fmt.Sprintf("@every %ds", w.interval), w.poll); err != nil {
		return fmt.Errorf("failed to schedule balance poll: %w", err)
	}
	w.cron.Start()
	logger.Log.WithField("interval_seconds", w.interval).Info("Balance watcher started")
	return nil
}

// Stop cancels the schedule and waits for a running poll to finish.
func (w *BalanceWatcher) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
		logger.Log.Info("Balance watcher stopped")
	}
}

func (w *BalanceWatcher) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	accounts, err := w.accounts.GetAllAccounts()
	if err != nil {
		logger.Log.WithError(err).Warn("Balance poll failed to list accounts")
		return
	}

	for _, account := range accounts {
		key := snapshotKey(account.ID)
		observed := strconv.FormatFloat(account.Balance, 'f', 2, 64)

		last, err := w.cache.Get(ctx, key).Result()
		if err == redis.Nil {
			w.cache.Set(ctx, key, observed, 0)
			continue
		}
		if err != nil {
			logger.Log.WithError(err).WithField("account_id", account.ID).Warn("Balance poll failed to read snapshot")
			continue
		}

		if last != observed {
			w.cache.Set(ctx, key, observed, 0)
			w.notices.Record(fmt.Sprintf("Account %d balance changed from %s to %s", account.AccountNumber, last, observed))
			logger.Log.WithFields(logrus.Fields{
				"account_id": account.ID,
				"previous":   last,
				"observed":   observed,
			}).Info("Balance change observed")
		}
	}
}
