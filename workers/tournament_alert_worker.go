package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"court-reservation-system/models"
	"court-reservation-system/queue"

	"github.com/go-co-op/gocron/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AlertLeadDays is how far ahead of a tournament's start the alert goes out.
const AlertLeadDays = 3

// alertKeyTTL outlives the sweep day so a restart cannot re-fire.
const alertKeyTTL = 48 * time.Hour

// TournamentAlertWorker runs a once-daily sweep for tournaments starting
// in exactly AlertLeadDays days and publishes a broadcast alert for each.
// A redis SETNX key per (tournament, date) keeps multiple instances from
// duplicate-firing; with no redis the sweep assumes a single instance.
type TournamentAlertWorker struct {
	DB       *gorm.DB
	Cache    *redis.Client
	Notifier queue.Notifier
	Now      func() time.Time

	sched gocron.Scheduler
}

func NewTournamentAlertWorker(db *gorm.DB, cache *redis.Client, notifier queue.Notifier) *TournamentAlertWorker {
	return &TournamentAlertWorker{DB: db, Cache: cache, Notifier: notifier, Now: time.Now}
}

// Start schedules the daily sweep and shuts the scheduler down when ctx
// is cancelled.
func (w *TournamentAlertWorker) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	w.sched = sched

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() { w.Sweep(ctx) }),
	)
	if err != nil {
		return err
	}

	sched.Start()
	go func() {
		<-ctx.Done()
		if err := sched.Shutdown(); err != nil {
			log.Printf("[AlertWorker] scheduler shutdown: %v", err)
		}
	}()
	return nil
}

// Sweep publishes an alert for every tournament starting in exactly
// AlertLeadDays days that has not been alerted yet today.
func (w *TournamentAlertWorker) Sweep(ctx context.Context) {
	today := w.Now().Format("2006-01-02")
	target := w.Now().AddDate(0, 0, AlertLeadDays).Format("2006-01-02")

	var tournaments []models.Tournament
	if err := w.DB.Where("start_date = ?", target).Find(&tournaments).Error; err != nil {
		log.Printf("[AlertWorker] DB error: %v", err)
		return
	}

	for _, t := range tournaments {
		if !w.claim(ctx, t.ID, today) {
			continue
		}
		w.Notifier.Notify(ctx, queue.Notification{
			Kind:      queue.KindTournamentAlert,
			Recipient: queue.RecipientBroadcast,
			Payload: queue.TournamentPayload{
				TournamentID: t.ID,
				Name:         t.Name,
				StartDate:    t.StartDate.Format("2006-01-02"),
				CourtID:      t.CourtID,
			},
		})
		log.Printf("[AlertWorker] alert published for tournament %s (%s)", t.Name, t.ID)
	}
}

// claim takes the per-tournament idempotency key for today's sweep.
func (w *TournamentAlertWorker) claim(ctx context.Context, tournamentID, day string) bool {
	if w.Cache == nil {
		return true
	}
	key := fmt.Sprintf("tournament_alert:%s:%s", tournamentID, day)
	ok, err := w.Cache.SetNX(ctx, key, 1, alertKeyTTL).Result()
	if err != nil {
		log.Printf("[AlertWorker] redis error for %s: %v (skipping alert)", key, err)
		return false
	}
	return ok
}
