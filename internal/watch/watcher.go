package watch

import (
	"context"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"teamjob-backend/config"
	"teamjob-backend/internal/notification"
	"teamjob-backend/internal/schedule"
	"teamjob-backend/internal/store"
)

// Service periodically sweeps room occupancy and dispatches push
// notifications for rooms that transitioned from busy to free.
type Service struct {
	cfg        *config.Config
	store      store.Store
	workerPool *notification.WorkerPool
	location   *time.Location

	// Rooms seen busy on the previous sweep; only a busy-to-free
	// transition triggers a notification.
	busy map[int64]bool
}

// NewService creates and initializes a new watcher service.
func NewService(cfg *config.Config, s store.Store) *Service {
	location := time.Local
	if cfg.Watcher.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Watcher.Timezone)
		if err != nil {
			log.Printf("Warning: invalid watcher timezone %q: %v. Using local time.", cfg.Watcher.Timezone, err)
		} else {
			location = loc
		}
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, s.DB(), &webpushOptions)

	return &Service{
		cfg:        cfg,
		store:      s,
		workerPool: workerPool,
		location:   location,
		busy:       make(map[int64]bool),
	}
}

// Run starts the sweep loop and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	s.workerPool.Start(ctx)

	ticker := time.NewTicker(s.cfg.Watcher.Interval)
	defer ticker.Stop()

	log.Printf("Room watcher started, sweeping every %v", s.cfg.Watcher.Interval)
	s.SweepOnce(ctx)
	for {
		select {
		case <-ticker.C:
			s.SweepOnce(ctx)
		case <-ctx.Done():
			log.Println("Room watcher shutting down")
			return
		}
	}
}

// SweepOnce computes the set of rooms occupied right now and dispatches a
// notification job for every room that was busy on the last sweep and is
// free on this one.
func (s *Service) SweepOnce(ctx context.Context) {
	now := time.Now().In(s.location)

	busyNow, err := s.busyRooms(ctx, now)
	if err != nil {
		log.Printf("Error sweeping room occupancy: %v", err)
		return
	}

	for roomID := range s.busy {
		if !busyNow[roomID] {
			log.Printf("Room %d turned free, dispatching notifications", roomID)
			s.workerPool.Dispatch(roomID)
		}
	}
	s.busy = busyNow
}

// busyRooms projects today's events and returns the ids of rooms with an
// occurrence covering the given instant. Recurring events are resolved
// through the schedule engine so exceptions and rule bounds apply.
func (s *Service) busyRooms(ctx context.Context, now time.Time) (map[int64]bool, error) {
	day := schedule.DateOf(now)
	events, err := s.store.EventsOverlapping(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	projected, err := schedule.ProjectDay(events, day, schedule.Filters{})
	if err != nil {
		return nil, err
	}

	hour := float64(now.Hour()) + float64(now.Minute())/60.0
	busy := make(map[int64]bool)
	for _, ev := range projected {
		if ev.Room == nil {
			continue
		}
		if ev.StartHour <= hour && hour < ev.EndHour {
			busy[ev.Room.ID] = true
		}
	}
	return busy, nil
}
