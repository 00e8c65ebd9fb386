package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/juju/errors"
)

// Task is one run of a periodic job.
type Task func(ctx context.Context) error

// JobScheduler runs periodic maintenance jobs in-process.
type JobScheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(logger *slog.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.Annotate(err, "create scheduler")
	}
	return &JobScheduler{
		scheduler: scheduler,
		logger:    logger,
		jobs:      make(map[string]gocron.Job),
	}, nil
}

// AddJob schedules task every interval. A non-positive interval disables the
// job. Overlapping runs are skipped and rescheduled.
func (js *JobScheduler) AddJob(name string, interval time.Duration, task Task) error {
	if interval <= 0 {
		js.logger.Info("background job disabled", "job", name)
		return nil
	}

	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(js.run, name, task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return errors.Annotatef(err, "schedule %s", name)
	}

	js.jobs[name] = job
	js.logger.Info("background job registered", "job", name, "interval", interval.String())
	return nil
}

func (js *JobScheduler) run(name string, task Task) {
	start := time.Now()
	if err := task(context.Background()); err != nil {
		js.logger.Error("background job failed", "job", name, "error", err)
		return
	}
	js.logger.Debug("background job finished", "job", name, "took", time.Since(start).String())
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return errors.NotFoundf("job %q", name)
	}
	return job.RunNow()
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler", "jobs", len(js.jobs))
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	jobs := make([]map[string]interface{}, 0, len(js.jobs))
	for name, job := range js.jobs {
		entry := map[string]interface{}{"name": name}
		if next, err := job.NextRun(); err == nil {
			entry["next_run"] = next
		}
		if last, err := job.LastRun(); err == nil && !last.IsZero() {
			entry["last_run"] = last
		}
		jobs = append(jobs, entry)
	}

	return map[string]interface{}{
		"total_jobs": len(js.jobs),
		"jobs":       jobs,
	}
}
