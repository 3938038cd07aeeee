package cron

import (
	"context"
	"sync"
	"time"

	"github.com/versestream/backend/pkg/xcontext"
)

type CronJob interface {
	Name() string
	Do(context.Context)
	RunNow() bool
	Next() time.Time
}

type CronJobManager struct {
	mutex   sync.Mutex
	stopped bool
	jobs    map[CronJob]*time.Timer
	done    chan struct{}
}

func NewCronJobManager() *CronJobManager {
	return &CronJobManager{
		jobs: make(map[CronJob]*time.Timer),
		done: make(chan struct{}),
	}
}

func (m *CronJobManager) Register(job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.jobs[job] = nil
}

// Start schedules every registered job and blocks until the context is done
// or Cancel is called.
func (m *CronJobManager) Start(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Cron job manager started with %d jobs", len(m.jobs))

	m.mutex.Lock()
	jobs := make([]CronJob, 0, len(m.jobs))
	for job := range m.jobs {
		jobs = append(jobs, job)
	}
	m.mutex.Unlock()

	for _, job := range jobs {
		if job.RunNow() {
			go m.run(ctx, job)
		} else {
			m.schedule(ctx, job)
		}
	}

	select {
	case <-ctx.Done():
		m.Cancel(ctx)
	case <-m.done:
	}

	xcontext.Logger(ctx).Infof("Cron job manager stopped")
}

func (m *CronJobManager) Cancel(ctx context.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.stopped {
		return
	}

	for _, timer := range m.jobs {
		if timer != nil {
			timer.Stop()
		}
	}

	m.stopped = true
	close(m.done)
}

func (m *CronJobManager) run(ctx context.Context, job CronJob) {
	start := time.Now()
	job.Do(ctx)
	xcontext.Logger(ctx).Debugf("Cron job %s finished in %s", job.Name(), time.Since(start))

	m.schedule(ctx, job)
}

func (m *CronJobManager) schedule(ctx context.Context, job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.stopped {
		return
	}

	m.jobs[job] = time.AfterFunc(time.Until(job.Next()), func() { m.run(ctx, job) })
}
