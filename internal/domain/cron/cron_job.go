package cron

import (
	"context"
	"sync"
	"time"

	"github.com/creatorx-lab/settlement/pkg/xcontext"
)

type CronJob interface {
	Do(context.Context)
	RunNow() bool
	Next() time.Time
}

// CronJobManager runs every registered job on its own timer until Cancel is
// called. A job is never run concurrently with itself. Start returns only after
// every job has seen the cancellation, including jobs that were running.
type CronJobManager struct {
	mutex     sync.Mutex
	wait      sync.WaitGroup
	jobs      map[CronJob]*time.Timer
	cancelled bool
}

func NewCronJobManager() *CronJobManager {
	return &CronJobManager{jobs: make(map[CronJob]*time.Timer)}
}

func (m *CronJobManager) Register(job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.jobs[job] = nil
}

// Start blocks until Cancel is called and no job is running.
func (m *CronJobManager) Start(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Cron job manager started")

	m.mutex.Lock()
	jobs := make([]CronJob, 0, len(m.jobs))
	for job := range m.jobs {
		jobs = append(jobs, job)
	}
	m.wait.Add(len(jobs))
	m.mutex.Unlock()

	for _, job := range jobs {
		if job.RunNow() {
			go m.run(ctx, job)
		} else {
			m.schedule(ctx, job)
		}
	}

	m.wait.Wait()
	xcontext.Logger(ctx).Infof("Cron job manager stopped")
}

func (m *CronJobManager) Cancel(ctx context.Context) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.cancelled = true
	for job, timer := range m.jobs {
		if timer == nil {
			xcontext.Logger(ctx).Debugf("%T will stop after its current run", job)
			continue
		}

		// A timer that already fired hands the job to run, which sees the
		// cancellation and releases it.
		if timer.Stop() {
			m.wait.Done()
		}
	}
}

func (m *CronJobManager) run(ctx context.Context, job CronJob) {
	m.mutex.Lock()
	if m.cancelled {
		m.mutex.Unlock()
		m.wait.Done()
		return
	}
	m.jobs[job] = nil
	m.mutex.Unlock()

	xcontext.Logger(ctx).Debugf("%T is running...", job)
	job.Do(ctx)
	xcontext.Logger(ctx).Debugf("%T ok", job)

	m.schedule(ctx, job)
}

func (m *CronJobManager) schedule(ctx context.Context, job CronJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.cancelled {
		m.wait.Done()
		return
	}

	m.jobs[job] = time.AfterFunc(time.Until(job.Next()), func() { m.run(ctx, job) })
}
