package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/creatorx-lab/settlement/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runNow bool
	count  atomic.Int32
}

func (job *countingJob) Do(context.Context) { job.count.Add(1) }
func (job *countingJob) RunNow() bool      { return job.runNow }
func (job *countingJob) Next() time.Time   { return time.Now().Add(10 * time.Millisecond) }

func TestCronJobManager(t *testing.T) {
	ctx := testutil.MockContext()

	immediate := &countingJob{runNow: true}
	delayed := &countingJob{runNow: false}

	manager := NewCronJobManager()
	manager.Register(immediate)
	manager.Register(delayed)

	stopped := make(chan struct{})
	go func() {
		manager.Start(ctx)
		close(stopped)
	}()

	require.Eventually(t, func() bool {
		return immediate.count.Load() >= 3 && delayed.count.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	manager.Cancel(ctx)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("manager did not stop")
	}

	// Give a running job the chance to finish, then make sure nothing is
	// scheduled anymore.
	time.Sleep(30 * time.Millisecond)
	count := immediate.count.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, count, immediate.count.Load())
}

func TestCronJobManager_CancelBeforeStart(t *testing.T) {
	ctx := testutil.MockContext()

	manager := NewCronJobManager()
	manager.Register(&countingJob{runNow: true})
	manager.Cancel(ctx)

	// Nothing is left to run, so Start returns immediately.
	manager.Start(ctx)
}

type blockingJob struct {
	entered chan struct{}
	release chan struct{}
}

func (job *blockingJob) Do(context.Context) {
	close(job.entered)
	<-job.release
}
func (job *blockingJob) RunNow() bool    { return true }
func (job *blockingJob) Next() time.Time { return time.Now().Add(time.Hour) }

func TestCronJobManager_CancelWaitsRunningJob(t *testing.T) {
	ctx := testutil.MockContext()

	job := &blockingJob{entered: make(chan struct{}), release: make(chan struct{})}
	manager := NewCronJobManager()
	manager.Register(job)

	stopped := make(chan struct{})
	go func() {
		manager.Start(ctx)
		close(stopped)
	}()

	<-job.entered
	manager.Cancel(ctx)

	select {
	case <-stopped:
		t.Fatal("manager stopped while a job was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(job.release)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("manager did not stop")
	}
}
