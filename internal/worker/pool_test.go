package worker

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"
)

type fakeJob struct {
	id   string
	err  error
	work time.Duration
}

type fakeResult struct {
	id  string
	err error
}

func (r fakeResult) GetError() error { return r.err }

func (j fakeJob) Execute(ctx context.Context) Result {
	if j.work > 0 {
		select {
		case <-ctx.Done():
			return fakeResult{id: j.id, err: ctx.Err()}
		case <-time.After(j.work):
		}
	}
	return fakeResult{id: j.id, err: j.err}
}

func TestPool_RunsAllJobs(t *testing.T) {
	p := NewPool(4)
	p.Start()

	ids := []string{"rbi-ppf", "sebi-mf", "it-slabs", "irdai-term", "nsc-rates"}
	for _, id := range ids {
		p.Submit(fakeJob{id: id})
	}

	results := p.Wait()
	if len(results) != len(ids) {
		t.Fatalf("expected %d results, got %d", len(ids), len(results))
	}

	var got []string
	for _, r := range results {
		if err := r.GetError(); err != nil {
			t.Errorf("unexpected job error: %v", err)
		}
		got = append(got, r.(fakeResult).id)
	}
	sort.Strings(got)
	sort.Strings(ids)
	for i := range ids {
		if got[i] != ids[i] {
			t.Errorf("missing result for %s, got %s", ids[i], got[i])
		}
	}
}

func TestPool_FailedJobDoesNotAbortBatch(t *testing.T) {
	p := NewPool(2)
	p.Start()

	p.Submit(fakeJob{id: "ok"})
	p.Submit(fakeJob{id: "bad", err: errors.New("fetch failed")})
	p.Submit(fakeJob{id: "also-ok"})

	results := p.Wait()
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	var failed int
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly 1 failed result, got %d", failed)
	}
}

func TestPool_ZeroWorkersDefaultsToOne(t *testing.T) {
	p := NewPool(0)
	p.Start()
	p.Submit(fakeJob{id: "only"})

	results := p.Wait()
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

type countingJob struct {
	started *atomic.Int32
	work    time.Duration
}

func (j countingJob) Execute(ctx context.Context) Result {
	j.started.Add(1)
	select {
	case <-ctx.Done():
		return fakeResult{err: ctx.Err()}
	case <-time.After(j.work):
		return fakeResult{}
	}
}

func TestPool_ShutdownCancelsInFlight(t *testing.T) {
	p := NewPool(2)
	p.Start()

	var started atomic.Int32
	for i := 0; i < 2; i++ {
		p.Submit(countingJob{started: &started, work: 5 * time.Second})
	}

	deadline := time.Now().Add(time.Second)
	for started.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("jobs never started")
		}
		time.Sleep(time.Millisecond)
	}

	done := make(chan struct{})
	go func() {
		p.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not cancel in-flight jobs")
	}
}
