package jobs_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	dbfs "github.com/garnizeh/inspections/db"
	"github.com/garnizeh/inspections/internal/db"
	"github.com/garnizeh/inspections/internal/jobs"
	"github.com/garnizeh/inspections/internal/repository/sqlite"
	"github.com/garnizeh/inspections/pkg/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newRepo(t *testing.T) (*db.DB, *sqlite.SQLiteRepo) {
	t.Helper()
	ctx := context.Background()

	d, err := db.New(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := db.Migrate(ctx, d, dbfs.Migrations, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return d, sqlite.New(d, slog.Default())
}

func TestEnqueueAndProcess(t *testing.T) {
	ctx := context.Background()
	d, repo := newRepo(t)

	handled := make(chan string, 1)
	handlers := map[string]jobs.Handler{
		"test": func(ctx context.Context, j *models.BackgroundJob) error {
			handled <- string(j.Payload)
			return nil
		},
	}
	pool := jobs.NewWorkerPool(repo, handlers, nil, 1)
	pool.SetPollInterval(10 * time.Millisecond)
	pool.Start(ctx)
	defer pool.Stop()

	id, err := repo.Enqueue(ctx, &models.BackgroundJob{Type: "test", Payload: []byte(`{"foo":"bar"}`), Priority: 10, MaxAttempts: 3})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case payload := <-handled:
		if payload != `{"foo":"bar"}` {
			t.Fatalf("unexpected payload %s", payload)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("handler was not called")
	}

	// the status update follows the handler; poll for it
	deadline := time.Now().Add(3 * time.Second)
	for {
		var status string
		if err := d.QueryRow(ctx, `SELECT status FROM jobs WHERE id = ?`, id).Scan(&status); err != nil {
			t.Fatalf("read job status: %v", err)
		}
		if status == jobs.StatusDone {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected job done, got %q", status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestUnknownTypeGoesToDeadLetter(t *testing.T) {
	ctx := context.Background()
	d, repo := newRepo(t)

	if _, err := repo.Enqueue(ctx, &models.BackgroundJob{Type: "nobody.handles.this", Payload: []byte(`{}`)}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	pool := jobs.NewWorkerPool(repo, map[string]jobs.Handler{}, nil, 1)
	pool.SetPollInterval(10 * time.Millisecond)
	pool.Start(ctx)
	defer pool.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for {
		var n int
		if err := d.QueryRow(ctx, `SELECT COUNT(*) FROM dead_letter_jobs WHERE last_error = ?`, jobs.ErrNoHandler.Error()).Scan(&n); err != nil {
			t.Fatalf("count dead letters: %v", err)
		}
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job was not moved to dead letter")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestShutdownRequeuesRunningJob(t *testing.T) {
	d, repo := newRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id, err := repo.Enqueue(context.Background(), &models.BackgroundJob{Type: "slow", Payload: []byte(`{}`), MaxAttempts: 3})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	started := make(chan struct{})
	var once sync.Once
	pool := jobs.NewWorkerPool(repo, map[string]jobs.Handler{
		"slow": func(ctx context.Context, j *models.BackgroundJob) error {
			once.Do(func() { close(started) })
			<-ctx.Done()
			return ctx.Err()
		},
	}, nil, 1)
	pool.SetPollInterval(10 * time.Millisecond)
	pool.Start(ctx)

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatalf("handler was not called")
	}
	cancel()
	pool.Stop()

	var (
		status   string
		attempts int
	)
	if err := d.QueryRow(context.Background(), `SELECT status, attempts FROM jobs WHERE id = ?`, id).Scan(&status, &attempts); err != nil {
		t.Fatalf("read job: %v", err)
	}
	if status != jobs.StatusRetry || attempts != 0 {
		t.Fatalf("expected requeued job with no attempt used, got status=%q attempts=%d", status, attempts)
	}

	j, err := repo.FetchNext(context.Background())
	if err != nil || j == nil || j.ID != id {
		t.Fatalf("expected requeued job to be fetchable, got %#v, %v", j, err)
	}
}

// fakeRepo serves a single job and records what the pool does with it.
type fakeRepo struct {
	mu      sync.Mutex
	job     *models.BackgroundJob
	updates []models.BackgroundJob
	dead    []models.BackgroundJob
	settled chan struct{}
}

func (f *fakeRepo) Enqueue(ctx context.Context, j *models.BackgroundJob) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j.ID = 1
	f.job = j
	return 1, nil
}

func (f *fakeRepo) FetchNext(ctx context.Context) (*models.BackgroundJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j := f.job
	f.job = nil
	return j, nil
}

func (f *fakeRepo) UpdateJob(ctx context.Context, j *models.BackgroundJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, *j)
	f.settled <- struct{}{}
	return nil
}

func (f *fakeRepo) MoveToDeadLetter(ctx context.Context, j *models.BackgroundJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dead = append(f.dead, *j)
	f.settled <- struct{}{}
	return nil
}

func TestHandlerErrorSchedulesRetry(t *testing.T) {
	tests := []struct {
		name        string
		attempts    int
		maxAttempts int
		wantDead    bool
	}{
		{name: "first failure retries", attempts: 0, maxAttempts: 3, wantDead: false},
		{name: "last attempt dead letters", attempts: 2, maxAttempts: 3, wantDead: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := &fakeRepo{settled: make(chan struct{}, 1)}
			_, _ = repo.Enqueue(ctx, &models.BackgroundJob{Type: "flaky", Attempts: tt.attempts, MaxAttempts: tt.maxAttempts})

			boom := errors.New("boom")
			pool := jobs.NewWorkerPool(repo, map[string]jobs.Handler{
				"flaky": func(ctx context.Context, j *models.BackgroundJob) error { return boom },
			}, nil, 1)
			pool.SetPollInterval(10 * time.Millisecond)
			pool.Start(ctx)

			select {
			case <-repo.settled:
			case <-time.After(3 * time.Second):
				t.Fatalf("job was not settled")
			}
			pool.Stop()

			repo.mu.Lock()
			defer repo.mu.Unlock()
			if tt.wantDead {
				if len(repo.dead) != 1 || repo.dead[0].Status != jobs.StatusFailed {
					t.Fatalf("expected one failed dead letter, got %+v", repo.dead)
				}
				if repo.dead[0].Attempts != tt.maxAttempts {
					t.Fatalf("expected attempts %d, got %d", tt.maxAttempts, repo.dead[0].Attempts)
				}
				return
			}
			if len(repo.updates) != 1 {
				t.Fatalf("expected one update, got %d", len(repo.updates))
			}
			u := repo.updates[0]
			if u.Status != jobs.StatusRetry || u.Attempts != 1 || u.NextTryAt == nil || u.LastError != "boom" {
				t.Fatalf("unexpected retry state: %+v", u)
			}
		})
	}
}

func TestBackoffDuration(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{9, 5 * time.Minute},
		{100, 5 * time.Minute},
	}
	for _, tt := range tests {
		if got := jobs.BackoffDuration(tt.attempt); got != tt.want {
			t.Fatalf("BackoffDuration(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	_, repo := newRepo(t)
	pool := jobs.NewWorkerPool(repo, nil, nil, 2)
	pool.Start(context.Background())
	pool.Stop()
	pool.Stop()
}
