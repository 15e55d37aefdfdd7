package scheduler

import (
	"errors"
	"testing"
)

func TestAddJobValidation(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	defer svc.Stop()

	if _, err := svc.AddJob("", "* * * * *", func() {}); !errors.Is(err, ErrEmptyJobName) {
		t.Fatalf("empty name: %v", err)
	}
	if _, err := svc.AddJob("job", "  ", func() {}); !errors.Is(err, ErrEmptyCronExpr) {
		t.Fatalf("empty cron: %v", err)
	}
	if _, err := svc.AddJob("job", "not a cron", func() {}); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestAddJob(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	defer svc.Stop()

	job, err := svc.AddJob("hourly-sweep", "0 * * * *", func() {})
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	if job.Name() != "hourly-sweep" {
		t.Fatalf("job name: %s", job.Name())
	}
}

func TestStopIsIdempotent(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	if err := svc.Stop(); err != nil {
		t.Fatalf("first stop: %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}
