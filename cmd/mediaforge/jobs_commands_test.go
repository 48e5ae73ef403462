package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"mediaforge/internal/api"
	"mediaforge/internal/jobs"
	"mediaforge/internal/logging"
	"mediaforge/internal/media"
	"mediaforge/internal/testsupport"
)

func startTestDaemon(t *testing.T) (*httptest.Server, *jobs.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	objects := testsupport.NewFakeObjectStore()
	server := api.NewServer(cfg, store, objects, nil, logging.NewNop())
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func execCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestJobsCreateCommand(t *testing.T) {
	ts, store := startTestDaemon(t)

	out, err := execCommand(t, "--api", ts.URL, "jobs", "create", "uploads/clip.mp4",
		"--step", media.StepTranscode720p, "--step", media.StepHLS720p)
	if err != nil {
		t.Fatalf("command failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "accepted") {
		t.Fatalf("unexpected output %q", out)
	}

	list, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one job, got %d", len(list))
	}
	if len(list[0].Pipeline) != 2 {
		t.Fatalf("unexpected pipeline %v", list[0].Pipeline)
	}
}

func TestJobsCreateRejectsUnknownStep(t *testing.T) {
	ts, _ := startTestDaemon(t)

	out, err := execCommand(t, "--api", ts.URL, "jobs", "create", "uploads/clip.mp4", "--step", "shred")
	if err == nil {
		t.Fatalf("expected error, output: %s", out)
	}
	if !strings.Contains(err.Error(), "shred") {
		t.Fatalf("expected rejected step in error, got %v", err)
	}
}

func TestJobsShowCommand(t *testing.T) {
	ts, store := startTestDaemon(t)
	job := testsupport.NewJob(t, store, "uploads/photo.png", []string{media.StepThumbnail})

	out, err := execCommand(t, "--api", ts.URL, "jobs", "show", job.ID)
	if err != nil {
		t.Fatalf("command failed: %v\n%s", err, out)
	}
	for _, want := range []string{job.ID, "uploads/photo.png", "pending", media.StepThumbnail} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestJobsShowUnknownJob(t *testing.T) {
	ts, _ := startTestDaemon(t)

	if _, err := execCommand(t, "--api", ts.URL, "jobs", "show", "nope"); err == nil {
		t.Fatal("expected error for unknown job")
	}
}

func TestJobsListCommand(t *testing.T) {
	ts, store := startTestDaemon(t)
	testsupport.NewJob(t, store, "uploads/a.png", nil)
	testsupport.NewJob(t, store, "uploads/b.mp4", []string{media.StepTranscode720p})

	out, err := execCommand(t, "--api", ts.URL, "jobs", "list")
	if err != nil {
		t.Fatalf("command failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "uploads/a.png") || !strings.Contains(out, "uploads/b.mp4") {
		t.Fatalf("expected both jobs listed:\n%s", out)
	}

	out, err = execCommand(t, "--api", ts.URL, "jobs", "list", "--status", "failure")
	if err != nil {
		t.Fatalf("command failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No jobs found") {
		t.Fatalf("expected empty filtered list:\n%s", out)
	}
}

func TestPresignCommand(t *testing.T) {
	ts, _ := startTestDaemon(t)

	out, err := execCommand(t, "--api", ts.URL, "presign", "footage.mov", "--content-type", "video/quicktime")
	if err != nil {
		t.Fatalf("command failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "signature=put") {
		t.Fatalf("expected presigned URL in output:\n%s", out)
	}
	if !strings.Contains(out, "_footage.mov") {
		t.Fatalf("expected derived key in output:\n%s", out)
	}
}

func TestStatusCommand(t *testing.T) {
	ts, store := startTestDaemon(t)
	testsupport.NewJob(t, store, "uploads/a.png", nil)

	out, err := execCommand(t, "--api", ts.URL, "status")
	if err != nil {
		t.Fatalf("command failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "pending: 1") {
		t.Fatalf("expected pending count in output:\n%s", out)
	}
}

func TestRenderPlainFallback(t *testing.T) {
	out := renderPlain([]string{"A", "B"}, [][]string{{"1", "2"}, {"3", "4"}})
	if out != "A\tB\n1\t2\n3\t4" {
		t.Fatalf("unexpected plain rendering %q", out)
	}
}
