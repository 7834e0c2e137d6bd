package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/distsort/internal/config"
)

func newTestService(mutate func(*config.Config)) *Service {
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	return NewService(cfg)
}

func TestService_Sessions(t *testing.T) {
	svc := newTestService(nil)

	sess := svc.NewSession()
	if sess.ID == "" {
		t.Fatal("NewSession returned an empty id")
	}

	got, err := svc.Session(sess.ID)
	if err != nil || got != sess {
		t.Errorf("Session(%q) = %v, %v", sess.ID, got, err)
	}
	if _, err := svc.Session("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Session(missing) error = %v, want ErrSessionNotFound", err)
	}

	same, created := svc.SessionOrNew(sess.ID)
	if created || same != sess {
		t.Errorf("SessionOrNew(known) created = %v", created)
	}
	fresh, created := svc.SessionOrNew("expired")
	if !created || fresh.ID == sess.ID {
		t.Errorf("SessionOrNew(unknown) created = %v, id = %q", created, fresh.ID)
	}
	if n := svc.SessionCount(); n != 2 {
		t.Errorf("SessionCount = %d, want 2", n)
	}
}

func TestService_Sweep(t *testing.T) {
	svc := newTestService(nil)
	svc.NewSession()
	svc.NewSession()

	now := time.Now()
	tests := []struct {
		name string
		now  time.Time
		ttl  time.Duration
		want int
	}{
		{"disabled", now.Add(24 * time.Hour), 0, 0},
		{"still fresh", now, time.Hour, 0},
		{"expired", now.Add(2 * time.Hour), time.Hour, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.Sweep(tt.now, tt.ttl); got != tt.want {
				t.Errorf("Sweep() = %d, want %d", got, tt.want)
			}
		})
	}
	if n := svc.SessionCount(); n != 0 {
		t.Errorf("SessionCount = %d, want 0", n)
	}
}

func TestService_SessionJanitorStops(t *testing.T) {
	svc := newTestService(nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.StartSessionJanitor(ctx, JanitorConfig{TTL: time.Hour, CheckInterval: 10 * time.Millisecond})
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}

func TestService_Upload(t *testing.T) {
	svc := newTestService(nil)
	sess := svc.NewSession()

	ctx := ContextWithClientIP(context.Background(), "10.0.0.1")
	if err := svc.Upload(ctx, sess, "props.csv", strings.NewReader(sessionCSV)); err != nil {
		t.Fatalf("Upload error = %v", err)
	}
	if got := sess.Snapshot().Rows; got != 3 {
		t.Errorf("Rows = %d, want 3", got)
	}
	if got := svc.LimiterStatus().Active; got != 0 {
		t.Errorf("Active = %d after upload, want 0", got)
	}
}

func TestService_UploadErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		file   string
		data   string
		want   LoadErrorKind
	}{
		{"too large", func(c *config.Config) { c.Upload.MaxFileSize = 8 }, "props.csv", sessionCSV, LoadTooLarge},
		{"spreadsheets off", func(c *config.Config) { c.Upload.Spreadsheets = false }, "props.xlsx", "PK", LoadMissingCapability},
		{"unsupported", nil, "props.json", "{}", LoadUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.mutate)
			err := svc.Upload(context.Background(), svc.NewSession(), tt.file, strings.NewReader(tt.data))
			if !IsLoadError(err, tt.want) {
				t.Errorf("Upload error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestService_UploadWaitsForSlot(t *testing.T) {
	svc := newTestService(func(c *config.Config) {
		c.Upload.MaxConcurrent = 1
		c.Upload.MaxWaitTime = 20 * time.Millisecond
	})
	if !svc.limiter.TryAcquire() {
		t.Fatal("TryAcquire failed")
	}
	defer svc.limiter.Release()

	err := svc.Upload(context.Background(), svc.NewSession(), "props.csv", strings.NewReader(sessionCSV))
	if !errors.Is(err, ErrTooManyUploads) {
		t.Errorf("Upload error = %v, want ErrTooManyUploads", err)
	}
}

func TestRoleKeywordsFromConfig(t *testing.T) {
	roles := RoleKeywordsFromConfig(config.ColumnConfig{DistanceKeywords: []string{"drive"}})

	b := ResolveColumns([]string{"Property Name", "Distance", "Drive Time"}, roles)
	if b.Distance != "Distance" {
		t.Errorf("Distance = %q, want exact match kept", b.Distance)
	}

	b = ResolveColumns([]string{"Listing", "Miles", "Drive Time"}, roles)
	if b.Distance != "Drive Time" {
		t.Errorf("Distance = %q, want Drive Time", b.Distance)
	}
	if b.Name != "Listing" {
		t.Errorf("Name = %q, want default keywords kept", b.Name)
	}
}

func TestFeaturesFromConfig(t *testing.T) {
	got := FeaturesFromConfig(config.FeatureConfig{Neighborhood: true, Download: true})

	want := Features{Neighborhood: true, Download: true}
	if got != want {
		t.Errorf("FeaturesFromConfig() = %+v, want %+v", got, want)
	}
}
