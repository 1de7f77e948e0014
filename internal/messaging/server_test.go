package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func startServer(t *testing.T) *NatsServer {
	t.Helper()
	s, err := NewNatsServer(WithPort(-1), WithStartTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("server stopped with error: %v", err)
		}
	})

	select {
	case <-s.Ready():
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatalf("server not ready")
	}
	return s
}

func TestNewNatsServer_Options(t *testing.T) {
	tests := map[string]struct {
		opts       []NatsServerOpt
		expHost    string
		expPort    int
		expTimeout time.Duration
	}{
		"defaults": {
			expHost:    "127.0.0.1",
			expPort:    0,
			expTimeout: 10 * time.Second,
		},
		"overridden": {
			opts:       []NatsServerOpt{WithHost("0.0.0.0"), WithPort(-1), WithStartTimeout(time.Second)},
			expHost:    "0.0.0.0",
			expPort:    -1,
			expTimeout: time.Second,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := NewNatsServer(tt.opts...)
			if err != nil {
				t.Fatalf("creating server: %v", err)
			}
			testutil.AssertEqual(t, "host", s.host, tt.expHost)
			testutil.AssertEqual(t, "port", s.port, tt.expPort)
			testutil.AssertEqual(t, "timeout", s.startupTimeout, tt.expTimeout)
		})
	}
}

func TestNatsServer_NotStarted(t *testing.T) {
	s, err := NewNatsServer(WithPort(-1))
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	testutil.AssertErrorContains(t, s.Publish("lostlab.hazard", []byte("{}")), "not started")
	_, err = s.Subscribe("lostlab.hazard", func(string, []byte) {})
	testutil.AssertErrorContains(t, err, "not started")
}

func TestNatsServer_PublishSubscribe(t *testing.T) {
	s := startServer(t)

	type msg struct {
		subject string
		data    string
	}
	got := make(chan msg, 1)
	unsub, err := s.Subscribe("lostlab.>", func(subject string, data []byte) {
		got <- msg{subject: subject, data: string(data)}
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsub()

	if err := s.Publish("lostlab.hazard", []byte(`{"location":"Med Bay"}`)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	select {
	case m := <-got:
		testutil.AssertEqual(t, "subject", m.subject, "lostlab.hazard")
		testutil.AssertEqual(t, "data", m.data, `{"location":"Med Bay"}`)
	case <-time.After(5 * time.Second):
		t.Fatalf("no message received")
	}
}

func TestAlertWatcher_StopsWithContext(t *testing.T) {
	s := startServer(t)
	w := NewAlertWatcher(s, "lostlab.hazard", "lostlab.outcome")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	if err := s.Publish("lostlab.outcome", []byte(`{"outcome":"victory"}`)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watcher did not stop")
	}
}
