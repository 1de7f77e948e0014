package command

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pixil98/go-lostlab/internal/listener"
	"github.com/pixil98/go-lostlab/internal/world"
	"github.com/pixil98/go-testutil"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Storage:   StorageConfig{Path: filepath.Join(t.TempDir(), "lostlab.db")},
		Listeners: []ListenerConfig{{Protocol: ListenerTypeTelnet, Port: 4000}},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate  func(*Config)
		expErrs []string
	}{
		"valid": {
			mutate: func(*Config) {},
		},
		"missing storage path": {
			mutate:  func(c *Config) { c.Storage.Path = "" },
			expErrs: []string{"storage: path is required"},
		},
		"missing storage directory": {
			mutate:  func(c *Config) { c.Storage.Path = "/does/not/exist/lostlab.db" },
			expErrs: []string{"storage: invalid directory"},
		},
		"no listeners": {
			mutate:  func(c *Config) { c.Listeners = nil },
			expErrs: []string{"at least one listener is required"},
		},
		"listener without port": {
			mutate:  func(c *Config) { c.Listeners[0].Port = 0 },
			expErrs: []string{"listener 0: port must be set"},
		},
		"host key on telnet": {
			mutate:  func(c *Config) { c.Listeners[0].HostKeyPath = "key" },
			expErrs: []string{"host_key_path only applies to ssh listeners"},
		},
		"bad traveler name": {
			mutate:  func(c *Config) { c.Traveler.Name = "R2-D2" },
			expErrs: []string{"must be letters and spaces"},
		},
		"missing world file": {
			mutate:  func(c *Config) { c.World.Path = "/does/not/exist.json" },
			expErrs: []string{"world: invalid path"},
		},
		"bad logging": {
			mutate: func(c *Config) {
				c.Logging.Level = "loud"
				c.Logging.Format = "xml"
			},
			expErrs: []string{"parsing logging level", "logging format must be text or json"},
		},
		"bad nats timeout": {
			mutate:  func(c *Config) { c.Nats.StartTimeout = "soon" },
			expErrs: []string{"parsing start_timeout"},
		},
		"negative nats timeout": {
			mutate:  func(c *Config) { c.Nats.StartTimeout = "-1s" },
			expErrs: []string{"start_timeout must be positive"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()

			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			for _, e := range tt.expErrs {
				testutil.AssertErrorContains(t, err, e)
			}
		})
	}
}

func TestConfig_Unmarshal(t *testing.T) {
	data, err := os.ReadFile("../../../config.example.json")
	if err != nil {
		t.Fatalf("reading example config: %v", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshalling: %v", err)
	}
	testutil.AssertEqual(t, "listeners", len(cfg.Listeners), 2)
	testutil.AssertEqual(t, "first protocol", cfg.Listeners[0].Protocol, ListenerTypeTelnet)
	testutil.AssertEqual(t, "second protocol", cfg.Listeners[1].Protocol, ListenerTypeSSH)
	testutil.AssertEqual(t, "watch alerts", cfg.Nats.WatchAlerts, true)
}

func TestListenerType_UnmarshalText(t *testing.T) {
	var lt ListenerType
	testutil.AssertErrorContains(t, lt.UnmarshalText([]byte("gopher")), "unknown listener type")
	if err := lt.UnmarshalText([]byte("ssh")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "type", lt.String(), "ssh")
}

func TestListenerConfig_BuildListener(t *testing.T) {
	cm := listener.NewConnectionManager(nil)

	telnet := ListenerConfig{Protocol: ListenerTypeTelnet, Port: 4000}
	w, err := telnet.BuildListener(cm)
	if err != nil {
		t.Fatalf("telnet: %v", err)
	}
	if _, ok := w.(*listener.TelnetListener); !ok {
		t.Errorf("expected telnet listener, got %T", w)
	}

	ssh := ListenerConfig{Protocol: ListenerTypeSSH, Port: 4022}
	w, err = ssh.BuildListener(cm)
	if err != nil {
		t.Fatalf("ssh: %v", err)
	}
	if _, ok := w.(*listener.SshListener); !ok {
		t.Errorf("expected ssh listener, got %T", w)
	}
}

func TestWorldConfig_Load(t *testing.T) {
	tests := map[string]struct {
		path string
	}{
		"built in station": {},
		"station asset":    {path: "../../../assets/world/station.json"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := WorldConfig{Path: tt.path}
			spec, err := c.Load()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			g, err := world.Build(spec)
			if err != nil {
				t.Fatalf("building world: %v", err)
			}
			testutil.AssertEqual(t, "locations", len(g.Names()), 10)
			testutil.AssertEqual(t, "edges", len(g.Edges()), 13)
			testutil.AssertEqual(t, "hazard", strings.Join(g.Location("Med Bay").Requires, ","), "MKIV Suit,MKV Helmet")
			testutil.AssertEqual(t, "start", spec.Start, world.StationStart)
		})
	}
}

func TestLoggingConfig_Setup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	c := LoggingConfig{Level: "warn", Format: "json"}
	logger := c.setup(&buf)

	logger.Info("hidden")
	slog.Warn("shown", "room", "Lab")

	out := buf.String()
	testutil.AssertEqual(t, "info filtered", strings.Contains(out, "hidden"), false)
	testutil.AssertEqual(t, "json", strings.Contains(out, `"room":"Lab"`), true)
}
