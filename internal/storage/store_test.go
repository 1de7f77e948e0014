package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type knownLocations map[string]bool

func (k knownLocations) HasLocation(name string) bool {
	return k[name]
}

var stationRooms = map[string]string{
	"Rec Room":   "",
	"Laboratory": "Holo-Core",
	"Hangar":     "Maint Kit",
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lostlab.db")
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store, err := Open(path, WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	testutil.AssertErrorContains(t, err, "storage path is required")
}

func TestOpen_ReappliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lostlab.db")
	for i := 0; i < 2; i++ {
		store, err := Open(path)
		if err != nil {
			t.Fatalf("open store attempt %d: %v", i, err)
		}
		var count int
		if err := store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("count migrations: %v", err)
		}
		testutil.AssertEqual(t, "applied migrations", count, 1)
		_ = store.Close()
	}
}

func TestExtractUpMigration(t *testing.T) {
	tests := map[string]struct {
		content string
		exp     string
	}{
		"no markers": {
			content: "CREATE TABLE a (id INTEGER);",
			exp:     "CREATE TABLE a (id INTEGER);",
		},
		"up only": {
			content: "-- +migrate Up\nCREATE TABLE a (id INTEGER);",
			exp:     "CREATE TABLE a (id INTEGER);",
		},
		"up and down": {
			content: "-- +migrate Up\nCREATE TABLE a (id INTEGER);\n-- +migrate Down\nDROP TABLE a;",
			exp:     "CREATE TABLE a (id INTEGER);",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "up", strings.TrimSpace(extractUpMigration(tt.content)), tt.exp)
		})
	}
}

func TestStore_RegisterOrFetchTraveler(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)

	first, err := store.RegisterOrFetchTraveler(ctx, "Player", "Rec Room")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	again, err := store.RegisterOrFetchTraveler(ctx, "Player", "Rec Room")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	other, err := store.RegisterOrFetchTraveler(ctx, "Other", "Rec Room")
	if err != nil {
		t.Fatalf("register other: %v", err)
	}

	testutil.AssertEqual(t, "same id", again, first)
	testutil.AssertEqual(t, "distinct id", other != first, true)

	var count int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM player WHERE name = ?", "Player").Scan(&count); err != nil {
		t.Fatalf("count players: %v", err)
	}
	testutil.AssertEqual(t, "player rows", count, 1)
}

func TestStore_Seed(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)

	if err := store.Seed(ctx, stationRooms); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// A second seed must not overwrite progress.
	if err := store.Seed(ctx, map[string]string{"Rec Room": "Junk"}); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	id, err := store.RegisterOrFetchTraveler(ctx, "Player", "Rec Room")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	snap, err := store.Load(ctx, id, knownLocations{"Rec Room": true})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	testutil.AssertEqual(t, "room count", len(snap.RoomItems), 3)
	testutil.AssertEqual(t, "rec room", snap.RoomItems["Rec Room"], "")
	testutil.AssertEqual(t, "laboratory", snap.RoomItems["Laboratory"], "Holo-Core")
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)

	if err := store.Seed(ctx, stationRooms); err != nil {
		t.Fatalf("seed: %v", err)
	}
	id, err := store.RegisterOrFetchTraveler(ctx, "Player", "Rec Room")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	rooms := map[string]string{
		"Rec Room":   "",
		"Laboratory": "",
		"Hangar":     "Maint Kit",
	}
	if err := store.Save(ctx, id, "Laboratory", []string{"Holo-Core", "Beacon"}, rooms); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err := store.Load(ctx, id, knownLocations{"Laboratory": true})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	testutil.AssertEqual(t, "location", snap.Location, "Laboratory")
	testutil.AssertEqual(t, "items", strings.Join(snap.Items, ","), "Beacon,Holo-Core")
	testutil.AssertEqual(t, "laboratory", snap.RoomItems["Laboratory"], "")
	testutil.AssertEqual(t, "hangar", snap.RoomItems["Hangar"], "Maint Kit")

	// Saving again replaces the inventory rather than appending.
	if err := store.Save(ctx, id, "Hangar", []string{"Beacon"}, rooms); err != nil {
		t.Fatalf("second save: %v", err)
	}
	snap, err = store.Load(ctx, id, knownLocations{"Hangar": true})
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	testutil.AssertEqual(t, "location", snap.Location, "Hangar")
	testutil.AssertEqual(t, "items", strings.Join(snap.Items, ","), "Beacon")
}

func TestStore_LoadErrors(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)

	id, err := store.RegisterOrFetchTraveler(ctx, "Player", "Old Wing")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := map[string]struct {
		id        int64
		checkErr  func(error) bool
		expErrStr string
	}{
		"unknown traveler": {
			id:        id + 100,
			checkErr:  func(err error) bool { return errors.Is(err, ErrNoSavedData) },
			expErrStr: "no saved data",
		},
		"stale location": {
			id: id,
			checkErr: func(err error) bool {
				var unknown *UnknownLocationError
				return errors.As(err, &unknown) && unknown.Location == "Old Wing"
			},
			expErrStr: `saved location "Old Wing" not found`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(ctx, tt.id, knownLocations{"Rec Room": true})
			testutil.AssertErrorContains(t, err, tt.expErrStr)
			testutil.AssertEqual(t, "error kind", tt.checkErr(err), true)
		})
	}
}

func TestStore_SaveUnknownTraveler(t *testing.T) {
	store := openTempStore(t)

	err := store.Save(context.Background(), 42, "Rec Room", nil, stationRooms)
	testutil.AssertEqual(t, "not found", errors.Is(err, ErrTravelerNotFound), true)
}

func TestStore_SaveIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)

	if err := store.Seed(ctx, stationRooms); err != nil {
		t.Fatalf("seed: %v", err)
	}
	id, err := store.RegisterOrFetchTraveler(ctx, "Player", "Rec Room")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := store.Save(ctx, id, "Rec Room", []string{"Ammo"}, stationRooms); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// Fail the last room write, after the location and inventory have changed.
	if _, err := store.db.Exec(`CREATE TRIGGER reject_zed BEFORE INSERT ON rooms
		WHEN NEW.name = 'Zed'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	rooms := map[string]string{
		"Rec Room":   "Beacon",
		"Laboratory": "",
		"Hangar":     "",
		"Zed":        "Junk",
	}
	err = store.Save(ctx, id, "Hangar", []string{"Holo-Core", "Maint Kit"}, rooms)
	testutil.AssertErrorContains(t, err, "upsert room Zed")
	testutil.AssertEqual(t, "unavailable", errors.Is(err, ErrUnavailable), true)

	snap, err := store.Load(ctx, id, knownLocations{"Rec Room": true, "Hangar": true})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	testutil.AssertEqual(t, "location", snap.Location, "Rec Room")
	testutil.AssertEqual(t, "items", strings.Join(snap.Items, ","), "Ammo")
	testutil.AssertEqual(t, "room count", len(snap.RoomItems), 3)
	testutil.AssertEqual(t, "rec room", snap.RoomItems["Rec Room"], "")
	testutil.AssertEqual(t, "laboratory", snap.RoomItems["Laboratory"], "Holo-Core")
	testutil.AssertEqual(t, "hangar", snap.RoomItems["Hangar"], "Maint Kit")
}

func TestStore_LogsAndOutcomes(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)

	out, err := store.Outcomes(ctx)
	if err != nil {
		t.Fatalf("empty outcomes: %v", err)
	}
	testutil.AssertEqual(t, "empty total", out.Total(), 0)

	id, err := store.RegisterOrFetchTraveler(ctx, "Player", "Rec Room")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	entries := []struct {
		id      int64
		action  string
		details string
	}{
		{id, ActionMove, "north to Laboratory"},
		{id, ActionWin, "reached Terrarium"},
		{0, ActionLose, ""},
		{id, ActionLose, "reached Terrarium"},
	}
	for _, e := range entries {
		if err := store.AppendLog(ctx, e.id, e.action, e.details); err != nil {
			t.Fatalf("append %s: %v", e.action, err)
		}
	}

	out, err = store.Outcomes(ctx)
	if err != nil {
		t.Fatalf("outcomes: %v", err)
	}
	testutil.AssertEqual(t, "wins", out.Wins, 1)
	testutil.AssertEqual(t, "losses", out.Losses, 2)
	testutil.AssertEqual(t, "total", out.Total(), 3)

	logs, err := store.Logs(ctx, id)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	var actions []string
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	testutil.AssertEqual(t, "actions", strings.Join(actions, ","), "move,win,lose")
	testutil.AssertEqual(t, "details", logs[0].Details, "north to Laboratory")
	testutil.AssertEqual(t, "traveler", logs[0].TravelerID, id)
	testutil.AssertEqual(t, "created", logs[0].CreatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)), true)
}

func TestStore_CanceledContext(t *testing.T) {
	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.AppendLog(ctx, 0, ActionMove, "")
	testutil.AssertEqual(t, "canceled", errors.Is(err, context.Canceled), true)
}
