package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pixil98/go-lostlab/internal/storage/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Audit actions recorded in the logs table.
const (
	ActionMove = "move"
	ActionTake = "take"
	ActionSave = "save"
	ActionLoad = "load"
	ActionWin  = "win"
	ActionLose = "lose"
)

// LocationLookup reports whether a location name exists in the current world.
type LocationLookup interface {
	HasLocation(name string) bool
}

// Snapshot is the persisted state of one traveler plus the shared room items.
type Snapshot struct {
	Location  string
	Items     []string
	RoomItems map[string]string
}

// Outcomes aggregates recorded victories and defeats.
type Outcomes struct {
	Wins   int
	Losses int
}

// Total returns the number of recorded outcomes.
func (o Outcomes) Total() int {
	return o.Wins + o.Losses
}

type LogEntry struct {
	ID         int64
	TravelerID int64
	Action     string
	Details    string
	CreatedAt  time.Time
}

type StoreOpt func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) StoreOpt {
	return func(s *Store) {
		s.now = now
	}
}

// Store persists traveler progress, room items and the audit log in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(path string, opts ...StoreOpt) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, unavailable("ping sqlite db", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &Store{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Start holds the store open until ctx is canceled, then closes it.
func (s *Store) Start(ctx context.Context) error {
	<-ctx.Done()
	return s.Close()
}

// Seed inserts the initial room items only when no rooms are stored yet.
func (s *Store) Seed(ctx context.Context, rooms map[string]string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms").Scan(&count); err != nil {
			return unavailable("count rooms", err)
		}
		if count > 0 {
			return nil
		}
		for _, name := range sortedNames(rooms) {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO rooms (name, item) VALUES (?, ?)",
				name, nullable(rooms[name]),
			); err != nil {
				return unavailable(fmt.Sprintf("seed room %s", name), err)
			}
		}
		return nil
	})
}

// RegisterOrFetchTraveler returns the id for name, creating the record at
// start if it does not exist.
func (s *Store) RegisterOrFetchTraveler(ctx context.Context, name string, start string) (int64, error) {
	var id int64
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		found, err := travelerID(ctx, conn, name)
		if err != nil {
			return err
		}
		if found != 0 {
			id = found
			return nil
		}

		res, err := conn.ExecContext(ctx,
			"INSERT INTO player (name, current_room, created_at) VALUES (?, ?, ?)",
			name, start, toMillis(s.now()),
		)
		if isUniqueViolation(err) {
			// Registered concurrently under the same name.
			id, err = travelerID(ctx, conn, name)
			return err
		}
		if err != nil {
			return unavailable("insert traveler", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return unavailable("read traveler id", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("registering traveler %s: %w", name, err)
	}
	return id, nil
}

// Save records the traveler's location and inventory and every room item in
// a single transaction.
func (s *Store) Save(ctx context.Context, id int64, location string, items []string, rooms map[string]string) error {
	now := toMillis(s.now())
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE player SET current_room = ? WHERE id = ?", location, id)
		if err != nil {
			return unavailable("update traveler location", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return unavailable("update traveler location", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %d", ErrTravelerNotFound, id)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM inventory WHERE player_id = ?", id); err != nil {
			return unavailable("clear inventory", err)
		}
		sorted := append([]string(nil), items...)
		sort.Strings(sorted)
		for _, item := range sorted {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO inventory (player_id, item, acquired_at) VALUES (?, ?, ?)",
				id, item, now,
			); err != nil {
				return unavailable(fmt.Sprintf("insert inventory item %s", item), err)
			}
		}

		for _, name := range sortedNames(rooms) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO rooms (name, item) VALUES (?, ?)
				ON CONFLICT(name) DO UPDATE SET item = excluded.item`,
				name, nullable(rooms[name]),
			); err != nil {
				return unavailable(fmt.Sprintf("upsert room %s", name), err)
			}
		}
		return nil
	})
}

// Load reads the traveler's saved state. The saved location must be known to
// the current world.
func (s *Store) Load(ctx context.Context, id int64, known LocationLookup) (Snapshot, error) {
	var snap Snapshot
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var location string
		err := tx.QueryRowContext(ctx, "SELECT current_room FROM player WHERE id = ?", id).Scan(&location)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoSavedData
		}
		if err != nil {
			return unavailable("read traveler location", err)
		}
		if known != nil && !known.HasLocation(location) {
			return &UnknownLocationError{Location: location}
		}
		snap.Location = location

		items, err := queryStrings(ctx, tx, "SELECT item FROM inventory WHERE player_id = ?", id)
		if err != nil {
			return unavailable("read inventory", err)
		}
		sort.Strings(items)
		snap.Items = items

		rows, err := tx.QueryContext(ctx, "SELECT name, item FROM rooms")
		if err != nil {
			return unavailable("read rooms", err)
		}
		defer rows.Close()

		snap.RoomItems = map[string]string{}
		for rows.Next() {
			var name string
			var item sql.NullString
			if err := rows.Scan(&name, &item); err != nil {
				return unavailable("scan room", err)
			}
			snap.RoomItems[name] = item.String
		}
		if err := rows.Err(); err != nil {
			return unavailable("read rooms", err)
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// AppendLog records an audit entry. An id of zero stores no traveler reference.
func (s *Store) AppendLog(ctx context.Context, id int64, action string, details string) error {
	var player sql.NullInt64
	if id != 0 {
		player = sql.NullInt64{Int64: id, Valid: true}
	}
	return s.withConn(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx,
			"INSERT INTO logs (player_id, action, details, created_at) VALUES (?, ?, ?, ?)",
			player, action, nullable(details), toMillis(s.now()),
		); err != nil {
			return unavailable(fmt.Sprintf("append %s log", action), err)
		}
		return nil
	})
}

// Outcomes counts recorded wins and losses across all travelers.
func (s *Store) Outcomes(ctx context.Context) (Outcomes, error) {
	var out Outcomes
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			"SELECT action, COUNT(*) FROM logs WHERE action IN (?, ?) GROUP BY action",
			ActionWin, ActionLose,
		)
		if err != nil {
			return unavailable("count outcomes", err)
		}
		defer rows.Close()

		for rows.Next() {
			var action string
			var count int
			if err := rows.Scan(&action, &count); err != nil {
				return unavailable("scan outcome", err)
			}
			switch action {
			case ActionWin:
				out.Wins = count
			case ActionLose:
				out.Losses = count
			}
		}
		if err := rows.Err(); err != nil {
			return unavailable("count outcomes", err)
		}
		return nil
	})
	if err != nil {
		return Outcomes{}, err
	}
	return out, nil
}

// Logs returns the traveler's audit entries in insertion order.
func (s *Store) Logs(ctx context.Context, id int64) ([]LogEntry, error) {
	var entries []LogEntry
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			"SELECT id, player_id, action, details, created_at FROM logs WHERE player_id = ? ORDER BY id",
			id,
		)
		if err != nil {
			return unavailable("read logs", err)
		}
		defer rows.Close()

		for rows.Next() {
			var entry LogEntry
			var player sql.NullInt64
			var details sql.NullString
			var created int64
			if err := rows.Scan(&entry.ID, &player, &entry.Action, &details, &created); err != nil {
				return unavailable("scan log", err)
			}
			entry.TravelerID = player.Int64
			entry.Details = details.String
			entry.CreatedAt = fromMillis(created)
			entries = append(entries, entry)
		}
		if err := rows.Err(); err != nil {
			return unavailable("read logs", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) withConn(ctx context.Context, fn func(*sql.Conn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("%w: storage is not configured", ErrUnavailable)
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return unavailable("acquire connection", err)
	}
	defer conn.Close()
	return fn(conn)
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return unavailable("begin transaction", err)
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return unavailable("commit transaction", err)
		}
		return nil
	})
}

func travelerID(ctx context.Context, conn *sql.Conn, name string) (int64, error) {
	var id int64
	err := conn.QueryRowContext(ctx, "SELECT id FROM player WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("read traveler", err)
	}
	return id, nil
}

func queryStrings(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
