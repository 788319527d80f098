package database

import (
	"database/sql"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"lostcities-calculator/internal/store"
)

// Service is the SQL backend: a key/value table for the calculator state and
// a results table for finished games. It implements store.Storage.
type Service struct {
	store.Listeners
	db     *sql.DB
	m      *sync.Mutex
	driver string
}

const (
	kvTable      = "kv"
	resultsTable = "results"
)

var schema = []string{
	`create table if not exists kv (
		key text not null primary key,
		value text not null
	)`,
	`create table if not exists results (
		id text not null primary key,
		created_at text,
		player1 text,
		player2 text,
		player1_round1 integer,
		player1_round2 integer,
		player1_round3 integer,
		player2_round1 integer,
		player2_round2 integer,
		player2_round3 integer,
		player1_score integer,
		player2_score integer,
		long_game boolean
	)`,
}

const resultColumns = "id, created_at, player1, player2, " +
	"player1_round1, player1_round2, player1_round3, " +
	"player2_round1, player2_round2, player2_round3, " +
	"player1_score, player2_score, long_game"

// New opens the database and creates the tables. driver is "sqlite3" or "pgx".
func New(driver, dsn string) (*Service, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", driver)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "connect to %s database", driver)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "create tables")
		}
	}

	return &Service{
		db:     db,
		m:      &sync.Mutex{},
		driver: driver,
	}, nil
}

func (s *Service) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders as $1, $2... for Postgres.
func (s *Service) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Get reads one key.
func (s *Service) Get(key string) (string, bool, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var value string
	err := s.db.QueryRow(s.rebind("SELECT value FROM "+kvTable+" WHERE key = ?"), key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "get %q", key)
	}
	return value, true, nil
}

// Set upserts one key and notifies subscribers.
func (s *Service) Set(key, value string) error {
	s.m.Lock()
	_, err := s.db.Exec(s.rebind("INSERT INTO "+kvTable+" (key, value) VALUES (?, ?) "+
		"ON CONFLICT (key) DO UPDATE SET value = excluded.value"), key, value)
	s.m.Unlock()
	if err != nil {
		return errors.Wrapf(err, "set %q", key)
	}
	s.Notify(key, value)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (GameResult, error) {
	var r GameResult
	err := row.Scan(
		&r.ID,
		&r.CreatedAt,
		&r.Player1,
		&r.Player2,
		&r.Player1Round[0],
		&r.Player1Round[1],
		&r.Player1Round[2],
		&r.Player2Round[0],
		&r.Player2Round[1],
		&r.Player2Round[2],
		&r.Player1Score,
		&r.Player2Score,
		&r.LongGame)
	return r, err
}

func (s *Service) queryResults(query string, args ...any) ([]GameResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, "query results")
	}
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan result")
		}
		results = append(results, r)
	}
	return results, errors.Wrap(rows.Err(), "iterate results")
}

// GetAll returns every archived game, newest first.
func (s *Service) GetAll() ([]GameResult, error) {
	return s.queryResults("SELECT " + resultColumns + " FROM " + resultsTable + " ORDER BY created_at DESC")
}

// GetByID returns one archived game.
func (s *Service) GetByID(id string) (GameResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	row := s.db.QueryRow(s.rebind("SELECT "+resultColumns+" FROM "+resultsTable+" WHERE id = ?"), id)
	r, err := scanResult(row)
	if err == sql.ErrNoRows {
		return GameResult{}, err
	}
	if err != nil {
		return GameResult{}, errors.Wrapf(err, "get result %s", id)
	}
	return r, nil
}

// GetByPlayer returns the games a player name took part in.
// It returns sql.ErrNoRows when there are none.
func (s *Service) GetByPlayer(name string) ([]GameResult, error) {
	results, err := s.queryResults("SELECT "+resultColumns+" FROM "+resultsTable+
		" WHERE player1 = ? OR player2 = ? ORDER BY created_at DESC", name, name)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, sql.ErrNoRows
	}
	return results, nil
}

// Insert archives a finished game.
func (s *Service) Insert(r GameResult) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec(s.rebind("INSERT INTO "+resultsTable+" ("+resultColumns+") "+
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		r.ID,
		r.CreatedAt,
		r.Player1,
		r.Player2,
		r.Player1Round[0],
		r.Player1Round[1],
		r.Player1Round[2],
		r.Player2Round[0],
		r.Player2Round[1],
		r.Player2Round[2],
		r.Player1Score,
		r.Player2Score,
		r.LongGame)
	return errors.Wrapf(err, "insert result %s", r.ID)
}
