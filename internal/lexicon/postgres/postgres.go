package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"arabic-reader/internal/domain"
	"arabic-reader/internal/lexicon"
	"arabic-reader/internal/normalize"
)

// Config contains connection details for a Postgres-backed dictionary.
type Config struct {
	DSN   string
	Table string
}

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Storage is a dictionary kept in one Postgres table. Rows of several
// dictionaries can share a table; each Storage only sees its own name.
type Storage struct {
	db    *sql.DB
	name  string
	table string
}

var _ lexicon.Storage = (*Storage)(nil)

// Open connects to Postgres and creates the table if missing.
func Open(ctx context.Context, name string, cfg Config) (*Storage, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}
	s, err := New(ctx, db, name, cfg.Table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection pool.
func New(ctx context.Context, db *sql.DB, name, table string) (*Storage, error) {
	if table == "" {
		table = "lexicon_entries"
	}
	if !tableName.MatchString(table) {
		return nil, errors.Newf("invalid table name %q", table)
	}
	s := &Storage{db: db, name: name, table: table}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) Name() string { return s.name }

// Close releases the connection pool.
func (s *Storage) Close() error { return s.db.Close() }

// Refresh checks the connection and makes sure the schema exists. Reads always
// hit the database, so there is nothing to reload.
func (s *Storage) Refresh(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping postgres")
	}
	for _, stmt := range schema(s.table) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "init %s", s.table)
		}
	}
	return s.backfill(ctx)
}

// backfill fills defkey for rows written before the column existed.
func (s *Storage) backfill(ctx context.Context) error {
	q := fmt.Sprintf(`SELECT id, definition FROM %s WHERE defkey = '' AND definition <> ''`, s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return errors.Wrapf(err, "backfill %s", s.table)
	}
	defkeys := map[string]string{}
	for rows.Next() {
		var id, def string
		if err := rows.Scan(&id, &def); err != nil {
			rows.Close()
			return err
		}
		defkeys[id] = normalize.ForMatch(def)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	q = fmt.Sprintf(`UPDATE %s SET defkey = $2 WHERE id = $1`, s.table)
	for id, key := range defkeys {
		if _, err := s.db.ExecContext(ctx, q, id, key); err != nil {
			return errors.Wrapf(err, "backfill %s", id)
		}
	}
	return nil
}

// Match looks term up exactly, then through its stem candidates in order.
func (s *Storage) Match(ctx context.Context, term string) (domain.Match, error) {
	key := normalize.ForMatch(term)
	if key == "" {
		return domain.Match{}, nil
	}
	keys := append([]string{key}, lexicon.Candidates(key)...)
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE dictionary = $1 AND (key0 = ANY($2) OR key1 = ANY($2)) ORDER BY seq`,
		columns, s.table)
	rows, err := s.db.QueryContext(ctx, q, s.name, pq.Array(keys))
	if err != nil {
		return domain.Match{}, err
	}
	found, err := s.scan(rows)
	if err != nil {
		return domain.Match{}, err
	}
	// Candidates are ordered by preference; the first key with a row wins.
	for i, k := range keys {
		for _, f := range found {
			if f.keys[0] != k && f.keys[1] != k {
				continue
			}
			v := f.view
			return domain.Match{Matched: true, Exact: i == 0, Entry: &v}, nil
		}
	}
	return domain.Match{}, nil
}

// Search returns rows whose keys or definition contain query, exact keys first.
func (s *Storage) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	key := normalize.ForMatch(query)
	if key == "" {
		return nil, nil
	}
	q := fmt.Sprintf(`SELECT %s FROM %s
		WHERE dictionary = $1 AND (strpos(key0, $2) > 0 OR strpos(key1, $2) > 0 OR strpos(defkey, $2) > 0)
		ORDER BY (key0 = $2 OR key1 = $2) DESC, seq`, columns, s.table)
	rows, err := s.db.QueryContext(ctx, q, s.name, key)
	if err != nil {
		return nil, err
	}
	found, err := s.scan(rows)
	if err != nil {
		return nil, err
	}
	return results(found), nil
}

// Duplicates returns rows sharing key0, grouped by the first row of each group.
func (s *Storage) Duplicates(ctx context.Context) ([]domain.SearchResult, error) {
	q := fmt.Sprintf(`SELECT %[1]s FROM (
			SELECT *, min(seq) OVER (PARTITION BY key0) AS grp, count(*) OVER (PARTITION BY key0) AS n
			FROM %[2]s WHERE dictionary = $1
		) t WHERE n > 1 ORDER BY grp, seq`, columns, s.table)
	rows, err := s.db.QueryContext(ctx, q, s.name)
	if err != nil {
		return nil, err
	}
	found, err := s.scan(rows)
	if err != nil {
		return nil, err
	}
	return results(found), nil
}

func (s *Storage) AddWord(ctx context.Context, pos domain.PartOfSpeech, word, definition string) (string, error) {
	return s.insert(ctx, pos, [2]string{word, ""}, definition)
}

func (s *Storage) AddVerb(ctx context.Context, pos domain.PartOfSpeech, past, present, definition string) (string, error) {
	return s.insert(ctx, pos, [2]string{past, present}, definition)
}

// UpdateWord replaces the terms and definition of id. Only verbs take a second term.
func (s *Storage) UpdateWord(ctx context.Context, id, term0, term1, definition string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var pos string
	q := fmt.Sprintf(`SELECT pos FROM %s WHERE dictionary = $1 AND id = $2 FOR UPDATE`, s.table)
	err = tx.QueryRowContext(ctx, q, s.name, id).Scan(&pos)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(lexicon.ErrUnknownEntry, "id %q", id)
	}
	if err != nil {
		return err
	}
	if err := lexicon.CheckTerms(domain.PartOfSpeech(pos), [2]string{term0, term1}); err != nil {
		return errors.Wrapf(err, "id %q", id)
	}
	q = fmt.Sprintf(`UPDATE %s SET term0 = $3, term1 = $4, key0 = $5, key1 = $6, definition = $7, defkey = $8
		WHERE dictionary = $1 AND id = $2`, s.table)
	res, err := tx.ExecContext(ctx, q, s.name, id, term0, term1,
		normalize.ForMatch(term0), normalize.ForMatch(term1), definition, normalize.ForMatch(definition))
	if err != nil {
		return err
	}
	if err := affected(res, id); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteWord removes id when its stored terms are term0 and term1.
func (s *Storage) DeleteWord(ctx context.Context, id, term0, term1 string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var t0, t1 string
	q := fmt.Sprintf(`SELECT term0, term1 FROM %s WHERE dictionary = $1 AND id = $2 FOR UPDATE`, s.table)
	err = tx.QueryRowContext(ctx, q, s.name, id).Scan(&t0, &t1)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(lexicon.ErrUnknownEntry, "id %q", id)
	}
	if err != nil {
		return err
	}
	if t0 != term0 || t1 != term1 {
		return errors.Wrapf(lexicon.ErrStaleEntry, "id %q holds %q/%q", id, t0, t1)
	}
	q = fmt.Sprintf(`DELETE FROM %s WHERE dictionary = $1 AND id = $2`, s.table)
	if _, err := tx.ExecContext(ctx, q, s.name, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Storage) insert(ctx context.Context, pos domain.PartOfSpeech, terms [2]string, definition string) (string, error) {
	q := fmt.Sprintf(`INSERT INTO %s (id, dictionary, pos, term0, term1, key0, key1, definition, defkey)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (dictionary, pos, key0, key1) DO NOTHING RETURNING id`, s.table)
	var id string
	err := s.db.QueryRowContext(ctx, q, uuid.NewString(), s.name, string(pos), terms[0], terms[1],
		normalize.ForMatch(terms[0]), normalize.ForMatch(terms[1]), definition, normalize.ForMatch(definition)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.Wrapf(lexicon.ErrDuplicateEntry, "%s %v", pos, terms)
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

const columns = `id, dictionary, pos, term0, term1, key0, key1, definition`

type row struct {
	view domain.LexiconEntryView
	keys [2]string
}

func (s *Storage) scan(rows *sql.Rows) ([]row, error) {
	defer rows.Close()
	var out []row
	for rows.Next() {
		var r row
		var pos string
		if err := rows.Scan(&r.view.ID, &r.view.Dictionary, &pos, &r.view.Terms[0], &r.view.Terms[1],
			&r.keys[0], &r.keys[1], &r.view.Definition); err != nil {
			return nil, err
		}
		r.view.PartOfSpeech = domain.PartOfSpeech(pos)
		out = append(out, r)
	}
	return out, rows.Err()
}

func results(rows []row) []domain.SearchResult {
	out := make([]domain.SearchResult, len(rows))
	for i, r := range rows {
		out[i] = domain.SearchResult{LexiconEntryView: r.view}
	}
	return out
}

func affected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(lexicon.ErrUnknownEntry, "id %q", id)
	}
	return nil
}

func schema(table string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			dictionary TEXT NOT NULL,
			pos TEXT NOT NULL,
			term0 TEXT NOT NULL,
			term1 TEXT NOT NULL DEFAULT '',
			key0 TEXT NOT NULL,
			key1 TEXT NOT NULL DEFAULT '',
			definition TEXT NOT NULL,
			defkey TEXT NOT NULL DEFAULT '',
			UNIQUE (dictionary, pos, key0, key1))`, table),
		fmt.Sprintf(`ALTER TABLE %s ADD COLUMN IF NOT EXISTS defkey TEXT NOT NULL DEFAULT ''`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_key0_idx ON %[1]s (dictionary, key0)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_key1_idx ON %[1]s (dictionary, key1)`, table),
	}
}
