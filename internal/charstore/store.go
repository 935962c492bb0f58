// internal/charstore/store.go
//
// SQLite-backed character catalogue.
// Tables: characters (one row per character) and character_aliases
// (one row per alias, ON DELETE CASCADE).
//
// The game core never writes the pool; this store exists for seeding,
// the admin endpoints and cmd/charcheck.

package charstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/huadle/internal/game"
)

// ErrNotFound is returned when no character has the requested ID.
var ErrNotFound = errors.New("character not found")

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Name             *string      `json:"name,omitempty"`
	Gender           *game.Gender `json:"gender,omitempty"`
	Affiliation      *string      `json:"affiliation,omitempty"`
	Height           *game.Height `json:"height,omitempty"`
	FirstSeenChapter *int         `json:"firstSeenChapter,omitempty"`
}

type Store struct{ db *sql.DB }

func New(db *sql.DB) *Store { return &Store{db: db} }

// Create inserts c (ignoring c.ID unless it is positive) together with its
// aliases and returns the stored ID.
func (s *Store) Create(ctx context.Context, c game.Character) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	id, err := insertCharacter(ctx, tx, c)
	if err != nil {
		return 0, err
	}
	if err := insertAliases(ctx, tx, id, c.Aliases); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create: %w", err)
	}
	return id, nil
}

func insertCharacter(ctx context.Context, tx *sql.Tx, c game.Character) (int, error) {
	var (
		res sql.Result
		err error
	)
	if c.ID > 0 {
		res, err = tx.ExecContext(ctx,
			`INSERT INTO characters (id, name, gender, affiliation, height, first_seen_chapter)
			 VALUES (?,?,?,?,?,?)`,
			c.ID, strings.TrimSpace(c.Name), string(c.Gender), c.Affiliation, string(c.Height), c.FirstSeenChapter)
	} else {
		res, err = tx.ExecContext(ctx,
			`INSERT INTO characters (name, gender, affiliation, height, first_seen_chapter)
			 VALUES (?,?,?,?,?)`,
			strings.TrimSpace(c.Name), string(c.Gender), c.Affiliation, string(c.Height), c.FirstSeenChapter)
	}
	if err != nil {
		return 0, fmt.Errorf("insert character %q: %w", c.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func insertAliases(ctx context.Context, tx *sql.Tx, characterID int, aliases []string) error {
	for _, a := range aliases {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO character_aliases (character_id, alias_name) VALUES (?,?)`, characterID, a); err != nil {
			return fmt.Errorf("insert alias %q: %w", a, err)
		}
	}
	return nil
}

// AddAliases appends aliases to an existing character.
func (s *Store) AddAliases(ctx context.Context, id int, aliases []string) error {
	if len(aliases) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := requireExists(ctx, tx, id); err != nil {
		return err
	}
	if err := insertAliases(ctx, tx, id, aliases); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceAliases swaps the full alias list in one transaction.
func (s *Store) ReplaceAliases(ctx context.Context, id int, aliases []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := requireExists(ctx, tx, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM character_aliases WHERE character_id=?`, id); err != nil {
		return fmt.Errorf("delete aliases: %w", err)
	}
	if err := insertAliases(ctx, tx, id, aliases); err != nil {
		return err
	}
	return tx.Commit()
}

func requireExists(ctx context.Context, tx *sql.Tx, id int) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM characters WHERE id=?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Get loads one character with its aliases.
func (s *Store) Get(ctx context.Context, id int) (game.Character, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, gender, affiliation, height, first_seen_chapter FROM characters WHERE id=?`, id)
	c, err := scanCharacter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Character{}, ErrNotFound
	}
	if err != nil {
		return game.Character{}, err
	}
	aliases, err := s.aliasesByCharacter(ctx, &id)
	if err != nil {
		return game.Character{}, err
	}
	c.Aliases = aliasesOrEmpty(aliases[id])
	return c, nil
}

// List returns all characters ordered by ID, with aliases loaded in a single
// extra query rather than one per character.
func (s *Store) List(ctx context.Context) ([]game.Character, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, gender, affiliation, height, first_seen_chapter FROM characters ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.Character{}
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	aliases, err := s.aliasesByCharacter(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Aliases = aliasesOrEmpty(aliases[out[i].ID])
	}
	return out, nil
}

// Update applies the non-nil fields of p.
func (s *Store) Update(ctx context.Context, id int, p Patch) error {
	var sets []string
	var args []any
	if p.Name != nil {
		sets, args = append(sets, "name=?"), append(args, strings.TrimSpace(*p.Name))
	}
	if p.Gender != nil {
		sets, args = append(sets, "gender=?"), append(args, string(*p.Gender))
	}
	if p.Affiliation != nil {
		sets, args = append(sets, "affiliation=?"), append(args, *p.Affiliation)
	}
	if p.Height != nil {
		sets, args = append(sets, "height=?"), append(args, string(*p.Height))
	}
	if p.FirstSeenChapter != nil {
		sets, args = append(sets, "first_seen_chapter=?"), append(args, *p.FirstSeenChapter)
	}
	if len(sets) == 0 {
		_, err := s.Get(ctx, id)
		return err
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, `UPDATE characters SET `+strings.Join(sets, ", ")+` WHERE id=?`, args...)
	if err != nil {
		return fmt.Errorf("update character %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a character; its aliases go with it via the cascade.
func (s *Store) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM characters WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete character %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed inserts every character whose ID is not stored yet and returns how
// many were added. Existing rows are left alone.
func (s *Store) Seed(ctx context.Context, pool []game.Character) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	added := 0
	for _, c := range pool {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM characters WHERE id=?`, c.ID).Scan(&one)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		id, err := insertCharacter(ctx, tx, c)
		if err != nil {
			return 0, err
		}
		if err := insertAliases(ctx, tx, id, c.Aliases); err != nil {
			return 0, err
		}
		added++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row scanner) (game.Character, error) {
	var c game.Character
	var gender, height string
	if err := row.Scan(&c.ID, &c.Name, &gender, &c.Affiliation, &height, &c.FirstSeenChapter); err != nil {
		return game.Character{}, err
	}
	c.Gender = game.Gender(gender)
	c.Height = game.ParseHeight(height)
	return c, nil
}

// aliasesByCharacter loads aliases for one character (id != nil) or all.
func (s *Store) aliasesByCharacter(ctx context.Context, id *int) (map[int][]string, error) {
	q := `SELECT character_id, alias_name FROM character_aliases`
	var args []any
	if id != nil {
		q += ` WHERE character_id=?`
		args = append(args, *id)
	}
	q += ` ORDER BY alias_id`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int][]string)
	for rows.Next() {
		var cid int
		var name string
		if err := rows.Scan(&cid, &name); err != nil {
			return nil, err
		}
		out[cid] = append(out[cid], name)
	}
	return out, rows.Err()
}

func aliasesOrEmpty(a []string) []string {
	if a == nil {
		return []string{}
	}
	return a
}
