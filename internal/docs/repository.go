package docs

import (
	"context"
	"errors"

	pgconnv1 "github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"

	"github.com/Ravikant96/AllSpark/internal/platform/db"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// Repository persists documentation chapters.
type Repository interface {
	List(ctx context.Context) ([]Chapter, error)
	Outline(ctx context.Context) ([]Chapter, error)
	Get(ctx context.Context, ids []int64, withBody bool) ([]Chapter, error)
	IDBySlug(ctx context.Context, slug string) (int64, error)
	Insert(ctx context.Context, chapter Chapter) (int64, error)
	Update(ctx context.Context, chapter Chapter) error
	Delete(ctx context.Context, id int64) error
}

// PGRepository is the PostgreSQL-backed Repository.
type PGRepository struct {
	store *db.Store
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(store *db.Store) *PGRepository {
	return &PGRepository{store: store}
}

// List returns every chapter with its author's display name.
func (r *PGRepository) List(ctx context.Context) ([]Chapter, error) {
	rows, err := r.store.Query(ctx, db.ModeRead, `
		SELECT
			d.id, COALESCE(d.parent, 0), d.chapter, COALESCE(d.slug, ''),
			COALESCE(d.heading, ''), COALESCE(d.body, ''), d.added_by,
			CONCAT_WS(' ', u.first_name, u.middle_name, u.last_name)
		FROM tb_documentation d
		JOIN tb_users u ON u.user_id = d.added_by
		ORDER BY d.chapter, d.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []Chapter
	for rows.Next() {
		var chapter Chapter
		if err := rows.Scan(&chapter.ID, &chapter.ParentID, &chapter.Chapter, &chapter.Slug,
			&chapter.Heading, &chapter.Body, &chapter.AddedBy, &chapter.AuthorName); err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter)
	}
	return chapters, rows.Err()
}

// Outline returns the skeleton rows the tree walk runs over. Bodies are
// deliberately excluded.
func (r *PGRepository) Outline(ctx context.Context) ([]Chapter, error) {
	rows, err := r.store.Query(ctx, db.ModeRead, `
		SELECT d.id, COALESCE(d.parent, 0), d.chapter, COALESCE(d.slug, ''), COALESCE(d.heading, '')
		FROM tb_documentation d
		ORDER BY d.chapter, d.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []Chapter
	for rows.Next() {
		var chapter Chapter
		if err := rows.Scan(&chapter.ID, &chapter.ParentID, &chapter.Chapter, &chapter.Slug, &chapter.Heading); err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter)
	}
	return chapters, rows.Err()
}

// Get loads the given chapter ids, with or without bodies.
func (r *PGRepository) Get(ctx context.Context, ids []int64, withBody bool) ([]Chapter, error) {
	body := `''`
	if withBody {
		body = `COALESCE(d.body, '')`
	}
	rows, err := r.store.Query(ctx, db.ModeRead, `
		SELECT d.id, COALESCE(d.parent, 0), d.chapter, COALESCE(d.slug, ''), COALESCE(d.heading, ''), `+body+`
		FROM tb_documentation d
		WHERE d.id = ANY($1)
		ORDER BY d.chapter, d.id`,
		ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []Chapter
	for rows.Next() {
		var chapter Chapter
		if err := rows.Scan(&chapter.ID, &chapter.ParentID, &chapter.Chapter, &chapter.Slug, &chapter.Heading, &chapter.Body); err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter)
	}
	return chapters, rows.Err()
}

// IDBySlug resolves a slug to its chapter id.
func (r *PGRepository) IDBySlug(ctx context.Context, slug string) (int64, error) {
	var id int64
	err := r.store.QueryRow(ctx, db.ModeRead, `
		SELECT id FROM tb_documentation WHERE slug = $1`, slug).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, shared.ErrNotFound
	}
	return id, err
}

// Insert stores a new chapter. Root chapters (parent 0) must carry a unique
// chapter number; the check runs inside the insert transaction with a unique
// index backstop.
func (r *PGRepository) Insert(ctx context.Context, chapter Chapter) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.store.Pool(), func(tx pgx.Tx) error {
		if chapter.ParentID == 0 {
			if err := r.assertRootChapterFree(ctx, tx, chapter.Chapter, 0); err != nil {
				return err
			}
		}
		return tx.QueryRow(ctx, `
			INSERT INTO tb_documentation (slug, heading, body, parent, chapter, added_by)
			VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, 0), $5, $6)
			RETURNING id`,
			chapter.Slug, chapter.Heading, chapter.Body, chapter.ParentID, chapter.Chapter, chapter.AddedBy).
			Scan(&id)
	})
	return id, mapDuplicate(err)
}

// Update replaces a chapter's mutable fields under the same root guard.
func (r *PGRepository) Update(ctx context.Context, chapter Chapter) error {
	err := db.WithTx(ctx, r.store.Pool(), func(tx pgx.Tx) error {
		if chapter.ParentID == 0 {
			if err := r.assertRootChapterFree(ctx, tx, chapter.Chapter, chapter.ID); err != nil {
				return err
			}
		}
		tag, err := tx.Exec(ctx, `
			UPDATE tb_documentation
			SET slug = $2, heading = $3, body = NULLIF($4, ''), parent = NULLIF($5, 0), chapter = $6
			WHERE id = $1`,
			chapter.ID, chapter.Slug, chapter.Heading, chapter.Body, chapter.ParentID, chapter.Chapter)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	return mapDuplicate(err)
}

// Delete removes a chapter.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.store.Exec(ctx, db.ModeWrite, `
		DELETE FROM tb_documentation WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) assertRootChapterFree(ctx context.Context, tx pgx.Tx, chapter, excludeID int64) error {
	var existing int64
	err := tx.QueryRow(ctx, `
		SELECT id FROM tb_documentation
		WHERE parent IS NULL AND chapter = $1 AND id <> $2`,
		chapter, excludeID).Scan(&existing)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return shared.BadRequestf("duplicate entry for chapter %d", chapter)
}

func mapDuplicate(err error) error {
	if pgErr, ok := err.(*pgconnv1.PgError); ok && pgErr.Code == uniqueViolation {
		return shared.ErrDuplicate
	}
	return err
}
