package overview

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/dbx"
	"github.com/dmitrijs2005/vaultacks/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Overview, error) {
	query :=
		`SELECT id, body, version, updated_by, updated_at FROM overviews
		 WHERE id = $1
		 `

	o := &models.Overview{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.Body, &o.Version, &o.UpdatedBy, &o.UpdatedAt)
	if err != nil {
		if dbx.IsNoRows(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return o, nil
}

// Put locks the row for the duration of the version check so concurrent
// writers are serialised.
func (r *PostgresRepository) Put(ctx context.Context, id string, body []byte, expected int64, author string) (int64, error) {
	var next int64

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var current int64
		err := tx.QueryRowContext(ctx,
			`SELECT version FROM overviews WHERE id = $1 FOR UPDATE`, id).Scan(&current)

		switch {
		case dbx.IsNoRows(err):
			if expected != 0 {
				return common.ErrVersionConflict
			}
			next = 1
			// FOR UPDATE locks nothing on a missing row; a concurrent first
			// write wins through the primary key instead.
			res, err := tx.ExecContext(ctx,
				`INSERT INTO overviews (id, body, version, updated_by, updated_at)
				 VALUES ($1, $2, $3, $4, now())
				 ON CONFLICT (id) DO NOTHING`,
				id, body, next, author)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return common.ErrVersionConflict
			}
			return nil
		case err != nil:
			return err
		default:
			if current != expected {
				return common.ErrVersionConflict
			}
			next = current + 1
			_, err = tx.ExecContext(ctx,
				`UPDATE overviews SET body = $2, version = $3, updated_by = $4, updated_at = now()
				 WHERE id = $1`,
				id, body, next, author)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			return 0, err
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return next, nil
}
