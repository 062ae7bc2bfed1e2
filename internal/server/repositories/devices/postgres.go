package devices

import (
	"context"

	"github.com/dmitrijs2005/guestwifi/internal/dbx"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, serial string) (*models.Device, error) {
	query :=
		`SELECT serial, email FROM devices
		 WHERE serial = $1
		 `

	d := &models.Device{}
	err := r.db.QueryRowContext(ctx, query, serial).Scan(&d.Serial, &d.Email)
	if err != nil {
		return nil, dbx.Err(err)
	}

	return d, nil
}

func (r *PostgresRepository) Put(ctx context.Context, device *models.Device) error {
	query :=
		`INSERT INTO devices (serial, email)
		 VALUES ($1, $2)
		 ON CONFLICT (serial) DO UPDATE SET email = EXCLUDED.email
		 `

	if _, err := r.db.ExecContext(ctx, query, device.Serial, device.Email); err != nil {
		return dbx.Err(err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, serial string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE serial = $1`, serial); err != nil {
		return dbx.Err(err)
	}
	return nil
}
