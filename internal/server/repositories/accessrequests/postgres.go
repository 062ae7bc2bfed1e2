package accessrequests

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

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.AccessRequest, error) {
	query :=
		`SELECT id, host_email, guest_email, status, created_at, modified_at
		 FROM access_requests
		 WHERE id = $1
		 `

	ar := &models.AccessRequest{}
	var status string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ar.ID, &ar.HostEmail, &ar.GuestEmail, &status, &ar.CreatedAt, &ar.ModifiedAt)
	if err != nil {
		return nil, dbx.Err(err)
	}
	ar.Status = models.AccessRequestStatus(status)

	return ar, nil
}

func (r *PostgresRepository) Put(ctx context.Context, ar *models.AccessRequest) error {
	query :=
		`INSERT INTO access_requests (id, host_email, guest_email, status, created_at, modified_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   host_email = EXCLUDED.host_email,
		   guest_email = EXCLUDED.guest_email,
		   status = EXCLUDED.status,
		   modified_at = EXCLUDED.modified_at
		 `

	_, err := r.db.ExecContext(ctx, query, ar.ID, ar.HostEmail, ar.GuestEmail, string(ar.Status), ar.CreatedAt, ar.ModifiedAt)
	if err != nil {
		return dbx.Err(err)
	}
	return nil
}
