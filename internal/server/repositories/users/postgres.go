package users

import (
	"context"
	"database/sql"
	"slices"

	"github.com/dmitrijs2005/guestwifi/internal/dbx"
	"github.com/dmitrijs2005/guestwifi/internal/server/models"
)

// PostgresRepository keeps the scalar fields in users and the device set and
// credential ids in their own tables. Put rewrites all three in one
// transaction.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, email string) (*models.StoredUser, error) {
	query :=
		`SELECT email, first_name, last_name, company, webex_room_id, webex_webhook_id,
		        webex_webhook_target, access_request_id, secret, password
		 FROM users
		 WHERE email = $1
		 `

	var (
		u                                 models.StoredUser
		firstName, lastName, company      sql.NullString
		roomID, webhookID, webhookTarget  sql.NullString
		accessRequestID, secret, password sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.Email, &firstName, &lastName, &company, &roomID, &webhookID,
		&webhookTarget, &accessRequestID, &secret, &password,
	)
	if err != nil {
		return nil, dbx.Err(err)
	}

	u.FirstName = fromNull(firstName)
	u.LastName = fromNull(lastName)
	u.Company = fromNull(company)
	u.WebexRoomID = fromNull(roomID)
	u.WebexWebhookID = fromNull(webhookID)
	u.WebexWebhookTarget = fromNull(webhookTarget)
	u.AccessRequestID = fromNull(accessRequestID)
	u.Secret = fromNull(secret)
	u.Password = fromNull(password)

	if u.Devices, err = r.devices(ctx, email); err != nil {
		return nil, err
	}
	if u.MerakiAuthUserIDs, err = r.credentials(ctx, email); err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *PostgresRepository) devices(ctx context.Context, email string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT serial FROM user_devices WHERE email = $1 ORDER BY serial`, email)
	if err != nil {
		return nil, dbx.Err(err)
	}
	defer rows.Close()

	serials := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, dbx.Err(err)
		}
		serials = append(serials, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Err(err)
	}
	return serials, nil
}

func (r *PostgresRepository) credentials(ctx context.Context, email string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT segment, auth_user_id FROM user_credentials WHERE email = $1`, email)
	if err != nil {
		return nil, dbx.Err(err)
	}
	defer rows.Close()

	ids := map[string]string{}
	for rows.Next() {
		var segment, id string
		if err := rows.Scan(&segment, &id); err != nil {
			return nil, dbx.Err(err)
		}
		ids[segment] = id
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Err(err)
	}
	return ids, nil
}

func (r *PostgresRepository) Put(ctx context.Context, user *models.User) error {
	s := user.Stored()

	upsert :=
		`INSERT INTO users (email, first_name, last_name, company, webex_room_id, webex_webhook_id,
		                    webex_webhook_target, access_request_id, secret, password)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (email) DO UPDATE SET
		   first_name = EXCLUDED.first_name,
		   last_name = EXCLUDED.last_name,
		   company = EXCLUDED.company,
		   webex_room_id = EXCLUDED.webex_room_id,
		   webex_webhook_id = EXCLUDED.webex_webhook_id,
		   webex_webhook_target = EXCLUDED.webex_webhook_target,
		   access_request_id = EXCLUDED.access_request_id,
		   secret = EXCLUDED.secret,
		   password = EXCLUDED.password
		 `

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, upsert,
			s.Email, toNull(s.FirstName), toNull(s.LastName), toNull(s.Company), toNull(s.WebexRoomID),
			toNull(s.WebexWebhookID), toNull(s.WebexWebhookTarget), toNull(s.AccessRequestID),
			toNull(s.Secret), toNull(s.Password),
		); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM user_devices WHERE email = $1`, s.Email); err != nil {
			return err
		}
		for _, serial := range s.Devices {
			if _, err := tx.ExecContext(ctx, `INSERT INTO user_devices (email, serial) VALUES ($1, $2)`, s.Email, serial); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM user_credentials WHERE email = $1`, s.Email); err != nil {
			return err
		}
		segments := make([]string, 0, len(s.MerakiAuthUserIDs))
		for segment := range s.MerakiAuthUserIDs {
			segments = append(segments, segment)
		}
		slices.Sort(segments)
		for _, segment := range segments {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO user_credentials (email, segment, auth_user_id) VALUES ($1, $2, $3)`,
				s.Email, segment, s.MerakiAuthUserIDs[segment],
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dbx.Err(err)
	}
	return nil
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func toNull(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
