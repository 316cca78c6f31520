package pgquery

import (
	"context"

	"github.com/google/uuid"
)

const userColumns = `id, email, full_name, role, firebase_uid, created_at, updated_at`

func (q *Queries) GetUserByID(ctx context.Context, db DBTX, id uuid.UUID) (Users, error) {
	return scanUser(db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (q *Queries) GetUserByFirebaseUID(ctx context.Context, db DBTX, uid string) (Users, error) {
	return scanUser(db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE firebase_uid = $1`, uid))
}

func scanUser(row interface{ Scan(...any) error }) (Users, error) {
	var u Users
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.FirebaseUID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
