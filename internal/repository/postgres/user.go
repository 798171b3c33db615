package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/domain"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/database"
	apperrors "github.com/Sudhanshu9000/BazzarNet1.1/pkg/errors"
)

// UserRepository reads user profiles from PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ repository.UserRepository = (*UserRepository)(nil)

// GetByID returns the user's profile.
func (r *UserRepository) GetByID(ctx context.Context, id string) (_ *domain.User, err error) {
	query := `
		SELECT id, name, role, COALESCE(store_id::text, ''), description, category, phone,
		       house_no, landmark, city, state, pin_code, mobile, profile_image
		FROM users
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetUser", query)
	defer func() { end(err) }()

	var u domain.User
	err = r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Name,
		&u.Role,
		&u.StoreID,
		&u.Description,
		&u.Category,
		&u.Phone,
		&u.Address.HouseNo,
		&u.Address.Landmark,
		&u.Address.City,
		&u.Address.State,
		&u.Address.PinCode,
		&u.Address.Mobile,
		&u.ProfileImage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
