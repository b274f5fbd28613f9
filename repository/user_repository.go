package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"go-shop-api/logger"
	"go-shop-api/model"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrRefreshTokenMismatch is returned by RotateRefreshToken when the
// stored refresh token no longer equals the presented one, i.e. the
// token was already rotated out or cleared by a logout.
var ErrRefreshTokenMismatch = errors.New("stored refresh token does not match")

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByID(id int) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByLogin(identifier string) (*model.User, error)
	GetAllUsers() ([]*model.User, error)
	UpdateUser(id int, params UpdateUserParams) (*model.User, error)
	DeleteUser(id int) error
	MarkVerified(id int) error
	SetRefreshToken(id int, token string) error
	RotateRefreshToken(id int, oldToken, newToken string) error
	ClearRefreshToken(id int) error
	DeleteUnverifiedBefore(cutoff time.Time) (int64, error)
}

// UpdateUserParams holds the optional fields of a partial profile
// update. Only non-nil fields are written.
type UpdateUserParams struct {
	Name     *string
	Username *string
	Email    *string
	Mobile   *string
}

// UserRepository implements IUserRepository over PostgreSQL.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, name, username, email, mobile, password, otp, is_verified, refresh_token, role, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var otp sql.NullInt64
	var refreshToken sql.NullString

	err := row.Scan(&user.ID, &user.Name, &user.Username, &user.Email, &user.Mobile,
		&user.Password, &otp, &user.IsVerified, &refreshToken, &user.Role,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if otp.Valid {
		code := int(otp.Int64)
		user.OTP = &code
	}
	if refreshToken.Valid {
		token := refreshToken.String
		user.RefreshToken = &token
	}
	return user, nil
}

// DuplicateField inspects a postgres error and reports which unique
// column caused a uniqueness violation, if any.
func DuplicateField(err error) (string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return "", false
	}

	switch pqErr.Constraint {
	case "users_username_key":
		return "Username", true
	case "users_email_key":
		return "Email", true
	case "users_mobile_key":
		return "Mobile number", true
	}
	return "Value", true
}

// CreateUser inserts a new user record. Username, email and mobile are
// case-normalized before the write so uniqueness is case-insensitive.
func (r *UserRepository) CreateUser(user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"username": user.Username,
		"email":    user.Email,
	})
	log.Info("Executing query to create a new user")

	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	query := `INSERT INTO users (name, username, email, mobile, password, otp, is_verified, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, role, created_at, updated_at`
	err := r.DB.QueryRow(query, user.Name, user.Username, user.Email, user.Mobile,
		user.Password, user.OTP, user.IsVerified, user.Role).
		Scan(&user.ID, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if _, dup := DuplicateField(err); !dup {
			log.WithError(err).Error("Failed to execute create user query")
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetUserByID(id int) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return scanUser(r.DB.QueryRow(query, id))
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return scanUser(r.DB.QueryRow(query, strings.ToLower(email)))
}

// GetUserByLogin resolves a user by username or email, whichever the
// identifier matches.
func (r *UserRepository) GetUserByLogin(identifier string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1 OR email = $1`, userColumns)
	return scanUser(r.DB.QueryRow(query, strings.ToLower(identifier)))
}

func (r *UserRepository) GetAllUsers() ([]*model.User, error) {
	logger.Log.Info("Executing query to get all users")

	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY id`, userColumns)
	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute query for all users")
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		var otp sql.NullInt64
		var refreshToken sql.NullString
		if err := rows.Scan(&user.ID, &user.Name, &user.Username, &user.Email, &user.Mobile,
			&user.Password, &otp, &user.IsVerified, &refreshToken, &user.Role,
			&user.CreatedAt, &user.UpdatedAt); err != nil {
			logger.Log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		if otp.Valid {
			code := int(otp.Int64)
			user.OTP = &code
		}
		if refreshToken.Valid {
			token := refreshToken.String
			user.RefreshToken = &token
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUser writes the non-nil fields of params and returns the
// updated row. sql.ErrNoRows is returned when the user does not exist.
func (r *UserRepository) UpdateUser(id int, params UpdateUserParams) (*model.User, error) {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to update user profile")

	setClauses := []string{}
	args := []interface{}{}

	addField := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	addField("name", params.Name)
	if params.Username != nil {
		normalized := strings.ToLower(strings.TrimSpace(*params.Username))
		addField("username", &normalized)
	}
	if params.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*params.Email))
		addField("email", &normalized)
	}
	addField("mobile", params.Mobile)

	if len(setClauses) == 0 {
		return nil, errors.New("no user fields to update")
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s, updated_at = now() WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), userColumns)

	user, err := scanUser(r.DB.QueryRow(query, args...))
	if err != nil {
		if err != sql.ErrNoRows {
			if _, dup := DuplicateField(err); !dup {
				log.WithError(err).Error("Failed to execute update user query")
			}
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) DeleteUser(id int) error {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to delete user")

	result, err := r.DB.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete user query")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkVerified flips the verification flag and clears the pending OTP
// in a single update, so the code can never be consumed twice.
func (r *UserRepository) MarkVerified(id int) error {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to mark user as verified")

	_, err := r.DB.Exec(`UPDATE users SET is_verified = TRUE, otp = NULL, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute mark verified query")
	}
	return err
}

// SetRefreshToken overwrites the stored refresh token. Any previously
// issued refresh token for the user stops being honored immediately.
func (r *UserRepository) SetRefreshToken(id int, token string) error {
	_, err := r.DB.Exec(`UPDATE users SET refresh_token = $1, updated_at = now() WHERE id = $2`, token, id)
	if err != nil {
		logger.Log.WithField("user_id", id).WithError(err).Error("Failed to execute set refresh token query")
	}
	return err
}

// RotateRefreshToken replaces the stored refresh token only if it still
// equals oldToken. When two refresh calls race on the same token, the
// loser gets ErrRefreshTokenMismatch instead of a second valid pair.
func (r *UserRepository) RotateRefreshToken(id int, oldToken, newToken string) error {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to rotate refresh token")

	result, err := r.DB.Exec(
		`UPDATE users SET refresh_token = $1, updated_at = now() WHERE id = $2 AND refresh_token = $3`,
		newToken, id, oldToken)
	if err != nil {
		log.WithError(err).Error("Failed to execute rotate refresh token query")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRefreshTokenMismatch
	}
	return nil
}

// ClearRefreshToken removes the stored refresh token, making any
// outstanding refresh token for the user permanently unusable.
func (r *UserRepository) ClearRefreshToken(id int) error {
	_, err := r.DB.Exec(`UPDATE users SET refresh_token = NULL, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		logger.Log.WithField("user_id", id).WithError(err).Error("Failed to execute clear refresh token query")
	}
	return err
}

// DeleteUnverifiedBefore removes every account that is still unverified
// and was created strictly before cutoff. Used by the reaper.
func (r *UserRepository) DeleteUnverifiedBefore(cutoff time.Time) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM users WHERE is_verified = FALSE AND created_at < $1`, cutoff)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute delete unverified users query")
		return 0, err
	}
	return result.RowsAffected()
}
