package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spendtrack/spendtrack-be/internal/models"
	"github.com/spendtrack/spendtrack-be/internal/query"
	"golang.org/x/crypto/bcrypt"
)

// DirectoryStats reports the system-wide admin dashboard numbers.
type DirectoryStats struct {
	TotalUsers    int          `json:"totalUsers"`
	TotalExpenses models.Money `json:"totalExpenses"`
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	ListUsers() ([]models.User, error)
	CreateUser(username, email, password, role string) (models.User, error)
	UpdateUser(id, username, email string) (models.User, error)
	DeleteUser(id string) error
	Stats() (DirectoryStats, error)
	AuthenticateUser(email, password string) (models.User, error)
	EnsureAdmin(username, email, password string) error
}

// UserService provides business logic for account management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

func scanUser(row interface{ Scan(...any) error }, withHash bool) (models.User, error) {
	var user models.User
	var createdAt string
	var err error
	if withHash {
		err = row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &createdAt)
	} else {
		err = row.Scan(&user.ID, &user.Username, &user.Email, &user.Role, &createdAt)
	}
	if err != nil {
		return models.User{}, err
	}
	if user.CreatedAt, err = time.ParseInLocation(query.TimeLayout, createdAt, time.Local); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetUserByID retrieves a single user by their ID, without the password hash.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	row := s.db.QueryRow("SELECT id, username, email, role, created_at FROM users WHERE id = ?", id)
	user, err := scanUser(row, false)
	if err == sql.ErrNoRows {
		return models.User{}, models.ErrNotFound
	}
	return user, err
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	row := s.db.QueryRow("SELECT id, username, email, password_hash, role, created_at FROM users WHERE email = ?", email)
	user, err := scanUser(row, true)
	if err == sql.ErrNoRows {
		return models.User{}, models.ErrNotFound
	}
	return user, err
}

// ListUsers returns every account with the user role, newest first, without
// password hashes.
func (s *UserService) ListUsers() ([]models.User, error) {
	rows, err := s.db.Query(
		"SELECT id, username, email, role, created_at FROM users WHERE role = ? ORDER BY created_at DESC, rowid DESC",
		models.RoleUser,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows, false)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CreateUser creates a new account, hashing the password. A duplicate email
// is a conflict.
func (s *UserService) CreateUser(username, email, password, role string) (models.User, error) {
	if username == "" || email == "" || password == "" {
		return models.User{}, models.Invalid("username, email and password are required")
	}

	var exists int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&exists)
	if err != nil {
		return models.User{}, err
	}
	if exists > 0 {
		return models.User{}, models.ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
	}

	_, err = s.db.Exec(
		"INSERT INTO users (id, username, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, string(hashedPassword), user.Role,
		user.CreatedAt.Format(query.TimeLayout),
	)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateUser updates an account's username and/or email. Empty fields keep
// their current value; password rotation is not handled here. An email owned
// by another account is a conflict.
func (s *UserService) UpdateUser(id, username, email string) (models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		var exists int
		err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ? AND id != ?", email, id).Scan(&exists)
		if err != nil {
			return models.User{}, err
		}
		if exists > 0 {
			return models.User{}, models.ErrEmailTaken
		}
		user.Email = email
	}

	_, err = s.db.Exec("UPDATE users SET username = ?, email = ? WHERE id = ?", user.Username, user.Email, id)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes an account and every expense it owns in one
// transaction, so no orphan records survive.
func (s *UserService) DeleteUser(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM expenses WHERE user_id = ?", id); err != nil {
		return err
	}

	res, err := tx.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}

	return tx.Commit()
}

// Stats counts user-role accounts and sums every expense across all owners.
func (s *UserService) Stats() (DirectoryStats, error) {
	var stats DirectoryStats
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE role = ?", models.RoleUser).Scan(&stats.TotalUsers); err != nil {
		return DirectoryStats{}, err
	}
	var total int64
	if err := s.db.QueryRow("SELECT COALESCE(SUM(amount), 0) FROM expenses").Scan(&total); err != nil {
		return DirectoryStats{}, err
	}
	stats.TotalExpenses = models.MoneyFromCents(total)
	return stats, nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: user not found")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: invalid password")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// EnsureAdmin creates the admin account from externally supplied credentials
// if it does not exist yet. A blank email or password skips seeding.
func (s *UserService) EnsureAdmin(username, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := s.GetUserByEmail(email)
	if err == nil {
		return nil
	}
	if err != models.ErrNotFound {
		return err
	}

	_, err = s.CreateUser(username, email, password, models.RoleAdmin)
	return err
}
