package services

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sagehill-community/activities-backend/internal/models"
	"github.com/sagehill-community/activities-backend/pkg/utils"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// UserService stores user accounts in PostgreSQL and implements the
// UserResolver the activity lifecycle uses for creator/leader lookups.
type UserService struct {
	db *sql.DB
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

type RegisterInput struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Signature string `json:"signature"`
}

// Register validates and creates a new account. Email is optional but
// strongly recommended; everything else is required.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Signature = strings.TrimSpace(in.Signature)

	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "Name is required"}
	}
	if !usernameRegex.MatchString(in.Username) {
		return nil, &ValidationError{Field: "username", Message: "Username must be 3-20 characters: letters, numbers, and underscores"}
	}
	if in.Phone == "" {
		return nil, &ValidationError{Field: "phone", Message: "Phone is required"}
	}
	if len(in.Password) < 6 {
		return nil, &ValidationError{Field: "password", Message: "Password should be at least 6 characters in length"}
	}
	if in.Signature == "" {
		return nil, &ValidationError{Field: "signature", Message: "Signature is required"}
	}

	existing, err := s.UserByUsername(ctx, in.Username)
	if err != nil {
		return nil, storageErr("check username", err)
	}
	if existing != nil {
		return nil, &ValidationError{Field: "username", Message: "Username is not available"}
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Name:      in.Name,
		Username:  in.Username,
		Email:     in.Email,
		Phone:     in.Phone,
		Signature: in.Signature,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, created_at, name, username, email, phone, password, signature, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE)
	`, user.ID, user.CreatedAt, user.Name, user.Username, user.Email, user.Phone, hash, user.Signature)
	if err != nil {
		return nil, storageErr("create user", err)
	}

	return user, nil
}

// Authenticate checks a username/password pair. Both failure modes return
// the same ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, name, username, email, phone, password, signature, is_admin
		FROM users WHERE username = $1
	`, strings.TrimSpace(username))

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storageErr("find user", err)
	}

	if !utils.CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UserByID resolves a weak user reference; (nil, nil) when the user no
// longer exists.
func (s *UserService) UserByID(ctx context.Context, id string) (*models.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, name, username, email, phone, password, signature, is_admin
		FROM users WHERE id = $1
	`, parsed)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UserByUsername resolves a username; (nil, nil) when no user matches.
func (s *UserService) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, name, username, email, phone, password, signature, is_admin
		FROM users WHERE username = $1
	`, strings.TrimSpace(username))

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// AdminEmails returns the email of every admin that has one on file.
func (s *UserService) AdminEmails(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT email FROM users WHERE is_admin = TRUE AND email IS NOT NULL AND email <> ''
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var email sql.NullString
	err := row.Scan(&user.ID, &user.CreatedAt, &user.Name, &user.Username, &email,
		&user.Phone, &user.Password, &user.Signature, &user.IsAdmin)
	if err != nil {
		return nil, err
	}
	user.Email = email.String
	return &user, nil
}
