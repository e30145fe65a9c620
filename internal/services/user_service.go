package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"rentexpress/internal/db"
	"rentexpress/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// bcrypt ignores everything past 72 bytes
	maxPasswordBytes = 72
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserService struct {
	db      *sql.DB
	dialect db.Dialect
	logger  zerolog.Logger
	cost    int
}

func NewUserService(database *sql.DB, dialect db.Dialect, logger zerolog.Logger) *UserService {
	return &UserService{
		db:      database,
		dialect: dialect,
		logger:  logger,
		cost:    bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.cost = cost
	return s
}

// ValidateRegistration trims the request in place and checks it.
func ValidateRegistration(req *models.RegisterRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)

	if req.Username == "" || req.Email == "" || req.Password == "" || req.Name == "" {
		return ErrMissingFields
	}
	if !emailPattern.MatchString(req.Email) {
		return ErrInvalidEmail
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(req.Password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// Register creates a new account with role "user".
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if err := ValidateRegistration(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// email first so a fully duplicated request reports the email
	taken, err := s.exists(ctx, "email", req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}
	taken, err = s.exists(ctx, "username", req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var phone sql.NullString
	if req.Phone != "" {
		phone = sql.NullString{String: req.Phone, Valid: true}
	}

	insert := `INSERT INTO users (username, email, password_hash, name, phone, role) VALUES (?, ?, ?, ?, ?, ?)`
	args := []any{req.Username, req.Email, string(hashedPassword), req.Name, phone, string(models.RoleUser)}

	var userID int64
	if s.dialect.SupportsLastInsertID() {
		var result sql.Result
		result, err = s.db.ExecContext(ctx, s.dialect.Rebind(insert), args...)
		if err == nil {
			userID, err = result.LastInsertId()
		}
	} else {
		err = s.db.QueryRowContext(ctx, s.dialect.Rebind(insert+" RETURNING id"), args...).Scan(&userID)
	}
	if err != nil {
		if db.IsUniqueViolation(err) {
			// lost a race against a concurrent registration
			return nil, s.conflictFor(ctx, req)
		}
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, storageError("insert user", err)
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User registered successfully")
	return user, nil
}

// Authenticate checks an email/password pair. Unknown emails and wrong
// passwords are reported separately.
func (s *UserService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, ErrMissingLogin
	}

	user, err := s.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("Failed authentication attempt")
		return nil, ErrWrongPassword
	}

	s.logger.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("User authenticated successfully")
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	return s.getUser(ctx, "id", userID)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", normalizeEmail(email))
}

// Delete removes an account. Deleting a missing account is not an error.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM users WHERE id = ?`), userID); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("Error deleting user")
		return storageError("delete user", err)
	}
	return nil
}

func (s *UserService) getUser(ctx context.Context, column string, value any) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var (
		user  models.User
		phone sql.NullString
	)
	query := fmt.Sprintf(
		"SELECT id, username, email, password_hash, name, phone, role, created_at FROM users WHERE %s = ?", column,
	)
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), value).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Name, &phone, &user.Role, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("by", column).Msg("Error fetching user")
		return nil, storageError("query user", err)
	}

	user.Phone = phone.String
	return &user, nil
}

func (s *UserService) exists(ctx context.Context, column, value string) (bool, error) {
	var id int64
	query := fmt.Sprintf("SELECT id FROM users WHERE %s = ?", column)
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), value).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("column", column).Msg("Error checking existing user")
		return false, storageError("check existing user", err)
	}
	return true, nil
}

// Emails are stored lowercased so uniqueness and login do not depend on
// the backend's collation.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// conflictFor works out which unique column a failed insert collided on.
func (s *UserService) conflictFor(ctx context.Context, req *models.RegisterRequest) error {
	if taken, err := s.exists(ctx, "email", req.Email); err == nil && taken {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}
