package db

import (
	"database/sql"
	"errors"
	"github.com/google/uuid"
	"satchel/backend/config"
	"strings"
	"time"
)

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	SessionKey   string
	Created      time.Time
}

var UserAlreadyExists = errors.New("user already exists")
var UserLimitReached = errors.New("user limit has been reached")
var NotFound = errors.New("not found")

// NewUser creates a new user in the "users" table, ensuring that the email
// provided is not already in use.
func NewUser(user User) (string, error) {
	if config.SatchelConfig.MaxUserCount > 0 {
		count, err := GetUserCount()
		if err != nil {
			return "", err
		} else if count >= config.SatchelConfig.MaxUserCount {
			return "", UserLimitReached
		}
	}

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if _, err := GetUserByEmail(user.Email); err == nil {
		return "", UserAlreadyExists
	} else if !errors.Is(err, NotFound) {
		return "", err
	}

	if len(user.ID) == 0 {
		user.ID = uuid.NewString()
	}

	s := `INSERT INTO users (id, email, pw_hash, session_key, created)
	      VALUES ($1, $2, $3, $4, $5)`

	_, err := db.Exec(
		s,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.SessionKey,
		time.Now().UTC())
	if err != nil {
		return "", err
	}

	return user.ID, nil
}

// GetUserCount returns the total number of users in the table
func GetUserCount() (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func GetUserByEmail(email string) (User, error) {
	s := `SELECT id, email, pw_hash, session_key, created
	      FROM users
	      WHERE email = $1`
	return scanUser(db.QueryRow(s, strings.ToLower(strings.TrimSpace(email))))
}

func GetUserByID(id string) (User, error) {
	s := `SELECT id, email, pw_hash, session_key, created
	      FROM users
	      WHERE id = $1`
	return scanUser(db.QueryRow(s, id))
}

func scanUser(row *sql.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.SessionKey,
		&user.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, NotFound
	}

	return user, err
}

// GetUserSessionKey returns the key that every valid session for the user
// must carry. Rotating it logs out all existing sessions.
func GetUserSessionKey(id string) (string, error) {
	var sessionKey string
	s := `SELECT session_key FROM users WHERE id = $1`
	err := db.QueryRow(s, id).Scan(&sessionKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", NotFound
	}

	return sessionKey, err
}

func SetUserSessionKey(id, sessionKey string) error {
	s := `UPDATE users SET session_key = $2 WHERE id = $1`
	_, err := db.Exec(s, id, sessionKey)
	return err
}
