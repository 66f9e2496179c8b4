package auth

import (
	"errors"
	"golang.org/x/crypto/bcrypt"
	"net/mail"
	"satchel/backend/db"
	"satchel/shared/constants"
	"strings"
)

var InvalidCredentials = errors.New("user not found, or incorrect password")
var InvalidEmail = errors.New("invalid email address")
var PasswordTooShort = errors.New("password is too short")

// ValidateCredentials checks the provided password against the hash stored
// for the account, returning the user's ID if they match.
func ValidateCredentials(email, password string) (db.User, error) {
	user, err := db.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return db.User{}, InvalidCredentials
		}

		return db.User{}, err
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return db.User{}, InvalidCredentials
	}

	return user, nil
}

// CreateUser validates the signup values and inserts a new user with a
// bcrypt hash of their password.
func CreateUser(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil || strings.Contains(email, " ") {
		return "", InvalidEmail
	} else if len(password) < constants.MinPasswordLen {
		return "", PasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return db.NewUser(db.User{Email: email, PasswordHash: hash})
}
