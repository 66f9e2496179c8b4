package auth

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateUserValidation(t *testing.T) {
	tests := []struct {
		email    string
		password string
		expected error
	}{
		{"", "password123", InvalidEmail},
		{"not-an-email", "password123", InvalidEmail},
		{"a b@example.com", "password123", InvalidEmail},
		{"user@example.com", "short", PasswordTooShort},
	}

	for _, test := range tests {
		_, err := CreateUser(test.email, test.password)
		if !errors.Is(err, test.expected) {
			t.Fatalf("CreateUser(%q): expected %v, got %v", test.email, test.expected, err)
		}
	}
}

func TestHandlersRejectMalformedBody(t *testing.T) {
	for _, handler := range []http.HandlerFunc{LoginHandler, SignupHandler} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
		handler(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestSignupHandlerValidation(t *testing.T) {
	w := httptest.NewRecorder()
	body := `{"email": "user@example.com", "password": "123"}`
	SignupHandler(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), PasswordTooShort.Error())
}
