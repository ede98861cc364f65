package auth

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt обрезает вход на 72 байтах, более длинные пароли молча
// теряют хвост — отклоняем их на валидации.
const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

var (
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong   = errors.New("password must be at most 72 characters long")
	ErrPasswordTooSimple = errors.New("password must contain at least one letter and one digit")
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePassword проверяет пароль на минимальные требования:
// длина и наличие хотя бы одной буквы и одной цифры.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLen {
		return ErrPasswordTooLong
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrPasswordTooSimple
	}
	return nil
}
