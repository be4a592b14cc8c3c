package helpers

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

var (
	reLetter = regexp.MustCompile(`[A-Za-z]`)
	reNumber = regexp.MustCompile(`[0-9]`)
)

// IsStrongEnough: minimal ada huruf dan angka.
func IsStrongEnough(s string) bool {
	return reLetter.MatchString(s) && reNumber.MatchString(s)
}
