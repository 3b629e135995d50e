package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor for stored password hashes.
const HashCost = bcrypt.DefaultCost

// ErrPasswordMismatch reports a plain password that does not match its hash.
var ErrPasswordMismatch = errors.New("auth: password mismatch")

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), HashCost)
	return string(b), err
}

// VerifyPassword returns nil when plain matches hash and ErrPasswordMismatch
// when it does not. A malformed hash is returned as is.
func VerifyPassword(plain, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
