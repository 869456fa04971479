// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for every stored digest. Changing it does not
// break verification of older digests (bcrypt encodes the cost), but all new
// digests must use the same value.
const BcryptCost = 11

// HashPassword returns a salted bcrypt digest of password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether password matches digest. Malformed digests
// yield false.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// dummyDigest is compared against when no account exists so that unknown
// emails cost as much as wrong passwords.
var dummyDigest = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("blog-api/dummy"), BcryptCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// BurnCompare spends one bcrypt comparison and discards the result.
func BurnCompare(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyDigest, []byte(password))
}
