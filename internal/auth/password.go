package auth

import (
	"log"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

var bcryptCost = bcrypt.DefaultCost

// InitBcryptCost reads BCRYPT_COST. Out-of-range values fall back to the
// default rather than failing startup.
func InitBcryptCost() {
	cost := os.Getenv("BCRYPT_COST")
	if cost == "" {
		return
	}

	n, err := strconv.Atoi(cost)
	if err != nil || n < bcrypt.MinCost || n > bcrypt.MaxCost {
		log.Printf("Ignoring invalid BCRYPT_COST %q, using default %d", cost, bcrypt.DefaultCost)
		return
	}

	bcryptCost = n
}

func SetBcryptCostForTest(cost int) {
	bcryptCost = cost
}

func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
