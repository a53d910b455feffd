package password

import "golang.org/x/crypto/bcrypt"

// bcryptCost trades login latency for brute-force resistance. 12 keeps a
// single hash around a quarter second on current hardware.
const bcryptCost = 12

// Hash derives a bcrypt hash from a plain-text password
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plain matches the stored hash
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
