package utils

import "golang.org/x/crypto/bcrypt"

// cost 12，与既有口令哈希保持一致
const passwordCost = 12

func HashPassword(pw string) string {
	b, _ := bcrypt.GenerateFromPassword([]byte(pw), passwordCost)
	return string(b)
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
