// internal/utils/random.go
package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomString 返回 length 个十六进制字符
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, (length+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}
