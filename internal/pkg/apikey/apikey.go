package apikey

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Key 格式：iw_<32位十六进制>，明文只在创建时返回一次
const (
	Prefix       = "iw_"
	randomBytes  = 16
	prefixDigits = 8
)

// Generate 生成新的 API Key，返回明文、展示前缀和 bcrypt 哈希
func Generate() (plaintext, keyPrefix, keyHash string, err error) {
	buf := make([]byte, randomBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", "", fmt.Errorf("failed to generate key: %w", err)
	}

	plaintext = Prefix + hex.EncodeToString(buf)
	keyPrefix = plaintext[:len(Prefix)+prefixDigits]

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to hash key: %w", err)
	}

	return plaintext, keyPrefix, string(hash), nil
}

// DisplayPrefix 从明文中提取展示前缀，格式非法时返回空串
func DisplayPrefix(plaintext string) string {
	if len(plaintext) < len(Prefix)+prefixDigits {
		return ""
	}
	return plaintext[:len(Prefix)+prefixDigits]
}

// Verify 校验明文与哈希是否匹配
func Verify(plaintext, keyHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(plaintext)) == nil
}
