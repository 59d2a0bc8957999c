package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewRefreshToken выдаёт непрозрачный refresh-токен для сессий магазина:
// login, refresh и авто-логин после завершения регистрации. Сам токен
// ничего не кодирует, в БД хранится вместе со сроком действия.
func NewRefreshToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32 // 256 бит по умолчанию
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
