package utils

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const pwnedRangeURL = "https://api.pwnedpasswords.com/range/"

// PwnedClient — k-anonymity проверка пароля по корпусу утечек.
// Отправляем только первые 5 hex-символов SHA-1, сравниваем суффиксы локально.
type PwnedClient struct {
	BaseURL string
	client  *http.Client
}

func NewPwnedClient(timeout time.Duration) *PwnedClient {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &PwnedClient{
		BaseURL: pwnedRangeURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// IsBreached возвращает true, если пароль встречается в корпусе утечек.
// Сетевые ошибки возвращаются как err — политику (fail open) решает вызывающий.
func (c *PwnedClient) IsBreached(password string) (bool, error) {
	sum := sha1.Sum([]byte(password))
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))
	prefix, suffix := digest[:5], digest[5:]

	resp, err := c.client.Get(c.BaseURL + prefix)
	if err != nil {
		return false, fmt.Errorf("pwned range request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("pwned range status: %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// формат строки: SUFFIX:COUNT
		if cand, _, ok := strings.Cut(line, ":"); ok && strings.EqualFold(cand, suffix) {
			return true, nil
		}
	}
	return false, scanner.Err()
}
