package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, userID int, role string, expiresAt time.Time) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(JWTKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func authTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", mw, func(c *gin.Context) {
		uid, _ := c.Get("user_id")
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{"user_id": uid, "role": role})
	})
	return r
}

func probe(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := authTestRouter(AuthMiddleware())

	t.Run("valid token", func(t *testing.T) {
		token := signTestToken(t, 42, "MEMBER", time.Now().Add(15*time.Minute))
		w := probe(r, "Bearer "+token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
	})

	t.Run("missing header", func(t *testing.T) {
		if w := probe(r, ""); w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		if w := probe(r, "Token abc"); w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if w := probe(r, "Bearer not.a.jwt"); w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token := signTestToken(t, 42, "MEMBER", time.Now().Add(-time.Hour))
		if w := probe(r, "Bearer "+token); w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		claims := &Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-key"))
		if err != nil {
			t.Fatal(err)
		}
		if w := probe(r, "Bearer "+token); w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})
}

func TestOptionalAuth(t *testing.T) {
	r := authTestRouter(OptionalAuth())

	t.Run("no token passes through", func(t *testing.T) {
		w := probe(r, "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})

	t.Run("invalid token passes through without identity", func(t *testing.T) {
		w := probe(r, "Bearer junk")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		token := signTestToken(t, 7, "MEMBER", time.Now().Add(time.Hour))
		w := probe(r, "Bearer "+token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if body := w.Body.String(); body == "" || body == `{"role":null,"user_id":null}` {
			t.Fatalf("identity not set: %s", body)
		}
	})
}
