package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func testToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"actor_id":   "a1",
		"actor_name": "Admin A",
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRouter_Routes(t *testing.T) {
	handler := &Handler{}
	router := NewRouter(handler, "testsecret")

	token := testToken(t, "testsecret")

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
	}{
		{"no token", "GET", "/api/admin/withdrawals", "", http.StatusUnauthorized},
		{"bad token", "GET", "/api/admin/withdrawals", "Bearer nonsense", http.StatusUnauthorized},
		{"wrong scheme", "POST", "/api/withdrawals", "Basic abc", http.StatusUnauthorized},
		{"reject without body", "POST", "/api/admin/withdrawals/w1/reject", "Bearer " + token, http.StatusBadRequest},
		{"unknown url", "GET", "/notfound", "", http.StatusNotFound},
		{"wrong method", "DELETE", "/api/admin/withdrawals/w1", "Bearer " + token, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			resp := w.Result()
			if resp.StatusCode != tt.status {
				t.Errorf("%s %s: got %d, want %d", tt.method, tt.path, resp.StatusCode, tt.status)
			}
		})
	}
}
