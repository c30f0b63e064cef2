package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/creditline/internal/domain"
	"github.com/iho/creditline/internal/infrastructure/auth"
	"github.com/iho/creditline/internal/infrastructure/metrics"
)

type stubVerifier struct {
	principal domain.Principal
	err       error
}

func (s stubVerifier) Verify(string) (domain.Principal, error) {
	return s.principal, s.err
}

func TestAuthMiddleware(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := manager.Generate(domain.Principal{Subject: "ops", Role: domain.RoleOperator})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	tests := []struct {
		name       string
		verifier   TokenVerifier
		header     string
		wantStatus int
		wantReason string
	}{
		{name: "valid token", verifier: manager, header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "missing header", verifier: manager, wantStatus: http.StatusUnauthorized, wantReason: "missing"},
		{name: "wrong scheme", verifier: manager, header: "Basic abc", wantStatus: http.StatusUnauthorized, wantReason: "malformed"},
		{name: "garbage token", verifier: manager, header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantReason: "invalid"},
		{
			name:       "expired token",
			verifier:   stubVerifier{err: domain.ErrExpiredToken},
			header:     "Bearer old",
			wantStatus: http.StatusUnauthorized,
			wantReason: "expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())

			var got domain.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = GetPrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			AuthMiddleware(tt.verifier, m)(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}

			if tt.wantReason == "" {
				if got.Subject != "ops" || got.Role != domain.RoleOperator {
					t.Errorf("unexpected principal %+v", got)
				}
				return
			}

			if v := testutil.ToFloat64(m.AuthFailures.WithLabelValues(tt.wantReason)); v != 1 {
				t.Errorf("expected 1 %s failure, got %v", tt.wantReason, v)
			}
		})
	}
}

func TestAuthMiddlewareWithoutMetrics(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer x")
	rr := httptest.NewRecorder()

	handler := AuthMiddleware(stubVerifier{err: errors.New("boom")}, nil)(http.NotFoundHandler())
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRequireWrite(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		principal  *domain.Principal
		wantStatus int
	}{
		{name: "operator may write", method: http.MethodPost, principal: &domain.Principal{Subject: "a", Role: domain.RoleOperator}, wantStatus: http.StatusOK},
		{name: "viewer may not write", method: http.MethodPost, principal: &domain.Principal{Subject: "b", Role: domain.RoleViewer}, wantStatus: http.StatusForbidden},
		{name: "viewer may read", method: http.MethodGet, principal: &domain.Principal{Subject: "b", Role: domain.RoleViewer}, wantStatus: http.StatusOK},
		{name: "no principal", method: http.MethodPost, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, "/api/v1/accounts", nil)
			if tt.principal != nil {
				req = req.WithContext(withPrincipal(req, *tt.principal))
			}
			rr := httptest.NewRecorder()

			RequireWrite(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
		})
	}
}

func withPrincipal(r *http.Request, p domain.Principal) context.Context {
	return context.WithValue(r.Context(), PrincipalContextKey, p)
}
