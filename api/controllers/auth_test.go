package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/internal/auth"
	"github.com/mokja-app/mokja-backend/internal/users"
	"github.com/mokja-app/mokja-backend/pkg/enums"
	pkgerrors "github.com/mokja-app/mokja-backend/pkg/errors"
	"github.com/mokja-app/mokja-backend/pkg/logger"
)

type stubLoginService struct {
	resp    *auth.LoginResponse
	err     error
	lastReq auth.LoginRequest
}

func (s *stubLoginService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := &stubLoginService{
		resp: &auth.LoginResponse{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			User: &users.UserDTO{
				ID:    uuid.New(),
				Email: "minji@example.com",
				Role:  enums.ActorRoleCustomer,
			},
		},
	}

	body := `{"email":"minji@example.com","password":"secret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	AuthLogin(svc, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastReq.Email != "minji@example.com" {
		t.Fatalf("unexpected email forwarded: %q", svc.lastReq.Email)
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access-token" {
		t.Fatalf("unexpected access token %q", envelope.Data.AccessToken)
	}
	if envelope.Data.User == nil || envelope.Data.User.Email != "minji@example.com" {
		t.Fatalf("expected user in response, got %+v", envelope.Data.User)
	}
}

func TestAuthLoginRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	AuthLogin(&stubLoginService{}, testLogger())(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthLoginBadCredentials(t *testing.T) {
	svc := &stubLoginService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}

	body := `{"email":"minji@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	AuthLogin(svc, testLogger())(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
