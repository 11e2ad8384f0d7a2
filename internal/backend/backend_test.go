package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admin-console/internal/logging"
	"admin-console/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "secret123"
)

type BackendTestSuite struct {
	suite.Suite
	db     *storage.DB
	router *gin.Engine
	token  string
}

func (s *BackendTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := storage.NewDB(":memory:")
	s.Require().NoError(err)
	s.db = db

	srv := NewServer(db, NewTokenManager("test-secret-0123456789", time.Hour), logging.Discard())
	s.Require().NoError(srv.Seed(context.Background(), "Admin", adminEmail, adminPassword))
	s.router = srv.Router()

	w := s.request(http.MethodPost, "/login", "", map[string]any{"email": adminEmail, "password": adminPassword})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.token = resp.Data.Token
}

func (s *BackendTestSuite) TearDownTest() {
	s.db.Close()
}

func TestBackendSuite(t *testing.T) {
	suite.Run(t, new(BackendTestSuite))
}

func (s *BackendTestSuite) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *BackendTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *BackendTestSuite) TestSeedIsIdempotent() {
	srv := NewServer(s.db, NewTokenManager("test-secret-0123456789", time.Hour), logging.Discard())
	s.NoError(srv.Seed(context.Background(), "Admin", adminEmail, "other"))

	users, err := s.db.ListUsers(context.Background())
	s.Require().NoError(err)
	s.Len(users, 1)
}

func (s *BackendTestSuite) TestLogin_ReturnsTokenAndUser() {
	w := s.request(http.MethodPost, "/login", "", map[string]any{"email": adminEmail, "password": adminPassword})
	s.Equal(http.StatusOK, w.Code)

	data := s.decode(w)["data"].(map[string]any)
	s.NotEmpty(data["token"])
	user := data["user"].(map[string]any)
	s.Equal("Admin", user["name"])
	s.Equal(adminEmail, user["email"])
}

func (s *BackendTestSuite) TestLogin_WrongPassword() {
	w := s.request(http.MethodPost, "/login", "", map[string]any{"email": adminEmail, "password": "nope"})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid email or password", s.decode(w)["message"])

	w = s.request(http.MethodPost, "/login", "", map[string]any{"email": "ghost@example.com", "password": "nope"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *BackendTestSuite) TestLogin_MissingFields() {
	w := s.request(http.MethodPost, "/login", "", map[string]any{"email": adminEmail})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("Password is required", s.decode(w)["message"])
}

func (s *BackendTestSuite) TestAuth_RequiresBearer() {
	for _, token := range []string{"", "garbage"} {
		w := s.request(http.MethodGet, "/users", token, nil)
		s.Equal(http.StatusUnauthorized, w.Code)
		s.Equal("Unauthenticated.", s.decode(w)["message"])
	}
}

func (s *BackendTestSuite) TestAuth_DeletedOwnerIsRejected() {
	me := s.decode(s.request(http.MethodGet, "/me", s.token, nil))["data"].(map[string]any)
	w := s.request(http.MethodDelete, "/users/"+jsonID(me["id"]), s.token, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.request(http.MethodGet, "/me", s.token, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *BackendTestSuite) TestMe() {
	w := s.request(http.MethodGet, "/me", s.token, nil)
	s.Equal(http.StatusOK, w.Code)
	data := s.decode(w)["data"].(map[string]any)
	s.Equal("Admin", data["name"])
}

func (s *BackendTestSuite) TestUsers_ListIsEnveloped() {
	w := s.request(http.MethodGet, "/users", s.token, nil)
	s.Equal(http.StatusOK, w.Code)
	data := s.decode(w)["data"].([]any)
	s.Len(data, 1)
	s.NotContains(w.Body.String(), "password")
}

func (s *BackendTestSuite) TestUsers_CreateValidation() {
	w := s.request(http.MethodPost, "/users", s.token, map[string]any{"name": "", "email": adminEmail, "password": "123"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	msgs := s.decode(w)["data"].([]any)
	s.Equal([]any{
		"Name is required",
		"Password must be at least 6 characters",
		MsgEmailTaken,
	}, msgs)
}

func (s *BackendTestSuite) TestUsers_CRUD() {
	w := s.request(http.MethodPost, "/users", s.token, map[string]any{"name": "Rina", "email": "rina@example.com", "password": "secret1"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	created := s.decode(w)["data"].(map[string]any)
	id := jsonID(created["id"])

	// Blank password keeps the old one.
	w = s.request(http.MethodPut, "/users/"+id, s.token, map[string]any{"name": "Rina S", "email": "rina@example.com", "password": ""})
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	w = s.request(http.MethodPost, "/login", "", map[string]any{"email": "rina@example.com", "password": "secret1"})
	s.Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodPut, "/users/"+id, s.token, map[string]any{"name": "Rina S", "email": adminEmail})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal([]any{MsgEmailTaken}, s.decode(w)["data"])

	w = s.request(http.MethodDelete, "/users/"+id, s.token, nil)
	s.Equal(http.StatusNoContent, w.Code)
	s.Empty(w.Body.String())

	w = s.request(http.MethodDelete, "/users/"+id, s.token, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("User not found", s.decode(w)["message"])
}

func (s *BackendTestSuite) TestUsers_UpdateUnknown() {
	w := s.request(http.MethodPut, "/users/999", s.token, map[string]any{"name": "X", "email": "x@example.com"})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request(http.MethodPut, "/users/abc", s.token, map[string]any{"name": "X", "email": "x@example.com"})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *BackendTestSuite) TestTransactions_ListIsBareArray() {
	w := s.request(http.MethodGet, "/transactions", s.token, nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *BackendTestSuite) TestTransactions_CreateComputesTotal() {
	w := s.request(http.MethodPost, "/transactions", s.token, map[string]any{
		"date": "2024-03-05", "amount": 200000, "discount": 10, "note": "lunch",
		"total": 1,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	created := s.decode(w)
	s.InDelta(180000, created["total"], 0.001)

	w = s.request(http.MethodGet, "/transactions", s.token, nil)
	var list []map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	s.Require().Len(list, 1)
	s.Equal("lunch", list[0]["note"])
}

func (s *BackendTestSuite) TestTransactions_ValidationUsesErrorsMap() {
	w := s.request(http.MethodPost, "/transactions", s.token, map[string]any{
		"date": "05/03/2024", "amount": -1, "discount": 150,
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	errs := s.decode(w)["errors"].(map[string]any)
	s.Equal([]any{"Date must be a date in YYYY-MM-DD format"}, errs["date"])
	s.Equal([]any{"Amount must be at least 0"}, errs["amount"])
	s.Equal([]any{"Discount may not be greater than 100"}, errs["discount"])
}

func (s *BackendTestSuite) TestTransactions_MissingNumbers() {
	w := s.request(http.MethodPost, "/transactions", s.token, map[string]any{"date": "2024-03-05"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	errs := s.decode(w)["errors"].(map[string]any)
	s.Contains(errs, "amount")
	s.Contains(errs, "discount")
}

func (s *BackendTestSuite) TestTransactions_UpdateAndDelete() {
	w := s.request(http.MethodPost, "/transactions", s.token, map[string]any{"date": "2024-03-05", "amount": 1000, "discount": 0})
	s.Require().Equal(http.StatusCreated, w.Code)
	id := jsonID(s.decode(w)["id"])

	w = s.request(http.MethodPut, "/transactions/"+id, s.token, map[string]any{"date": "2024-03-06", "amount": 1000, "discount": 50, "note": "half"})
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	s.InDelta(500, s.decode(w)["total"], 0.001)

	w = s.request(http.MethodPut, "/transactions/999", s.token, map[string]any{"date": "2024-03-06", "amount": 1, "discount": 0})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request(http.MethodDelete, "/transactions/"+id, s.token, nil)
	s.Equal(http.StatusNoContent, w.Code)
	w = s.request(http.MethodDelete, "/transactions/"+id, s.token, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Transaction not found", s.decode(w)["message"])
}

func (s *BackendTestSuite) TestMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusBadRequest, w.Code)
}

func jsonID(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestTokenManager(t *testing.T) {
	m := NewTokenManager("test-secret-0123456789", time.Hour)

	token, err := m.Issue(42)
	require.NoError(t, err)

	id, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	other := NewTokenManager("another-secret-0123456789", time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expiry(t *testing.T) {
	m := NewTokenManager("test-secret-0123456789", time.Minute)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	token, err := m.Issue(1)
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestErrorMessage_Labels(t *testing.T) {
	errs := validateRequest(createUserRequest{Email: "not-an-email"})
	require.Len(t, errs, 3)
	assert.Equal(t, fieldError{Field: "name", Message: "Name is required"}, errs[0])
	assert.Equal(t, fieldError{Field: "email", Message: "Email must be a valid email address"}, errs[1])
	assert.Equal(t, fieldError{Field: "password", Message: "Password is required"}, errs[2])
}
