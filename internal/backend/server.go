// Package backend is a development REST backend for the console. It serves
// the same wire contract as the production backend: enveloped users, bare
// transaction arrays, and the two 422 error shapes.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"admin-console/internal/auth"
	"admin-console/internal/models"
	"admin-console/internal/storage"

	"github.com/gin-gonic/gin"
)

// Store is the persistence the backend needs. *storage.DB implements it.
type Store interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*models.Account, error)
	GetUserByID(ctx context.Context, id int64) (*models.Account, error)
	GetUserByEmail(ctx context.Context, email string) (*models.Account, error)
	ListUsers(ctx context.Context) ([]models.Account, error)
	UpdateUser(ctx context.Context, a *models.Account) error
	DeleteUser(ctx context.Context, id int64) error

	CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
}

const accountKey = "account"

// Server serves the backend API.
type Server struct {
	store  Store
	tokens *TokenManager
	logger *slog.Logger
}

// NewServer creates a Server.
func NewServer(store Store, tokens *TokenManager, logger *slog.Logger) *Server {
	return &Server{store: store, tokens: tokens, logger: logger}
}

// Router returns the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.POST("/login", s.login)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/", s.requireToken())
	{
		api.GET("/me", s.me)

		api.GET("/users", s.listUsers)
		api.POST("/users", s.createUser)
		api.PUT("/users/:id", s.updateUser)
		api.DELETE("/users/:id", s.deleteUser)

		api.GET("/transactions", s.listTransactions)
		api.POST("/transactions", s.createTransaction)
		api.PUT("/transactions/:id", s.updateTransaction)
		api.DELETE("/transactions/:id", s.deleteTransaction)
	}
	return r
}

// Seed creates the admin account unless one with that email exists.
func (s *Server) Seed(ctx context.Context, name, email, password string) error {
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	a, err := s.store.CreateUser(ctx, name, email, hash)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info("seeded admin user", "id", a.ID, "email", a.Email)
	return nil
}

func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" {
			respondError(c, http.StatusUnauthorized, "Unauthenticated.")
			c.Abort()
			return
		}

		id, err := s.tokens.Verify(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Unauthenticated.")
			c.Abort()
			return
		}

		a, err := s.store.GetUserByID(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				s.logger.Error("failed to load token owner", "id", id, "error", err)
			}
			respondError(c, http.StatusUnauthorized, "Unauthenticated.")
			c.Abort()
			return
		}

		c.Set(accountKey, a)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		s.logger.LogAttrs(c.Request.Context(), level, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// pathID parses the :id parameter. A malformed id can never match a row.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

func profile(a *models.Account) models.User {
	return models.User{
		ID:    models.ID(strconv.FormatInt(a.ID, 10)),
		Name:  a.Name,
		Email: a.Email,
	}
}
