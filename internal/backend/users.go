package backend

import (
	"errors"
	"net/http"
	"strings"

	"admin-console/internal/auth"
	"admin-console/internal/models"
	"admin-console/internal/storage"

	"github.com/gin-gonic/gin"
)

// MsgEmailTaken is the validation message for a duplicate email.
const MsgEmailTaken = "Email already taken"

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type updateUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// respondUserValidation writes the flat {"data": [messages]} 422 body.
func respondUserValidation(c *gin.Context, messages []string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": "The given data was invalid.",
		"data":    messages,
	})
}

func messagesOf(errs []fieldError) []string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if errs := validateRequest(req); errs != nil {
		respondError(c, http.StatusUnprocessableEntity, errs[0].Message)
		return
	}

	a, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Error("failed to load user", "error", err)
		respondError(c, http.StatusInternalServerError, "Login failed")
		return
	}
	if a == nil || !auth.CheckPassword(req.Password, a.PasswordHash) {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.tokens.Issue(a.ID)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err)
		respondError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	user := profile(a)
	c.JSON(http.StatusOK, gin.H{"data": models.Session{Token: token, User: &user}})
}

func (s *Server) me(c *gin.Context) {
	a := c.MustGet(accountKey).(*models.Account)
	c.JSON(http.StatusOK, gin.H{"data": profile(a)})
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	msgs := messagesOf(validateRequest(req))
	if taken, err := s.emailTaken(c, req.Email, 0); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	} else if taken {
		msgs = append(msgs, MsgEmailTaken)
	}
	if len(msgs) > 0 {
		respondUserValidation(c, msgs)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}
	a, err := s.store.CreateUser(c.Request.Context(), req.Name, req.Email, hash)
	if err != nil {
		s.logger.Error("failed to create user", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": a})
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	ctx := c.Request.Context()
	a, err := s.store.GetUserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load user", "id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	msgs := messagesOf(validateRequest(req))
	if taken, err := s.emailTaken(c, req.Email, id); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	} else if taken {
		msgs = append(msgs, MsgEmailTaken)
	}
	if len(msgs) > 0 {
		respondUserValidation(c, msgs)
		return
	}

	a.Name = req.Name
	a.Email = req.Email
	a.PasswordHash = ""
	if req.Password != "" {
		if a.PasswordHash, err = auth.HashPassword(req.Password); err != nil {
			s.logger.Error("failed to hash password", "error", err)
			respondError(c, http.StatusInternalServerError, "Failed to update user")
			return
		}
	}
	if err := s.store.UpdateUser(ctx, a); err != nil {
		s.logger.Error("failed to update user", "id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": a})
}

func (s *Server) deleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	err := s.store.DeleteUser(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to delete user", "id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}

// emailTaken reports whether email belongs to an account other than exceptID.
func (s *Server) emailTaken(c *gin.Context, email string, exceptID int64) (bool, error) {
	if email == "" {
		return false, nil
	}
	a, err := s.store.GetUserByEmail(c.Request.Context(), email)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		s.logger.Error("failed to check email", "error", err)
		return false, err
	}
	return a.ID != exceptID, nil
}
