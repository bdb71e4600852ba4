// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"auth_backend/internal/api"
	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/usecase"
)

// Response texts returned to clients.
const (
	messageRegistered = "User registered successfully"
	messageLoggedIn   = "Login successful"

	detailInvalidCredentials = "Invalid credentials"
	detailUsernameTaken      = "Username already registered"
	detailInvalidRequest     = "invalid request"
	detailInternalError      = "internal server error"
)

// AuthUsecase defines the operations the handler needs.
// The interface is declared by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	Register(ctx context.Context, username, password string) (*entity.User, error)
	Login(ctx context.Context, username, password string) error
}

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	auth AuthUsecase
	log  logrus.FieldLogger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth AuthUsecase, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// Register handles POST /register.
//   - malformed body, missing field or username over 255 characters: 422
//   - empty strings are accepted
//   - username taken: 409
//   - storage failure: 500
//   - success: 201
func (h *AuthHandler) Register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.WithError(err).WithField("remote_addr", c.ClientIP()).Warn("register validation failed")
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Detail: detailInvalidRequest})
		return
	}
	username, password := *req.Username, *req.Password

	user, err := h.auth.Register(c.Request.Context(), username, password)
	if err != nil {
		fields := logrus.Fields{"username": username, "remote_addr": c.ClientIP()}
		if errors.Is(err, usecase.ErrUserAlreadyExists) {
			h.log.WithFields(fields).Info("register rejected: username taken")
			c.JSON(http.StatusConflict, api.ErrorResponse{Detail: detailUsernameTaken})
			return
		}
		h.log.WithError(err).WithFields(fields).Error("register failed")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: detailInternalError})
		return
	}

	h.log.WithFields(logrus.Fields{"username": user.Username, "remote_addr": c.ClientIP()}).Info("user registered")
	c.JSON(http.StatusCreated, api.UserResponse{Username: user.Username, Message: messageRegistered})
}

// Login handles POST /login.
// Unknown usernames and wrong passwords get the same 400 body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.WithError(err).WithField("remote_addr", c.ClientIP()).Warn("login validation failed")
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Detail: detailInvalidRequest})
		return
	}
	username, password := *req.Username, *req.Password

	fields := logrus.Fields{"username": username, "remote_addr": c.ClientIP()}
	if err := h.auth.Login(c.Request.Context(), username, password); err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			h.log.WithFields(fields).Info("login rejected")
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: detailInvalidCredentials})
			return
		}
		h.log.WithError(err).WithFields(fields).Error("login failed")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: detailInternalError})
		return
	}

	h.log.WithFields(fields).Info("user login successful")
	c.JSON(http.StatusOK, api.UserResponse{Username: username, Message: messageLoggedIn})
}
