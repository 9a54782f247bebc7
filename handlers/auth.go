package handlers

import (
	"errors"
	"net/http"
	"time"

	userRepo "github.com/jabezgenics-alt/ezzo-sales/database/repository/user"
	"github.com/jabezgenics-alt/ezzo-sales/middleware"
	"github.com/jabezgenics-alt/ezzo-sales/models"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// Register creates a customer account. Admin accounts are provisioned out
// of band.
func (h *HandlerBundle) Register(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		FullName string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to hash password", err.Error())
		return
	}

	now := time.Now()
	user := &models.User{
		ID:             uuid.New().String(),
		Email:          input.Email,
		HashedPassword: string(hashed),
		FullName:       input.FullName,
		Role:           models.RoleCustomer,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.UserRepo.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, userRepo.ErrDuplicateEmail) {
			utils.JSONError(c, http.StatusConflict, "email already registered", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to create account", err.Error())
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login verifies credentials and issues a JWT whose hash is pinned to the
// account.
func (h *HandlerBundle) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	user, err := h.UserRepo.GetByEmail(c.Request.Context(), input.Email)
	if err != nil || !user.IsActive {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials", "")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials", "")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, string(user.Role), tokenLifetime)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}

	user.TokenHash = utils.HashToken(token)
	user.UpdatedAt = time.Now()
	if err := h.UserRepo.Update(c.Request.Context(), user); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to persist session", err.Error())
		return
	}
	middleware.InvalidateAuthCache(c.Request.Context(), user.ID)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout clears the pinned token hash so the current JWT stops working.
func (h *HandlerBundle) Logout(c *gin.Context) {
	userID := c.GetString("userID")
	user, err := h.UserRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "account not found", "")
		return
	}
	user.TokenHash = ""
	user.UpdatedAt = time.Now()
	if err := h.UserRepo.Update(c.Request.Context(), user); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to revoke session", err.Error())
		return
	}
	middleware.InvalidateAuthCache(c.Request.Context(), user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
