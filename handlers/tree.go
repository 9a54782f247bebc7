package handlers

import (
	"errors"
	"net/http"
	"time"

	treeRepo "github.com/jabezgenics-alt/ezzo-sales/database/repository/tree"
	"github.com/jabezgenics-alt/ezzo-sales/models"
	"github.com/jabezgenics-alt/ezzo-sales/services/engine"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateTree stores a new decision tree after structural validation, so a
// broken tree is rejected here instead of failing mid-conversation.
func (h *HandlerBundle) CreateTree(c *gin.Context) {
	var tree models.DecisionTree
	if err := c.ShouldBindJSON(&tree); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := engine.ValidateTree(&tree); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid decision tree", err.Error())
		return
	}

	now := time.Now()
	if tree.ID == "" {
		tree.ID = uuid.New().String()
	}
	tree.CreatedBy = c.GetString("userID")
	tree.CreatedAt = now
	tree.UpdatedAt = now

	if err := h.TreeRepo.Create(c.Request.Context(), &tree); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create decision tree", err.Error())
		return
	}
	c.JSON(http.StatusCreated, tree)
}

// ListTrees returns all decision trees.
func (h *HandlerBundle) ListTrees(c *gin.Context) {
	trees, err := h.TreeRepo.List(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list decision trees", err.Error())
		return
	}
	c.JSON(http.StatusOK, trees)
}

// GetTree returns one decision tree.
func (h *HandlerBundle) GetTree(c *gin.Context) {
	tree, err := h.TreeRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, treeRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "decision tree not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch decision tree", err.Error())
		return
	}
	c.JSON(http.StatusOK, tree)
}

// UpdateTree replaces a decision tree, re-running structural validation.
func (h *HandlerBundle) UpdateTree(c *gin.Context) {
	var tree models.DecisionTree
	if err := c.ShouldBindJSON(&tree); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	tree.ID = c.Param("id")

	if err := engine.ValidateTree(&tree); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid decision tree", err.Error())
		return
	}
	tree.UpdatedAt = time.Now()

	if err := h.TreeRepo.Update(c.Request.Context(), &tree); err != nil {
		if errors.Is(err, treeRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "decision tree not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to update decision tree", err.Error())
		return
	}
	c.JSON(http.StatusOK, tree)
}

// DeleteTree removes a decision tree.
func (h *HandlerBundle) DeleteTree(c *gin.Context) {
	if err := h.TreeRepo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, treeRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "decision tree not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete decision tree", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "decision tree deleted"})
}
