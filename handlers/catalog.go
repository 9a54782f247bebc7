package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	chunkRepo "github.com/jabezgenics-alt/ezzo-sales/database/repository/chunk"
	"github.com/jabezgenics-alt/ezzo-sales/models"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateChunk adds one priced record to the catalog.
func (h *HandlerBundle) CreateChunk(c *gin.Context) {
	var chunk models.KnowledgeChunk
	if err := c.ShouldBindJSON(&chunk); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if chunk.Content == "" || chunk.BasePrice <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid chunk", "content and a positive base_price are required")
		return
	}

	if chunk.ID == "" {
		chunk.ID = uuid.New().String()
	}
	chunk.CreatedAt = time.Now()

	if err := h.ChunkRepo.Create(c.Request.Context(), &chunk); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create chunk", err.Error())
		return
	}
	c.JSON(http.StatusCreated, chunk)
}

// ListChunks pages through the catalog, or runs a text search when q is
// given.
func (h *HandlerBundle) ListChunks(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
		chunks, err := h.ChunkRepo.Search(c.Request.Context(), q, limit)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "catalog search failed", err.Error())
			return
		}
		c.JSON(http.StatusOK, chunks)
		return
	}

	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	chunks, err := h.ChunkRepo.List(c.Request.Context(), skip, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list chunks", err.Error())
		return
	}
	c.JSON(http.StatusOK, chunks)
}

// GetChunk returns one catalog record.
func (h *HandlerBundle) GetChunk(c *gin.Context) {
	chunk, err := h.ChunkRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, chunkRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "chunk not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch chunk", err.Error())
		return
	}
	c.JSON(http.StatusOK, chunk)
}

// DeleteChunk removes a catalog record.
func (h *HandlerBundle) DeleteChunk(c *gin.Context) {
	if err := h.ChunkRepo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, chunkRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "chunk not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete chunk", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "chunk deleted"})
}
