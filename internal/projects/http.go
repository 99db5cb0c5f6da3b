package projects

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filmcut/filmcut-backend/internal/auth"
)

type Handler struct {
	repo    *Repo
	summary *SummaryCache
}

// Register attaches project routes to the given router group. The group is
// expected to carry auth.RequireSession.
func Register(rg *gin.RouterGroup, repo *Repo, summary *SummaryCache) {
	h := &Handler{repo: repo, summary: summary}

	rg.GET("", h.list)
	rg.GET("/summary", h.userSummary)
	rg.POST("/save", h.save)
	rg.GET("/:id", h.get)
	rg.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	userID := auth.UserID(c)
	term := c.Query("search")

	recs, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load projects"})
		return
	}

	entries := RenderList(recs, term)

	resp := gin.H{"success": true, "projects": entries}
	if msg := EmptyMessage(len(recs), len(entries), term); msg != "" {
		resp["message"] = msg
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) save(c *gin.Context) {
	userID := auth.UserID(c)

	var in SaveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	norm, err := NormalizeSave(in)
	if err != nil {
		if errors.Is(err, ErrNameRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "project name required"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid project data"})
		return
	}

	// malformed ids behave like unknown ones, no storage round-trip needed
	if in.ID != "" && !in.SaveAndNew && uuid.Validate(in.ID) != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "project not found"})
		return
	}

	targetID, create := in.ID, in.ID == ""
	if in.SaveAndNew {
		targetID, create = "", true
	} else if in.ID == "" {
		// No current project id: scan this user's projects for a matching
		// dedup key and update that record instead of creating a duplicate.
		existing, err := h.repo.ListByUser(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "save failed"})
			return
		}
		targetID, create = ResolveSaveTarget(in, norm.DedupKey, existing)
	}

	var (
		p      *Project
		status = "updated"
	)
	if create {
		p, err = h.repo.Create(c.Request.Context(), userID, norm)
		status = "created"
	} else {
		p, err = h.repo.Update(c.Request.Context(), userID, targetID, norm)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "save failed"})
		return
	}

	h.summary.ScheduleRefresh(userID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "saved", "id": p.ID, "status": status})
}

func (h *Handler) get(c *gin.Context) {
	userID := auth.UserID(c)
	id := c.Param("id")
	if uuid.Validate(id) != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "project not found"})
		return
	}

	p, err := h.repo.Get(c.Request.Context(), userID, id)
	if err != nil {
		// Missing and not-owned are the same answer so ids can't be probed.
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load project"})
		return
	}

	payload, err := ParsePayload(p.Payload)
	if err != nil {
		payload = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": gin.H{
			"id":          p.ID,
			"name":        p.Name,
			"description": p.Description,
			"data":        rawPayload(p.Payload),
			"stats":       ExtractStats(payload),
			"created_at":  p.CreatedAt,
			"updated_at":  p.UpdatedAt,
		},
	})
}

func (h *Handler) delete(c *gin.Context) {
	userID := auth.UserID(c)
	id := c.Param("id")
	if uuid.Validate(id) != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "project not found"})
		return
	}

	ok, err := h.repo.SoftDelete(c.Request.Context(), userID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "project not found"})
		return
	}

	h.summary.ScheduleRefresh(userID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "deleted"})
}

func rawPayload(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(b)
}

func (h *Handler) userSummary(c *gin.Context) {
	userID := auth.UserID(c)

	s, err := h.summary.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "summary": s})
}
