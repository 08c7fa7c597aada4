package collector

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/stageshow/internal/signup"
	"github.com/san-kum/stageshow/internal/storage"
)

func (s *Server) handlePing(c *gin.Context) {
	var req PingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{
			Status: "error",
			Error:  "invalid signup request: " + err.Error(),
		})
		return
	}

	number, err := signup.Normalize(req.Number)
	if err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{
			Status: "error",
			Error:  err.Error(),
		})
		return
	}

	sub, err := s.store.Save(storage.Submission{
		Number:    number,
		Source:    c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ApiResponse{
			Status: "error",
			Error:  "could not store submission: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, ApiResponse{
		Status:  "success",
		Message: "see you tomorrow",
		Data:    PingResponse{ID: sub.ID},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	subs, err := s.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ApiResponse{
			Status: "error",
			Error:  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data: HealthResponse{
			Version:     s.version,
			Uptime:      time.Since(s.startTime),
			Submissions: len(subs),
		},
	})
}

func (s *Server) handleListSubmissions(c *gin.Context) {
	subs, err := s.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ApiResponse{
			Status: "error",
			Error:  err.Error(),
		})
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		if err := storage.WriteCSV(c.Writer, subs); err != nil {
			c.Error(err)
		}
		return
	}

	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data: SubmissionsResponse{
			Total:       len(subs),
			Submissions: subs,
		},
	})
}

func (s *Server) handleGetSubmission(c *gin.Context) {
	sub, err := s.store.Load(c.Param("id"))
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, storage.ErrNotFound) {
			code = http.StatusNotFound
		}
		c.JSON(code, ApiResponse{
			Status: "error",
			Error:  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   sub,
	})
}

// handlePurge deletes submissions older than ?before= (RFC 3339), or all
// of them when before is omitted.
func (s *Server) handlePurge(c *gin.Context) {
	var before time.Time
	if v := c.Query("before"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ApiResponse{
				Status: "error",
				Error:  "invalid before: " + err.Error(),
			})
			return
		}
		before = t
	}

	n, err := s.store.Purge(before)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ApiResponse{
			Status: "error",
			Error:  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, ApiResponse{
		Status:  "success",
		Message: "purged",
		Data:    PurgeResponse{Purged: n},
	})
}
