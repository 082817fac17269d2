package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ptengelmann/ProfilanIQ/app"
	"github.com/ptengelmann/ProfilanIQ/internal/errors"
)

// optionsPayload carries the caller's option overrides. Pointers
// distinguish absent fields from explicit zero values.
type optionsPayload struct {
	Delimiter      *string `json:"delimiter"`
	SkipEmptyLines *bool   `json:"skipEmptyLines"`
	EnableSampling *bool   `json:"enableSampling"`
	SampleSize     *int    `json:"sampleSize"`
	FullAnalysis   *bool   `json:"fullAnalysis"`
	UseCache       *bool   `json:"useCache"`
	AlignRows      *bool   `json:"alignRows"`
	Seed           *int32  `json:"seed"`
}

func (p *optionsPayload) apply(opts app.Options) app.Options {
	if p == nil {
		return opts
	}
	if p.Delimiter != nil {
		opts.Delimiter = *p.Delimiter
	}
	if p.SkipEmptyLines != nil {
		opts.SkipEmptyLines = *p.SkipEmptyLines
	}
	if p.EnableSampling != nil {
		opts.EnableSampling = *p.EnableSampling
	}
	if p.SampleSize != nil {
		opts.SampleSize = *p.SampleSize
	}
	if p.FullAnalysis != nil {
		opts.FullAnalysis = *p.FullAnalysis
	}
	if p.UseCache != nil {
		opts.UseCache = *p.UseCache
	}
	if p.AlignRows != nil {
		opts.AlignRows = *p.AlignRows
	}
	if p.Seed != nil {
		opts.Seed = *p.Seed
	}
	return opts
}

type profileRequest struct {
	CSV     interface{}     `json:"csv"`
	Options *optionsPayload `json:"options"`
}

func (s *Server) handleProfile(c *gin.Context) {
	requestID := requestIDFrom(c)

	var body profileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "invalid request body",
			"details":   err.Error(),
			"requestId": requestID,
		})
		return
	}
	if body.CSV == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "csv field is required",
			"requestId": requestID,
		})
		return
	}
	csvText, ok := body.CSV.(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "csv must be a string",
			"requestId": requestID,
		})
		return
	}

	opts := body.Options.apply(app.DefaultOptions())
	result, err := s.profiles.ProfileCSV(c.Request.Context(), csvText, opts)
	if err != nil {
		s.writeServiceError(c, err, requestID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"requestId": requestID,
		"fromCache": result.FromCache,
		"data": gin.H{
			"summary":      result.Report.Summary,
			"columns":      result.Report.Columns,
			"correlations": result.Report.Correlations,
			"insights":     result.Report.Insights,
			"metadata": gin.H{
				"sampling":    result.Sampling,
				"parseErrors": result.ParseErrors,
				"stored":      result.Stored,
			},
		},
	})
}

type compareRequest struct {
	Dataset1 []map[string]interface{} `json:"dataset1"`
	Dataset2 []map[string]interface{} `json:"dataset2"`
	Options  *optionsPayload          `json:"options"`
}

func (s *Server) handleCompare(c *gin.Context) {
	requestID := requestIDFrom(c)

	var body compareRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "invalid request body",
			"details":   err.Error(),
			"requestId": requestID,
		})
		return
	}

	opts := body.Options.apply(app.DefaultOptions())
	result, err := s.compares.CompareRecords(c.Request.Context(), body.Dataset1, body.Dataset2, opts)
	if err != nil {
		s.writeServiceError(c, err, requestID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"requestId": requestID,
		"data": gin.H{
			"comparison": result.Comparison,
			"profiles": gin.H{
				"dataset1": result.Profile1.Summary,
				"dataset2": result.Profile2.Summary,
			},
			"elapsedMs": result.ElapsedMs,
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
		"version":        Version,
		"environment":    s.config.Server.Environment,
		"memory": gin.H{
			"alloc_mb":       mem.Alloc / 1024 / 1024,
			"total_alloc_mb": mem.TotalAlloc / 1024 / 1024,
			"sys_mb":         mem.Sys / 1024 / 1024,
			"num_gc":         mem.NumGC,
		},
		"requestId": requestIDFrom(c),
	})
}

// writeServiceError maps service errors onto the HTTP contract: validation
// and parse failures are 400s, timeouts and everything else are 500s.
func (s *Server) writeServiceError(c *gin.Context, err error, requestID string) {
	switch errors.GetCode(err) {
	case errors.CodeValidationError, errors.CodeParseError:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestId": requestID,
		})
	case errors.CodeTimeoutError:
		s.logger.Warn("request %s timed out: %v", requestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "analysis timed out",
			"requestId": requestID,
		})
	default:
		s.logger.Error("request %s failed: %v", requestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "internal error",
			"requestId": requestID,
		})
	}
}
