package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
)

// handleProfileUsage is the self-describing GET form of /api/profile.
func (s *Server) handleProfileUsage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"endpoint": "/api/profile",
		"method":   "POST",
		"body": gin.H{
			"csv":     "string, required — delimited text, header row first",
			"options": "object, optional — see defaults",
		},
		"defaults": gin.H{
			"delimiter":      ",",
			"skipEmptyLines": true,
			"enableSampling": true,
			"sampleSize":     5000,
			"fullAnalysis":   false,
			"useCache":       true,
			"alignRows":      false,
		},
		"limits": gin.H{
			"maxBodyBytes": s.config.Limits.MaxBodyBytes,
			"rateLimit":    s.config.Limits.RateLimitMax,
			"rateWindow":   s.config.Limits.RateLimitWindow.String(),
		},
		"requestId": requestIDFrom(c),
	})
}

const apiGuide = `# ProfilanIQ API

Server-side tabular-data profiling: per-column statistics, pairwise Pearson
correlations, and derived insights over CSV input.

## POST /api/profile

Body: ` + "`{\"csv\": \"a,b\\n1,2\\n\", \"options\": {...}}`" + `

Options (all optional):

| Field | Default | Meaning |
|---|---|---|
| delimiter | , | field separator, one character |
| skipEmptyLines | true | drop blank lines before parsing |
| enableSampling | true | reduce inputs larger than sampleSize |
| sampleSize | 5000 | row budget before sampling kicks in |
| fullAnalysis | false | force profiling of every row |
| useCache | true | serve identical content from the result cache |
| alignRows | false | row-aligned correlation pairing |

Returns the summary, per-column statistics, correlation partitions
(all/strong/moderate/weak/positive/negative) and severity-sorted insights.

## POST /api/compare

Body: ` + "`{\"dataset1\": [...], \"dataset2\": [...], \"options\": {...}}`" + `
where each dataset is an array of records. Returns the structured diff:
column partition, per-column deltas, correlation changes and insights.

## GET /api/health

Liveness, uptime, version and memory counters.
`

// handleDocs renders the API guide from Markdown.
func (s *Server) handleDocs(c *gin.Context) {
	html := markdown.ToHTML([]byte(apiGuide), nil, nil)
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}
