// Package api exposes pattern detection over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"PatternSentinel/internal/scanner"
)

const defaultPattern = "cup_and_handle"

// Handler serves the pattern-detection HTTP API.
type Handler struct {
	router   *gin.Engine
	scanner  *scanner.Scanner
	symbols  map[string]bool
	ordered  []string
	daysBack int
	log      zerolog.Logger
}

// NewHandler creates the API handler for the given tracked symbols.
// daysBack is the analysis window passed to the scanner.
func NewHandler(sc *scanner.Scanner, symbols []string, daysBack int, log zerolog.Logger) *Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:   router,
		scanner:  sc,
		symbols:  make(map[string]bool, len(symbols)),
		ordered:  symbols,
		daysBack: daysBack,
		log:      log,
	}
	for _, s := range symbols {
		h.symbols[s] = true
	}
	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.health)
	h.router.GET("/symbols", h.listSymbols)
	h.router.GET("/pattern/:symbol", h.checkPattern)
	h.router.GET("/api/pattern", h.checkPatternQuery)
	h.router.GET("/patterns/:symbol", h.checkAllPatterns)
	h.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listSymbols(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"symbols": h.ordered})
}

// checkPattern reports whether a pattern exists for the symbol. The pattern
// type defaults to cup_and_handle and can be overridden with ?type=;
// ?details=true adds the descriptive metadata record.
func (h *Handler) checkPattern(c *gin.Context) {
	symbol := c.Param("symbol")
	h.detectAndRespond(c, symbol)
}

// checkPatternQuery is the query-parameter variant of checkPattern.
func (h *Handler) checkPatternQuery(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		h.log.Warn().Msg("symbol parameter missing in request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Symbol parameter is required"})
		return
	}
	h.detectAndRespond(c, strings.ToUpper(symbol))
}

func (h *Handler) detectAndRespond(c *gin.Context, symbol string) {
	h.log.Info().Str("symbol", symbol).Msg("pattern check requested")

	if !h.symbols[symbol] {
		h.log.Warn().Str("symbol", symbol).Msg("invalid symbol requested")
		c.JSON(http.StatusNotFound, gin.H{"error": "Symbol not supported"})
		return
	}

	patternType := c.DefaultQuery("type", defaultPattern)
	detected := h.scanner.Detect(symbol, patternType, h.daysBack)

	resp := gin.H{"pattern_detected": detected}
	if c.Query("details") == "true" {
		details, err := h.scanner.Describe(patternType)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		resp["details"] = details
	}
	c.JSON(http.StatusOK, resp)
}

// checkAllPatterns runs every registered detector for the symbol.
func (h *Handler) checkAllPatterns(c *gin.Context) {
	symbol := c.Param("symbol")
	h.log.Info().Str("symbol", symbol).Msg("all-patterns check requested")

	if !h.symbols[symbol] {
		c.JSON(http.StatusNotFound, gin.H{"error": "Symbol not supported"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"patterns": h.scanner.DetectAll(symbol, h.daysBack)})
}
