package httpapi

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campusfaq/internal/corpus"
	"campusfaq/internal/domain"
	"campusfaq/internal/engine"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// minimum upload size, mirroring the boundary rule of the original service.
const minUploadChars = 50

// Server is the HTTP boundary over the RAG engine. It owns no state of its
// own: every handler is a thin translation between HTTP and engine calls.
type Server struct {
	engine *engine.Engine
	router *gin.Engine
}

// New creates a server and registers its routes.
func New(e *engine.Engine) *Server {
	s := &Server{engine: e, router: gin.Default()}

	s.router.GET("/health", s.health)
	s.router.GET("/default-session", s.defaultSession)
	s.router.GET("/sessions", s.listSessions)
	s.router.DELETE("/sessions/:id", s.deleteSession)
	s.router.POST("/upload/text", s.uploadText)
	s.router.POST("/upload/file", s.uploadFile)
	s.router.POST("/ask", s.ask)

	return s
}

// Router exposes the underlying router, primarily for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("FAQ service listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "operational",
		"active_sessions": s.engine.Registry().Len(),
		"version":         Version,
	})
}

func (s *Server) defaultSession(c *gin.Context) {
	sess, ok := s.engine.Registry().Get(corpus.DefaultSessionID)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Default session not ready yet."})
		return
	}
	c.JSON(http.StatusOK, sess.Info())
}

func (s *Server) listSessions(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Registry().List())
}

func (s *Server) deleteSession(c *gin.Context) {
	id := c.Param("id")
	if !s.engine.Registry().Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found."})
		return
	}
	log.Printf("Session %s deleted", id)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type uploadRequest struct {
	Content string `json:"content" binding:"required"`
	Source  string `json:"source"`
}

func (s *Server) uploadText(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request."})
		return
	}

	source := req.Source
	if source == "" {
		source = "pasted_text"
	}
	s.ingestContent(c, req.Content, source)
}

// text-file content types accepted by /upload/file. An absent content type
// is allowed; anything else is rejected.
var allowedFileTypes = map[string]bool{
	"text/plain":               true,
	"text/csv":                 true,
	"text/markdown":            true,
	"application/octet-stream": true,
}

func (s *Server) uploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: file field is required."})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if base, _, ok := strings.Cut(contentType, ";"); ok {
		contentType = strings.TrimSpace(base)
	}
	if contentType != "" && !allowedFileTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported file type: %s", contentType)})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file."})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file."})
		return
	}
	if !utf8.Valid(data) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File must be UTF-8 encoded text."})
		return
	}

	source := header.Filename
	if source == "" {
		source = "uploaded_file"
	}
	s.ingestContent(c, string(data), source)
}

// ingestContent is the shared tail of the upload handlers: length check,
// session creation and indexing.
func (s *Server) ingestContent(c *gin.Context, content, source string) {
	if len(strings.TrimSpace(content)) < minUploadChars {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content too short. Provide at least 50 characters."})
		return
	}

	sessionID := newSessionID()

	result, err := s.engine.Ingest(sessionID, content, source)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidChunkConfig) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Ingest failed for session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to index content."})
		return
	}

	log.Printf("Session %s created: %d chunks, %.1f%% compression in %.0fms",
		sessionID, result.ChunkCount, result.CompressionRatio*100, result.ProcessingTimeMs)
	c.JSON(http.StatusOK, result)
}

type askRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Question  string `json:"question" binding:"required,min=3,max=500"`
}

type askResponse struct {
	Question string `json:"question"`
	domain.AnswerResult
}

func (s *Server) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question must be between 3 and 500 characters."})
		return
	}

	result, err := s.engine.Query(req.SessionID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found."})
		case errors.Is(err, domain.ErrEmptyQuestion):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Question is empty."})
		default:
			log.Printf("Query failed for session %s: %v", req.SessionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to answer question."})
		}
		return
	}

	c.JSON(http.StatusOK, askResponse{Question: req.Question, AnswerResult: result})
}

// newSessionID generates a short opaque session identifier.
func newSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
