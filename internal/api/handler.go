package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veriplagio/veriplagio/internal/analysis"
	"github.com/veriplagio/veriplagio/internal/config"
	"github.com/veriplagio/veriplagio/internal/docgen"
	"github.com/veriplagio/veriplagio/internal/document"
	"github.com/veriplagio/veriplagio/internal/highlight"
	"github.com/veriplagio/veriplagio/internal/report"
	"github.com/veriplagio/veriplagio/internal/search"
	"github.com/veriplagio/veriplagio/internal/session"
	"github.com/veriplagio/veriplagio/pkg/docstore"
)

// Analyzer runs the plagiarism analysis prompt against the remote API.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (string, error)
}

// AIDetector classifies text as human or AI generated.
type AIDetector interface {
	Detect(ctx context.Context, text string) (*analysis.DetectionResult, error)
}

// Paraphraser rewrites text through the remote paraphrasing API.
type Paraphraser interface {
	Paraphrase(ctx context.Context, text string) (string, error)
}

// Searcher queries the web search API for organic results.
type Searcher interface {
	Search(ctx context.Context, query string, num int) ([]search.Organic, error)
}

// SourceConfirmer checks whether an excerpt occurs on a resolved page.
type SourceConfirmer interface {
	Confirm(ctx context.Context, link, excerpt string) bool
}

// Handler handles API requests
type Handler struct {
	cfg         *config.Config
	processor   *document.Processor
	analyzer    Analyzer
	detector    AIDetector
	paraphraser Paraphraser
	searcher    Searcher
	confirmer   SourceConfirmer
	parser      *report.Parser
	similarity  report.SimilaritySource
	docs        *docstore.Store
	sessions    *session.Manager
	logger      *log.Logger

	buildDoc func(runs []highlight.Run) ([]byte, error)
}

// NewHandler creates a new handler
func NewHandler(
	cfg *config.Config,
	processor *document.Processor,
	analyzer Analyzer,
	detector AIDetector,
	paraphraser Paraphraser,
	searcher Searcher,
	confirmer SourceConfirmer,
	parser *report.Parser,
	similarity report.SimilaritySource,
	docs *docstore.Store,
	sessions *session.Manager,
	logger *log.Logger,
) *Handler {
	return &Handler{
		cfg:         cfg,
		processor:   processor,
		analyzer:    analyzer,
		detector:    detector,
		paraphraser: paraphraser,
		searcher:    searcher,
		confirmer:   confirmer,
		parser:      parser,
		similarity:  similarity,
		docs:        docs,
		sessions:    sessions,
		logger:      logger,
		buildDoc:    docgen.Build,
	}
}

// HealthCheck provides a simple health check endpoint
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type spanView struct {
	Excerpt  string `json:"excerpt"`
	Source   string `json:"source"`
	Verified *bool  `json:"verified,omitempty"`
}

// CheckPlagiarism runs the full pipeline: extract text from the upload
// (or take the form text), send it for analysis, parse the findings,
// resolve sources, rebuild the highlighted document and store the
// generated DOCX for download.
func (h *Handler) CheckPlagiarism(c *gin.Context) {
	text := c.PostForm("text")

	if file, header, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()

		fileText, err := h.processor.ExtractFile(c.Request.Context(), file, header)
		if err != nil {
			if errors.Is(err, document.ErrFileTooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
				return
			}
			// Extraction failure means no text is available from the
			// file; the form text may still carry the submission.
			h.logger.Printf("Text extraction failed for %q: %v", header.Filename, err)
			fileText = ""
		}
		if text == "" {
			text = fileText
		}
	}

	if strings.TrimSpace(text) == "" {
		h.emptyReport(c, text)
		return
	}

	completion, err := h.analyzer.Analyze(c.Request.Context(), text)
	if err != nil {
		h.logger.Printf("Plagiarism analysis failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	display, spans := h.parser.Parse(c.Request.Context(), completion)

	excerpts := make([]string, len(spans))
	views := make([]spanView, len(spans))
	for i, span := range spans {
		excerpts[i] = span.Excerpt
		views[i] = spanView{Excerpt: span.Excerpt, Source: span.Source}
		if h.cfg.VerifySources {
			verified := h.confirmer.Confirm(c.Request.Context(), span.Source, span.Excerpt)
			views[i].Verified = &verified
		}
	}

	runs := highlight.Build(text, excerpts)
	percentage := highlight.Percentage(text, excerpts)

	token := ""
	downloadReady := false

	docBytes, err := h.buildDoc(runs)
	if err != nil {
		h.logger.Printf("Document generation failed: %v", err)
	} else {
		token = uuid.New().String()
		err = h.docs.Put(c.Request.Context(), &docstore.Document{
			ID:          token,
			Filename:    docgen.Filename,
			ContentType: docgen.ContentType,
			Content:     docBytes,
			ExpiresAt:   time.Now().Add(h.cfg.DocumentTTL),
		})
		if err != nil {
			h.logger.Printf("Failed to store generated document: %v", err)
			token = ""
		} else {
			downloadReady = true
			if err := h.sessions.RememberReport(c, token); err != nil {
				h.logger.Printf("Failed to bind report to session: %v", err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"text":           text,
		"report":         display,
		"spans":          views,
		"percentage":     percentage,
		"highlight":      runs,
		"download_token": token,
		"download_ready": downloadReady,
	})
}

// emptyReport renders the empty-state response for a submission with
// no usable text.
func (h *Handler) emptyReport(c *gin.Context, text string) {
	c.JSON(http.StatusOK, gin.H{
		"text":           text,
		"report":         "",
		"spans":          []spanView{},
		"percentage":     0.0,
		"highlight":      []highlight.Run{},
		"download_token": "",
		"download_ready": false,
	})
}

// DownloadDocument serves a generated highlighted document as an
// attachment, looked up by path token or, absent one, by the caller's
// session.
func (h *Handler) DownloadDocument(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		var err error
		token, err = h.sessions.LastReport(c)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No document generated yet"})
			return
		}
	}

	doc, err := h.docs.Get(c.Request.Context(), token)
	if err != nil {
		h.logger.Printf("Document lookup failed: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found or expired"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

// DetectAI forwards the text to the AI-content detection API.
func (h *Handler) DetectAI(c *gin.Context) {
	text := c.PostForm("text")
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusOK, gin.H{"text": text, "result": nil})
		return
	}

	result, err := h.detector.Detect(c.Request.Context(), text)
	if err != nil {
		h.logger.Printf("AI detection failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text, "result": result})
}

// Humanize paraphrases the text through the remote rewriting API.
func (h *Handler) Humanize(c *gin.Context) {
	text := c.PostForm("text")
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusOK, gin.H{"text": text, "humanized": ""})
		return
	}

	humanized, err := h.paraphraser.Paraphrase(c.Request.Context(), text)
	if err != nil {
		h.logger.Printf("Paraphrasing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text, "humanized": humanized})
}

// CompareTexts searches the web for both texts and runs a combined
// plagiarism analysis over them.
func (h *Handler) CompareTexts(c *gin.Context) {
	text1 := c.PostForm("text1")
	text2 := c.PostForm("text2")

	if strings.TrimSpace(text1) == "" && strings.TrimSpace(text2) == "" {
		c.JSON(http.StatusOK, gin.H{
			"text1":    text1,
			"text2":    text2,
			"results1": []search.Organic{},
			"results2": []search.Organic{},
			"analysis": "",
		})
		return
	}

	results1 := h.searchOrEmpty(c.Request.Context(), text1)
	results2 := h.searchOrEmpty(c.Request.Context(), text2)

	comparison := fmt.Sprintf("Comparação:\nTexto 1:\n%s\n\nTexto 2:\n%s", text1, text2)
	analysisText, err := h.analyzer.Analyze(c.Request.Context(), comparison)
	if err != nil {
		// The error string stands in for the analysis, same as the
		// search degradation: the comparison page still renders.
		h.logger.Printf("Comparison analysis failed: %v", err)
		analysisText = err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"text1":    text1,
		"text2":    text2,
		"results1": results1,
		"results2": results2,
		"analysis": analysisText,
	})
}

// searchOrEmpty returns the top organic results for the query,
// degrading to an empty list on failure or blank input.
func (h *Handler) searchOrEmpty(ctx context.Context, query string) []search.Organic {
	if strings.TrimSpace(query) == "" {
		return []search.Organic{}
	}
	results, err := h.searcher.Search(ctx, query, 3)
	if err != nil {
		h.logger.Printf("Web search failed: %v", err)
		return []search.Organic{}
	}
	return results
}

// SimilarityReport renders a CopiSpider-style similarity report from
// the injected similarity source.
func (h *Handler) SimilarityReport(c *gin.Context) {
	text := c.PostForm("text")
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusOK, gin.H{
			"text":             text,
			"total_terms":      0,
			"total_similarity": 0.0,
			"results":          []report.SourceMatch{},
		})
		return
	}

	matches, err := h.similarity.Matches(c.Request.Context(), text)
	if err != nil {
		h.logger.Printf("Similarity lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	totalTerms, totalSimilarity := report.Summarize(text, matches)

	c.JSON(http.StatusOK, gin.H{
		"text":             text,
		"total_terms":      totalTerms,
		"total_similarity": totalSimilarity,
		"results":          matches,
	})
}
