package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ternarybob/arbor"

	"github.com/dyike/ButterflyBrain/consts"
	"github.com/dyike/ButterflyBrain/internal/models"
)

// Analyst is the service behind the HTTP surface.
type Analyst interface {
	LLMConfigured() bool
	DeepAnalysis(ctx context.Context, ticker, market string) (*models.DeepAnalysis, error)
	Chat(ctx context.Context, turn models.ChatTurn) (string, error)
}

// DeepAnalysisRequest requires ticker and market; both reach the report as sent.
type DeepAnalysisRequest struct {
	Ticker string `json:"ticker" binding:"required"`
	Market string `json:"market" binding:"required"`
}

type DeepAnalysisResponse struct {
	Status        string                `json:"status"`
	ReportSummary string                `json:"report_summary"`
	Metrics       *models.MetricsReport `json:"metrics"`
}

// ChatRequest requires ticker and market. An empty question or a missing
// analysis context is passed through to the responder as is.
type ChatRequest struct {
	Ticker                  string `json:"ticker" binding:"required"`
	Market                  string `json:"market" binding:"required"`
	UserQuestion            string `json:"user_question"`
	PreviousAnalysisContext string `json:"previous_analysis_context"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type StatusResponse struct {
	Status        string `json:"status"`
	GroqConnected bool   `json:"groq_connected"`
}

// HandleStatus reports liveness and whether the LLM credential is present.
func HandleStatus(analyst Analyst) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, StatusResponse{
			Status:        consts.StatusActive,
			GroqConnected: analyst.LLMConfigured(),
		})
	}
}

func HandleDeepAnalysis(analyst Analyst, logger arbor.ILogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeepAnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}

		result, err := analyst.DeepAnalysis(c.Request.Context(), req.Ticker, req.Market)
		if err != nil {
			logger.Error().Err(err).Str("ticker", req.Ticker).Msg("deep analysis failed")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusOK, DeepAnalysisResponse{
			Status:        consts.StatusSuccess,
			ReportSummary: result.ReportSummary,
			Metrics:       result.Metrics,
		})
	}
}

func HandleChat(analyst Analyst, logger arbor.ILogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}

		reply, err := analyst.Chat(c.Request.Context(), models.ChatTurn{
			Ticker:   req.Ticker,
			Market:   req.Market,
			Question: req.UserQuestion,
			Context:  req.PreviousAnalysisContext,
		})
		if err != nil {
			logger.Error().Err(err).Str("ticker", req.Ticker).Msg("chat failed")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusOK, ChatResponse{Response: reply})
	}
}
