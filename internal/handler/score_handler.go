package handler

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/cuse-rank-api/internal/handler/helper"
	"github.com/yourusername/cuse-rank-api/internal/middleware"
	"github.com/yourusername/cuse-rank-api/internal/service"
	"github.com/yourusername/cuse-rank-api/internal/service/scoring"
)

// Scores - подсчет и чтение рейтинга
type Scores interface {
	RunScoring(ctx context.Context, eventID uuid.UUID) (*scoring.Report, error)
	GetScoresAndRanks(ctx context.Context, eventID uuid.UUID) ([]scoring.ScoreEntry, error)
	RankedPosters(ctx context.Context, eventID uuid.UUID) ([]service.RankedPosterView, error)
}

// ScoreHandler обрабатывает запросы подсчета баллов и рейтинга
type ScoreHandler struct {
	scores Scores
}

// NewScoreHandler создает обработчик рейтинга
func NewScoreHandler(scores Scores) *ScoreHandler {
	return &ScoreHandler{scores: scores}
}

// RunScoring пересчитывает рейтинг мероприятия
// POST /api/scoring/:eventId
func (h *ScoreHandler) RunScoring(c *gin.Context) {
	eventID := middleware.UUIDFromContext(c, ContextEventID)

	report, err := h.scores.RunScoring(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, "ScoreHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":              "Scoring completed",
		"event_id":             report.EventID,
		"required_evaluations": report.RequiredEvaluations,
		"total_posters":        report.TotalPosters,
		"scored":               report.Scored,
		"skipped":              report.Skipped,
		"duration_ms":          report.Duration.Milliseconds(),
	})
}

// GetScores возвращает рейтинг мероприятия по возрастанию места
// GET /api/scores/:eventId
func (h *ScoreHandler) GetScores(c *gin.Context) {
	entries, err := h.scores.GetScoresAndRanks(c.Request.Context(), middleware.UUIDFromContext(c, ContextEventID))
	if err != nil {
		respondError(c, "ScoreHandler", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// RankedPosters возвращает рейтинг вместе с данными постеров
// GET /api/ranked-posters?event_id=
func (h *ScoreHandler) RankedPosters(c *gin.Context) {
	eventID, err := uuid.Parse(c.Query("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event_id"})
		return
	}

	views, err := h.scores.RankedPosters(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, "ScoreHandler", err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// ExportScores экспортирует рейтинг в CSV или Excel формате
// GET /api/scores/:eventId/export?format=csv|xlsx
func (h *ScoreHandler) ExportScores(c *gin.Context) {
	eventID := middleware.UUIDFromContext(c, ContextEventID)
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}

	views, err := h.scores.RankedPosters(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, "ScoreHandler", err)
		return
	}

	filename := fmt.Sprintf("rankings_%s_%s", eventID, time.Now().Format("2006-01-02"))
	if format == "xlsx" {
		h.exportXLSX(c, views, filename)
		return
	}
	h.exportCSV(c, views, filename)
}

func (h *ScoreHandler) exportCSV(c *gin.Context, views []service.RankedPosterView, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	writer.Write(helper.RankingHeaders)
	for _, v := range views {
		writer.Write(helper.RankingRow(v))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Printf("[ScoreHandler] Ошибка записи CSV: %v", err)
	}
}

// exportXLSX пишет рейтинг через StreamWriter, баллы остаются числами
func (h *ScoreHandler) exportXLSX(c *gin.Context, views []service.RankedPosterView, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Rankings"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ScoreHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(helper.RankingHeaders))
	for i, name := range helper.RankingHeaders {
		headers[i] = name
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ScoreHandler] Ошибка записи заголовков: %v", err)
	}

	for i, v := range views {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			v.Rank,
			v.PosterID.String(),
			helper.SanitizeForExcel(v.Title),
			helper.SanitizeForExcel(v.Program),
			helper.SanitizeForExcel(v.AdvisorName),
			v.FinalScore,
			v.WeightedScore,
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ScoreHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		log.Printf("[ScoreHandler] Ошибка при Flush: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ScoreHandler] Ошибка записи Excel в response: %v", err)
	}
}
