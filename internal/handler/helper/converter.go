package helper

import (
	"strconv"

	"github.com/yourusername/cuse-rank-api/internal/service"
)

// RankingHeaders - заголовки таблицы экспорта рейтинга
var RankingHeaders = []string{"Rank", "Poster ID", "Title", "Program", "Advisor", "Final Score", "Weighted Score"}

// FormatScore печатает балл с двумя знаками после запятой, как он хранится в рейтинге
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RankingRow превращает строку рейтинга в строку таблицы экспорта.
// Текстовые поля экранируются от formula injection.
func RankingRow(v service.RankedPosterView) []string {
	return []string{
		strconv.Itoa(v.Rank),
		v.PosterID.String(),
		SanitizeForExcel(v.Title),
		SanitizeForExcel(v.Program),
		SanitizeForExcel(v.AdvisorName),
		FormatScore(v.FinalScore),
		FormatScore(v.WeightedScore),
	}
}

// SanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func SanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
