// Команда rescore пересчитывает рейтинг мероприятия без запуска API
// и печатает результат в терминал.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/yourusername/cuse-rank-api/internal/config"
	pgRepo "github.com/yourusername/cuse-rank-api/internal/repository/postgres"
	"github.com/yourusername/cuse-rank-api/internal/service/scoring"
	"github.com/yourusername/cuse-rank-api/pkg/database"
)

func main() {
	eventFlag := flag.String("event", "", "ID мероприятия")
	configPath := flag.String("config", "config/config.yaml", "путь к файлу конфигурации")
	timeout := flag.Duration("timeout", 2*time.Minute, "ограничение времени подсчета")
	flag.Parse()

	eventID, err := uuid.Parse(*eventFlag)
	if err != nil {
		color.Red("Неверный ID мероприятия %q: %v", *eventFlag, err)
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), false)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	eventRepo := pgRepo.NewEventRepo(db)
	posterRepo := pgRepo.NewPosterRepo(db)

	engine := scoring.NewEngine(scoring.Stores{
		Events:      eventRepo,
		Posters:     posterRepo,
		Evaluations: pgRepo.NewEvaluationRepo(db),
		Assignments: pgRepo.NewAssignmentRepo(db),
		Rankings:    pgRepo.NewRankingRepo(db),
	}, scoring.WithConcurrency(cfg.Scoring.Concurrency))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := engine.RunScoring(ctx, eventID)
	if err != nil {
		color.Red("Подсчет не выполнен: %v", err)
		os.Exit(1)
	}

	posters, err := posterRepo.ListByEvent(ctx, eventID)
	if err != nil {
		log.Fatalf("Failed to load posters: %v", err)
	}
	titles := make(map[uuid.UUID]string, len(posters))
	for _, p := range posters {
		titles[p.ID] = p.Title
	}

	color.Cyan("Мероприятие %s: постеров %d, требуется оценок на постер %d",
		report.EventID, report.TotalPosters, report.RequiredEvaluations)

	printScored(report, titles)
	printSkipped(report, titles)

	color.Green("Готово за %s", report.Duration.Round(time.Millisecond))
}

func printScored(report *scoring.Report, titles map[uuid.UUID]string) {
	if !report.HasScores() {
		color.Yellow("Ни один постер не набрал нужного числа оценок, рейтинг очищен")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "Poster", "Title", "Final", "Weighted"})
	table.SetAutoWrapText(false)
	for _, r := range report.Scored {
		table.Append([]string{
			strconv.Itoa(r.Rank),
			r.PosterID.String(),
			titles[r.PosterID],
			fmt.Sprintf("%.2f", r.FinalScore),
			fmt.Sprintf("%.2f", r.WeightedScore),
		})
	}
	table.Render()
}

func printSkipped(report *scoring.Report, titles map[uuid.UUID]string) {
	if len(report.Skipped) == 0 {
		return
	}

	color.Yellow("Пропущено постеров: %d", len(report.Skipped))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Poster", "Title", "Reason", "Evaluations"})
	table.SetAutoWrapText(false)
	for _, s := range report.Skipped {
		table.Append([]string{
			s.PosterID.String(),
			titles[s.PosterID],
			skipReasonLabel(s.Reason),
			strconv.Itoa(s.Evaluations),
		})
	}
	table.Render()
}

func skipReasonLabel(reason scoring.SkipReason) string {
	switch reason {
	case scoring.SkipInsufficientEvaluations:
		return "мало оценок"
	case scoring.SkipExcessEvaluations:
		return "лишние оценки"
	}
	return string(reason)
}
