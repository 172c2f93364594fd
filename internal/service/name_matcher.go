package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	"github.com/yourusername/cuse-rank-api/internal/domain/repository"
)

// maxNameDistance - наибольшее расстояние Левенштейна, при котором имя из таблицы
// еще считается совпавшим со справочником
const maxNameDistance = 2

var (
	foldCaser  = cases.Fold()
	titleCaser = cases.Title(language.English)
)

// normalizeName приводит имя к виду для сравнения: свертка регистра и одиночные пробелы
func normalizeName(s string) string {
	return foldCaser.String(strings.Join(strings.Fields(s), " "))
}

// displayName приводит имя из таблицы к виду "Jane Doe"
func displayName(s string) string {
	return titleCaser.String(strings.Join(strings.Fields(s), " "))
}

// nameMatcher сопоставляет имена из загружаемых таблиц со справочником судей.
// Справочник для нечеткого поиска читается один раз на загрузку.
type nameMatcher struct {
	repo       repository.JudgeMasterRepository
	candidates []entity.JudgeMaster
	loaded     bool
}

func newNameMatcher(repo repository.JudgeMasterRepository) *nameMatcher {
	return &nameMatcher{repo: repo}
}

// match ищет судью по подстроке "%first%last%", а при неудаче выбирает ближайшее
// по Левенштейну имя на расстоянии не больше maxNameDistance. nil без ошибки
// означает, что совпадения нет.
func (m *nameMatcher) match(ctx context.Context, first, last string) (*entity.JudgeMaster, error) {
	judge, err := m.repo.FindByName(ctx, first, last)
	if err == nil {
		return judge, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("failed to find judge master by name: %w", err)
	}

	if !m.loaded {
		m.candidates, err = m.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load judge masters: %w", err)
		}
		m.loaded = true
	}

	target := normalizeName(first + " " + last)
	bestIdx, bestDist := -1, maxNameDistance+1
	for i := range m.candidates {
		d := levenshtein.ComputeDistance(target, normalizeName(m.candidates[i].Name))
		if d < bestDist {
			bestIdx, bestDist = i, d
		}
	}
	if bestIdx < 0 {
		return nil, nil
	}

	found := m.candidates[bestIdx]
	log.Printf("[NameMatcher] '%s %s' сопоставлено с '%s' (расстояние %d)", first, last, found.Name, bestDist)
	return &found, nil
}
