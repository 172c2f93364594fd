package entity

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
)

// Criteria - каноническое представление критериев мероприятия: имя критерия -> вес.
// Хранится в JSONB всегда в виде объекта {"Innovation": 0.3, ...}.
type Criteria map[string]float64

// criterionItem - историческая форма критерия (массив {name, weight})
type criterionItem struct {
	Name   string    `json:"name"`
	Weight flexFloat `json:"weight"`
}

// ParseCriteria разбирает критерии в любом из двух исторических форматов
// (объект или массив {name, weight}) и возвращает каноническую карту.
// null или пустой ввод дают пустую карту без ошибки.
func ParseCriteria(data []byte) (Criteria, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Criteria{}, nil
	}

	result := Criteria{}
	switch trimmed[0] {
	case '{':
		var raw map[string]flexFloat
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%w: criteria object: %v", apperrors.ErrInvalidConfiguration, err)
		}
		for name, weight := range raw {
			if err := result.add(name, float64(weight)); err != nil {
				return nil, err
			}
		}
	case '[':
		var items []criterionItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: criteria array: %v", apperrors.ErrInvalidConfiguration, err)
		}
		for _, item := range items {
			if err := result.add(item.Name, float64(item.Weight)); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: criteria must be an object or an array of {name, weight}", apperrors.ErrInvalidConfiguration)
	}

	return result, nil
}

func (c Criteria) add(name string, weight float64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: criterion name is empty", apperrors.ErrInvalidConfiguration)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return fmt.Errorf("%w: criterion %q has invalid weight %v", apperrors.ErrInvalidConfiguration, name, weight)
	}
	if _, exists := c[name]; exists {
		return fmt.Errorf("%w: duplicate criterion %q", apperrors.ErrInvalidConfiguration, name)
	}
	c[name] = weight
	return nil
}

// Names возвращает имена критериев в отсортированном порядке
func (c Criteria) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TotalWeight возвращает сумму весов в детерминированном порядке
func (c Criteria) TotalWeight() float64 {
	total := 0.0
	for _, name := range c.Names() {
		total += c[name]
	}
	return total
}

// UnmarshalJSON принимает оба формата критериев
func (c *Criteria) UnmarshalJSON(data []byte) error {
	parsed, err := ParseCriteria(data)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Scan реализует интерфейс sql.Scanner для Criteria
func (c *Criteria) Scan(value interface{}) error {
	if value == nil {
		*c = Criteria{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("failed to unmarshal JSONB criteria: unexpected type")
	}

	parsed, err := ParseCriteria(data)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value реализует интерфейс driver.Valuer для Criteria
func (c Criteria) Value() (driver.Value, error) {
	if len(c) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]float64(c))
}

// flexFloat принимает как число, так и числовую строку ("0.25") - формы фронтенда
// отправляют значения полей строками.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = 0
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}
