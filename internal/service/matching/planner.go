package matching

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
)

// Ограничение на "слишком удобные" назначения: судья с заметным разбросом
// близости получает не больше HighSimilarityCap постеров с близостью выше
// HighSimilarityThreshold, чтобы не оценивать только работы своей лаборатории.
const (
	HighSimilarityThreshold = 0.7
	HighSimilaritySpread    = 0.3
	HighSimilarityCap       = 3
)

// Limits - ограничения мероприятия на распределение
type Limits struct {
	JudgesPerPoster    int
	MinPostersPerJudge int
	MaxPostersPerJudge int
}

// LimitsFor берет ограничения из настроек мероприятия с учетом значений по умолчанию
func LimitsFor(event *entity.Event) Limits {
	minLoad, maxLoad := event.PostersPerJudgeLimits()
	return Limits{
		JudgesPerPoster:    event.RequiredEvaluations(),
		MinPostersPerJudge: minLoad,
		MaxPostersPerJudge: maxLoad,
	}
}

// Problem - входные данные распределения. Similarity[i][k] - нормированная
// близость Judges[i] к Posters[k]. Existing - уже сохраненные назначения,
// они учитываются в нагрузке и не повторяются.
type Problem struct {
	Judges     []entity.EventJudge
	Posters    []entity.Poster
	Similarity [][]float64
	Existing   []entity.JudgeAssignment
	Limits     Limits
}

// Pair - предложенное назначение
type Pair struct {
	JudgeID    uuid.UUID `json:"judge_id"`
	PosterID   uuid.UUID `json:"poster_id"`
	Similarity float64   `json:"similarity"`
}

// Shortfall - постер, которому не хватило судей
type Shortfall struct {
	PosterID uuid.UUID `json:"poster_id"`
	Assigned int       `json:"assigned"`
	Required int       `json:"required"`
}

// Underload - судья с нагрузкой ниже минимальной
type Underload struct {
	JudgeID  uuid.UUID `json:"judge_id"`
	Assigned int       `json:"assigned"`
	Minimum  int       `json:"minimum"`
}

// Plan - результат распределения
type Plan struct {
	Pairs       []Pair
	Unfilled    []Shortfall
	Underloaded []Underload
}

// Eligible проверяет жесткие ограничения пары: доступность судьи в слоте постера
// и запрет оценивать постер, у которого судья научный руководитель.
func Eligible(judge *entity.EventJudge, poster *entity.Poster) bool {
	return judge.AvailableForSlot(poster.SlotNumber) && !poster.AdvisedBy(judge.JudgeMasterID)
}

type planner struct {
	p         Problem
	judgeIdx  map[uuid.UUID]int
	posterIdx map[uuid.UUID]int
	assigned  map[[2]int]bool // пары из Existing и из плана
	planned   map[[2]int]bool // только пары плана
	load      []int
	staffed   []int
	high      []int
	capHigh   []bool
}

// Solve строит план жадно: сначала постеры с наименьшим числом подходящих
// судей, для каждого берутся самые близкие свободные судьи. Затем судьи с
// нагрузкой ниже минимальной добирают постеры, забирая место у судей с запасом.
func Solve(p Problem) *Plan {
	s := newPlanner(p)
	s.fillPosters()
	s.rebalance()
	return s.plan()
}

func newPlanner(p Problem) *planner {
	s := &planner{
		p:         p,
		judgeIdx:  make(map[uuid.UUID]int, len(p.Judges)),
		posterIdx: make(map[uuid.UUID]int, len(p.Posters)),
		assigned:  make(map[[2]int]bool),
		planned:   make(map[[2]int]bool),
		load:      make([]int, len(p.Judges)),
		staffed:   make([]int, len(p.Posters)),
		high:      make([]int, len(p.Judges)),
		capHigh:   make([]bool, len(p.Judges)),
	}
	for i, j := range p.Judges {
		s.judgeIdx[j.ID] = i
	}
	for k, poster := range p.Posters {
		s.posterIdx[poster.ID] = k
	}
	for i := range p.Judges {
		lo, hi := math.Inf(1), math.Inf(-1)
		for k := range p.Posters {
			lo = math.Min(lo, s.sim(i, k))
			hi = math.Max(hi, s.sim(i, k))
		}
		s.capHigh[i] = len(p.Posters) > 0 && hi-lo > HighSimilaritySpread
	}
	for _, a := range p.Existing {
		i, okJ := s.judgeIdx[a.JudgeID]
		k, okP := s.posterIdx[a.PosterID]
		if !okJ || !okP || s.assigned[[2]int{i, k}] {
			continue
		}
		s.assigned[[2]int{i, k}] = true
		s.load[i]++
		s.staffed[k]++
		if s.sim(i, k) > HighSimilarityThreshold {
			s.high[i]++
		}
	}
	return s
}

func (s *planner) sim(i, k int) float64 {
	if i < len(s.p.Similarity) && k < len(s.p.Similarity[i]) {
		return s.p.Similarity[i][k]
	}
	return 0
}

// canTake проверяет, может ли судья i получить постер k в дополнение к текущей нагрузке
func (s *planner) canTake(i, k int) bool {
	if s.assigned[[2]int{i, k}] || s.load[i] >= s.p.Limits.MaxPostersPerJudge {
		return false
	}
	if !Eligible(&s.p.Judges[i], &s.p.Posters[k]) {
		return false
	}
	if s.capHigh[i] && s.sim(i, k) > HighSimilarityThreshold && s.high[i] >= HighSimilarityCap {
		return false
	}
	return true
}

func (s *planner) add(i, k int) {
	s.assigned[[2]int{i, k}] = true
	s.planned[[2]int{i, k}] = true
	s.load[i]++
	s.staffed[k]++
	if s.sim(i, k) > HighSimilarityThreshold {
		s.high[i]++
	}
}

func (s *planner) remove(i, k int) {
	delete(s.assigned, [2]int{i, k})
	delete(s.planned, [2]int{i, k})
	s.load[i]--
	s.staffed[k]--
	if s.sim(i, k) > HighSimilarityThreshold {
		s.high[i]--
	}
}

func (s *planner) fillPosters() {
	order := make([]int, len(s.p.Posters))
	eligible := make([]int, len(s.p.Posters))
	for k := range s.p.Posters {
		order[k] = k
		for i := range s.p.Judges {
			if Eligible(&s.p.Judges[i], &s.p.Posters[k]) {
				eligible[k]++
			}
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return eligible[order[a]] < eligible[order[b]]
	})

	for _, k := range order {
		need := s.p.Limits.JudgesPerPoster - s.staffed[k]
		if need <= 0 {
			continue
		}
		candidates := make([]int, 0, len(s.p.Judges))
		for i := range s.p.Judges {
			if s.canTake(i, k) {
				candidates = append(candidates, i)
			}
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			ia, ib := candidates[a], candidates[b]
			if sa, sb := s.sim(ia, k), s.sim(ib, k); sa != sb {
				return sa > sb
			}
			return s.load[ia] < s.load[ib]
		})
		for _, i := range candidates {
			if need == 0 {
				break
			}
			// нагрузка могла измениться: кандидаты отобраны до добавлений по этому постеру
			if !s.canTake(i, k) {
				continue
			}
			s.add(i, k)
			need--
		}
	}
}

// rebalance догружает судей до минимума: сначала свободными местами, затем
// заменой судьи из плана, у которого нагрузка выше минимальной
func (s *planner) rebalance() {
	minLoad := s.p.Limits.MinPostersPerJudge
	for i := range s.p.Judges {
		if s.load[i] >= minLoad {
			continue
		}
		posters := make([]int, 0, len(s.p.Posters))
		for k := range s.p.Posters {
			if s.canTake(i, k) {
				posters = append(posters, k)
			}
		}
		sort.SliceStable(posters, func(a, b int) bool {
			return s.sim(i, posters[a]) > s.sim(i, posters[b])
		})

		for _, k := range posters {
			if s.load[i] >= minLoad {
				break
			}
			if !s.canTake(i, k) {
				continue
			}
			if s.staffed[k] < s.p.Limits.JudgesPerPoster {
				s.add(i, k)
				continue
			}
			if donor := s.donorFor(k, i); donor >= 0 {
				s.remove(donor, k)
				s.add(i, k)
			}
		}
	}
}

// donorFor выбирает судью плана на постере k, которого можно заменить судьей
// taker: у донора остается нагрузка не ниже минимальной, берется наименее близкий
func (s *planner) donorFor(k, taker int) int {
	best := -1
	for d := range s.p.Judges {
		if d == taker || !s.planned[[2]int{d, k}] || s.load[d] <= s.p.Limits.MinPostersPerJudge {
			continue
		}
		if best < 0 || s.sim(d, k) < s.sim(best, k) {
			best = d
		}
	}
	return best
}

func (s *planner) plan() *Plan {
	result := &Plan{}
	for i, judge := range s.p.Judges {
		for k, poster := range s.p.Posters {
			if s.planned[[2]int{i, k}] {
				result.Pairs = append(result.Pairs, Pair{
					JudgeID:    judge.ID,
					PosterID:   poster.ID,
					Similarity: s.sim(i, k),
				})
			}
		}
		if s.load[i] < s.p.Limits.MinPostersPerJudge {
			result.Underloaded = append(result.Underloaded, Underload{
				JudgeID: judge.ID, Assigned: s.load[i], Minimum: s.p.Limits.MinPostersPerJudge,
			})
		}
	}
	for k, poster := range s.p.Posters {
		if s.staffed[k] < s.p.Limits.JudgesPerPoster {
			result.Unfilled = append(result.Unfilled, Shortfall{
				PosterID: poster.ID, Assigned: s.staffed[k], Required: s.p.Limits.JudgesPerPoster,
			})
		}
	}
	return result
}
