// Package matching подбирает судей к постерам по близости экспертизы судьи
// к аннотации постера с учетом ограничений мероприятия.
package matching

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+`)
	rangePattern = regexp.MustCompile(`\d+-\d+`)
)

// stopWords - служебные слова, не несущие тематики
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "in": {}, "into": {}, "is": {}, "it": {},
	"its": {}, "of": {}, "on": {}, "or": {}, "our": {}, "that": {}, "the": {}, "their": {},
	"this": {}, "to": {}, "was": {}, "we": {}, "were": {}, "which": {}, "with": {},
	"these": {}, "those": {}, "using": {}, "use": {}, "used": {}, "study": {}, "research": {},
	"also": {}, "can": {}, "not": {}, "but": {}, "been": {}, "such": {}, "how": {}, "between": {},
	"professor": {}, "department": {}, "university": {}, "phd": {}, "interests": {},
}

// Tokenize приводит текст к набору термов: убирает адреса почты и числовые
// диапазоны, снимает диакритику, сворачивает регистр и отбрасывает стоп-слова
// и термы короче трех символов.
func Tokenize(text string) []string {
	text = emailPattern.ReplaceAllString(text, " ")
	text = rangePattern.ReplaceAllString(text, " ")

	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if plain, _, err := transform.String(stripMarks, text); err == nil {
		text = plain
	}
	// Caser хранит состояние, поэтому создается на каждый вызов
	text = cases.Fold().String(text)

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 3 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, stem(f))
	}
	return tokens
}

// stem срезает множественное число, чтобы "networks" и "network" совпадали
func stem(t string) string {
	switch {
	case strings.HasSuffix(t, "ies") && len(t) > 4:
		return strings.TrimSuffix(t, "ies") + "y"
	case strings.HasSuffix(t, "ss"), strings.HasSuffix(t, "us"), strings.HasSuffix(t, "is"):
		return t
	case strings.HasSuffix(t, "s") && len(t) > 3:
		return strings.TrimSuffix(t, "s")
	}
	return t
}

type vector map[string]float64

// SimilarityMatrix возвращает косинусную близость TF-IDF векторов:
// строка i соответствует judgeTexts[i], столбец k соответствует posterTexts[k].
// IDF считается по всем текстам обеих сторон. Пустой текст дает нулевую строку.
func SimilarityMatrix(judgeTexts, posterTexts []string) [][]float64 {
	docs := make([][]string, 0, len(judgeTexts)+len(posterTexts))
	for _, t := range judgeTexts {
		docs = append(docs, Tokenize(t))
	}
	for _, t := range posterTexts {
		docs = append(docs, Tokenize(t))
	}

	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	// Сглаженный IDF: термы, встречающиеся везде, сохраняют небольшой вес
	n := float64(len(docs))
	vectors := make([]vector, len(docs))
	for i, doc := range docs {
		v := make(vector, len(doc))
		for _, term := range doc {
			v[term]++
		}
		var norm2 float64
		for term, tf := range v {
			w := tf * (math.Log((1+n)/(1+float64(df[term]))) + 1)
			v[term] = w
			norm2 += w * w
		}
		if norm2 > 0 {
			l := math.Sqrt(norm2)
			for term := range v {
				v[term] /= l
			}
		}
		vectors[i] = v
	}

	matrix := make([][]float64, len(judgeTexts))
	for i := range judgeTexts {
		row := make([]float64, len(posterTexts))
		for k := range posterTexts {
			row[k] = dot(vectors[i], vectors[len(judgeTexts)+k])
		}
		matrix[i] = row
	}
	return matrix
}

func dot(a, b vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for term, w := range a {
		sum += w * b[term]
	}
	if sum > 1 {
		return 1
	}
	return sum
}

// NormalizeMatrix растягивает значения матрицы на [0,1] по общим минимуму и максимуму.
// Если все значения равны, матрица не меняется.
func NormalizeMatrix(matrix [][]float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range matrix {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) || hi-lo == 0 {
		return
	}
	for _, row := range matrix {
		for k, v := range row {
			row[k] = (v - lo) / (hi - lo)
		}
	}
}
