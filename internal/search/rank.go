// Package search ранжирует закэшированные записи по свободному текстовому
// запросу. Оценка — целочисленная сумма взвешенных совпадений подстрок без
// учета регистра.
package search

import (
	"sort"
	"strings"

	"github.com/maynagashev/oplaunch/internal/op"
)

// Веса совпадений.
const (
	scoreTitle       = 10 // название содержит запрос
	scoreTitlePrefix = 5  // дополнительно, если название начинается с запроса
	scoreURL         = 3  // каждый совпавший адрес
	scoreFieldValue  = 2  // каждое поле со значением, содержащим запрос
	scoreFieldLabel  = 1  // каждое поле с меткой, содержащей запрос
	scoreNotes       = 1  // заметки содержат запрос
)

// Result — запись с оценкой релевантности и метками совпавших полей.
// Эфемерно: пересчитывается на каждый запрос, нигде не сохраняется.
type Result struct {
	Item          op.Item
	Score         int
	MatchedFields []string
}

// Rank возвращает записи, упорядоченные по убыванию оценки. Пустой (или
// состоящий из пробелов) запрос возвращает все записи без оценок в исходном
// порядке. Записи с нулевой оценкой исключаются. Сортировка стабильна:
// при равных оценках сохраняется относительный порядок входа.
func Rank(items []op.Item, query string) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		results := make([]Result, len(items))
		for i, it := range items {
			results[i] = Result{Item: it}
		}
		return results
	}

	results := make([]Result, 0, len(items))
	for _, it := range items {
		if r, ok := scoreItem(it, q); ok {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// scoreItem считает оценку одной записи. ok=false при нулевой оценке.
func scoreItem(it op.Item, q string) (Result, bool) {
	score := 0
	var matched []string
	seen := make(map[string]struct{})

	addMatched := func(label string) {
		if _, dup := seen[label]; dup {
			return
		}
		seen[label] = struct{}{}
		matched = append(matched, label)
	}

	title := strings.ToLower(it.Title)
	if strings.Contains(title, q) {
		score += scoreTitle
		if strings.HasPrefix(title, q) {
			score += scoreTitlePrefix
		}
	}

	for _, u := range it.URLs {
		if strings.Contains(strings.ToLower(u.HRef), q) {
			score += scoreURL
		}
	}

	for _, f := range it.Fields {
		// Заметки оцениваются отдельно, чтобы не считать их дважды.
		if strings.EqualFold(f.Purpose, op.PurposeNotes) {
			continue
		}
		if f.Value != "" && strings.Contains(strings.ToLower(f.Value), q) {
			score += scoreFieldValue
			addMatched(f.Label)
		}
		if strings.Contains(strings.ToLower(f.Label), q) {
			score += scoreFieldLabel
			addMatched(f.Label)
		}
	}

	if notes := it.Notes(); notes != "" && strings.Contains(strings.ToLower(notes), q) {
		score += scoreNotes
	}

	if score == 0 {
		return Result{}, false
	}
	return Result{Item: it, Score: score, MatchedFields: matched}, true
}
