package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RecoverString возвращает строковое значение поля, которое в старых отчётах
// могло сохраниться объектом вида {"0":"1","1":"0"} вместо "10".
//
// nil -> fallback, строка -> без изменений, объект с целочисленными
// неотрицательными ключами -> значения по возрастанию ключа, остальное ->
// строковое представление значения.
func RecoverString(value any, fallback string) string {
	switch v := value.(type) {
	case nil:
		return fallback
	case string:
		return v
	case map[string]any:
		if s, ok := joinIndexed(v); ok {
			return s
		}
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = val
		}
		if s, ok := joinIndexed(m); ok {
			return s
		}
	}

	return stringify(value)
}

func joinIndexed(m map[string]any) (string, bool) {
	type part struct {
		idx uint64
		val any
	}

	parts := make([]part, 0, len(m))
	for k, v := range m {
		idx, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			return "", false
		}
		parts = append(parts, part{idx: idx, val: v})
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].idx < parts[j].idx })

	var b strings.Builder
	for _, p := range parts {
		b.WriteString(stringify(p.val))
	}

	return b.String(), true
}

// scalarString converts JSON scalars; objects and arrays are rejected.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := scalarString(v); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
