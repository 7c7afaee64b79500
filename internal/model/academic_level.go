package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AcademicLevelRef нормализованная ссылка на академический уровень
type AcademicLevelRef struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// AcademicLevels список уровней. API отдаёт поле в разных формах:
// массивом объектов или id, одиночным объектом, числом, строкой или
// JSON-строкой с любым из этих вариантов внутри. Всё сводится к одному виду.
type AcademicLevels []AcademicLevelRef

// IDs возвращает id уровней по порядку
func (l AcademicLevels) IDs() []int64 {
	ids := make([]int64, 0, len(l))
	for _, ref := range l {
		ids = append(ids, ref.ID)
	}
	return ids
}

func (l *AcademicLevels) UnmarshalJSON(data []byte) error {
	refs, err := decodeLevels(data, 0)
	if err != nil {
		return err
	}
	*l = refs
	return nil
}

// maxLevelNesting ограничивает разворачивание строк, закодированных в JSON
const maxLevelNesting = 3

func decodeLevels(data []byte, depth int) (AcademicLevels, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return AcademicLevels{}, nil
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode academic levels: %w", err)
		}
		refs := make(AcademicLevels, 0, len(items))
		for _, item := range items {
			ref, ok, err := decodeLevel(item, depth)
			if err != nil {
				return nil, err
			}
			if ok {
				refs = append(refs, ref)
			}
		}
		return refs, nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode academic level string: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return AcademicLevels{}, nil
		}
		if depth < maxLevelNesting && (s[0] == '[' || s[0] == '{' || s[0] == '"') {
			return decodeLevels([]byte(s), depth+1)
		}
		return AcademicLevels{levelFromString(s)}, nil
	default:
		ref, ok, err := decodeLevel(data, depth)
		if err != nil {
			return nil, err
		}
		if !ok {
			return AcademicLevels{}, nil
		}
		return AcademicLevels{ref}, nil
	}
}

func decodeLevel(data json.RawMessage, depth int) (AcademicLevelRef, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return AcademicLevelRef{}, false, nil
	}

	switch data[0] {
	case '{':
		var obj struct {
			ID    json.Number `json:"id"`
			Label string      `json:"label"`
			Name  string      `json:"name"`
			Level string      `json:"level"`
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&obj); err != nil {
			return AcademicLevelRef{}, false, fmt.Errorf("decode academic level object: %w", err)
		}
		ref := AcademicLevelRef{Label: firstNonEmpty(obj.Label, obj.Name, obj.Level)}
		if obj.ID != "" {
			id, err := obj.ID.Int64()
			if err != nil {
				return AcademicLevelRef{}, false, fmt.Errorf("academic level id %q: %w", obj.ID, err)
			}
			ref.ID = id
		}
		return ref, ref.ID != 0 || ref.Label != "", nil
	case '"':
		nested, err := decodeLevels(data, depth)
		if err != nil {
			return AcademicLevelRef{}, false, err
		}
		if len(nested) == 0 {
			return AcademicLevelRef{}, false, nil
		}
		return nested[0], true, nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return AcademicLevelRef{}, false, fmt.Errorf("decode academic level: %w", err)
		}
		id, err := n.Int64()
		if err != nil {
			return AcademicLevelRef{}, false, fmt.Errorf("academic level id %q: %w", n, err)
		}
		return AcademicLevelRef{ID: id}, true, nil
	}
}

func levelFromString(s string) AcademicLevelRef {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return AcademicLevelRef{ID: id}
	}
	return AcademicLevelRef{Label: s}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
