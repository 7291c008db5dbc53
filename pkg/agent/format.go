package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

// ResponseFormat - форма ответа, которую хочет получить вызывающий.
type ResponseFormat string

const (
	// NaturalLanguage - текст ответа как есть.
	NaturalLanguage ResponseFormat = "natural_language"
	// DataStructure - разобранный JSON или исходный текст, если это не JSON.
	DataStructure ResponseFormat = "data_structure"
	// Both - текст и разобранные данные вместе.
	Both ResponseFormat = "both"
)

// ParseResponseFormat разбирает имя формата. Пустая строка - NaturalLanguage.
func ParseResponseFormat(s string) (ResponseFormat, error) {
	switch f := ResponseFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return NaturalLanguage, nil
	case NaturalLanguage, DataStructure, Both:
		return f, nil
	default:
		return "", fmt.Errorf("unknown response format %q (want natural_language, data_structure or both)", s)
	}
}

// Response - результат в формате Both.
//
// Data == nil означает, что текст не удалось разобрать как JSON.
type Response struct {
	NaturalLanguage string `json:"natural_language"`
	Data            any    `json:"data"`
}

// HasData - удалось ли извлечь структурированные данные.
func (r Response) HasData() bool {
	return r.Data != nil
}

// FormatResponse приводит финальный текст модели к запрошенному формату.
//
// Никогда не паникует и не возвращает ошибку: текст, который не является
// JSON, считается "не данными". Неизвестный формат трактуется как
// NaturalLanguage.
func FormatResponse(content string, format ResponseFormat) any {
	switch format {
	case DataStructure:
		if data, ok := parseData(content); ok {
			return data
		}
		return content
	case Both:
		data, _ := parseData(content)
		return Response{NaturalLanguage: content, Data: data}
	default:
		return content
	}
}

// parseData разбирает JSON, предварительно сняв markdown-обёртку.
func parseData(content string) (any, bool) {
	cleaned := utils.CleanJsonBlock(content)
	if cleaned == "" {
		return nil, false
	}
	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, false
	}
	if data == nil {
		return nil, false
	}
	return data, true
}
