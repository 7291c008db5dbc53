package tools

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeArgs раскладывает именованные аргументы от LLM в типизированную структуру.
//
// Используются json теги структуры. Ввод слабо типизирован: модель может
// прислать "5" вместо 5 или 1 вместо true, и это не считается ошибкой.
func DecodeArgs(args map[string]any, out any) error {
	if len(args) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("create args decoder: %w", err)
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}
