// Package converters превращает сырой ввод (поля формы, вложенные JSON-объекты, загруженные файлы)
// в полностью провалидированные команды из пакета dtos.
//
// Порядок проверок фиксирован:
//  1. наличие всех обязательных полей (ошибка "missing_field" с именем поля)
//  2. разбор JSON и типов полей
//  3. value objects
//
// Поэтому отсутствующее поле всегда отличимо от некорректного.
package converters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/domain/errors"
)

// FileOpener открывает загруженный файл. Вызывающий закрывает reader.
type FileOpener func() (io.ReadCloser, error)

// Input - сырые данные запроса: текстовые поля и файлы.
// Вложенные объекты и списки передаются как JSON-текст в Fields.
type Input struct {
	Fields map[string]string
	Files  map[string]FileOpener
}

// NewInput создаёт пустой Input.
func NewInput() Input {
	return Input{Fields: map[string]string{}, Files: map[string]FileOpener{}}
}

// FromJSONBody строит Input из JSON-объекта тела запроса.
// Строковые значения раскавычиваются, объекты и списки остаются JSON-текстом, null пропускается.
func FromJSONBody(body map[string]json.RawMessage) Input {
	in := NewInput()
	for k, raw := range body {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			continue
		}
		if trimmed[0] == '"' {
			var s string
			if err := json.Unmarshal(trimmed, &s); err == nil {
				in.Fields[k] = s
				continue
			}
		}
		in.Fields[k] = string(trimmed)
	}
	return in
}

// requireFields возвращает MissingField для первого отсутствующего поля в порядке keys.
func (in Input) requireFields(keys ...string) error {
	for _, k := range keys {
		if _, ok := in.Fields[k]; !ok {
			return errors.MissingField(k)
		}
	}
	return nil
}

// requireFiles проверяет наличие файлов.
func (in Input) requireFiles(keys ...string) error {
	for _, k := range keys {
		if in.Files[k] == nil {
			return errors.MissingField(k)
		}
	}
	return nil
}

// field возвращает значение поля и признак наличия.
func (in Input) field(key string) (string, bool) {
	v, ok := in.Fields[key]
	return v, ok
}

// readFile читает файл целиком в память, не больше limit+1 байт.
// Превышение лимита обнаруживает value object по размеру.
func (in Input) readFile(key string, limit int64) ([]byte, error) {
	open := in.Files[key]
	if open == nil {
		return nil, errors.MissingField(key)
	}
	rc, err := open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// ============================================
// JSON sub-objects
// ============================================

func invalidJSON(field string) error {
	return errors.NewValidationError(field, "invalid_json", fmt.Sprintf("field '%s' must be valid JSON", field))
}

func invalidType(field, want string) error {
	return errors.NewValidationError(field, "invalid_type", fmt.Sprintf("field '%s' must be %s", field, want))
}

// object - вложенный JSON-объект с путём для сообщений об ошибках.
type object struct {
	path   string
	fields map[string]json.RawMessage
}

func parseObject(path, raw string) (object, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return object{}, invalidJSON(path)
	}
	return object{path: path, fields: fields}, nil
}

func parseList(path, raw string) ([]object, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, invalidJSON(path)
	}
	result := make([]object, 0, len(items))
	for i, item := range items {
		o, err := parseObject(fmt.Sprintf("%s[%d]", path, i), string(item))
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, nil
}

func (o object) key(k string) string {
	if o.path == "" {
		return k
	}
	return o.path + "." + k
}

// isString reports whether the raw value is a JSON string.
func (o object) isString(k string) bool {
	raw := bytes.TrimSpace(o.fields[k])
	return len(raw) > 0 && raw[0] == '"'
}

func (o object) has(k string) bool {
	raw, ok := o.fields[k]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// require проверяет схему объекта: все ключи обязаны присутствовать и не быть null.
func (o object) require(keys ...string) error {
	for _, k := range keys {
		if !o.has(k) {
			return errors.MissingField(o.key(k))
		}
	}
	return nil
}

func (o object) str(k string) (string, error) {
	var s string
	if err := json.Unmarshal(o.fields[k], &s); err != nil {
		return "", invalidType(o.key(k), "a string")
	}
	return s, nil
}

func (o object) int64(k string) (int64, error) {
	var text string
	if o.isString(k) {
		s, _ := o.str(k)
		text = strings.TrimSpace(s)
	} else {
		var n json.Number
		if err := json.Unmarshal(o.fields[k], &n); err != nil {
			return 0, invalidType(o.key(k), "an integer")
		}
		text = n.String()
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, invalidType(o.key(k), "an integer")
	}
	return v, nil
}

func (o object) uuid(k string) (uuid.UUID, error) {
	s, err := o.str(k)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, invalidType(o.key(k), "a UUID")
	}
	return id, nil
}

// decimal принимает JSON-число или строку и возвращает десятичную строку.
func (o object) decimal(k string) (string, error) {
	if o.isString(k) {
		return o.str(k)
	}
	var n json.Number
	if err := json.Unmarshal(o.fields[k], &n); err != nil {
		return "", invalidType(o.key(k), "a decimal number")
	}
	return n.String(), nil
}

func (o object) boolean(k string) (bool, error) {
	if o.isString(k) {
		s, _ := o.str(k)
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return false, invalidType(o.key(k), "a boolean")
		}
		return b, nil
	}
	var b bool
	if err := json.Unmarshal(o.fields[k], &b); err != nil {
		return false, invalidType(o.key(k), "a boolean")
	}
	return b, nil
}

// asObject представляет плоские поля Input как object: каждое значение - JSON-строка,
// числа и булевы значения разбираются из текста.
func (in Input) asObject() object {
	fields := make(map[string]json.RawMessage, len(in.Fields))
	for k, v := range in.Fields {
		quoted, _ := json.Marshal(v)
		fields[k] = quoted
	}
	return object{path: "", fields: fields}
}
