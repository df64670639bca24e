package render

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/D-Sokol/schedule-bot/internal/model"
)

// FormatArgs аргументы подстановки текстовых патчей.
// Значения — строки или даты; даты понимают strftime-подобную спецификацию формата.
type FormatArgs map[string]any

// Clone возвращает независимую копию аргументов
func (a FormatArgs) Clone() FormatArgs {
	out := make(FormatArgs, len(a)+4)
	for k, v := range a {
		out[k] = v
	}
	return out
}

// WithEntry добавляет аргументы текущей записи дня
func (a FormatArgs) WithEntry(entry model.Entry) FormatArgs {
	out := a.Clone()
	out["entry"] = fmt.Sprintf("%s %s", entry.Time, entry.Description)
	out["entry.time"] = entry.Time.String()
	out["entry.description"] = entry.Description
	out["entry.tags"] = strings.Join(entry.Tags.Sorted(), ",")
	return out
}

// Expand подставляет аргументы в шаблон вида "Неделя с {start:%d.%m}".
// Двойные скобки {{ и }} экранируют литеральные скобки.
// Ссылка на неизвестный аргумент — ошибка данных шаблона.
func (a FormatArgs) Expand(template string) (string, error) {
	var out strings.Builder
	s := template
	for len(s) > 0 {
		open := strings.IndexAny(s, "{}")
		if open < 0 {
			out.WriteString(s)
			break
		}
		out.WriteString(s[:open])
		s = s[open:]

		// экранированные скобки
		if strings.HasPrefix(s, "{{") || strings.HasPrefix(s, "}}") {
			out.WriteByte(s[0])
			s = s[2:]
			continue
		}
		if s[0] == '}' {
			return "", fmt.Errorf("unbalanced '}' in template %q", template)
		}

		end := strings.IndexByte(s, '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated '{' in template %q", template)
		}
		ref := s[1:end]
		s = s[end+1:]

		name, spec, _ := strings.Cut(ref, ":")
		value, ok := a[name]
		if !ok {
			return "", fmt.Errorf("unknown template argument %q", name)
		}
		formatted, err := formatValue(value, spec)
		if err != nil {
			return "", err
		}
		out.WriteString(formatted)
	}
	return out.String(), nil
}

func formatValue(value any, spec string) (string, error) {
	switch v := value.(type) {
	case time.Time:
		if spec == "" {
			return v.Format("2006-01-02"), nil
		}
		return strftime(v, spec)
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// Подмножество strftime: существующие шаблоны создавались под форматирование дат
// вида {date:%d.%m} и должны рендериться без правок.
var strftimeLayouts = map[byte]string{
	'd': "02",
	'm': "01",
	'y': "06",
	'Y': "2006",
	'H': "15",
	'M': "04",
	'S': "05",
	'a': "Mon",
	'A': "Monday",
	'b': "Jan",
	'B': "January",
}

func strftime(t time.Time, spec string) (string, error) {
	var layout strings.Builder
	for i := 0; i < len(spec); i++ {
		if spec[i] != '%' {
			layout.WriteByte(spec[i])
			continue
		}
		i++
		if i >= len(spec) {
			return "", fmt.Errorf("dangling %% in date format %q", spec)
		}
		if spec[i] == '%' {
			layout.WriteByte('%')
			continue
		}
		l, ok := strftimeLayouts[spec[i]]
		if !ok {
			return "", fmt.Errorf("unsupported date format %%%c", spec[i])
		}
		layout.WriteString(l)
	}
	return t.Format(layout.String()), nil
}

// Преобразования регистра текстового патча
const (
	CaseNone       = ""
	CaseUpper      = "upper"
	CaseLower      = "lower"
	CaseCapitalize = "capitalize"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

// ValidTextCase проверяет значение поля case текстового патча
func ValidTextCase(c string) bool {
	switch c {
	case CaseNone, CaseUpper, CaseLower, CaseCapitalize:
		return true
	}
	return false
}

func transformCase(s, textCase string) string {
	switch textCase {
	case CaseUpper:
		return upperCaser.String(s)
	case CaseLower:
		return lowerCaser.String(s)
	case CaseCapitalize:
		if s == "" {
			return s
		}
		first, size := utf8.DecodeRuneInString(s)
		return string(unicode.ToUpper(first)) + lowerCaser.String(s[size:])
	default:
		return s
	}
}
