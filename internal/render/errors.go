package render

import (
	"errors"
	"fmt"
)

// DomainError ошибка в данных пользователя: шаблоне, расписании или ссылках на изображения.
// Текст ошибки показывается в чате как есть, поэтому он должен быть человекочитаемым.
// Повторная обработка такой ошибки бессмысленна — входные данные не изменятся.
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string {
	return e.Reason
}

// Domainf создаёт DomainError с форматированием в стиле fmt
func Domainf(format string, args ...any) error {
	return &DomainError{Reason: fmt.Sprintf(format, args...)}
}

// IsDomain сообщает, относится ли ошибка к данным пользователя
func IsDomain(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
