package op

import (
	"errors"
	"fmt"
)

// Kind классифицирует отказы при работе с внешним инструментом.
type Kind int

const (
	// KindConfiguration — инструмент не установлен или параметры невалидны.
	KindConfiguration Kind = iota
	// KindAuthRequired — нет активной сессии, требуется вход.
	KindAuthRequired
	// KindAppUnreachable — приложение 1Password не запущено или заблокировано.
	KindAppUnreachable
	// KindNotFound — запись или поле не найдены.
	KindNotFound
	// KindTimeout — вызов превысил лимит времени.
	KindTimeout
	// KindCommandFailed — ненулевой код выхода без распознанной причины.
	KindCommandFailed
	// KindParseFailure — вывод не удалось разобрать как структурированные данные.
	KindParseFailure
)

// String возвращает имя вида ошибки для логов и отладки.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "CONFIGURATION"
	case KindAuthRequired:
		return "AUTH_REQUIRED"
	case KindAppUnreachable:
		return "APP_UNREACHABLE"
	case KindNotFound:
		return "NOT_FOUND"
	case KindTimeout:
		return "TIMEOUT"
	case KindCommandFailed:
		return "COMMAND_FAILED"
	case KindParseFailure:
		return "PARSE_FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Error — типизированная ошибка вызова внешнего инструмента.
// Stderr сохраняется как есть для диагностики COMMAND_FAILED.
type Error struct {
	Kind    Kind
	Message string
	Stderr  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsKind сообщает, относится ли ошибка (в т.ч. обернутая) к указанному виду.
func IsKind(err error, kind Kind) bool {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr.Kind == kind
	}
	return false
}

// ErrNoOTP сигнализирует о легитимном отсутствии одноразового пароля у записи.
// Это не ошибка пользователя и не отказ инструмента.
var ErrNoOTP = errors.New("у записи нет одноразового пароля")
