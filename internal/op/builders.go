package op

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Ограничения генератора паролей.
const (
	GenerateMinLength = 8
	GenerateMaxLength = 128
)

// GenerateOptions — конфигурация генерации пароля. Источник случайности —
// исключительно внешний инструмент; здесь только флаги.
type GenerateOptions struct {
	Length           int
	Uppercase        bool
	Lowercase        bool
	Digits           bool
	Symbols          bool
	ExcludeAmbiguous bool
}

// Validate проверяет конфигурацию до вызова инструмента.
func (o GenerateOptions) Validate() error {
	if o.Length < GenerateMinLength || o.Length > GenerateMaxLength {
		return &Error{
			Kind:    KindConfiguration,
			Message: fmt.Sprintf("длина пароля должна быть от %d до %d, получено %d", GenerateMinLength, GenerateMaxLength, o.Length),
		}
	}
	if !o.Uppercase && !o.Lowercase && !o.Digits && !o.Symbols {
		return &Error{
			Kind:    KindConfiguration,
			Message: "должен быть включен хотя бы один класс символов",
		}
	}
	return nil
}

// LoginParams — параметры создания/редактирования записи типа Login.
// Пустое поле означает "не задано": при создании оно не передается,
// при редактировании остается без изменений. Очистка поля через
// пустую строку сознательно не поддерживается.
type LoginParams struct {
	Title    string
	Username string
	Password string
	URL      string
	Notes    string
	Vault    string
}

// ItemListArgs строит аргументы получения списка записей.
// Непустой vault ограничивает список одним хранилищем.
func ItemListArgs(vault string) []string {
	args := []string{"item", "list"}
	if vault != "" {
		args = append(args, "--vault", vault)
	}
	return append(args, "--format", "json")
}

// VaultListArgs строит аргументы получения списка хранилищ.
func VaultListArgs() []string {
	return []string{"vault", "list", "--format", "json"}
}

// ItemGetArgs строит аргументы получения полной записи.
func ItemGetArgs(id string) ([]string, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &Error{Kind: KindConfiguration, Message: "идентификатор записи не может быть пустым"}
	}
	return []string{"item", "get", id, "--format", "json"}, nil
}

// FieldArgs строит аргументы получения одного поля записи.
func FieldArgs(id, field string) ([]string, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &Error{Kind: KindConfiguration, Message: "идентификатор записи не может быть пустым"}
	}
	if strings.TrimSpace(field) == "" {
		return nil, &Error{Kind: KindConfiguration, Message: "имя поля не может быть пустым"}
	}
	return []string{"item", "get", id, "--fields", field}, nil
}

// OTPArgs строит аргументы получения одноразового пароля записи.
func OTPArgs(id string) ([]string, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &Error{Kind: KindConfiguration, Message: "идентификатор записи не может быть пустым"}
	}
	return []string{"item", "get", id, "--otp"}, nil
}

// GenerateArgs строит аргументы генерации пароля. Включенные классы
// символов транслируются в флаги подавления выключенных классов.
func GenerateArgs(o GenerateOptions) ([]string, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	args := []string{"item", "generate", "--category", "password", "--length", strconv.Itoa(o.Length)}
	if !o.Uppercase {
		args = append(args, "--no-uppercase")
	}
	if !o.Lowercase {
		args = append(args, "--no-lowercase")
	}
	if !o.Digits {
		args = append(args, "--no-digits")
	}
	if !o.Symbols {
		args = append(args, "--no-symbols")
	}
	if o.ExcludeAmbiguous {
		args = append(args, "--exclude-ambiguous")
	}
	return append(args, "--format", "json"), nil
}

// loginFlagArgs добавляет опциональные флаги записи. Не заданные (пустые)
// параметры опускаются целиком, а не передаются пустой строкой.
func loginFlagArgs(args []string, p LoginParams) []string {
	if p.Vault != "" {
		args = append(args, "--vault", p.Vault)
	}
	if p.Username != "" {
		args = append(args, "--username", p.Username)
	}
	if p.Password != "" {
		args = append(args, "--password", p.Password)
	}
	if p.URL != "" {
		args = append(args, "--url", p.URL)
	}
	if p.Notes != "" {
		args = append(args, "--notes", p.Notes)
	}
	return args
}

// CreateLoginArgs строит аргументы создания записи типа Login.
func CreateLoginArgs(p LoginParams) ([]string, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, &Error{Kind: KindConfiguration, Message: "название записи не может быть пустым"}
	}
	args := []string{"item", "create", "Login", "--title", p.Title}
	args = loginFlagArgs(args, p)
	return append(args, "--format", "json"), nil
}

// EditLoginArgs строит аргументы редактирования записи. Название меняется
// только если задано новое.
func EditLoginArgs(id string, p LoginParams) ([]string, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &Error{Kind: KindConfiguration, Message: "идентификатор записи не может быть пустым"}
	}
	args := []string{"item", "edit", id}
	if p.Title != "" {
		args = append(args, "--title", p.Title)
	}
	args = loginFlagArgs(args, p)
	return append(args, "--format", "json"), nil
}

// SplitCommand разбивает командную строку на аргументы по пробелам,
// учитывая участки в двойных кавычках: закавыченный аргумент с пробелами
// остается одним токеном. Интерполяция оболочки не используется намеренно —
// значения с метасимволами передаются в argv как есть.
func SplitCommand(line string) []string {
	var args []string
	var cur strings.Builder
	inQuotes := false
	hasToken := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			hasToken = true
		case unicode.IsSpace(r) && !inQuotes:
			if hasToken {
				args = append(args, cur.String())
				cur.Reset()
				hasToken = false
			}
		default:
			cur.WriteRune(r)
			hasToken = true
		}
	}
	if hasToken {
		args = append(args, cur.String())
	}
	return args
}
