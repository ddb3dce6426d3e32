package op

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Client определяет высокоуровневые операции над внешним инструментом.
type Client interface {
	// ListItems возвращает записи (опционально в пределах хранилища по умолчанию).
	ListItems(ctx context.Context) ([]Item, error)
	// ListVaults возвращает доступные хранилища.
	ListVaults(ctx context.Context) ([]Vault, error)
	// GetItem возвращает полную запись по идентификатору.
	GetItem(ctx context.Context, id string) (*Item, error)
	// GetField возвращает значение одного поля записи.
	GetField(ctx context.Context, id, field string) (string, error)
	// GetOTP возвращает одноразовый пароль записи. Отсутствие OTP у записи —
	// легитимный случай, сигнализируется через ErrNoOTP.
	GetOTP(ctx context.Context, id string) (string, error)
	// Generate генерирует пароль с указанной конфигурацией.
	Generate(ctx context.Context, o GenerateOptions) (string, error)
	// CreateLogin создает запись типа Login и возвращает ее снимок.
	CreateLogin(ctx context.Context, p LoginParams) (*Item, error)
	// EditLogin редактирует запись и возвращает обновленный снимок.
	EditLogin(ctx context.Context, id string, p LoginParams) (*Item, error)
	// Installed сообщает, доступен ли бинарь инструмента.
	Installed() bool
	// SignedIn сообщает, есть ли активный вход.
	SignedIn(ctx context.Context) bool
}

// cliClient реализует Client поверх Invoker-а.
type cliClient struct {
	opPath  string
	vault   string // хранилище по умолчанию для списков; пусто — все
	invoker *Invoker
}

// NewClient создает клиент с собственным кэшем сессии.
func NewClient(opPath, vault string) Client {
	return &cliClient{
		opPath:  opPath,
		vault:   vault,
		invoker: NewInvoker(opPath, NewSessionCache()),
	}
}

// ListItems возвращает записи. Пустой вывод — пустой список, не ошибка.
func (c *cliClient) ListItems(ctx context.Context) ([]Item, error) {
	out, err := c.invoker.Run(ctx, ItemListArgs(c.vault))
	if err != nil {
		return nil, fmt.Errorf("получение списка записей: %w", err)
	}
	if out == "" {
		return []Item{}, nil
	}
	var items []Item
	if err = json.Unmarshal([]byte(out), &items); err != nil {
		return nil, &Error{Kind: KindParseFailure, Message: "не удалось разобрать список записей: " + err.Error()}
	}
	return items, nil
}

// ListVaults возвращает хранилища. Пустой вывод — пустой список, не ошибка.
func (c *cliClient) ListVaults(ctx context.Context) ([]Vault, error) {
	out, err := c.invoker.Run(ctx, VaultListArgs())
	if err != nil {
		return nil, fmt.Errorf("получение списка хранилищ: %w", err)
	}
	if out == "" {
		return []Vault{}, nil
	}
	var vaults []Vault
	if err = json.Unmarshal([]byte(out), &vaults); err != nil {
		return nil, &Error{Kind: KindParseFailure, Message: "не удалось разобрать список хранилищ: " + err.Error()}
	}
	return vaults, nil
}

// GetItem возвращает полную запись.
func (c *cliClient) GetItem(ctx context.Context, id string) (*Item, error) {
	args, err := ItemGetArgs(id)
	if err != nil {
		return nil, err
	}
	out, err := c.invoker.Run(ctx, args)
	if err != nil {
		if isNotFoundStderr(err) {
			return nil, &Error{Kind: KindNotFound, Message: fmt.Sprintf("запись %q не найдена", id)}
		}
		return nil, fmt.Errorf("получение записи %q: %w", id, err)
	}
	var item Item
	if err = json.Unmarshal([]byte(out), &item); err != nil {
		return nil, &Error{Kind: KindParseFailure, Message: "не удалось разобрать запись: " + err.Error()}
	}
	return &item, nil
}

// GetField возвращает значение одного поля. Отсутствие поля — отдельная
// ошибка NOT_FOUND, не сливается с общим отказом команды.
func (c *cliClient) GetField(ctx context.Context, id, field string) (string, error) {
	args, err := FieldArgs(id, field)
	if err != nil {
		return "", err
	}
	out, err := c.invoker.Run(ctx, args)
	if err != nil {
		var opErr *Error
		if errors.As(err, &opErr) && opErr.Kind == KindCommandFailed && strings.Contains(strings.ToLower(opErr.Stderr), "field") {
			return "", &Error{Kind: KindNotFound, Message: fmt.Sprintf("поле %q не найдено", field), Stderr: opErr.Stderr}
		}
		return "", fmt.Errorf("получение поля %q: %w", field, err)
	}
	if out == "" {
		return "", &Error{Kind: KindNotFound, Message: fmt.Sprintf("поле %q не найдено", field)}
	}
	return out, nil
}

// GetOTP возвращает одноразовый пароль записи.
func (c *cliClient) GetOTP(ctx context.Context, id string) (string, error) {
	args, err := OTPArgs(id)
	if err != nil {
		return "", err
	}
	out, err := c.invoker.Run(ctx, args)
	if err != nil {
		var opErr *Error
		if errors.As(err, &opErr) && strings.Contains(strings.ToLower(opErr.Stderr), "one-time password") {
			return "", ErrNoOTP
		}
		return "", fmt.Errorf("получение одноразового пароля: %w", err)
	}
	if out == "" {
		return "", ErrNoOTP
	}
	return out, nil
}

// Generate генерирует пароль. Конфигурация проверяется до вызова; сам
// пароль извлекается из JSON созданной инструментом записи.
func (c *cliClient) Generate(ctx context.Context, o GenerateOptions) (string, error) {
	args, err := GenerateArgs(o)
	if err != nil {
		return "", err
	}
	out, err := c.invoker.Run(ctx, args)
	if err != nil {
		return "", fmt.Errorf("генерация пароля: %w", err)
	}
	var item Item
	if err = json.Unmarshal([]byte(out), &item); err != nil {
		return "", &Error{Kind: KindParseFailure, Message: "не удалось разобрать результат генерации: " + err.Error()}
	}
	password := item.Password()
	if password == "" {
		return "", &Error{Kind: KindParseFailure, Message: "результат генерации не содержит пароля"}
	}
	return password, nil
}

// CreateLogin создает запись типа Login.
func (c *cliClient) CreateLogin(ctx context.Context, p LoginParams) (*Item, error) {
	if p.Vault == "" {
		p.Vault = c.vault
	}
	args, err := CreateLoginArgs(p)
	if err != nil {
		return nil, err
	}
	return c.runItemMutation(ctx, args, "создание записи")
}

// EditLogin редактирует запись. Не заданные параметры остаются без изменений.
func (c *cliClient) EditLogin(ctx context.Context, id string, p LoginParams) (*Item, error) {
	args, err := EditLoginArgs(id, p)
	if err != nil {
		return nil, err
	}
	return c.runItemMutation(ctx, args, "редактирование записи")
}

// runItemMutation выполняет команду, возвращающую JSON записи.
func (c *cliClient) runItemMutation(ctx context.Context, args []string, action string) (*Item, error) {
	out, err := c.invoker.Run(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	var item Item
	if err = json.Unmarshal([]byte(out), &item); err != nil {
		return nil, &Error{Kind: KindParseFailure, Message: "не удалось разобрать запись: " + err.Error()}
	}
	return &item, nil
}

// Installed проверяет наличие бинаря инструмента в PATH (или по явному пути).
func (c *cliClient) Installed() bool {
	_, err := exec.LookPath(c.opPath)
	return err == nil
}

// SignedIn проверяет активный вход через `whoami`.
func (c *cliClient) SignedIn(ctx context.Context) bool {
	_, err := c.invoker.Run(ctx, []string{"whoami"})
	return err == nil
}

// isNotFoundStderr распознает отказ "запись не найдена" в stderr.
func isNotFoundStderr(err error) bool {
	var opErr *Error
	if !errors.As(err, &opErr) || opErr.Kind != KindCommandFailed {
		return false
	}
	ls := strings.ToLower(opErr.Stderr)
	return strings.Contains(ls, "isn't an item") || strings.Contains(ls, "not found")
}
