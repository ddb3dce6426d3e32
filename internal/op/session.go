package op

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// SessionEnvPrefix — префикс имени переменной окружения, через которую
// токен сессии передается подпроцессу.
const SessionEnvPrefix = "OP_SESSION_"

// SessionHandle — активная сессия: имя переменной окружения и значение токена.
type SessionHandle struct {
	EnvName string
	Token   string
}

// directRunner выполняет команду без сессии и без повторов.
// Реализуется Invoker-ом; в тестах подменяется заглушкой.
type directRunner interface {
	runDirect(ctx context.Context, args []string) (string, error)
}

// SessionCache — единственный слот сессии на процесс. На диск не
// сохраняется: новый запуск всегда получает сессию заново.
type SessionCache struct {
	mu     sync.Mutex
	handle *SessionHandle
}

// NewSessionCache создает пустой кэш сессии.
func NewSessionCache() *SessionCache {
	return &SessionCache{}
}

// Resolve возвращает сессию: сначала закэшированную, иначе запрашивает
// новый токен (`signin --raw`) и собирает имя переменной из идентификатора
// первой учетной записи (`account list`). При любой неудаче возвращает nil —
// вызов пойдет без сессии, и путь AUTH_REQUIRED у Invoker-а предложит
// интерактивный вход.
func (c *SessionCache) Resolve(ctx context.Context, runner directRunner) *SessionHandle {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle != nil {
		return c.handle
	}

	token, err := runner.runDirect(ctx, []string{"signin", "--raw"})
	if err != nil || token == "" {
		slog.Debug("Не удалось получить токен сессии", "error", err)
		return nil
	}

	account, err := firstAccountID(ctx, runner)
	if err != nil {
		slog.Debug("Не удалось определить учетную запись для сессии", "error", err)
		return nil
	}

	c.handle = &SessionHandle{
		EnvName: SessionEnvPrefix + account,
		Token:   token,
	}
	slog.Info("Сессия получена", "env", c.handle.EnvName)
	return c.handle
}

// Invalidate безусловно очищает слот сессии.
func (c *SessionCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handle = nil
}

// firstAccountID возвращает user_uuid первой учетной записи из
// `account list --format json`. Детерминированная замена разбора
// свободной формы `export OP_SESSION_...=` из вывода интерактивного входа.
func firstAccountID(ctx context.Context, runner directRunner) (string, error) {
	out, err := runner.runDirect(ctx, []string{"account", "list", "--format", "json"})
	if err != nil {
		return "", err
	}
	var accounts []Account
	if err = json.Unmarshal([]byte(out), &accounts); err != nil {
		return "", &Error{Kind: KindParseFailure, Message: "не удалось разобрать список учетных записей: " + err.Error()}
	}
	if len(accounts) == 0 || accounts[0].UserUUID == "" {
		return "", &Error{Kind: KindNotFound, Message: "учетные записи не найдены"}
	}
	return accounts[0].UserUUID, nil
}
