//nolint:testpackage // Тесты в том же пакете для доступа к непубличным функциям
package op

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// errExit имитирует ненулевой код выхода подпроцесса в заглушках.
type errExit struct{}

func (errExit) Error() string { return "exit status 1" }

const testAccountsJSON = `[{"url":"my.1password.com","email":"dev@example.com","user_uuid":"UUID123"}]`

// newStubInvoker создает Invoker с заглушкой запуска подпроцессов.
// Заглушка получает ключ "глагол существительное" и возвращает ответ из карты.
type stubResponse struct {
	stdout string
	stderr string
	fail   bool
}

func newStubInvoker(session *SessionCache, responses map[string]stubResponse, calls *[]string) *Invoker {
	inv := NewInvoker("op", session)
	inv.run = func(_ context.Context, _ string, args []string, _ []string) (string, string, error) {
		key := commandName(args)
		*calls = append(*calls, key)
		resp, ok := responses[key]
		if !ok {
			return "", "unexpected command: " + key, errExit{}
		}
		if resp.fail {
			return resp.stdout, resp.stderr, errExit{}
		}
		return resp.stdout, resp.stderr, nil
	}
	return inv
}

// TestInvokerRunSuccess проверяет успешный вызов: stdout обрезается, stderr с
// предупреждением не считается отказом.
func TestInvokerRunSuccess(t *testing.T) {
	var calls []string
	inv := newStubInvoker(nil, map[string]stubResponse{
		"vault list": {stdout: "  [] \n", stderr: "[WARNING] outdated version\n"},
	}, &calls)

	out, err := inv.Run(context.Background(), VaultListArgs())
	require.NoError(t, err)
	assert.Equal(t, "[]", out, "stdout должен возвращаться без окружающих пробелов")
	assert.Equal(t, []string{"vault list"}, calls)
}

// TestInvokerClassification проверяет классификацию отказов по stderr.
func TestInvokerClassification(t *testing.T) {
	tests := []struct {
		name     string
		stderr   string
		wantKind Kind
	}{
		{"Not_Signed_In", "[ERROR] you are not signed in, run `op signin`", KindAuthRequired},
		{"Authentication", "[ERROR] Authentication required.", KindAuthRequired},
		{"Sign_In_Required", "[ERROR] Sign in required to continue", KindAuthRequired},
		{"App_Not_Running", "[ERROR] cannot connect to the 1Password app", KindAppUnreachable},
		{"Make_Sure_Running", "[ERROR] make sure it is running and unlocked", KindAppUnreachable},
		{"Opaque", "[ERROR] something completely different", KindCommandFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			inv := newStubInvoker(nil, map[string]stubResponse{
				"item list": {stderr: tt.stderr, fail: true},
			}, &calls)

			_, err := inv.Run(context.Background(), ItemListArgs(""))
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.wantKind), "ожидался вид %s, получено: %v", tt.wantKind, err)

			if tt.wantKind == KindCommandFailed {
				var opErr *Error
				require.ErrorAs(t, err, &opErr)
				assert.Equal(t, strings.TrimSpace(tt.stderr), opErr.Stderr, "сырой stderr должен сохраняться")
			}
		})
	}
}

// TestInvokerTimeout проверяет, что зависший подпроцесс завершается с TIMEOUT,
// а не висит бесконечно.
func TestInvokerTimeout(t *testing.T) {
	inv := NewInvoker("op", nil)
	inv.timeout = 10 * time.Millisecond
	inv.run = func(ctx context.Context, _ string, _ []string, _ []string) (string, string, error) {
		<-ctx.Done() // имитация процесса, который не завершается сам
		return "", "", ctx.Err()
	}

	start := time.Now()
	_, err := inv.Run(context.Background(), []string{"item", "list"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTimeout), "ожидался TIMEOUT, получено: %v", err)
	assert.Less(t, time.Since(start), time.Second, "вызов не должен висеть")
}

// TestInvokerStartFailure проверяет отказ запуска процесса (бинарь отсутствует).
func TestInvokerStartFailure(t *testing.T) {
	inv := NewInvoker("/nonexistent/op", nil)
	inv.run = func(_ context.Context, _ string, _ []string, _ []string) (string, string, error) {
		return "", "", assert.AnError
	}

	_, err := inv.Run(context.Background(), []string{"whoami"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConfiguration), "невозможность запуска — ошибка конфигурации")
}

// TestInvokerAuthRetry проверяет политику повтора: первый AUTH_REQUIRED
// сбрасывает сессию и повторяет команду ровно один раз.
func TestInvokerAuthRetry(t *testing.T) {
	t.Run("Retry_Succeeds", func(t *testing.T) {
		session := NewSessionCache()
		var calls []string
		itemListCalls := 0

		inv := NewInvoker("op", session)
		inv.run = func(_ context.Context, _ string, args []string, _ []string) (string, string, error) {
			key := commandName(args)
			calls = append(calls, key)
			switch key {
			case "signin --raw":
				return "TOKEN-1", "", nil
			case "account list":
				return testAccountsJSON, "", nil
			case "item list":
				itemListCalls++
				if itemListCalls == 1 {
					return "", "[ERROR] you are not signed in", errExit{}
				}
				return `[]`, "", nil
			default:
				return "", "unexpected: " + key, errExit{}
			}
		}

		out, err := inv.Run(context.Background(), ItemListArgs(""))
		require.NoError(t, err)
		assert.Equal(t, "[]", out)
		assert.Equal(t, 2, itemListCalls, "команда должна повториться ровно один раз")
	})

	t.Run("Second_Auth_Required_Is_Terminal", func(t *testing.T) {
		session := NewSessionCache()
		itemListCalls := 0

		inv := NewInvoker("op", session)
		inv.run = func(_ context.Context, _ string, args []string, _ []string) (string, string, error) {
			key := commandName(args)
			switch key {
			case "signin --raw":
				return "TOKEN-1", "", nil
			case "account list":
				return testAccountsJSON, "", nil
			case "item list":
				itemListCalls++
				return "", "[ERROR] you are not signed in", errExit{}
			default:
				return "", "unexpected: " + key, errExit{}
			}
		}

		_, err := inv.Run(context.Background(), ItemListArgs(""))
		require.Error(t, err)
		assert.True(t, IsKind(err, KindAuthRequired), "второй AUTH_REQUIRED должен дойти до вызывающего")
		assert.Equal(t, 2, itemListCalls, "не больше одного повтора — никакого бесконечного цикла")
	})
}

// TestInvokerSessionEnvPassed проверяет передачу сессии в окружение подпроцесса.
func TestInvokerSessionEnvPassed(t *testing.T) {
	session := NewSessionCache()
	var itemListEnv []string

	inv := NewInvoker("op", session)
	inv.run = func(_ context.Context, _ string, args []string, extraEnv []string) (string, string, error) {
		switch commandName(args) {
		case "signin --raw":
			return "TOKEN-XYZ", "", nil
		case "account list":
			return testAccountsJSON, "", nil
		case "item list":
			itemListEnv = extraEnv
			return "[]", "", nil
		default:
			return "", "unexpected", errExit{}
		}
	}

	_, err := inv.Run(context.Background(), ItemListArgs(""))
	require.NoError(t, err)
	require.Len(t, itemListEnv, 1)
	assert.Equal(t, "OP_SESSION_UUID123=TOKEN-XYZ", itemListEnv[0])
}

// TestRunLine проверяет выполнение команды из одной строки.
func TestRunLine(t *testing.T) {
	var gotArgs []string
	inv := NewInvoker("op", nil)
	inv.run = func(_ context.Context, _ string, args []string, _ []string) (string, string, error) {
		gotArgs = args
		return "ok", "", nil
	}

	out, err := inv.RunLine(context.Background(), `item get abc --fields "custom field"`)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, []string{"item", "get", "abc", "--fields", "custom field"}, gotArgs,
		"закавыченный аргумент должен остаться одним токеном")
}
