package op

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout — предел времени одного вызова внешнего инструмента.
// По истечении подпроцесс принудительно завершается.
const DefaultTimeout = 30 * time.Second

// runnerFunc запускает подпроцесс и возвращает stdout, stderr и ошибку
// выполнения. Вынесена в поле структуры как шов для тестов.
type runnerFunc func(ctx context.Context, name string, args []string, extraEnv []string) (string, string, error)

// execRunner — боевая реализация: запуск через os/exec, аргументы передаются
// вектором без интерпретации оболочкой.
func execRunner(ctx context.Context, name string, args []string, extraEnv []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), extraEnv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Invoker выполняет команды внешнего инструмента: собирает окружение с
// сессией, ограничивает время выполнения и классифицирует отказы по stderr.
type Invoker struct {
	opPath  string
	timeout time.Duration
	session *SessionCache
	run     runnerFunc
}

// NewInvoker создает Invoker с боевым запуском подпроцессов.
// session может быть nil — тогда вызовы идут без переменной сессии.
func NewInvoker(opPath string, session *SessionCache) *Invoker {
	return &Invoker{
		opPath:  opPath,
		timeout: DefaultTimeout,
		session: session,
		run:     execRunner,
	}
}

// Run выполняет команду с сессией из кэша. При AUTH_REQUIRED сессия
// сбрасывается и команда повторяется ровно один раз с заново полученной
// сессией; повторный AUTH_REQUIRED возвращается вызывающему.
func (inv *Invoker) Run(ctx context.Context, args []string) (string, error) {
	out, err := inv.runWithSession(ctx, args)
	if IsKind(err, KindAuthRequired) && inv.session != nil {
		slog.Info("Сессия недействительна, повтор с новой сессией", "command", commandName(args))
		inv.session.Invalidate()
		out, err = inv.runWithSession(ctx, args)
	}
	return out, err
}

// RunLine выполняет команду, заданную одной строкой. Строка разбивается на
// токены с учетом двойных кавычек (см. SplitCommand).
func (inv *Invoker) RunLine(ctx context.Context, line string) (string, error) {
	return inv.Run(ctx, SplitCommand(line))
}

// runWithSession добавляет переменную окружения сессии, если ее удалось
// получить. Отсутствие сессии не блокирует вызов: инструмент сам сообщит
// о необходимости входа.
func (inv *Invoker) runWithSession(ctx context.Context, args []string) (string, error) {
	var extraEnv []string
	if inv.session != nil {
		if h := inv.session.Resolve(ctx, inv); h != nil {
			extraEnv = append(extraEnv, h.EnvName+"="+h.Token)
		}
	}
	return inv.execute(ctx, args, extraEnv)
}

// runDirect выполняет команду без сессии и без повтора. Используется при
// получении самой сессии, чтобы исключить рекурсию.
func (inv *Invoker) runDirect(ctx context.Context, args []string) (string, error) {
	return inv.execute(ctx, args, nil)
}

// execute — единственная точка запуска подпроцесса.
func (inv *Invoker) execute(ctx context.Context, args []string, extraEnv []string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	start := time.Now()
	stdout, stderr, err := inv.run(cctx, inv.opPath, args, extraEnv)
	slog.Debug("Вызов завершен", "command", commandName(args), "duration", time.Since(start), "failed", err != nil)

	if err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return "", &Error{
				Kind:    KindTimeout,
				Message: fmt.Sprintf("команда %q не завершилась за %s", commandName(args), inv.timeout),
			}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) || stderr != "" {
			return "", classifyFailure(stderr)
		}
		// Процесс не удалось запустить вовсе: бинарь отсутствует или не исполняем.
		return "", &Error{
			Kind:    KindConfiguration,
			Message: fmt.Sprintf("не удалось запустить %s: %v", inv.opPath, err),
		}
	}

	// Предупреждения при нулевом коде выхода — не отказ, только лог.
	if stderr != "" && strings.Contains(strings.ToLower(stderr), "warning") {
		slog.Warn("Инструмент сообщил предупреждение", "command", commandName(args), "stderr", strings.TrimSpace(stderr))
	}

	return strings.TrimSpace(stdout), nil
}

// classifyFailure сопоставляет stderr с известными подстроками (без учета
// регистра) и возвращает типизированную ошибку. Неопознанный stderr
// сохраняется как есть в COMMAND_FAILED.
func classifyFailure(stderr string) *Error {
	trimmed := strings.TrimSpace(stderr)
	ls := strings.ToLower(trimmed)
	switch {
	case strings.Contains(ls, "not signed in"),
		strings.Contains(ls, "authentication"),
		strings.Contains(ls, "sign in required"):
		return &Error{Kind: KindAuthRequired, Message: "требуется вход (op signin)", Stderr: trimmed}
	case strings.Contains(ls, "cannot connect") && strings.Contains(ls, "app"),
		strings.Contains(ls, "make sure it is running"):
		return &Error{Kind: KindAppUnreachable, Message: "приложение 1Password недоступно", Stderr: trimmed}
	default:
		msg := "команда завершилась с ошибкой"
		if trimmed != "" {
			msg = firstLine(trimmed)
		}
		return &Error{Kind: KindCommandFailed, Message: msg, Stderr: trimmed}
	}
}

// commandName возвращает глагол и существительное команды для логов.
// Полный список аргументов не логируется: он может содержать секреты.
func commandName(args []string) string {
	const verbNoun = 2
	if len(args) >= verbNoun {
		return strings.Join(args[:verbNoun], " ")
	}
	return strings.Join(args, " ")
}

// firstLine возвращает первую строку текста.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
