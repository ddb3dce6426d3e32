package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gofrs/flock"

	"github.com/maynagashev/oplaunch/internal/op"
)

// Отступы основного стиля документа и высота служебных строк внизу экрана.
const (
	docStyleMarginVertical   = 1
	docStyleMarginHorizontal = 2
	helpStatusHeightOffset   = 4 // поиск + пустая строка + справка + статус
)

// Init инициализирует модель: мигание курсора и проверка интеграции.
func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.checkSetupCmd())
}

// setStatusMessage устанавливает статусное сообщение и планирует его очистку.
// Дополнительные команды объединяются с таймером очистки.
func (m *model) setStatusMessage(status string, cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	m.status = status
	all := make([]tea.Cmd, 0, len(cmds)+1)
	all = append(all, cmds...)
	all = append(all, clearStatusCmd(statusMessageTimeout))
	return m, tea.Batch(all...)
}

// View отображает текущий экран с общей справкой и статусной строкой.
func (m *model) View() string {
	var body string
	switch m.state {
	case setupScreen:
		body = m.viewSetupScreen()
	case itemListScreen:
		body = m.viewItemListScreen()
	case itemDetailScreen:
		body = m.viewItemDetailScreen()
	case generateScreen:
		body = m.viewGenerateScreen()
	case loginFormScreen:
		body = m.viewLoginFormScreen()
	case vaultListScreen:
		body = m.viewVaultListScreen()
	default:
		body = "Неизвестное состояние"
	}

	footer := "\n" + m.helpTextMap[m.state]
	if m.status != "" {
		footer += "\n" + m.status
	}
	if m.debugMode {
		footer += fmt.Sprintf("\n[debug] state=%s size=%dx%d", m.state, m.width, m.height)
	}
	return m.docStyle.Render(body + footer)
}

// Start запускает TUI приложение. Одновременно может работать только один
// экземпляр: второй держал бы собственный слот сеанса и кэши вразнобой.
func Start(opPath, vault string, debugMode bool) error {
	lockPath := filepath.Join(os.TempDir(), "oplaunch.lock")
	fileLock := flock.New(lockPath)
	locked, err := fileLock.TryLock()
	if err != nil {
		return fmt.Errorf("не удалось получить блокировку %s: %w", lockPath, err)
	}
	if !locked {
		return fmt.Errorf("приложение уже запущено (блокировка %s)", lockPath)
	}
	defer func() {
		if unlockErr := fileLock.Unlock(); unlockErr != nil {
			slog.Error("Ошибка снятия блокировки", "error", unlockErr)
		}
	}()

	client := op.NewClient(opPath, vault)
	m := initModel(client, debugMode)

	slog.Info("Запуск TUI", "op_path", opPath, "vault", vault, "debug", debugMode)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err = p.Run(); err != nil {
		return fmt.Errorf("ошибка выполнения программы: %w", err)
	}
	return nil
}
