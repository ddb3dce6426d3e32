package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/oplaunch/internal/op"
)

// updateSetupScreen обрабатывает сообщения для экрана состояния интеграции.
func (m *model) updateSetupScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", keyEsc:
		return m, tea.Quit
	case "r":
		m.setupChecked = false
		return m.setStatusMessage("Проверка интеграции...", m.checkSetupCmd())
	case keyEnter:
		// Продолжить можно и без активного входа: первый вызов инициирует
		// сеанс или вернет понятную ошибку на экране списка.
		if m.opInstalled {
			return m, m.enterItemList()
		}
		return m, nil
	}
	return m, nil
}

// viewSetupScreen отображает состояние интеграции с инструментом.
func (m *model) viewSetupScreen() string {
	var b strings.Builder
	b.WriteString("Интеграция с 1Password CLI\n\n")

	if !m.setupChecked {
		b.WriteString("  Проверка...\n")
		return b.String()
	}

	b.WriteString("  " + checkMark(m.opInstalled) + " CLI установлен\n")
	if !m.opInstalled {
		b.WriteString("\n")
		for _, line := range remediationFor(op.KindConfiguration) {
			b.WriteString("  • " + line + "\n")
		}
		return b.String()
	}

	b.WriteString("  " + checkMark(m.opSignedIn) + " Вход выполнен\n")
	if !m.opSignedIn {
		b.WriteString("\n  Вход будет запрошен при первом обращении,\n")
		b.WriteString("  либо выполните `op signin` заранее.\n")
	}
	b.WriteString("\n  enter — продолжить\n")
	return b.String()
}

func checkMark(ok bool) string {
	if ok {
		return "[ok]"
	}
	return "[ x]"
}
