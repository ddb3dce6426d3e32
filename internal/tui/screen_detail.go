package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const concealedPlaceholder = "••••••••"

// updateItemDetailScreen обрабатывает сообщения для экрана деталей записи.
func (m *model) updateItemDetailScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey || m.selectedItem == nil {
		return m, nil
	}

	item := m.selectedItem
	switch keyMsg.String() {
	case keyEsc, keyBack:
		m.selectedItem = nil
		m.revealSecrets = false
		m.state = itemListScreen
		return m, tea.ClearScreen
	case "s":
		m.revealSecrets = !m.revealSecrets
		return m, nil
	case "p":
		// Значение уже в снимке — копируем без повторного обращения к инструменту.
		if password := item.Password(); password != "" {
			return m, copyValueCmd(password, "Пароль")
		}
		return m, m.copyFieldCmd(item.ID, "password", "Пароль")
	case "u":
		if username := item.Username(); username != "" {
			return m, copyValueCmd(username, "Имя пользователя")
		}
		return m, m.copyFieldCmd(item.ID, "username", "Имя пользователя")
	case "o":
		return m, m.copyOTPCmd(item.ID)
	case "x":
		if url := item.PrimaryURL(); url != "" {
			return m, openURLCmd(url)
		}
		return m.setStatusMessage("У записи нет URL")
	case "e":
		m.prepareLoginForm(item)
		return m, tea.ClearScreen
	}
	return m, nil
}

// viewItemDetailScreen отображает все поля записи; скрытые значения
// маскируются, пока не включен показ.
func (m *model) viewItemDetailScreen() string {
	if m.selectedItem == nil {
		return "Запись не выбрана"
	}
	item := m.selectedItem

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s\n", item.Title))
	b.WriteString(fmt.Sprintf("Категория: %s | Хранилище: %s\n\n", item.Category, item.Vault.Name))

	for _, f := range item.Fields {
		value := f.Value
		if value == "" {
			continue
		}
		if f.Concealed() && !m.revealSecrets {
			value = concealedPlaceholder
		}
		label := f.Label
		if f.Section != nil && f.Section.Label != "" {
			label = f.Section.Label + " / " + label
		}
		b.WriteString(fmt.Sprintf("  %-20s %s\n", label+":", value))
	}

	for _, u := range item.URLs {
		b.WriteString(fmt.Sprintf("  %-20s %s\n", "URL:", u.HRef))
	}

	if !item.UpdatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("\nОбновлено: %s", item.UpdatedAt.Format(time.RFC3339)))
		if item.LastEditedBy != "" {
			b.WriteString(" (" + item.LastEditedBy + ")")
		}
		b.WriteString("\n")
	}

	return b.String()
}
