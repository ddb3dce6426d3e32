package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/oplaunch/internal/op"
	"github.com/maynagashev/oplaunch/internal/search"
)

// enterItemList переводит на экран списка. Устаревший, но имеющийся снимок
// показывается сразу; свежие данные запрашиваются безусловно и перезапишут
// кэш (stale-while-revalidate, сам кэш обновления не инициирует).
func (m *model) enterItemList() tea.Cmd {
	m.state = itemListScreen
	m.listErr = nil
	if snapshot, ok := m.itemCache.Get(); ok {
		m.items = snapshot
		m.applyQuery()
	}
	m.loading = true
	return tea.Batch(m.fetchItemsCmd(), tea.ClearScreen)
}

// applyQuery пересчитывает видимые строки: фильтр по хранилищу, затем
// ранжирование по текущему запросу.
func (m *model) applyQuery() {
	visible := m.items
	if m.vaultFilter != "" {
		visible = make([]op.Item, 0, len(m.items))
		for _, it := range m.items {
			if it.Vault.Name == m.vaultFilter {
				visible = append(visible, it)
			}
		}
	}

	results := search.Rank(visible, m.searchInput.Value())
	rows := make([]list.Item, len(results))
	for i, r := range results {
		rows[i] = itemRow{item: r.Item, score: r.Score}
	}
	_ = m.itemList.SetItems(rows)

	title := fmt.Sprintf("Записи (%d)", len(results))
	if m.vaultFilter != "" {
		title = fmt.Sprintf("Записи в '%s' (%d)", m.vaultFilter, len(results))
	}
	m.itemList.Title = title
}

// selectedItemID возвращает идентификатор выбранной строки списка.
func (m *model) selectedItemID() (string, bool) {
	selected := m.itemList.SelectedItem()
	if selected == nil {
		return "", false
	}
	row, ok := selected.(itemRow)
	if !ok {
		return "", false
	}
	return row.item.ID, true
}

// updateItemListScreen обрабатывает сообщения для экрана списка записей.
//
//nolint:gocognit,gocyclo // Роутинг горячих клавиш экрана
func (m *model) updateItemListScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		var cmd tea.Cmd
		m.itemList, cmd = m.itemList.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyEsc:
		// Esc сначала сбрасывает запрос и фильтр, затем выходит.
		if m.searchInput.Value() != "" || m.vaultFilter != "" {
			m.searchInput.SetValue("")
			m.vaultFilter = ""
			m.applyQuery()
			return m, nil
		}
		return m, tea.Quit

	case keyEnter:
		if id, ok := m.selectedItemID(); ok {
			slog.Info("Переход к деталям записи", "id", id)
			return m.setStatusMessage("Загрузка записи...", m.fetchItemDetailCmd(id, false))
		}
		return m, nil

	case "ctrl+p":
		if id, ok := m.selectedItemID(); ok {
			return m, m.copyFieldCmd(id, "password", "Пароль")
		}
		return m, nil

	case "ctrl+u":
		if id, ok := m.selectedItemID(); ok {
			return m, m.copyFieldCmd(id, "username", "Имя пользователя")
		}
		return m, nil

	case "ctrl+o":
		if id, ok := m.selectedItemID(); ok {
			return m, m.copyOTPCmd(id)
		}
		return m, nil

	case "ctrl+g":
		m.state = generateScreen
		m.genFocus = genFocusLength
		m.genError = ""
		m.genResult = ""
		m.genLengthInput.Focus()
		return m, tea.ClearScreen

	case "ctrl+n":
		m.prepareLoginForm(nil)
		return m, tea.ClearScreen

	case "ctrl+e":
		if id, ok := m.selectedItemID(); ok {
			return m.setStatusMessage("Загрузка записи...", m.fetchItemDetailCmd(id, true))
		}
		return m, nil

	case "ctrl+v":
		return m, m.enterVaultList()

	case "ctrl+r":
		// Принудительное обновление: сбросить кэши и запросить заново.
		m.itemCache.Invalidate()
		m.vaultCache.Invalidate()
		m.loading = true
		m.listErr = nil
		slog.Info("Принудительное обновление списка")
		return m, m.fetchItemsCmd()

	case keyUp, keyDown, "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		m.itemList, cmd = m.itemList.Update(msg)
		return m, cmd

	default:
		// Остальной ввод идет в поле поиска; изменение запроса пересчитывает
		// ранжирование.
		before := m.searchInput.Value()
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		if m.searchInput.Value() != before {
			m.applyQuery()
		}
		return m, cmd
	}
}

// viewItemListScreen отображает экран списка с поиском и панелью ошибки.
func (m *model) viewItemListScreen() string {
	var b strings.Builder
	b.WriteString(m.searchInput.View())
	if m.loading {
		b.WriteString("  (обновление...)")
	}
	b.WriteString("\n\n")

	if m.listErr != nil {
		b.WriteString(m.viewErrorPanel(m.listErr))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.itemList.View())
	return b.String()
}

// viewErrorPanel отображает ошибку уровня списка с инструкциями по
// устранению и действием повтора.
func (m *model) viewErrorPanel(opErr *op.Error) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Ошибка: %s\n\n", opErr.Message))
	for _, line := range remediationFor(opErr.Kind) {
		b.WriteString("  • " + line + "\n")
	}
	b.WriteString("\nctrl+r — повторить")
	return m.errStyle.Render(b.String())
}

// remediationFor возвращает инструкции по устранению для вида ошибки.
func remediationFor(kind op.Kind) []string {
	switch kind {
	case op.KindConfiguration:
		return []string{
			"Установите 1Password CLI: https://developer.1password.com/docs/cli/get-started/",
			"Убедитесь, что бинарь `op` доступен в PATH (или задайте -op-path).",
		}
	case op.KindAuthRequired:
		return []string{
			"Выполните `op signin` в терминале и повторите.",
		}
	case op.KindAppUnreachable:
		return []string{
			"Запустите приложение 1Password и разблокируйте его.",
			"Проверьте, что в настройках приложения включена интеграция с CLI.",
		}
	case op.KindTimeout:
		return []string{
			"Инструмент не ответил за отведенное время. Повторите попытку.",
		}
	case op.KindNotFound, op.KindCommandFailed, op.KindParseFailure:
		return []string{
			"Повторите попытку. Подробности — в логе приложения.",
		}
	default:
		return nil
	}
}
