package tui

import (
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/oplaunch/internal/op"
)

// Update обрабатывает сообщения и обновляет модель.
// Сначала глобальные сообщения (размер окна, результаты асинхронных команд),
// затем маршрутизация по текущему экрану.
//
//nolint:gocognit,gocyclo,funlen // Центральный роутер сообщений
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := m.docStyle.GetFrameSize()
		listHeight := msg.Height - v - helpStatusHeightOffset
		m.itemList.SetSize(msg.Width-h, listHeight)
		m.vaultList.SetSize(msg.Width-h, listHeight)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case setupStatusMsg:
		m.setupChecked = true
		m.opInstalled = msg.installed
		m.opSignedIn = msg.signedIn
		if m.state == setupScreen && msg.installed && msg.signedIn {
			// Все готово — сразу к списку.
			return m, m.enterItemList()
		}
		return m, nil

	case itemsLoadedMsg:
		m.loading = false
		m.listErr = nil
		m.items = msg.items
		m.itemCache.Set(msg.items)
		m.applyQuery()
		return m, nil

	case itemsLoadErrorMsg:
		m.loading = false
		m.listErr = asListError(msg.err)
		return m, nil

	case vaultsLoadedMsg:
		m.vaultCache.Set(msg.vaults)
		m.setVaultRows(msg.vaults)
		return m, nil

	case vaultsLoadErrorMsg:
		return m.setStatusMessage("Ошибка загрузки хранилищ: " + errorText(msg.err))

	case itemDetailMsg:
		m.status = ""
		if msg.forEdit {
			m.prepareLoginForm(msg.item)
			return m, tea.ClearScreen
		}
		m.selectedItem = msg.item
		m.revealSecrets = false
		m.state = itemDetailScreen
		return m, tea.ClearScreen

	case itemDetailErrorMsg:
		return m.setStatusMessage("Ошибка: " + errorText(msg.err))

	case copiedMsg:
		return m.setStatusMessage(msg.what + " скопирован в буфер обмена")

	case copyErrorMsg:
		return m.setStatusMessage(fmt.Sprintf("Ошибка (%s): %s", msg.what, errorText(msg.err)))

	case otpAbsentMsg:
		return m.setStatusMessage("У записи нет одноразового пароля")

	case urlOpenedMsg:
		return m.setStatusMessage("URL открыт в браузере")

	case generatedMsg:
		m.genResult = msg.password
		return m.setStatusMessage("Пароль скопирован в буфер обмена")

	case generateErrorMsg:
		if m.state == generateScreen {
			m.genError = errorText(msg.err)
			return m, nil
		}
		return m.setStatusMessage("Ошибка генерации: " + errorText(msg.err))

	case itemSavedMsg:
		// Снимок устарел — сбрасываем и перечитываем список.
		m.itemCache.Invalidate()
		slog.Info("Возврат к списку после сохранения", "id", msg.item.ID)
		return m.setStatusMessage("Запись '"+msg.item.Title+"' сохранена", m.enterItemList())

	case itemSaveErrorMsg:
		if m.state == loginFormScreen {
			m.formError = errorText(msg.err)
			return m, nil
		}
		return m.setStatusMessage("Ошибка сохранения: " + errorText(msg.err))
	}

	switch m.state {
	case setupScreen:
		return m.updateSetupScreen(msg)
	case itemListScreen:
		return m.updateItemListScreen(msg)
	case itemDetailScreen:
		return m.updateItemDetailScreen(msg)
	case generateScreen:
		return m.updateGenerateScreen(msg)
	case loginFormScreen:
		return m.updateLoginFormScreen(msg)
	case vaultListScreen:
		return m.updateVaultListScreen(msg)
	default:
		return m, nil
	}
}

// asListError приводит ошибку загрузки списка к типизированной ошибке для
// панели с инструкциями.
func asListError(err error) *op.Error {
	var opErr *op.Error
	if errors.As(err, &opErr) {
		return opErr
	}
	return &op.Error{Kind: op.KindCommandFailed, Message: err.Error()}
}
