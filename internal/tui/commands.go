package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/oplaunch/internal/op"
)

// --- Сообщения загрузки списков --- //

// itemsLoadedMsg содержит свежий снимок записей от инструмента.
type itemsLoadedMsg struct {
	items []op.Item
}

// itemsLoadErrorMsg сообщает об отказе загрузки списка записей.
type itemsLoadErrorMsg struct {
	err error
}

// vaultsLoadedMsg содержит свежий снимок хранилищ.
type vaultsLoadedMsg struct {
	vaults []op.Vault
}

// vaultsLoadErrorMsg сообщает об отказе загрузки списка хранилищ.
type vaultsLoadErrorMsg struct {
	err error
}

// --- Сообщения деталей записи --- //

// itemDetailMsg содержит полную запись для экрана деталей.
type itemDetailMsg struct {
	item    *op.Item
	forEdit bool // открыть форму редактирования вместо деталей
}

// itemDetailErrorMsg сообщает об отказе получения записи.
type itemDetailErrorMsg struct {
	err error
}

// --- Сообщения действий над строками --- //

// copiedMsg сообщает об успешном копировании значения в буфер обмена.
type copiedMsg struct {
	what string // что скопировано, для статусной строки
}

// copyErrorMsg сообщает об отказе копирования.
type copyErrorMsg struct {
	what string
	err  error
}

// otpAbsentMsg сообщает о легитимном отсутствии OTP у записи.
type otpAbsentMsg struct{}

// urlOpenedMsg сообщает об открытии адреса в браузере.
type urlOpenedMsg struct{}

// --- Сообщения генератора --- //

// generatedMsg содержит сгенерированный пароль (уже скопированный в буфер).
type generatedMsg struct {
	password string
}

// generateErrorMsg сообщает об отказе генерации.
type generateErrorMsg struct {
	err error
}

// --- Сообщения формы --- //

// itemSavedMsg сообщает об успешном создании/редактировании записи.
type itemSavedMsg struct {
	item *op.Item
}

// itemSaveErrorMsg сообщает об отказе сохранения.
type itemSaveErrorMsg struct {
	err error
}

// --- Сообщение проверки интеграции --- //

// setupStatusMsg содержит результат проверки "установлен? вход выполнен?".
type setupStatusMsg struct {
	installed bool
	signedIn  bool
}

// clearStatusCmd возвращает команду, которая отправит clearStatusMsg через delay.
func clearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// checkSetupCmd проверяет доступность инструмента и активный вход.
func (m *model) checkSetupCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		installed := client.Installed()
		signedIn := false
		if installed {
			signedIn = client.SignedIn(context.Background())
		}
		slog.Info("Проверка интеграции завершена", "installed", installed, "signed_in", signedIn)
		return setupStatusMsg{installed: installed, signedIn: signedIn}
	}
}

// fetchItemsCmd запрашивает свежий список записей. Вызывается всегда, даже
// если устаревший снимок уже показан из кэша.
func (m *model) fetchItemsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		items, err := client.ListItems(context.Background())
		if err != nil {
			slog.Error("Ошибка загрузки списка записей", "error", err)
			return itemsLoadErrorMsg{err: err}
		}
		slog.Debug("Список записей загружен", "count", len(items))
		return itemsLoadedMsg{items: items}
	}
}

// fetchVaultsCmd запрашивает свежий список хранилищ.
func (m *model) fetchVaultsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		vaults, err := client.ListVaults(context.Background())
		if err != nil {
			slog.Error("Ошибка загрузки списка хранилищ", "error", err)
			return vaultsLoadErrorMsg{err: err}
		}
		return vaultsLoadedMsg{vaults: vaults}
	}
}

// fetchItemDetailCmd запрашивает полную запись (в списке значения полей
// отсутствуют).
func (m *model) fetchItemDetailCmd(id string, forEdit bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		item, err := client.GetItem(context.Background(), id)
		if err != nil {
			slog.Error("Ошибка получения записи", "id", id, "error", err)
			return itemDetailErrorMsg{err: err}
		}
		return itemDetailMsg{item: item, forEdit: forEdit}
	}
}

// copyFieldCmd получает значение поля записи и кладет его в буфер обмена.
func (m *model) copyFieldCmd(id, field, what string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		value, err := client.GetField(context.Background(), id, field)
		if err != nil {
			slog.Error("Ошибка получения поля", "field", field, "error", err)
			return copyErrorMsg{what: what, err: err}
		}
		if err = clipboard.WriteAll(value); err != nil {
			return copyErrorMsg{what: what, err: err}
		}
		return copiedMsg{what: what}
	}
}

// copyOTPCmd получает одноразовый пароль и кладет его в буфер обмена.
// Отсутствие OTP у записи — не ошибка.
func (m *model) copyOTPCmd(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		otp, err := client.GetOTP(context.Background(), id)
		if err != nil {
			if errors.Is(err, op.ErrNoOTP) {
				return otpAbsentMsg{}
			}
			slog.Error("Ошибка получения OTP", "error", err)
			return copyErrorMsg{what: "OTP", err: err}
		}
		if err = clipboard.WriteAll(otp); err != nil {
			return copyErrorMsg{what: "OTP", err: err}
		}
		return copiedMsg{what: "OTP"}
	}
}

// copyValueCmd кладет уже известное значение в буфер обмена.
func copyValueCmd(value, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(value); err != nil {
			return copyErrorMsg{what: what, err: err}
		}
		return copiedMsg{what: what}
	}
}

// openURLCmd открывает адрес записи в браузере по умолчанию.
func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := openURL(url); err != nil {
			slog.Error("Ошибка открытия URL", "url", url, "error", err)
			return copyErrorMsg{what: "URL", err: err}
		}
		return urlOpenedMsg{}
	}
}

// generateCmd генерирует пароль и кладет его в буфер обмена. Конфигурация
// уже проверена на экране генератора.
func (m *model) generateCmd(opts op.GenerateOptions) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		password, err := client.Generate(context.Background(), opts)
		if err != nil {
			slog.Error("Ошибка генерации пароля", "error", err)
			return generateErrorMsg{err: err}
		}
		if err = clipboard.WriteAll(password); err != nil {
			return generateErrorMsg{err: err}
		}
		return generatedMsg{password: password}
	}
}

// saveLoginCmd создает или редактирует запись Login.
func (m *model) saveLoginCmd(editingID string, params op.LoginParams) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		var item *op.Item
		var err error
		if editingID == "" {
			item, err = client.CreateLogin(ctx, params)
		} else {
			item, err = client.EditLogin(ctx, editingID, params)
		}
		if err != nil {
			slog.Error("Ошибка сохранения записи", "editing_id", editingID, "error", err)
			return itemSaveErrorMsg{err: err}
		}
		slog.Info("Запись сохранена", "id", item.ID, "title", item.Title)
		return itemSavedMsg{item: item}
	}
}
