package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/oplaunch/internal/op"
)

// prepareLoginForm открывает форму записи Login. При item == nil — создание
// с пустыми полями, иначе — редактирование с предзаполнением из снимка.
// При редактировании пустое поле означает "не менять", а не "стереть".
func (m *model) prepareLoginForm(item *op.Item) {
	for i := range m.formInputs {
		m.formInputs[i].SetValue("")
		m.formInputs[i].Blur()
	}

	if item != nil {
		m.editingID = item.ID
		m.formInputs[formFieldTitle].SetValue(item.Title)
		m.formInputs[formFieldUsername].SetValue(item.Username())
		m.formInputs[formFieldPassword].SetValue(item.Password())
		m.formInputs[formFieldURL].SetValue(item.PrimaryURL())
		m.formInputs[formFieldNotes].SetValue(item.Notes())
		m.formInputs[formFieldVault].SetValue(item.Vault.Name)
	} else {
		m.editingID = ""
		if m.vaultFilter != "" {
			m.formInputs[formFieldVault].SetValue(m.vaultFilter)
		}
	}

	m.formError = ""
	m.formFocus = formFieldTitle
	m.formInputs[formFieldTitle].Focus()
	m.state = loginFormScreen
}

// loginParamsFromForm собирает параметры записи из полей формы.
// Пустые поля остаются пустыми строками: для создания они будут опущены,
// для редактирования — означают отсутствие изменения.
func (m *model) loginParamsFromForm() op.LoginParams {
	return op.LoginParams{
		Title:    strings.TrimSpace(m.formInputs[formFieldTitle].Value()),
		Username: m.formInputs[formFieldUsername].Value(),
		Password: m.formInputs[formFieldPassword].Value(),
		URL:      strings.TrimSpace(m.formInputs[formFieldURL].Value()),
		Notes:    m.formInputs[formFieldNotes].Value(),
		Vault:    strings.TrimSpace(m.formInputs[formFieldVault].Value()),
	}
}

// setFormFocus переводит фокус на поле с индексом idx.
func (m *model) setFormFocus(idx int) tea.Cmd {
	m.formFocus = idx
	var cmd tea.Cmd
	for i := range m.formInputs {
		if i == idx {
			cmd = m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return cmd
}

// updateLoginFormScreen обрабатывает сообщения для формы создания/редактирования.
func (m *model) updateLoginFormScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		var cmd tea.Cmd
		m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyEsc:
		m.state = itemListScreen
		m.formError = ""
		return m, tea.ClearScreen

	case keyTab, keyDown:
		return m, m.setFormFocus((m.formFocus + 1) % numFormFields)

	case keyShiftTab, keyUp:
		return m, m.setFormFocus((m.formFocus + numFormFields - 1) % numFormFields)

	case keyEnter:
		params := m.loginParamsFromForm()
		if params.Title == "" {
			m.formError = "Название обязательно"
			return m, nil
		}
		m.formError = ""
		status := "Создание записи..."
		if m.editingID != "" {
			status = "Сохранение записи..."
		}
		return m.setStatusMessage(status, m.saveLoginCmd(m.editingID, params))
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

// viewLoginFormScreen отображает форму создания/редактирования записи.
func (m *model) viewLoginFormScreen() string {
	labels := [numFormFields]string{
		formFieldTitle:    "Название",
		formFieldUsername: "Имя пользователя",
		formFieldPassword: "Пароль",
		formFieldURL:      "URL",
		formFieldNotes:    "Заметки",
		formFieldVault:    "Хранилище",
	}

	var b strings.Builder
	if m.editingID == "" {
		b.WriteString("Новая запись Login\n\n")
	} else {
		b.WriteString("Редактирование записи\n")
		b.WriteString("Пустое поле оставит текущее значение без изменений\n\n")
	}

	for i, input := range m.formInputs {
		cursor := "  "
		if m.formFocus == i {
			cursor = "> "
		}
		b.WriteString(cursor + labels[i] + ":\n")
		b.WriteString("  " + input.View() + "\n\n")
	}

	if m.formError != "" {
		b.WriteString(m.errStyle.Render(m.formError) + "\n")
	}
	return b.String()
}
