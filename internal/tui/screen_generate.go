package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/oplaunch/internal/op"
)

// Подписи переключателей генератора в порядке фокуса.
var genToggleLabels = [numGenFocusable - 1]string{
	"Прописные буквы (A-Z)",
	"Строчные буквы (a-z)",
	"Цифры (0-9)",
	"Символы (!@#...)",
	"Исключить неоднозначные (l, 1, O, 0)",
}

// generateOptionsFromForm собирает конфигурацию генератора из состояния
// экрана. Нечисловая длина — ошибка конфигурации до любого вызова.
func (m *model) generateOptionsFromForm() (op.GenerateOptions, error) {
	length, err := strconv.Atoi(strings.TrimSpace(m.genLengthInput.Value()))
	if err != nil {
		return op.GenerateOptions{}, &op.Error{Kind: op.KindConfiguration, Message: "длина должна быть числом"}
	}
	opts := op.GenerateOptions{
		Length:           length,
		Uppercase:        m.genToggles[genFocusUppercase-1],
		Lowercase:        m.genToggles[genFocusLowercase-1],
		Digits:           m.genToggles[genFocusDigits-1],
		Symbols:          m.genToggles[genFocusSymbols-1],
		ExcludeAmbiguous: m.genToggles[genFocusAmbiguous-1],
	}
	if err = opts.Validate(); err != nil {
		return op.GenerateOptions{}, err
	}
	return opts, nil
}

// updateGenerateScreen обрабатывает сообщения для экрана генератора.
func (m *model) updateGenerateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		var cmd tea.Cmd
		m.genLengthInput, cmd = m.genLengthInput.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyEsc:
		m.state = itemListScreen
		m.genLengthInput.Blur()
		return m, tea.ClearScreen

	case keyTab, keyDown:
		m.genFocus = (m.genFocus + 1) % numGenFocusable
		m.syncGenFocus()
		return m, nil

	case keyShiftTab, keyUp:
		m.genFocus = (m.genFocus + numGenFocusable - 1) % numGenFocusable
		m.syncGenFocus()
		return m, nil

	case keySpace:
		if m.genFocus > genFocusLength {
			m.genToggles[m.genFocus-1] = !m.genToggles[m.genFocus-1]
			m.genError = ""
			return m, nil
		}

	case keyEnter:
		opts, err := m.generateOptionsFromForm()
		if err != nil {
			// Ошибка конфигурации показывается на месте; инструмент не вызывается.
			m.genError = errorText(err)
			return m, nil
		}
		m.genError = ""
		return m.setStatusMessage("Генерация...", m.generateCmd(opts))
	}

	if m.genFocus == genFocusLength {
		var cmd tea.Cmd
		m.genLengthInput, cmd = m.genLengthInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// syncGenFocus переключает фокус поля длины в соответствии с m.genFocus.
func (m *model) syncGenFocus() {
	if m.genFocus == genFocusLength {
		m.genLengthInput.Focus()
	} else {
		m.genLengthInput.Blur()
	}
}

// viewGenerateScreen отображает форму генератора.
func (m *model) viewGenerateScreen() string {
	var b strings.Builder
	b.WriteString("Генератор паролей\n\n")
	b.WriteString(fmt.Sprintf("  Длина (%d-%d): %s\n\n", op.GenerateMinLength, op.GenerateMaxLength, m.genLengthInput.View()))

	for i, label := range genToggleLabels {
		mark := " "
		if m.genToggles[i] {
			mark = "x"
		}
		cursor := "  "
		if m.genFocus == i+1 {
			cursor = "> "
		}
		b.WriteString(fmt.Sprintf("%s[%s] %s\n", cursor, mark, label))
	}

	if m.genError != "" {
		b.WriteString("\n" + m.errStyle.Render(m.genError) + "\n")
	}
	if m.genResult != "" {
		b.WriteString(fmt.Sprintf("\nСгенерировано (в буфере обмена): %s\n", m.genResult))
	}
	return b.String()
}

// errorText возвращает человекочитаемый текст ошибки без префикса вида.
func errorText(err error) string {
	var opErr *op.Error
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	return err.Error()
}
