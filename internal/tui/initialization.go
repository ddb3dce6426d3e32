package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/oplaunch/internal/cache"
	"github.com/maynagashev/oplaunch/internal/op"
)

// Константы, используемые при инициализации.
const (
	initSearchCharLimit = 256
	initSearchWidth     = 50
	initTitleCharLimit  = 256
	initFieldCharLimit  = 1024
	initNotesCharLimit  = 4096
	initFieldWidth      = 40
	initLengthCharLimit = 3
	initLengthWidth     = 5

	defaultGenerateLength = "20"
)

// initSearchInput инициализирует поле свободного поиска над списком.
func initSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Поиск записей..."
	ti.Prompt = "/ "
	ti.Focus()
	ti.CharLimit = initSearchCharLimit
	ti.Width = initSearchWidth
	return ti
}

// initItemList инициализирует основной компонент списка записей.
func initItemList() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("212")).
		BorderLeftForeground(lipgloss.Color("212"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("240")).
		BorderLeftForeground(lipgloss.Color("212"))

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Записи"
	l.SetShowHelp(false) // Мы переопределяем справку
	l.SetShowStatusBar(true)
	// Встроенная фильтрация выключена: порядок задает ранжирование по запросу.
	l.SetFilteringEnabled(false)
	l.Styles.Title = list.DefaultStyles().Title.Bold(true)
	return l
}

// initVaultList инициализирует список выбора хранилища.
func initVaultList() list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Хранилища"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = list.DefaultStyles().Title.Bold(true)
	return l
}

// initGenLengthInput инициализирует числовое поле длины пароля.
func initGenLengthInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = defaultGenerateLength
	ti.SetValue(defaultGenerateLength)
	ti.CharLimit = initLengthCharLimit
	ti.Width = initLengthWidth
	return ti
}

// initFormInputs инициализирует поля формы создания/редактирования.
func initFormInputs() []textinput.Model {
	placeholders := [numFormFields]string{
		formFieldTitle:    "Название (обязательно)",
		formFieldUsername: "Имя пользователя",
		formFieldPassword: "Пароль",
		formFieldURL:      "URL",
		formFieldNotes:    "Заметки",
		formFieldVault:    "Хранилище",
	}

	inputs := make([]textinput.Model, numFormFields)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = initFieldCharLimit
		ti.Width = initFieldWidth
		switch i {
		case formFieldTitle:
			ti.CharLimit = initTitleCharLimit
		case formFieldPassword:
			ti.EchoMode = textinput.EchoPassword
		case formFieldNotes:
			ti.CharLimit = initNotesCharLimit
		}
		inputs[i] = ti
	}
	return inputs
}

// initHelpTextMap задает строки справки для каждого экрана.
func initHelpTextMap() map[screenState]string {
	return map[screenState]string{
		setupScreen: "r: проверить снова | enter: продолжить | q: выход",
		itemListScreen: "enter: детали | ctrl+p: пароль | ctrl+u: имя | ctrl+o: OTP | " +
			"ctrl+g: генератор | ctrl+n: создать | ctrl+e: изменить | ctrl+v: хранилище | ctrl+r: обновить | esc: выход",
		itemDetailScreen: "s: показать/скрыть | p: пароль | u: имя | o: OTP | x: открыть URL | e: изменить | esc: назад",
		generateScreen:   "tab/↑/↓: фокус | space: переключить | enter: сгенерировать | esc: назад",
		loginFormScreen:  "tab: следующее поле | enter: сохранить | esc: отмена",
		vaultListScreen:  "enter: выбрать | esc: назад",
	}
}

// initDocStyle инициализирует основной стиль документа.
func initDocStyle() lipgloss.Style {
	return lipgloss.NewStyle().Margin(docStyleMarginVertical, docStyleMarginHorizontal)
}

// initErrStyle инициализирует стиль панели ошибок.
func initErrStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("196")).
		Padding(0, 1)
}

// initModel создает начальное состояние модели.
func initModel(client op.Client, debugMode bool) model {
	genToggles := [numGenFocusable - 1]bool{}
	// По умолчанию включены все классы символов.
	genToggles[genFocusUppercase-1] = true
	genToggles[genFocusLowercase-1] = true
	genToggles[genFocusDigits-1] = true
	genToggles[genFocusSymbols-1] = true

	return model{
		state:          setupScreen,
		client:         client,
		debugMode:      debugMode,
		itemCache:      cache.New[op.Item](cache.DefaultTTL),
		vaultCache:     cache.New[op.Vault](cache.DefaultTTL),
		searchInput:    initSearchInput(),
		itemList:       initItemList(),
		vaultList:      initVaultList(),
		genLengthInput: initGenLengthInput(),
		genToggles:     genToggles,
		formInputs:     initFormInputs(),
		docStyle:       initDocStyle(),
		errStyle:       initErrStyle(),
		helpTextMap:    initHelpTextMap(),
	}
}

// statusMessageTimeout — время отображения статусных сообщений.
const statusMessageTimeout = 2 * time.Second
