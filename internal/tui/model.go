// Package tui реализует терминальный интерфейс лаунчера: список записей со
// свободным поиском, детали записи, генератор паролей, форма создания и
// редактирования и экран состояния интеграции.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/oplaunch/internal/cache"
	"github.com/maynagashev/oplaunch/internal/op"
)

// Состояния (экраны) приложения.
type screenState int

const (
	setupScreen      screenState = iota // Экран состояния интеграции (op установлен? вход выполнен?)
	itemListScreen                      // Экран списка записей с поиском
	itemDetailScreen                    // Экран деталей записи
	generateScreen                      // Экран генератора паролей
	loginFormScreen                     // Экран создания/редактирования записи Login
	vaultListScreen                     // Экран выбора хранилища
)

// String возвращает имя состояния для логов и отладки.
func (s screenState) String() string {
	switch s {
	case setupScreen:
		return "setup"
	case itemListScreen:
		return "itemList"
	case itemDetailScreen:
		return "itemDetail"
	case generateScreen:
		return "generate"
	case loginFormScreen:
		return "loginForm"
	case vaultListScreen:
		return "vaultList"
	default:
		return "unknown"
	}
}

// Поля формы создания/редактирования записи.
const (
	formFieldTitle = iota
	formFieldUsername
	formFieldPassword
	formFieldURL
	formFieldNotes
	formFieldVault
	numFormFields // Общее количество полей формы
)

// Фокусируемые элементы экрана генератора: поле длины и пять переключателей.
const (
	genFocusLength = iota
	genFocusUppercase
	genFocusLowercase
	genFocusDigits
	genFocusSymbols
	genFocusAmbiguous
	numGenFocusable
)

// Константы для TUI.
const (
	defaultListWidth  = 80 // Стандартная ширина терминала для списка
	defaultListHeight = 24 // Стандартная высота терминала для списка
	searchInputOffset = 4  // Отступ для поля поиска

	keyEnter    = "enter"
	keyEsc      = "esc"
	keyBack     = "b"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyUp       = "up"
	keyDown     = "down"
	keySpace    = " "
)

// itemRow представляет запись в списке.
// Реализует интерфейс list.Item.
type itemRow struct {
	item  op.Item
	score int // оценка релевантности текущего запроса; 0 — без запроса
}

func (r itemRow) Title() string {
	title := r.item.Title
	if title == "" {
		title = r.item.ID
	}
	return title
}

func (r itemRow) Description() string {
	var parts []string
	if r.item.Category != "" {
		parts = append(parts, r.item.Category)
	}
	if name := r.item.Vault.Name; name != "" {
		parts = append(parts, name)
	}
	if url := r.item.PrimaryURL(); url != "" {
		parts = append(parts, url)
	}
	desc := strings.Join(parts, " | ")
	if r.score > 0 {
		desc += fmt.Sprintf(" [%d]", r.score)
	}
	return desc
}

func (r itemRow) FilterValue() string { return r.Title() }

// vaultRow представляет хранилище в списке выбора.
type vaultRow struct {
	vault op.Vault
	all   bool // псевдо-строка "все хранилища"
}

func (r vaultRow) Title() string {
	if r.all {
		return "Все хранилища"
	}
	return r.vault.Name
}

func (r vaultRow) Description() string {
	if r.all {
		return "Показывать записи из всех хранилищ"
	}
	if r.vault.Items > 0 {
		return fmt.Sprintf("%s | записей: %d", r.vault.Type, r.vault.Items)
	}
	return r.vault.Type
}

func (r vaultRow) FilterValue() string { return r.Title() }

// model представляет состояние TUI приложения.
type model struct {
	state     screenState
	client    op.Client
	debugMode bool

	// Кэши снимков для списочных экранов (stale-while-revalidate на
	// стороне вызывающего: устаревший снимок показывается сразу, свежий
	// запрашивается всегда).
	itemCache  *cache.Store[op.Item]
	vaultCache *cache.Store[op.Vault]

	// Список записей и поиск.
	items       []op.Item       // Полный снимок для ранжирования
	vaultFilter string          // Имя выбранного хранилища; пусто — все
	searchInput textinput.Model // Поле свободного поиска над списком
	itemList    list.Model      // Список записей
	loading     bool            // Идет загрузка списка
	listErr     *op.Error       // Ошибка уровня списка (панель с инструкциями)

	// Детали записи.
	selectedItem  *op.Item // Полная запись для просмотра
	revealSecrets bool     // Показывать скрытые значения

	// Генератор паролей.
	genLengthInput textinput.Model
	genToggles     [numGenFocusable - 1]bool // uppercase, lowercase, digits, symbols, exclude-ambiguous
	genFocus       int
	genError       string // Ошибка валидации конфигурации (inline)
	genResult      string // Последний сгенерированный пароль

	// Форма создания/редактирования.
	formInputs []textinput.Model
	formFocus  int
	editingID  string // Идентификатор редактируемой записи; пусто — создание
	formError  string

	// Выбор хранилища.
	vaultList list.Model

	// Состояние интеграции.
	opInstalled  bool
	opSignedIn   bool
	setupChecked bool

	status   string // Статусное сообщение внизу экрана
	width    int
	height   int
	docStyle lipgloss.Style
	errStyle lipgloss.Style

	helpTextMap map[screenState]string
}

// Сообщение для очистки статуса.
type clearStatusMsg struct{}
