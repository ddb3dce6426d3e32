// Package op реализует интеграцию с CLI 1Password (`op`): построение
// аргументов, запуск подпроцесса, кэш сессии и разбор JSON-вывода.
// Все данные (хранилища, записи, учетные данные) живут внутри внешнего
// инструмента; этот пакет — только слой вызова и представления.
package op

import (
	"strings"
	"time"
)

// Назначения полей (purpose) в JSON-выводе `op`.
const (
	PurposeUsername = "USERNAME"
	PurposePassword = "PASSWORD"
	PurposeNotes    = "NOTES"
)

// Категории записей, встречающиеся в `op item list`.
const (
	CategoryLogin      = "LOGIN"
	CategoryPassword   = "PASSWORD"
	CategoryCreditCard = "CREDIT_CARD"
	CategorySecureNote = "SECURE_NOTE"
	CategoryIdentity   = "IDENTITY"
)

// VaultRef — ссылка на хранилище внутри записи.
type VaultRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Section — секция, группирующая поля записи.
type Section struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// Field — типизированное поле записи (логин, пароль, OTP и т.д.).
type Field struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"` // CONCEALED, STRING, OTP, ...
	Purpose string   `json:"purpose,omitempty"`
	Label   string   `json:"label"`
	Value   string   `json:"value,omitempty"`
	Section *Section `json:"section,omitempty"`
}

// Concealed сообщает, нужно ли скрывать значение поля при отображении.
func (f Field) Concealed() bool {
	return strings.EqualFold(f.Type, "CONCEALED") || strings.EqualFold(f.Purpose, PurposePassword)
}

// ItemURL — адрес, привязанный к записи.
type ItemURL struct {
	Label   string `json:"label,omitempty"`
	Primary bool   `json:"primary,omitempty"`
	HRef    string `json:"href"`
}

// Item — неизменяемый снимок записи, полученный от внешнего инструмента.
// Локально не модифицируется; после редактирования запрашивается заново.
type Item struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Vault        VaultRef  `json:"vault"`
	URLs         []ItemURL `json:"urls,omitempty"`
	Fields       []Field   `json:"fields,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastEditedBy string    `json:"last_edited_by,omitempty"`
}

// FieldByPurpose возвращает первое поле с указанным назначением.
func (it Item) FieldByPurpose(purpose string) (Field, bool) {
	for _, f := range it.Fields {
		if strings.EqualFold(f.Purpose, purpose) {
			return f, true
		}
	}
	return Field{}, false
}

// FieldByLabel возвращает первое поле с указанной меткой (без учета регистра).
func (it Item) FieldByLabel(label string) (Field, bool) {
	for _, f := range it.Fields {
		if strings.EqualFold(f.Label, label) {
			return f, true
		}
	}
	return Field{}, false
}

// Username возвращает имя пользователя записи (пустая строка, если нет).
func (it Item) Username() string {
	if f, ok := it.FieldByPurpose(PurposeUsername); ok {
		return f.Value
	}
	return ""
}

// Password возвращает пароль записи (пустая строка, если нет).
func (it Item) Password() string {
	if f, ok := it.FieldByPurpose(PurposePassword); ok {
		return f.Value
	}
	return ""
}

// Notes возвращает текстовые заметки записи (поле с назначением NOTES).
func (it Item) Notes() string {
	if f, ok := it.FieldByPurpose(PurposeNotes); ok {
		return f.Value
	}
	return ""
}

// PrimaryURL возвращает основной адрес записи или первый из списка.
func (it Item) PrimaryURL() string {
	for _, u := range it.URLs {
		if u.Primary {
			return u.HRef
		}
	}
	if len(it.URLs) > 0 {
		return it.URLs[0].HRef
	}
	return ""
}

// Vault — хранилище записей. Только для чтения с точки зрения этой системы.
type Vault struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type,omitempty"`
	Items     int       `json:"items,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Account — учетная запись из `op account list`, используется для
// построения имени переменной окружения сессии.
type Account struct {
	URL       string `json:"url"`
	Email     string `json:"email"`
	UserUUID  string `json:"user_uuid"`
	AccountID string `json:"account_uuid"`
}
