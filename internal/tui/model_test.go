//nolint:testpackage // Тестируем внутреннее состояние модели
package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/oplaunch/internal/op"
)

// fakeClient — управляемая реализация op.Client для тестов TUI.
type fakeClient struct {
	items     []op.Item
	vaults    []op.Vault
	item      *op.Item
	listErr   error
	installed bool
	signedIn  bool

	created *op.LoginParams
	edited  *op.LoginParams
	editID  string
}

func (f *fakeClient) ListItems(_ context.Context) ([]op.Item, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeClient) ListVaults(_ context.Context) ([]op.Vault, error) {
	return f.vaults, nil
}

func (f *fakeClient) GetItem(_ context.Context, _ string) (*op.Item, error) {
	return f.item, nil
}

func (f *fakeClient) GetField(_ context.Context, _, _ string) (string, error) {
	return "field-value", nil
}

func (f *fakeClient) GetOTP(_ context.Context, _ string) (string, error) {
	return "", op.ErrNoOTP
}

func (f *fakeClient) Generate(_ context.Context, _ op.GenerateOptions) (string, error) {
	return "generated-password", nil
}

func (f *fakeClient) CreateLogin(_ context.Context, p op.LoginParams) (*op.Item, error) {
	f.created = &p
	return &op.Item{ID: "new-id", Title: p.Title}, nil
}

func (f *fakeClient) EditLogin(_ context.Context, id string, p op.LoginParams) (*op.Item, error) {
	f.editID = id
	f.edited = &p
	return &op.Item{ID: id, Title: p.Title}, nil
}

func (f *fakeClient) Installed() bool { return f.installed }

func (f *fakeClient) SignedIn(_ context.Context) bool { return f.signedIn }

// newTestModel создает модель с подставным клиентом и фиксированным размером.
func newTestModel(client op.Client) *model {
	m := initModel(client, false)
	m.width = defaultListWidth
	m.height = defaultListHeight
	m.itemList.SetSize(defaultListWidth, defaultListHeight)
	m.vaultList.SetSize(defaultListWidth, defaultListHeight)
	return &m
}

func testItems() []op.Item {
	return []op.Item{
		{
			ID:    "id-github",
			Title: "GitHub",
			Vault: op.VaultRef{ID: "v1", Name: "Personal"},
			URLs:  []op.ItemURL{{HRef: "https://github.com", Primary: true}},
		},
		{
			ID:    "id-bank",
			Title: "Bank",
			Vault: op.VaultRef{ID: "v2", Name: "Work"},
		},
	}
}

func TestInitModel_Defaults(t *testing.T) {
	m := newTestModel(&fakeClient{})

	assert.Equal(t, setupScreen, m.state, "начальный экран — состояние интеграции")
	assert.Equal(t, defaultGenerateLength, m.genLengthInput.Value(), "длина генератора по умолчанию")
	for i := genFocusUppercase; i <= genFocusSymbols; i++ {
		assert.True(t, m.genToggles[i-1], "классы символов включены по умолчанию")
	}
	assert.False(t, m.genToggles[genFocusAmbiguous-1], "исключение неоднозначных выключено по умолчанию")
	assert.Len(t, m.formInputs, numFormFields)
}

func TestUpdate_SetupStatusTransitions(t *testing.T) {
	m := newTestModel(&fakeClient{installed: true, signedIn: true})

	updated, _ := m.Update(setupStatusMsg{installed: true, signedIn: true})
	got, ok := updated.(*model)
	require.True(t, ok)

	assert.True(t, got.setupChecked)
	assert.Equal(t, itemListScreen, got.state, "при готовой интеграции сразу переход к списку")
}

func TestUpdate_SetupStatusStaysWhenNotInstalled(t *testing.T) {
	m := newTestModel(&fakeClient{})

	updated, _ := m.Update(setupStatusMsg{installed: false, signedIn: false})
	got, ok := updated.(*model)
	require.True(t, ok)

	assert.Equal(t, setupScreen, got.state, "без CLI остаемся на экране интеграции")
	assert.Contains(t, got.viewSetupScreen(), "CLI установлен")
}

func TestUpdate_ItemsLoaded(t *testing.T) {
	m := newTestModel(&fakeClient{})
	m.state = itemListScreen
	m.loading = true

	updated, _ := m.Update(itemsLoadedMsg{items: testItems()})
	got, ok := updated.(*model)
	require.True(t, ok)

	assert.False(t, got.loading)
	assert.Len(t, got.items, 2)

	snapshot, fresh := got.itemCache.Get()
	require.True(t, fresh, "свежий снимок попадает в кэш")
	assert.Len(t, snapshot, 2)
	assert.Len(t, got.itemList.Items(), 2)
}

func TestUpdate_ItemsLoadError(t *testing.T) {
	m := newTestModel(&fakeClient{})
	m.state = itemListScreen
	m.loading = true

	opErr := &op.Error{Kind: op.KindAuthRequired, Message: "требуется вход"}
	updated, _ := m.Update(itemsLoadErrorMsg{err: opErr})
	got, ok := updated.(*model)
	require.True(t, ok)

	assert.False(t, got.loading)
	require.NotNil(t, got.listErr)
	assert.Equal(t, op.KindAuthRequired, got.listErr.Kind)

	view := got.viewItemListScreen()
	assert.Contains(t, view, "требуется вход")
	assert.Contains(t, view, "op signin", "панель ошибки содержит инструкцию по устранению")
}

func TestApplyQuery_VaultFilterAndRanking(t *testing.T) {
	m := newTestModel(&fakeClient{})
	m.items = testItems()

	m.searchInput.SetValue("git")
	m.applyQuery()
	rows := m.itemList.Items()
	require.Len(t, rows, 1, "без совпадений запись исключается")
	row, ok := rows[0].(itemRow)
	require.True(t, ok)
	assert.Equal(t, "GitHub", row.item.Title)
	assert.Positive(t, row.score)

	m.searchInput.SetValue("")
	m.vaultFilter = "Work"
	m.applyQuery()
	rows = m.itemList.Items()
	require.Len(t, rows, 1, "фильтр хранилища сужает список")
	row, ok = rows[0].(itemRow)
	require.True(t, ok)
	assert.Equal(t, "Bank", row.item.Title)
	assert.Contains(t, m.itemList.Title, "Work")
}

func TestItemListScreen_EscClearsQueryThenQuits(t *testing.T) {
	m := newTestModel(&fakeClient{})
	m.state = itemListScreen
	m.items = testItems()
	m.searchInput.SetValue("git")
	m.vaultFilter = "Personal"
	m.applyQuery()

	esc := tea.KeyMsg{Type: tea.KeyEsc}
	_, cmd := m.updateItemListScreen(esc)
	assert.Nil(t, cmd, "первый esc только сбрасывает запрос и фильтр")
	assert.Empty(t, m.searchInput.Value())
	assert.Empty(t, m.vaultFilter)

	_, cmd = m.updateItemListScreen(esc)
	require.NotNil(t, cmd, "второй esc завершает программу")
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUpdate_ItemDetail(t *testing.T) {
	m := newTestModel(&fakeClient{})
	m.state = itemListScreen

	item := &op.Item{
		ID:    "id-github",
		Title: "GitHub",
		Fields: []op.Field{
			{ID: "password", Label: "password", Value: "s3cret", Type: "CONCEALED"},
		},
	}
	updated, _ := m.Update(itemDetailMsg{item: item})
	got, ok := updated.(*model)
	require.True(t, ok)

	assert.Equal(t, itemDetailScreen, got.state)
	view := got.viewItemDetailScreen()
	assert.Contains(t, view, concealedPlaceholder, "скрытое значение замаскировано")
	assert.NotContains(t, view, "s3cret")

	got.revealSecrets = true
	assert.Contains(t, got.viewItemDetailScreen(), "s3cret", "после показа значение видно")
}

func TestUpdate_ItemDetailForEditOpensForm(t *testing.T) {
	m := newTestModel(&fakeClient{})
	m.state = itemListScreen

	item := &op.Item{
		ID:    "id-github",
		Title: "GitHub",
		Vault: op.VaultRef{Name: "Personal"},
		Fields: []op.Field{
			{ID: "username", Label: "username", Value: "dev", Purpose: op.PurposeUsername},
		},
	}
	updated, _ := m.Update(itemDetailMsg{item: item, forEdit: true})
	got, ok := updated.(*model)
	require.True(t, ok)

	assert.Equal(t, loginFormScreen, got.state)
	assert.Equal(t, "id-github", got.editingID)
	assert.Equal(t, "GitHub", got.formInputs[formFieldTitle].Value())
	assert.Equal(t, "dev", got.formInputs[formFieldUsername].Value())
	assert.Equal(t, "Personal", got.formInputs[formFieldVault].Value())
}

func TestGenerateOptionsFromForm(t *testing.T) {
	m := newTestModel(&fakeClient{})

	m.genLengthInput.SetValue("32")
	opts, err := m.generateOptionsFromForm()
	require.NoError(t, err)
	assert.Equal(t, 32, opts.Length)
	assert.True(t, opts.Uppercase)

	m.genLengthInput.SetValue("abc")
	_, err = m.generateOptionsFromForm()
	require.Error(t, err, "нечисловая длина отклоняется до вызова инструмента")
	assert.True(t, op.IsKind(err, op.KindConfiguration))

	m.genLengthInput.SetValue("200")
	_, err = m.generateOptionsFromForm()
	require.Error(t, err, "длина вне диапазона отклоняется")
	assert.True(t, op.IsKind(err, op.KindConfiguration))
}

func TestGenerateScreen_ToggleAndValidate(t *testing.T) {
	m := newTestModel(&fakeClient{})
	m.state = generateScreen
	m.genFocus = genFocusUppercase

	space := tea.KeyMsg{Type: tea.KeySpace}
	_, _ = m.updateGenerateScreen(space)
	assert.False(t, m.genToggles[genFocusUppercase-1], "пробел переключает класс")

	// Выключаем остальные классы и пробуем сгенерировать.
	m.genToggles[genFocusLowercase-1] = false
	m.genToggles[genFocusDigits-1] = false
	m.genToggles[genFocusSymbols-1] = false

	enter := tea.KeyMsg{Type: tea.KeyEnter}
	_, cmd := m.updateGenerateScreen(enter)
	assert.Nil(t, cmd, "без классов символов генерация не запускается")
	assert.NotEmpty(t, m.genError)
}

func TestLoginForm_TitleRequired(t *testing.T) {
	m := newTestModel(&fakeClient{})
	m.prepareLoginForm(nil)

	enter := tea.KeyMsg{Type: tea.KeyEnter}
	_, cmd := m.updateLoginFormScreen(enter)
	assert.Nil(t, cmd, "без названия сохранение не запускается")
	assert.Equal(t, "Название обязательно", m.formError)
}

func TestLoginForm_CreateOmitsEmptyFields(t *testing.T) {
	client := &fakeClient{}
	m := newTestModel(client)
	m.prepareLoginForm(nil)
	m.formInputs[formFieldTitle].SetValue("New Login")
	m.formInputs[formFieldUsername].SetValue("dev")

	enter := tea.KeyMsg{Type: tea.KeyEnter}
	_, cmd := m.updateLoginFormScreen(enter)
	require.NotNil(t, cmd)
	msg := cmd()

	batch, ok := msg.(tea.BatchMsg)
	require.True(t, ok, "сохранение идет вместе с таймером статуса")
	for _, c := range batch {
		if saved, isSaved := c().(itemSavedMsg); isSaved {
			assert.Equal(t, "New Login", saved.item.Title)
		}
	}

	require.NotNil(t, client.created, "вызвано создание, не редактирование")
	assert.Equal(t, "New Login", client.created.Title)
	assert.Equal(t, "dev", client.created.Username)
	assert.Empty(t, client.created.Password, "незаполненное поле остается пустым и будет опущено")
}

func TestUpdate_ItemSavedInvalidatesCache(t *testing.T) {
	m := newTestModel(&fakeClient{})
	m.state = loginFormScreen
	m.itemCache.Set(testItems())

	updated, _ := m.Update(itemSavedMsg{item: &op.Item{ID: "new-id", Title: "New Login"}})
	got, ok := updated.(*model)
	require.True(t, ok)

	_, fresh := got.itemCache.Get()
	assert.False(t, fresh, "после сохранения снимок сброшен")
	assert.Equal(t, itemListScreen, got.state)
	assert.Contains(t, got.status, "New Login")
}

func TestUpdate_CopiedAndOTPAbsentStatus(t *testing.T) {
	m := newTestModel(&fakeClient{})
	m.state = itemListScreen

	updated, _ := m.Update(copiedMsg{what: "Пароль"})
	got, ok := updated.(*model)
	require.True(t, ok)
	assert.Equal(t, "Пароль скопирован в буфер обмена", got.status)

	updated, _ = got.Update(otpAbsentMsg{})
	got, ok = updated.(*model)
	require.True(t, ok)
	assert.Equal(t, "У записи нет одноразового пароля", got.status)
}

func TestUpdate_ClearStatus(t *testing.T) {
	m := newTestModel(&fakeClient{})
	m.status = "что-то"

	updated, _ := m.Update(clearStatusMsg{})
	got, ok := updated.(*model)
	require.True(t, ok)
	assert.Empty(t, got.status)
}

func TestVaultListScreen_SelectAndClearFilter(t *testing.T) {
	m := newTestModel(&fakeClient{})
	m.items = testItems()
	m.setVaultRows([]op.Vault{
		{ID: "v1", Name: "Personal"},
		{ID: "v2", Name: "Work"},
	})
	m.state = vaultListScreen

	rows := m.vaultList.Items()
	require.Len(t, rows, 3, "список содержит псевдо-строку и два хранилища")
	first, ok := rows[0].(vaultRow)
	require.True(t, ok)
	assert.True(t, first.all, "первая строка — все хранилища")

	m.vaultList.Select(1)
	enter := tea.KeyMsg{Type: tea.KeyEnter}
	_, _ = m.updateVaultListScreen(enter)
	assert.Equal(t, "Personal", m.vaultFilter)
	assert.Equal(t, itemListScreen, m.state)

	m.state = vaultListScreen
	m.vaultList.Select(0)
	_, _ = m.updateVaultListScreen(enter)
	assert.Empty(t, m.vaultFilter, "псевдо-строка сбрасывает фильтр")
}
