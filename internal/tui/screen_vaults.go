package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/oplaunch/internal/op"
)

// enterVaultList переводит на экран выбора хранилища. Как и список записей,
// показывает устаревший снимок сразу и всегда запрашивает свежий.
func (m *model) enterVaultList() tea.Cmd {
	m.state = vaultListScreen
	if snapshot, ok := m.vaultCache.Get(); ok {
		m.setVaultRows(snapshot)
	}
	return tea.Batch(m.fetchVaultsCmd(), tea.ClearScreen)
}

// setVaultRows заполняет список хранилищ, добавляя строку "все хранилища".
func (m *model) setVaultRows(vaults []op.Vault) {
	rows := make([]list.Item, 0, len(vaults)+1)
	rows = append(rows, vaultRow{all: true})
	for _, v := range vaults {
		rows = append(rows, vaultRow{vault: v})
	}
	_ = m.vaultList.SetItems(rows)
}

// updateVaultListScreen обрабатывает сообщения для экрана выбора хранилища.
func (m *model) updateVaultListScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc, keyBack:
			m.state = itemListScreen
			return m, tea.ClearScreen
		case keyEnter:
			if selected, isVault := m.vaultList.SelectedItem().(vaultRow); isVault {
				if selected.all {
					m.vaultFilter = ""
				} else {
					m.vaultFilter = selected.vault.Name
				}
				m.state = itemListScreen
				m.applyQuery()
				return m, tea.ClearScreen
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.vaultList, cmd = m.vaultList.Update(msg)
	return m, cmd
}

// viewVaultListScreen отображает экран выбора хранилища.
func (m *model) viewVaultListScreen() string {
	return m.vaultList.View()
}
