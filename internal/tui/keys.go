package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit     key.Binding
	Catalog  key.Binding
	Cart     key.Binding
	Orders   key.Binding
	Account  key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Add      key.Binding
	Remove   key.Binding
	Checkout key.Binding
	Reload   key.Binding
	Submit   key.Binding
	Back     key.Binding
	NextItem key.Binding
	PrevItem key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Catalog:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "catalog")),
		Cart:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "cart")),
		Orders:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "orders")),
		Account:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign in/out")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev category")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next category")),
		Add:      key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter", "add to cart")),
		Remove:   key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "remove")),
		Checkout: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "checkout")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		NextItem: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevItem: key.NewBinding(key.WithKeys("shift+tab", "up")),
	}
}
