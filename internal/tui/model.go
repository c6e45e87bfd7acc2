// Package tui is the interactive terminal storefront built on bubbletea.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ikkim/storefront/internal/storefront"
	"github.com/ikkim/storefront/pkg/shopapi"
)

type page int

const (
	pageCatalog page = iota
	pageLogin
	pageCart
	pageOrders
)

const defaultNoticeTTL = 4 * time.Second

type (
	catalogLoadedMsg struct{ err error }
	loginDoneMsg     struct{ err error }
	logoutDoneMsg    struct{ err error }
	cartLoadedMsg    struct{ err error }
	cartChangedMsg   struct{ err error }
	ordersLoadedMsg  struct{ err error }
	checkoutDoneMsg  struct {
		order *shopapi.Order
		err   error
	}
	clearNoticeMsg struct{ seq int }
)

type Model struct {
	ctx    context.Context
	app    *storefront.App
	board  *NoticeBoard
	keys   keyMap
	styles Styles

	page     page
	username textinput.Model
	password textinput.Model
	spinner  spinner.Model
	loading  bool

	category    int
	cursor      int
	cartCursor  int
	orderCursor int

	notice    *storefront.Notification
	noticeSeq int
	noticeTTL time.Duration

	width int
}

// New builds the model. board must be the Notifier the App was built with.
func New(ctx context.Context, app *storefront.App, board *NoticeBoard) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Width = 32
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 72
	password.Width = 32
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		app:       app,
		board:     board,
		keys:      defaultKeyMap(),
		styles:    DefaultStyles(),
		page:      pageCatalog,
		username:  username,
		password:  password,
		spinner:   sp,
		loading:   true,
		noticeTTL: defaultNoticeTTL,
	}
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, app *storefront.App, board *NoticeBoard) error {
	_, err := tea.NewProgram(New(ctx, app, board), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCatalog(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.page == pageLogin {
			return m.updateLogin(msg)
		}
		return m.updateBrowse(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = nil
		}
		return m, nil

	case catalogLoadedMsg:
		m.loading = false
		if n := len(m.visibleItems()); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
		return m, m.takeNotice()

	case loginDoneMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.takeNotice()
		}
		m.password.SetValue("")
		m.page = pageCatalog
		return m, tea.Batch(m.takeNotice(), m.startLoading(m.loadCatalog()))

	case logoutDoneMsg:
		m.loading = false
		m.page = pageCatalog
		return m, m.takeNotice()

	case cartLoadedMsg, cartChangedMsg:
		m.loading = false
		if errors.Is(resultErr(msg), storefront.ErrNotAuthenticated) {
			m.toLogin()
		}
		if n := len(m.app.Cart().Lines()); m.cartCursor >= n {
			m.cartCursor = max(n-1, 0)
		}
		return m, m.takeNotice()

	case checkoutDoneMsg:
		m.loading = false
		if msg.err == nil {
			m.page = pageOrders
			m.orderCursor = 0
			return m, tea.Batch(m.takeNotice(), m.startLoading(m.loadOrders()))
		}
		return m, m.takeNotice()

	case ordersLoadedMsg:
		m.loading = false
		if errors.Is(msg.err, storefront.ErrNotAuthenticated) {
			m.toLogin()
		}
		return m, m.takeNotice()
	}

	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.page = pageCatalog
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.username.Focused() {
			return m, m.focusPassword()
		}
		if m.loading || m.username.Value() == "" {
			return m, nil
		}
		username, password := m.username.Value(), m.password.Value()
		return m, m.startLoading(func() tea.Msg {
			_, err := m.app.Login(m.ctx, username, password)
			return loginDoneMsg{err: err}
		})

	case key.Matches(msg, m.keys.NextItem), key.Matches(msg, m.keys.PrevItem):
		if m.username.Focused() {
			return m, m.focusPassword()
		}
		m.password.Blur()
		return m, m.username.Focus()
	}

	var cmd tea.Cmd
	if m.username.Focused() {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Catalog):
		m.page = pageCatalog
		return m, m.startLoading(m.loadCatalog())

	case key.Matches(msg, m.keys.Cart):
		if !m.app.Session().Authenticated() {
			m.toLogin()
			return m, m.showNotice(storefront.Notification{Level: storefront.LevelInfo, Message: "Please log in to view your cart"})
		}
		m.page = pageCart
		return m, m.startLoading(m.openCart())

	case key.Matches(msg, m.keys.Orders):
		if !m.app.Session().Authenticated() {
			m.toLogin()
			return m, m.showNotice(storefront.Notification{Level: storefront.LevelInfo, Message: "Please log in to view your orders"})
		}
		m.page = pageOrders
		m.orderCursor = 0
		return m, m.startLoading(m.loadOrders())

	case key.Matches(msg, m.keys.Account):
		if m.app.Session().Authenticated() {
			return m, m.startLoading(func() tea.Msg {
				return logoutDoneMsg{err: m.app.Logout(m.ctx)}
			})
		}
		m.toLogin()
		return m, m.username.Focus()

	case key.Matches(msg, m.keys.Reload):
		switch m.page {
		case pageCart:
			return m, m.startLoading(m.openCart())
		case pageOrders:
			return m, m.startLoading(m.loadOrders())
		default:
			return m, m.startLoading(m.loadCatalog())
		}
	}

	switch m.page {
	case pageCatalog:
		return m.updateCatalog(msg)
	case pageCart:
		return m.updateCart(msg)
	case pageOrders:
		return m.updateOrders(msg)
	}
	return m, nil
}

func (m Model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.visibleItems()
	categories := m.app.Catalog().Categories()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Left):
		m.category = (m.category - 1 + len(categories)) % len(categories)
		m.cursor = 0
	case key.Matches(msg, m.keys.Right):
		m.category = (m.category + 1) % len(categories)
		m.cursor = 0
	case key.Matches(msg, m.keys.Add):
		if len(items) == 0 || m.loading {
			return m, nil
		}
		itemID := items[m.cursor].ID
		return m, m.startLoading(func() tea.Msg {
			return cartChangedMsg{err: m.app.Cart().AddItem(m.ctx, itemID)}
		})
	}
	return m, nil
}

func (m Model) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := m.app.Cart().Lines()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cartCursor > 0 {
			m.cartCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cartCursor < len(lines)-1 {
			m.cartCursor++
		}
	case key.Matches(msg, m.keys.Remove):
		if len(lines) == 0 || m.loading {
			return m, nil
		}
		itemID := lines[m.cartCursor].ItemID
		return m, m.startLoading(func() tea.Msg {
			return cartChangedMsg{err: m.app.Cart().RemoveItem(m.ctx, itemID)}
		})
	case key.Matches(msg, m.keys.Checkout):
		if m.loading {
			return m, nil
		}
		return m, m.startLoading(func() tea.Msg {
			order, err := m.app.Orders().Checkout(m.ctx)
			return checkoutDoneMsg{order: order, err: err}
		})
	}
	return m, nil
}

func (m Model) updateOrders(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.app.Orders().History())
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.orderCursor > 0 {
			m.orderCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.orderCursor < n-1 {
			m.orderCursor++
		}
	}
	return m, nil
}

func (m Model) visibleItems() []shopapi.Item {
	return m.app.Catalog().FilterByCategory(m.currentCategory())
}

func (m Model) currentCategory() string {
	categories := m.app.Catalog().Categories()
	if m.category >= len(categories) {
		return storefront.AllCategories
	}
	return categories[m.category]
}

func (m *Model) toLogin() {
	m.page = pageLogin
	m.password.SetValue("")
	m.password.Blur()
	m.username.Focus()
}

func (m *Model) focusPassword() tea.Cmd {
	m.username.Blur()
	return m.password.Focus()
}

func (m *Model) startLoading(cmd tea.Cmd) tea.Cmd {
	m.loading = true
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		_, err := m.app.Catalog().Load(m.ctx)
		return catalogLoadedMsg{err: err}
	}
}

func (m Model) openCart() tea.Cmd {
	return func() tea.Msg {
		_, err := m.app.Cart().Open(m.ctx)
		return cartLoadedMsg{err: err}
	}
}

func (m Model) loadOrders() tea.Cmd {
	return func() tea.Msg {
		_, err := m.app.Orders().List(m.ctx)
		return ordersLoadedMsg{err: err}
	}
}

func (m *Model) takeNotice() tea.Cmd {
	n, ok := m.board.take()
	if !ok {
		return nil
	}
	return m.showNotice(n)
}

func (m *Model) showNotice(n storefront.Notification) tea.Cmd {
	m.noticeSeq++
	m.notice = &n
	if m.noticeTTL <= 0 {
		return nil
	}
	seq := m.noticeSeq
	return tea.Tick(m.noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func resultErr(msg tea.Msg) error {
	switch msg := msg.(type) {
	case cartLoadedMsg:
		return msg.err
	case cartChangedMsg:
		return msg.err
	}
	return nil
}
