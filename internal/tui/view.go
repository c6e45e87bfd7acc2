package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/ikkim/storefront/internal/storefront"
	"github.com/ikkim/storefront/pkg/shopapi"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch m.page {
	case pageLogin:
		b.WriteString(m.loginView())
	case pageCart:
		b.WriteString(m.cartView())
	case pageOrders:
		b.WriteString(m.ordersView())
	default:
		b.WriteString(m.catalogView())
	}

	if m.loading {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " " + m.styles.Muted.Render("Loading..."))
	}
	if m.notice != nil {
		b.WriteString("\n\n")
		b.WriteString(m.noticeView(*m.notice))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.helpLine()))
	return b.String()
}

func (m Model) header() string {
	tab := func(label string, p page) string {
		if m.page == p {
			return m.styles.ActiveTab.Render(label)
		}
		return m.styles.Tab.Render(label)
	}

	cart := "Cart"
	if n := m.app.Cart().Count(); n > 0 {
		cart = fmt.Sprintf("Cart %s", m.styles.Badge.Render(fmt.Sprint(n)))
	}

	account := m.styles.Muted.Render("Guest")
	if m.app.Session().Authenticated() {
		account = m.styles.Success.Render("Signed in")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Title.Render("Storefront"), "  ",
		tab("Catalog", pageCatalog),
		tab(cart, pageCart),
		tab("Orders", pageOrders),
		"  ", account,
	)
}

func (m Model) catalogView() string {
	var b strings.Builder

	current := m.currentCategory()
	tabs := make([]string, 0)
	for _, c := range m.app.Catalog().Categories() {
		if c == current {
			tabs = append(tabs, m.styles.ActiveTab.Render(c))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(c))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	items := m.visibleItems()
	if len(items) == 0 {
		if err := m.app.Catalog().Err(); err != nil {
			b.WriteString(m.styles.Error.Render("Could not load products. Press r to retry."))
		} else if !m.loading {
			b.WriteString(m.styles.Muted.Render("No products in this category."))
		}
		return b.String()
	}

	for i, item := range items {
		b.WriteString(m.row(i == m.cursor, fmt.Sprintf("%-32s %-16s %s",
			truncate(item.Name, 32),
			truncate(item.Category, 16),
			m.styles.Price.Render(money(item.Price.StringFixed(2))),
		)))
		b.WriteString("\n")
	}
	if m.cursor < len(items) && items[m.cursor].Description != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(items[m.cursor].Description))
	}
	return b.String()
}

func (m Model) cartView() string {
	lines := m.app.Cart().Lines()
	if len(lines) == 0 {
		if m.loading {
			return ""
		}
		return m.styles.Muted.Render("Your cart is empty.")
	}

	var b strings.Builder
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  %-32s %5s %12s %12s", "Item", "Qty", "Price", "Subtotal")))
	b.WriteString("\n")
	for i, line := range lines {
		b.WriteString(m.row(i == m.cartCursor, fmt.Sprintf("%-32s %5d %12s %12s",
			truncate(line.Item.Name, 32),
			line.Quantity,
			money(line.Item.Price.StringFixed(2)),
			money(line.Subtotal().StringFixed(2)),
		)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Total.Render("Total: " + money(m.app.Cart().Total().StringFixed(2))))
	return b.String()
}

func (m Model) ordersView() string {
	orders := m.app.Orders().History()
	if len(orders) == 0 {
		if m.loading {
			return ""
		}
		return m.styles.Muted.Render("No orders yet.")
	}

	var b strings.Builder
	for i, order := range orders {
		placed := ""
		if !order.CreatedAt.IsZero() {
			placed = order.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		b.WriteString(m.row(i == m.orderCursor, fmt.Sprintf("Order #%-6d %-16s %3d items %12s",
			order.ID, placed, orderQuantity(order), money(order.Total.StringFixed(2)))))
		b.WriteString("\n")
	}

	if m.orderCursor < len(orders) {
		var detail strings.Builder
		for _, line := range orders[m.orderCursor].Items {
			fmt.Fprintf(&detail, "%-32s x%-3d %12s\n", truncate(line.Item.Name, 32), line.Quantity, money(line.Price.StringFixed(2)))
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Box.Render(strings.TrimRight(detail.String(), "\n")))
	}
	return b.String()
}

func (m Model) loginView() string {
	return m.styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Sign in"),
		"",
		"Username",
		m.username.View(),
		"",
		"Password",
		m.password.View(),
	))
}

func (m Model) noticeView(n storefront.Notification) string {
	switch n.Level {
	case storefront.LevelError:
		return m.styles.Error.Render("✗ " + n.Message)
	case storefront.LevelSuccess:
		return m.styles.Success.Render("✓ " + n.Message)
	default:
		return m.styles.Info.Render("• " + n.Message)
	}
}

func (m Model) helpLine() string {
	var bindings []key.Binding
	switch m.page {
	case pageLogin:
		bindings = []key.Binding{m.keys.NextItem, m.keys.Submit, m.keys.Back}
	case pageCart:
		bindings = []key.Binding{m.keys.Remove, m.keys.Checkout, m.keys.Catalog, m.keys.Orders, m.keys.Account, m.keys.Quit}
	case pageOrders:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Catalog, m.keys.Cart, m.keys.Account, m.keys.Quit}
	default:
		bindings = []key.Binding{m.keys.Left, m.keys.Right, m.keys.Add, m.keys.Cart, m.keys.Orders, m.keys.Account, m.keys.Quit}
	}

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func (m Model) row(selected bool, text string) string {
	if selected {
		return m.styles.Selected.Render("> " + text)
	}
	return "  " + text
}

func orderQuantity(order shopapi.Order) int {
	n := 0
	for _, line := range order.Items {
		n += int(line.Quantity)
	}
	return n
}

func money(amount string) string {
	return "$" + amount
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
