package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ikkim/storefront/internal/storefront"
	"github.com/ikkim/storefront/internal/tui"
	"github.com/ikkim/storefront/pkg/shopapi"
	"github.com/spf13/cobra"
)

func newLoginCmd(e *env) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			if username == "" {
				username = prompt(in, cmd.OutOrStdout(), "Username: ")
			}
			if password == "" {
				password = prompt(in, cmd.OutOrStdout(), "Password: ")
			}
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			if _, err := e.app.Login(cmd.Context(), username, password); err != nil {
				return exitError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cart: %d item(s)\n", e.app.Cart().Count())
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.app.Logout(cmd.Context())
		},
	}
}

func newItemsCmd(e *env) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := e.app.Catalog().Load(cmd.Context()); err != nil {
				return exitError(err)
			}

			items := e.app.Catalog().FilterByCategory(category)
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					strconv.FormatUint(uint64(item.ID), 10),
					item.Name,
					item.Category,
					item.Price.StringFixed(2),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Categories: "+strings.Join(e.app.Catalog().Categories(), ", "))
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Category", "Price"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", storefront.AllCategories, "only list items in this category")
	return cmd
}

func newCartCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireSession(cmd.Context()); err != nil {
				return exitError(err)
			}
			if _, err := e.app.Cart().Open(cmd.Context()); err != nil {
				return exitError(err)
			}
			printCart(cmd.OutOrStdout(), e.app.Cart())
			return nil
		},
	}
}

func newAddCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "add ITEM_ID...",
		Short: "Add items to the cart",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := e.requireSession(cmd.Context()); err != nil {
				return exitError(err)
			}
			for _, id := range ids {
				if err := e.app.Cart().AddItem(cmd.Context(), id); err != nil {
					return exitError(err)
				}
			}
			printCart(cmd.OutOrStdout(), e.app.Cart())
			return nil
		},
	}
}

func newRemoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ITEM_ID",
		Short: "Remove an item from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := e.requireSession(cmd.Context()); err != nil {
				return exitError(err)
			}
			if err := e.app.Cart().RemoveItem(cmd.Context(), ids[0]); err != nil {
				return exitError(err)
			}
			printCart(cmd.OutOrStdout(), e.app.Cart())
			return nil
		},
	}
}

func newCheckoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for everything in the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireSession(cmd.Context()); err != nil {
				return exitError(err)
			}
			order, err := e.app.Orders().Checkout(cmd.Context())
			if err != nil {
				return exitError(err)
			}
			printOrders(cmd.OutOrStdout(), []shopapi.Order{*order})
			return nil
		},
	}
}

func newOrdersCmd(e *env) *cobra.Command {
	var export string

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show order history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireSession(cmd.Context()); err != nil {
				return exitError(err)
			}
			orders, err := e.app.Orders().List(cmd.Context())
			if err != nil {
				return exitError(err)
			}

			if export != "" {
				if err := storefront.ExportOrdersFile(orders, export); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d order(s) to %s\n", len(orders), export)
				return nil
			}

			if len(orders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No orders yet.")
				return nil
			}
			printOrders(cmd.OutOrStdout(), orders)
			return nil
		},
	}

	cmd.Flags().StringVar(&export, "export", "", "write the order history to this .xlsx file")
	return cmd
}

func newShopCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Open the interactive storefront",
		Args:  cobra.NoArgs,
		// The terminal UI shows notifications itself.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			board := tui.NewNoticeBoard()
			if err := e.setup(cmd, rootOpts(cmd), board); err != nil {
				return err
			}
			if _, err := e.app.Restore(cmd.Context()); err != nil {
				return err
			}
			return tui.Run(cmd.Context(), e.app, board)
		},
	}
}

// rootOpts reads the persistent flags back when a subcommand overrides
// PersistentPreRunE.
func rootOpts(cmd *cobra.Command) *rootOptions {
	flags := cmd.Flags()
	opts := &rootOptions{}
	opts.apiURL, _ = flags.GetString("api-url")
	opts.backend, _ = flags.GetString("session")
	opts.verbose, _ = flags.GetBool("verbose")
	return opts
}

func printCart(w io.Writer, cart *storefront.Cart) {
	lines := cart.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(line.ItemID), 10),
			line.Item.Name,
			strconv.FormatUint(uint64(line.Quantity), 10),
			line.Item.Price.StringFixed(2),
			line.Subtotal().StringFixed(2),
		})
	}
	fmt.Fprintln(w, renderTable([]string{"Item ID", "Name", "Qty", "Price", "Subtotal"}, rows))
	fmt.Fprintf(w, "Total: %s (%d item(s))\n", cart.Total().StringFixed(2), cart.Count())
}

func printOrders(w io.Writer, orders []shopapi.Order) {
	rows := make([][]string, 0)
	for _, order := range orders {
		placed := ""
		if !order.CreatedAt.IsZero() {
			placed = order.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		names := make([]string, 0, len(order.Items))
		for _, line := range order.Items {
			names = append(names, fmt.Sprintf("%s x%d", line.Item.Name, line.Quantity))
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(order.ID), 10),
			placed,
			strings.Join(names, ", "),
			order.Total.StringFixed(2),
		})
	}
	fmt.Fprintln(w, renderTable([]string{"Order", "Placed", "Items", "Total"}, rows))
}

func renderTable(headers []string, rows [][]string) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		String()
}

func parseIDs(args []string) ([]uint, error) {
	ids := make([]uint, 0, len(args))
	for _, arg := range args {
		n, err := strconv.ParseUint(arg, 10, 64)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid item id %q", arg)
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}

func prompt(in *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
