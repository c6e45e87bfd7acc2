package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// newSmokeCmd walks the endpoints the way a first-time user does: log in,
// add an item, read the cart back. It talks to the API client directly and
// never touches the stored session.
func newSmokeCmd(e *env) *cobra.Command {
	var (
		username string
		password string
		itemID   uint
	)

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Exercise login, add-to-cart and cart listing against a running API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "=== Testing Authentication ===")
			fmt.Fprintln(out, "1. Attempting login...")
			login, err := e.client.Login(ctx, username, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			fmt.Fprintln(out, "Login successful!")
			printJSON(out, "User", login.User)
			fmt.Fprintf(out, "Token: %s\n", login.Token)

			fmt.Fprintln(out, "\n2. Testing add to cart...")
			cart, err := e.client.AddToCart(ctx, login.Token, itemID)
			if err != nil {
				return fmt.Errorf("add to cart: %w", err)
			}
			printJSON(out, "Cart response", cart)
			fmt.Fprintln(out, "Add to cart successful!")

			fmt.Fprintln(out, "\n3. Testing get cart...")
			carts, err := e.client.ListCarts(ctx, login.Token)
			if err != nil {
				return fmt.Errorf("get cart: %w", err)
			}
			printJSON(out, "Cart items", carts)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "testuser", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "password123", "password")
	cmd.Flags().UintVar(&itemID, "item", 2, "catalog item id to add")
	return cmd
}

func printJSON(w io.Writer, label string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", label, v)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", label, data)
}
