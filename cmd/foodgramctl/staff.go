package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/foodgram-backend/internal/services"
)

var staffInput services.RegisterInput

var createStaffCmd = &cobra.Command{
	Use:   "create-staff",
	Short: "Create a staff user that can manage tags, ingredients and any recipe",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.Services.Auth.CreateStaffUser(cmd.Context(), staffInput)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created staff user %s (id %d)\n", u.Username, u.ID)
		return nil
	},
}

func init() {
	f := createStaffCmd.Flags()
	f.StringVar(&staffInput.Email, "email", "", "email address")
	f.StringVar(&staffInput.Username, "username", "", "username")
	f.StringVar(&staffInput.Password, "password", "", "password")
	f.StringVar(&staffInput.FirstName, "first-name", "", "first name")
	f.StringVar(&staffInput.LastName, "last-name", "", "last name")
	for _, name := range []string{"email", "username", "password", "first-name", "last-name"} {
		_ = createStaffCmd.MarkFlagRequired(name)
	}
}
