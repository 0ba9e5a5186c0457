/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/shopvine/storefront/internal/gateway"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Log in and persist the session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.Session.Login(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (%s)\n", a.State.FullName(), a.State.Email())
		if !a.State.IsAdmin() {
			fmt.Printf("Cart items: %d\n", a.State.CartCount())
		}
		return nil
	},
}

var googleLoginCmd = &cobra.Command{
	Use:   "google-login <credential>",
	Short: "Log in with a Google credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.Session.LoginWithGoogle(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (%s)\n", a.State.FullName(), a.State.Email())
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		req := gateway.SignupRequest{
			FirstName: signupFirstName,
			LastName:  signupLastName,
			Email:     signupEmail,
			Phone:     signupPhone,
			Address:   signupAddress,
			Password:  signupPassword,
		}
		resp, err := a.Session.Signup(cmd.Context(), req)
		if err != nil {
			return err
		}
		if resp.Message != "" {
			fmt.Println(resp.Message)
		} else {
			fmt.Println("Account created. Log in to continue.")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.Session.Logout(cmd.Context())
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newSessionApp(cmd.Context())
		if err != nil {
			return err
		}
		user, ok := a.State.User()
		if !ok {
			return fmt.Errorf("not logged in")
		}
		return printJSON(user)
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "profile-update",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newSessionApp(cmd.Context())
		if err != nil {
			return err
		}

		patch := gateway.ProfileUpdate{
			FirstName: profileFirstName,
			LastName:  profileLastName,
			Address:   profileAddress,
			Phone:     profilePhone,
			Password:  profilePassword,
		}
		if err := a.Session.UpdateProfile(cmd.Context(), patch); err != nil {
			return err
		}
		user, _ := a.State.User()
		return printJSON(user)
	},
}

var (
	signupFirstName string
	signupLastName  string
	signupEmail     string
	signupPhone     string
	signupAddress   string
	signupPassword  string

	profileFirstName string
	profileLastName  string
	profileAddress   string
	profilePhone     string
	profilePassword  string
)

func init() {
	signupCmd.Flags().StringVar(&signupFirstName, "first-name", "", "first name")
	signupCmd.Flags().StringVar(&signupLastName, "last-name", "", "last name")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "email address")
	signupCmd.Flags().StringVar(&signupPhone, "phone", "", "10-digit phone number")
	signupCmd.Flags().StringVar(&signupAddress, "address", "", "shipping address")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "password")

	profileUpdateCmd.Flags().StringVar(&profileFirstName, "first-name", "", "first name")
	profileUpdateCmd.Flags().StringVar(&profileLastName, "last-name", "", "last name")
	profileUpdateCmd.Flags().StringVar(&profileAddress, "address", "", "shipping address")
	profileUpdateCmd.Flags().StringVar(&profilePhone, "phone", "", "phone number")
	profileUpdateCmd.Flags().StringVar(&profilePassword, "password", "", "new password")

	rootCmd.AddCommand(loginCmd, googleLoginCmd, signupCmd, logoutCmd, whoamiCmd, profileUpdateCmd)
}
