package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"herald/internal/browser"
	"herald/internal/linkedin"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with a visible browser and save the session",
	Long: `Login opens a visible browser window so a human can handle whatever
checkpoint or verification LinkedIn throws at the login, then saves the
session cookies for later headless runs. With a still-valid saved
session or working credentials it finishes without any interaction.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := newRuntime()
		defer rt.close()
		ctx := cmd.Context()

		br, err := browser.Launch(browser.Config{Headless: false, UserAgent: rt.cfg.UserAgent}, rt.logger)
		if err != nil {
			return err
		}
		defer br.Close()

		page, err := br.NewPage(ctx)
		if err != nil {
			return err
		}

		auth := rt.newAuthenticator()
		err = auth.EnsureLoggedIn(ctx, page)
		if err == nil {
			rt.logger.Info("Session is valid")
			return nil
		}
		if !errors.Is(err, linkedin.ErrCredentialsRequired) && !errors.Is(err, linkedin.ErrLoginFailed) {
			return err
		}

		// Automatic login is not possible. Hand the window to the human.
		if err := auth.OpenLogin(page); err != nil {
			return err
		}
		fmt.Println("Complete the login in the browser window, then press Enter.")
		if _, err := bufio.NewReader(os.Stdin).ReadString('\n'); err != nil {
			return fmt.Errorf("wait for confirmation: %w", err)
		}
		if !auth.IsLoggedIn(page) {
			return linkedin.ErrLoginFailed
		}
		return auth.CaptureSession(page)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
