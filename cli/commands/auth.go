package commands

import (
	"errors"
	"fmt"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"net/http"
	"satchel/cli/globals"
	"satchel/cli/styles"
	"satchel/cli/utils"
	"satchel/shared"
	"satchel/shared/constants"
	"strings"
)

func validateEmail(email string) error {
	if !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
		return errors.New("invalid email address")
	}

	return nil
}

func validatePassword(password string) error {
	if len(password) < constants.MinPasswordLen {
		return fmt.Errorf("must be at least %d characters", constants.MinPasswordLen)
	}

	return nil
}

// NewSignupCommand creates the signup command, which creates an account and
// logs into it.
func NewSignupCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new Satchel account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			var confirmPassword string

			err := huh.NewForm(
				huh.NewGroup(
					huh.NewNote().Title(utils.GenerateTitle("Signup")),
					huh.NewInput().Title("Email").
						Value(&email).
						Validate(validateEmail),
					huh.NewInput().Title("Password").
						EchoMode(huh.EchoModePassword).
						Value(&password).
						Validate(validatePassword),
					huh.NewInput().Title("Confirm Password").
						EchoMode(huh.EchoModePassword).
						Value(&confirmPassword).
						Validate(func(s string) error {
							if s != password {
								return errors.New("passwords do not match")
							}

							return nil
						}),
					huh.NewConfirm().Affirmative("Sign Up").Negative(""),
				),
			).WithTheme(styles.Theme).WithShowHelp(true).Run()
			if err != nil {
				return err
			}

			var signupErr error
			err = spinner.New().Title("Creating account...").Action(func() {
				_, signupErr = globals.API.SubmitSignup(shared.Signup{
					Email:    email,
					Password: password,
				})
			}).Run()
			if err != nil {
				return err
			} else if signupErr != nil {
				return signupErr
			}

			if err = logIn(email, password); err != nil {
				return err
			}

			success(cmd, "Account created, logged in as %s", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "prefill the email address")
	return cmd
}

// NewLoginCommand creates the login command. Invalid credentials re-open the
// form with an error message.
func NewLoginCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log into your Satchel account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var runFunc func(errMsgs ...string) error
			runFunc = func(errMsgs ...string) error {
				var password string

				title := huh.NewNote().Title(utils.GenerateTitle("Login"))
				if len(errMsgs) > 0 {
					title.Description(styles.ErrStyle.Render(errMsgs[0]))
				}

				err := huh.NewForm(
					huh.NewGroup(
						title,
						huh.NewInput().Title("Email").
							Value(&email).
							Validate(validateEmail),
						huh.NewInput().Title("Password").
							EchoMode(huh.EchoModePassword).
							Value(&password),
						huh.NewConfirm().Affirmative("Log In").Negative(""),
					),
				).WithTheme(styles.Theme).WithShowHelp(true).Run()
				if err != nil {
					return err
				}

				err = logIn(email, password)
				if utils.IsStatus(err, http.StatusNotFound) {
					return runFunc("Incorrect email or password")
				}

				return err
			}

			if err := runFunc(); err != nil {
				return err
			}

			success(cmd, "Logged in as %s", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "prefill the email address")
	return cmd
}

func logIn(email, password string) error {
	var session string
	var err error

	spinErr := spinner.New().Title("Logging in...").Action(func() {
		_, session, err = globals.API.Login(shared.Login{
			Email:    email,
			Password: password,
		})
	}).Run()
	if spinErr != nil {
		return spinErr
	} else if err != nil {
		return err
	} else if len(session) == 0 {
		return errors.New("server did not return a session")
	}

	return globals.Paths.SetSession(session)
}

// NewLogoutCommand creates the logout command. Logging out ends every session
// for the account, not just this one.
func NewLogoutCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:         "logout",
		Short:       "Log out of your Satchel account on every device",
		Args:        cobra.NoArgs,
		Annotations: sessionOnly,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(
				"Log out?",
				"This ends every active session for your account.",
				yes)
			if err != nil || !ok {
				return err
			}

			err = globals.API.LogOut()
			if err != nil && !utils.IsStatus(err, http.StatusUnauthorized) {
				return err
			}

			if err = globals.Paths.Reset(); err != nil {
				return err
			}

			success(cmd, "Logged out")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

// NewWhoamiCommand prints the account tied to the saved session
func NewWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:         "whoami",
		Short:       "Show the logged in account",
		Args:        cobra.NoArgs,
		Annotations: sessionOnly,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := globals.API.GetSession()
			if utils.IsStatus(err, http.StatusUnauthorized) {
				// Stale session, remove it so later commands fail fast
				_ = globals.Paths.Reset()
				return errNotLoggedIn
			} else if err != nil {
				return err
			}

			if opts.JSON {
				return printJSON(cmd, info)
			}

			outputf(cmd, "%s %s\n%s %s\n",
				styles.BoldStyle.Render("Email:"), info.Email,
				styles.BoldStyle.Render("ID:"), info.ID)
			return nil
		},
	}
}

// NewInfoCommand prints what the configured server supports
func NewInfoCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show information about the configured server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := globals.API.GetServerInfo()
			if err != nil {
				return err
			}

			if opts.JSON {
				return printJSON(cmd, info)
			}

			enabled := func(b bool) string {
				if b {
					return styles.SuccessStyle.Render("enabled")
				}

				return styles.HelpStyle.Render("disabled")
			}

			outputf(cmd, "%s %s\n", styles.BoldStyle.Render("Server:"), globals.Config.Server)
			outputf(cmd, "%s %s\n", styles.BoldStyle.Render("Version:"), info.Version)
			outputf(cmd, "%s %s\n", styles.BoldStyle.Render("Storage:"), info.StorageBackend)
			outputf(cmd, "%s %s\n", styles.BoldStyle.Render("Image mirroring:"), enabled(info.MirrorEnabled))
			outputf(cmd, "%s %s\n", styles.BoldStyle.Render("Wallet sync:"), enabled(info.IndexerEnabled))
			outputf(cmd, "%s %s\n", styles.BoldStyle.Render("IPFS gateways:"), strings.Join(info.IPFSGateways, ", "))
			outputf(cmd, "%s %s\n", styles.BoldStyle.Render("Arweave gateway:"), info.ArweaveGateway)
			return nil
		},
	}
}
