package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// promptPassword asks for the account password with masked input.
func promptPassword(email string) (string, error) {
	var password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				Description(email).
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("password is required")
					}
					return nil
				}).
				Value(&password),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return password, nil
}
