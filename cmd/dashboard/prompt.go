package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/tcnksm/go-input"
)

func newUI(r io.Reader, w io.Writer) *input.UI {
	return &input.UI{Reader: r, Writer: w}
}

// confirm asks a yes/no question, anything but y/yes is a no.
func confirm(ui *input.UI, question string) (bool, error) {
	answer, err := ui.Ask(fmt.Sprintf("%s [y/N]", question), &input.Options{
		Default:     "n",
		HideDefault: true,
		HideOrder:   true,
		Loop:        false,
	})
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// askCredentials prompts for whatever the config left empty.
func askCredentials(ui *input.UI, username, password string) (string, string, error) {
	var err error
	if username == "" {
		username, err = ui.Ask("username", &input.Options{Required: true, Loop: true, HideOrder: true})
		if err != nil {
			return "", "", err
		}
	}
	if password == "" {
		password, err = ui.Ask("password", &input.Options{Required: true, Loop: true, Mask: true, HideOrder: true})
		if err != nil {
			return "", "", err
		}
	}
	return username, password, nil
}
