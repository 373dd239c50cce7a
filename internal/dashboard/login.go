package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const report_login = "login"

var (
	ErrMissingFields      = errors.New("username and password are required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("wrong username or password")
)

func ValidateLogin(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return ErrMissingFields
	}
	return nil
}

func ValidateRegistration(password, confirmation string) error {
	if password != confirmation {
		return ErrPasswordMismatch
	}
	return nil
}

// Login validates the form and posts it. Validation failures never reach the server.
func (e *Engine) Login(ctx context.Context, username, password string) error {
	err := ValidateLogin(username, password)
	if err != nil {
		e.view.Notify(NoticeMissingFields)
		return err
	}

	ok, err := e.client.Login(ctx, username, password)
	if err != nil {
		e.tel.ReportWarning(report_login, err)
		e.view.Notify(NoticeServerError)
		return fmt.Errorf("login: %w", err)
	}
	if !ok {
		e.view.Notify(NoticeWrongCredentials)
		return ErrInvalidCredentials
	}
	return nil
}
