// Package prompt provides interactive terminal prompts for CLI commands.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// IsAborted returns true if the error indicates the user aborted (Ctrl+C).
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, ErrAborted)
}

// wrapError converts promptui interrupt/abort errors to ErrAborted for consistent handling.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsAborted(err) {
		return ErrAborted
	}
	return err
}

func required(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("value required")
	}
	return nil
}

// Input prompts for a required text value, offering defaultValue.
func Input(label, defaultValue string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  defaultValue,
		Validate: required,
	}

	result, err := prompt.Run()
	return result, wrapError(err)
}

// Password prompts for a masked, non-empty secret.
func Password(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Mask:     '*',
		Validate: required,
	}

	result, err := prompt.Run()
	return result, wrapError(err)
}

// Credentials fills in whichever of username and password is empty by
// prompting for it.
func Credentials(username, password string) (string, string, error) {
	var err error
	if username == "" {
		if username, err = Input("Username", ""); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = Password("Password"); err != nil {
			return "", "", err
		}
	}
	return username, password, nil
}

// Confirm prompts the user for yes/no confirmation.
// Empty input answers defaultYes; Ctrl+C returns ErrAborted.
func Confirm(label string, defaultYes bool) (bool, error) {
	defaultStr := "y/N"
	if defaultYes {
		defaultStr = "Y/n"
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("%s [%s]", label, defaultStr),
		IsConfirm: true,
	}

	result, err := prompt.Run()
	return confirmed(result, err, defaultYes)
}

// confirmed interprets the result of a promptui confirm prompt, which
// reports "n" as ErrAbort.
func confirmed(result string, err error, defaultYes bool) (bool, error) {
	switch {
	case errors.Is(err, promptui.ErrInterrupt):
		return false, ErrAborted
	case errors.Is(err, promptui.ErrAbort):
		if result == "" {
			return defaultYes, nil
		}
		return false, nil
	case err != nil:
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(result)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ConfirmWithForce returns true immediately if force is true,
// otherwise prompts for confirmation.
func ConfirmWithForce(label string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	return Confirm(label, false)
}
