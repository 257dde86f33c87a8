package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/radiusauth/internal/cli/prompt"
	"github.com/marmos91/radiusauth/pkg/apiclient"
	"github.com/marmos91/radiusauth/pkg/auth"
	"github.com/marmos91/radiusauth/pkg/config"
)

var (
	loginOutput        string
	loginPasswordStdin bool
	loginServer        string
	loginShowToken     bool
)

// ErrLoginRefused is returned when the RADIUS server does not accept the
// credentials, so the command exits non-zero.
var ErrLoginRefused = errors.New("login refused")

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Check one username and password against the RADIUS server",
	Long: `Check a username and password against the configured RADIUS server.

By default the check runs in this process and no API server is needed.
With --server the credentials are sent to a running radiusauth API instead.
Missing values are prompted for interactively. The command exits non-zero
unless the server accepts the credentials.

Examples:
  # Prompt for username and password
  radiusauth login

  # Prompt for the password only
  radiusauth login alice

  # Read the password from stdin, print JSON
  echo "$PASSWORD" | radiusauth login alice --password-stdin -o json

  # Log in through a running API server and print the access token
  radiusauth login alice --server http://localhost:8080 --show-token`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginOutput, "output", "o", "table", "Output format (table|json|yaml)")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	loginCmd.Flags().StringVar(&loginServer, "server", "", "radiusauth API URL (default: check in-process)")
	loginCmd.Flags().BoolVar(&loginShowToken, "show-token", false, "Print the access token (with --server)")
}

// loginResult is the printed outcome of a login.
type loginResult struct {
	Status     string            `json:"status" yaml:"status"`
	Username   string            `json:"username,omitempty" yaml:"username,omitempty"`
	Provider   string            `json:"provider,omitempty" yaml:"provider,omitempty"`
	Message    string            `json:"message,omitempty" yaml:"message,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Token      string            `json:"access_token,omitempty" yaml:"access_token,omitempty"`

	err error
}

func newLoginResult(resp *auth.Response) loginResult {
	return loginResult{
		Status:     resp.Status.String(),
		Username:   resp.Username,
		Provider:   resp.Provider,
		Message:    resp.Message,
		Attributes: resp.Attributes,
		err:        resp.Err,
	}
}

// Headers implements output.TableRenderer.
func (r loginResult) Headers() []string {
	return []string{"Field", "Value"}
}

// Rows implements output.TableRenderer. Attributes are sorted by name.
func (r loginResult) Rows() [][]string {
	rows := [][]string{
		{"Status", r.Status},
		{"Username", r.Username},
		{"Provider", r.Provider},
	}
	if r.Message != "" {
		rows = append(rows, []string{"Message", r.Message})
	}

	names := make([]string, 0, len(r.Attributes))
	for name := range r.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rows = append(rows, []string{name, r.Attributes[name]})
	}
	if r.Token != "" {
		rows = append(rows, []string{"Access token", r.Token})
	}
	return rows
}

func runLogin(cmd *cobra.Command, args []string) error {
	printer, err := newPrinter(cmd.OutOrStdout(), loginOutput)
	if err != nil {
		return err
	}

	var cfg *config.Config
	if loginServer == "" {
		if cfg, err = config.MustLoad(GetConfigFile()); err != nil {
			return err
		}
		if err := initCLILogger(cfg); err != nil {
			return err
		}
	}

	var username, password string
	if len(args) == 1 {
		username = args[0]
	}
	if loginPasswordStdin {
		if username == "" {
			return errors.New("--password-stdin requires a username argument")
		}
		if password, err = readPassword(cmd); err != nil {
			return err
		}
	}

	username, password, err = prompt.Credentials(username, password)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var result loginResult
	if loginServer != "" {
		result, err = remoteLogin(ctx, loginServer, username, password)
		if err != nil {
			return err
		}
	} else {
		manager := newManager(cfg, nil)
		resp := manager.BeginAuthentication(ctx, []auth.AuthenticationRequest{
			&auth.PasswordRequest{Action: auth.ActionLogin, Username: username, Password: password},
		})
		result = newLoginResult(resp)
	}

	passed := result.Status == auth.StatusPass.String()
	if passed {
		printer.Success("Login accepted")
	} else {
		printer.Error("Login refused")
	}
	if err := printer.Print(result); err != nil {
		return err
	}

	if !passed {
		if result.err != nil {
			return fmt.Errorf("%w: %v", ErrLoginRefused, result.err)
		}
		return fmt.Errorf("%w: %s", ErrLoginRefused, result.Message)
	}
	return nil
}

// remoteLogin sends the credentials to a radiusauth API server. A refusal
// is returned as a failed result, not an error.
func remoteLogin(ctx context.Context, server, username, password string) (loginResult, error) {
	resp, err := apiclient.New(server).Login(ctx, username, password)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.IsAuthError() {
			return loginResult{
				Status:  auth.StatusFail.String(),
				Message: apiErr.Detail,
				err:     apiErr,
			}, nil
		}
		return loginResult{}, fmt.Errorf("login via %s: %w", server, err)
	}

	result := loginResult{
		Status:     auth.StatusPass.String(),
		Username:   resp.User.Username,
		Provider:   resp.User.Provider,
		Attributes: resp.User.Attributes,
	}
	if loginShowToken {
		result.Token = resp.AccessToken
	}
	return result, nil
}

// readPassword reads one line from the command's stdin.
func readPassword(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password on stdin")
	}
	return password, nil
}
