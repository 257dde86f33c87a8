package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/radiusauth/internal/cli/output"
	"github.com/marmos91/radiusauth/pkg/apiclient"
	"github.com/marmos91/radiusauth/pkg/auth"
	"github.com/marmos91/radiusauth/pkg/config"
)

var (
	requestsOutput string
	requestsServer string
)

var requestsCmd = &cobra.Command{
	Use:   "requests [action]",
	Short: "List the credential fields needed for an action",
	Long: `List the credential fields the configured providers need for an
authentication action. The action defaults to login.

Examples:
  radiusauth requests
  radiusauth requests change -o json
  radiusauth requests --server http://localhost:8080`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: actionNames(),
	RunE:      runRequests,
}

func init() {
	requestsCmd.Flags().StringVarP(&requestsOutput, "output", "o", "table", "Output format (table|json|yaml)")
	requestsCmd.Flags().StringVar(&requestsServer, "server", "", "radiusauth API URL (default: use the local config)")
}

func actionNames() []string {
	names := make([]string, 0, len(auth.Actions))
	for _, a := range auth.Actions {
		names = append(names, string(a))
	}
	return names
}

// requestsResult lists the fields of every request for one action.
type requestsResult struct {
	Action   auth.Action     `json:"action" yaml:"action"`
	Requests []requestFields `json:"requests" yaml:"requests"`
}

type requestFields struct {
	Kind   string       `json:"kind" yaml:"kind"`
	Fields []auth.Field `json:"fields" yaml:"fields"`
}

// Headers implements output.TableRenderer.
func (r requestsResult) Headers() []string {
	return []string{"Kind", "Field", "Type", "Label", "Sensitive"}
}

// Rows implements output.TableRenderer.
func (r requestsResult) Rows() [][]string {
	var rows [][]string
	for _, req := range r.Requests {
		for _, f := range req.Fields {
			rows = append(rows, []string{req.Kind, f.Name, f.Type, f.Label, strconv.FormatBool(f.Sensitive)})
		}
	}
	return rows
}

func runRequests(cmd *cobra.Command, args []string) error {
	printer, err := newPrinter(cmd.OutOrStdout(), requestsOutput)
	if err != nil {
		return err
	}

	action := auth.ActionLogin
	if len(args) == 1 {
		if action, err = auth.ParseAction(args[0]); err != nil {
			return err
		}
	}

	var result requestsResult
	if requestsServer != "" {
		if result, err = remoteRequests(cmd.Context(), requestsServer, action); err != nil {
			return err
		}
	} else {
		cfg, err := config.MustLoad(GetConfigFile())
		if err != nil {
			return err
		}
		if err := initCLILogger(cfg); err != nil {
			return err
		}
		result = newRequestsResult(action, newManager(cfg, nil).AuthenticationRequests(action, auth.RequestOptions{}))
	}

	if len(result.Requests) == 0 && printer.Format() == output.FormatTable {
		printer.Println("No credentials are requested for " + string(action))
		return nil
	}
	return printer.Print(result)
}

func newRequestsResult(action auth.Action, reqs []auth.AuthenticationRequest) requestsResult {
	result := requestsResult{Action: action, Requests: make([]requestFields, 0, len(reqs))}
	for _, req := range reqs {
		result.Requests = append(result.Requests, requestFields{Kind: req.Kind(), Fields: req.Fields()})
	}
	return result
}

// remoteRequests asks a radiusauth API server for the requests of action.
func remoteRequests(ctx context.Context, server string, action auth.Action) (requestsResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := apiclient.New(server).Requests(ctx, string(action), "")
	if err != nil {
		return requestsResult{}, fmt.Errorf("list requests via %s: %w", server, err)
	}

	result := requestsResult{Action: action, Requests: make([]requestFields, 0, len(resp.Requests))}
	for _, req := range resp.Requests {
		fields := make([]auth.Field, 0, len(req.Fields))
		for _, f := range req.Fields {
			fields = append(fields, auth.Field(f))
		}
		result.Requests = append(result.Requests, requestFields{Kind: req.Kind, Fields: fields})
	}
	return result, nil
}
