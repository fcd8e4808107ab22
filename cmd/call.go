package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/rbac-admin/internal/transport"
)

var callData string

var callCmd = &cobra.Command{
	Use:   "call METHOD PATH",
	Short: "Dispatch one API call without starting the server",
	Long: `Run a single request through the API routes in-process and print the
status and JSON body, e.g. rbac-admin call GET "/users?q=ali&sort=name".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		deps, err := initializeDependencies(ctx)
		if err != nil {
			return fmt.Errorf("failed to init dependencies: %w", err)
		}
		defer deps.Close()

		req, err := buildCallRequest(args[0], args[1], callData)
		if err != nil {
			return err
		}

		resp := deps.API.Dispatch(ctx, req)
		return printResponse(cmd, resp)
	},
}

func init() {
	callCmd.Flags().StringVarP(&callData, "data", "d", "", "JSON request body")
}

func buildCallRequest(method, target, data string) (transport.Request, error) {
	u, err := url.Parse(target)
	if err != nil {
		return transport.Request{}, fmt.Errorf("invalid path %q: %w", target, err)
	}

	req := transport.Request{
		Method: strings.ToUpper(method),
		Path:   u.Path,
		Query:  u.Query(),
	}
	if data != "" {
		if !json.Valid([]byte(data)) {
			return transport.Request{}, fmt.Errorf("--data is not valid JSON")
		}
		req.Body = json.RawMessage(data)
	}
	return req, nil
}

func printResponse(cmd *cobra.Command, resp transport.Response) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, resp.Status)
	if resp.Body == nil {
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp.Body); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode response: %v\n", err)
		return err
	}
	return nil
}
