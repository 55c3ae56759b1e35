package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newJobCommand() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "job",
		Short: "Inspect or cancel a job on a running farmplan server",
	}
	cmd.PersistentFlags().StringVar(&server, "server", "http://localhost:8080", "farmplan server base URL")

	cmd.AddCommand(newJobGetCommand(&server))
	cmd.AddCommand(newJobCancelCommand(&server))
	return cmd
}

func newJobGetCommand(server *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <job-id>",
		Short: "Print a job's current status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, status, err := jobRequest(http.MethodGet, *server, args[0])
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("server returned %d: %s", status, body)
			}
			fmt.Println(string(body))
			return nil
		},
	}
}

func newJobCancelCommand(server *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Request cancellation of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, status, err := jobRequest(http.MethodDelete, *server, args[0])
			if err != nil {
				return err
			}
			if status != http.StatusAccepted {
				return fmt.Errorf("server did not accept cancellation (status %d)", status)
			}
			fmt.Println("cancellation requested")
			return nil
		},
	}
}

func jobRequest(method, server, jobID string) ([]byte, int, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest(method, server+"/v1/jobs/"+jobID, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	var pretty map[string]any
	if json.Unmarshal(body, &pretty) == nil {
		if formatted, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			body = formatted
		}
	}
	return body, resp.StatusCode, nil
}
