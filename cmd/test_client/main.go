package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

type options struct {
	baseURL   string
	tenant    string
	poster    string
	candidate string
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:          "test_client",
		Short:        "Smoke-test a running alumni-jobs server",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Server base URL")
	root.PersistentFlags().StringVar(&opts.tenant, "tenant", "demo", "Tenant id sent as the actor's network")
	root.PersistentFlags().StringVar(&opts.poster, "poster", "poster-1", "User id of the posting alumnus")
	root.PersistentFlags().StringVar(&opts.candidate, "candidate", "candidate-1", "User id of the applying alumnus")

	root.AddCommand(
		&cobra.Command{
			Use:   "mcp",
			Short: "Drive the MCP tools end to end",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMCP(cmd.Context(), opts)
			},
		},
		&cobra.Command{
			Use:   "browse",
			Short: "Browse the catalog over REST and toggle saved jobs offline-first",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runBrowse(cmd.Context(), opts)
			},
		},
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func (o *options) actor(user, name string) map[string]any {
	return map[string]any{"user_id": user, "name": name, "role": "alumni", "tenant_id": o.tenant}
}

func runMCP(ctx context.Context, o *options) error {
	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "alumni-jobs-test-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint: o.baseURL + "/mcp/stream",
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	listed, err := session.ListTools(ctx, nil)
	if err != nil {
		return err
	}
	for _, t := range listed.Tools {
		fmt.Printf("- %s: %s\n", t.Name, t.Description)
	}

	poster := o.actor(o.poster, "Pat Poster")
	candidate := o.actor(o.candidate, "Cam Candidate")

	created, err := call(ctx, session, "create_job", map[string]any{
		"actor": poster,
		"job": map[string]any{
			"company":              "Acme",
			"position":             "Frontend Engineer",
			"location":             "Remote",
			"type":                 "full-time",
			"remote":               true,
			"salary":               map[string]any{"min": 120000, "max": 140000, "currency": "USD"},
			"tags":                 []string{"react", "typescript"},
			"application_deadline": time.Now().AddDate(0, 1, 0).Format(time.DateOnly),
		},
	})
	if err != nil {
		return err
	}
	jobID, _ := created["id"].(string)

	if _, err := call(ctx, session, "list_jobs", map[string]any{
		"actor":   candidate,
		"filters": map[string]any{"salary": "100k-150k", "remote": "remote"},
	}); err != nil {
		return err
	}

	submitted, err := call(ctx, session, "submit_application", map[string]any{
		"actor":      candidate,
		"job_id":     jobID,
		"contact":    map[string]any{"name": "Cam Candidate", "email": "cam@example.com", "phone": "0123456789"},
		"skills":     []string{"React", "TypeScript"},
		"experience": "three years building dashboards",
	})
	if err != nil {
		return err
	}
	appID, _ := submitted["id"].(string)

	if _, err := call(ctx, session, "submit_application", map[string]any{
		"actor":      candidate,
		"job_id":     jobID,
		"contact":    map[string]any{"name": "Cam Candidate", "email": "cam@example.com", "phone": "0123456789"},
		"skills":     []string{"React"},
		"experience": "three years building dashboards",
	}); err == nil {
		return fmt.Errorf("duplicate submission was accepted")
	}

	steps := []struct {
		name string
		args map[string]any
	}{
		{"review_application", map[string]any{"actor": poster, "application_id": appID, "status": "Shortlisted", "notes": "strong portfolio"}},
		{"application_stats", map[string]any{"actor": poster, "job_id": jobID}},
		{"my_applications", map[string]any{"actor": candidate}},
		{"received_applications", map[string]any{"actor": poster}},
		{"save_job", map[string]any{"actor": candidate, "job_id": jobID}},
	}
	for _, s := range steps {
		if _, err := call(ctx, session, s.name, s.args); err != nil {
			return err
		}
	}

	fmt.Println("\nAll tests completed")
	return nil
}

// call prints the text summary and returns the structured output as a map
func call(ctx context.Context, session *sdkmcp.ClientSession, name string, args map[string]any) (map[string]any, error) {
	fmt.Printf("\nTEST: %s\n", name)

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	printResult(result)
	if result.IsError {
		return nil, fmt.Errorf("%s returned a tool error", name)
	}

	out, _ := result.StructuredContent.(map[string]any)
	return out, nil
}

func printResult(result *sdkmcp.CallToolResult) {
	for _, content := range result.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			fmt.Println(text.Text)
		}
	}
}
