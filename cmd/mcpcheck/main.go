package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/mcp/stream", "MCP streamable endpoint")
	country := flag.String("country", "gb", "country code to query")
	what := flag.String("what", "software engineer", "search keywords")
	where := flag.String("where", "London", "search location")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "job-finder-mcpcheck",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: *endpoint,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	listTools(ctx, session)
	jobSearch(ctx, session, *country, *what, *where)
	jobCategories(ctx, session, *country)

	fmt.Println("\nAll checks completed")
}

func listTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nCHECK: tools/list")

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Printf("tools/list failed: %v", err)
		return
	}
	for _, t := range res.Tools {
		fmt.Printf("  %s: %s\n", t.Name, t.Description)
	}
}

func jobSearch(ctx context.Context, session *mcp.ClientSession, country, what, where string) {
	fmt.Println("\nCHECK: job_search")

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "job_search",
		Arguments: map[string]any{
			"country": country,
			"what":    what,
			"where":   where,
			"page":    1,
		},
	})
	if err != nil {
		log.Printf("job_search failed: %v", err)
		return
	}

	printResult(result)

	// The sentinel country must be refused by the tool
	result, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "job_search",
		Arguments: map[string]any{"country": "00"},
	})
	if err != nil {
		log.Printf("job_search (no country) failed: %v", err)
		return
	}
	if !result.IsError {
		log.Printf("job_search (no country) unexpectedly succeeded")
		return
	}
	fmt.Println("job_search passed")
}

func jobCategories(ctx context.Context, session *mcp.ClientSession, country string) {
	fmt.Println("\nCHECK: job_categories")

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "job_categories",
		Arguments: map[string]any{"country": country},
	})
	if err != nil {
		log.Printf("job_categories failed: %v", err)
		return
	}

	printResult(result)
	fmt.Println("job_categories passed")
}

func printResult(res *mcp.CallToolResult) {
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}
