package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
)

const defaultNiche = "nutrição para gestantes"

type TestClient struct {
	baseURL string
	client  *http.Client
}

func NewTestClient(baseURL string, timeout time.Duration) *TestClient {
	return &TestClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("niche")
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "test",
		Short:         "Smoke tests for a running niche analyzer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			printHeader("Niche Analyzer - Test Suite")
			fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, v.GetString("url"), colorReset)
		},
	}
	root.PersistentFlags().String("url", "http://localhost:8080", "Base URL of the analyzer (NICHE_URL)")
	root.PersistentFlags().Duration("timeout", 150*time.Second, "HTTP timeout (NICHE_TIMEOUT)")
	_ = v.BindPFlag("url", root.PersistentFlags().Lookup("url"))
	_ = v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	client := func() *TestClient {
		return NewTestClient(v.GetString("url"), v.GetDuration("timeout"))
	}
	single := func(use, short string, fn func(*TestClient) bool) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if !fn(client()) {
					return fmt.Errorf("%s failed", use)
				}
				return nil
			},
		}
	}

	analyze := &cobra.Command{
		Use:   "analyze [niche]",
		Short: "Send an A2A analysis task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			niche := defaultNiche
			if len(args) == 1 {
				niche = args[0]
			}
			if !client().testAnalysis(niche) {
				return fmt.Errorf("analysis failed")
			}
			return nil
		},
	}

	search := &cobra.Command{
		Use:   "search <term>",
		Short: "Search analyzed niches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !client().testNicheSearch(args[0]) {
				return fmt.Errorf("search failed")
			}
			return nil
		},
	}

	all := &cobra.Command{
		Use:   "all",
		Short: "Run every test",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return client().runAllTests()
		},
	}

	root.AddCommand(
		all,
		single("health", "Check /health", (*TestClient).testHealthCheck),
		single("agent-card", "Validate the agent card", (*TestClient).testAgentCard),
		analyze,
		search,
	)
	return root
}

func (tc *TestClient) runAllTests() error {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Agent Card", tc.testAgentCard},
		{"Niche Search", func() bool { return tc.testNicheSearch("nutri") }},
		{"Niche Analysis", func() bool { return tc.testAnalysis(defaultNiche) }},
	}

	passed := 0
	failed := 0

	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	if failed > 0 {
		return fmt.Errorf("%d tests failed", failed)
	}
	return nil
}

func (tc *TestClient) get(endpoint string) (int, []byte, bool) {
	fmt.Printf("GET %s\n", endpoint)
	resp, err := tc.client.Get(endpoint)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return 0, nil, false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		fmt.Printf("Response: %s\n", string(body))
		return resp.StatusCode, body, false
	}
	return resp.StatusCode, body, true
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")

	_, body, ok := tc.get(tc.baseURL + "/health")
	if !ok {
		return false
	}
	if string(body) != "OK" {
		printError(fmt.Sprintf("Expected body 'OK', got '%s'", string(body)))
		return false
	}

	printSuccess("Health check passed")
	return true
}

func (tc *TestClient) testAgentCard() bool {
	printTestHeader("Testing Agent Card Endpoint")

	_, body, ok := tc.get(tc.baseURL + "/.well-known/agent.json")
	if !ok {
		return false
	}

	var agentCard map[string]interface{}
	if err := json.Unmarshal(body, &agentCard); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}

	requiredFields := []string{"name", "description", "url", "version", "capabilities", "skills"}
	for _, field := range requiredFields {
		if _, ok := agentCard[field]; !ok {
			printError(fmt.Sprintf("Missing required field: %s", field))
			return false
		}
	}

	printSuccess("Agent card is valid")
	printJSON(body)
	return true
}

func (tc *TestClient) testNicheSearch(term string) bool {
	printTestHeader("Testing Niche Search")

	_, body, ok := tc.get(tc.baseURL + "/api/nichos?search=" + url.QueryEscape(term))
	if !ok {
		return false
	}

	var result struct {
		Nichos []string `json:"nichos"`
		Count  int      `json:"count"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if result.Count != len(result.Nichos) {
		printError(fmt.Sprintf("count %d does not match %d nichos", result.Count, len(result.Nichos)))
		return false
	}

	printSuccess(fmt.Sprintf("Found %d niches", result.Count))
	printJSON(body)
	return true
}

func (tc *TestClient) testAnalysis(niche string) bool {
	printTestHeader("Testing Niche Analysis")

	endpoint := tc.baseURL + "/a2a/analyzer"
	fmt.Printf("POST %s\n", endpoint)
	fmt.Printf("%sNiche:%s %s\n\n", colorCyan, colorReset, niche)

	request := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      fmt.Sprintf("test-%d", time.Now().Unix()),
		"method":  "message/send",
		"params": map[string]interface{}{
			"message": map[string]interface{}{
				"kind": "message",
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"kind": "text",
						"text": niche,
					},
				},
			},
			"configuration": map[string]interface{}{
				"blocking":            true,
				"acceptedOutputModes": []string{"text/plain"},
			},
		},
	}

	jsonData, _ := json.MarshalIndent(request, "", "  ")
	fmt.Printf("%sRequest:%s\n", colorYellow, colorReset)
	fmt.Println(string(jsonData))
	fmt.Println()

	resp, err := tc.client.Post(endpoint, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	var response map[string]interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}

	if errObj, ok := response["error"]; ok && errObj != nil {
		printError("Request returned an error")
		errJSON, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Println(string(errJSON))
		return false
	}

	result, ok := response["result"].(map[string]interface{})
	if !ok {
		printError("Invalid result format")
		return false
	}

	status, ok := result["status"].(map[string]interface{})
	if !ok {
		printError("Invalid status format")
		return false
	}

	state, _ := status["state"].(string)
	if state != "completed" {
		printError(fmt.Sprintf("Expected state 'completed', got '%s'", state))
		return false
	}

	printSuccess("Analysis completed successfully")

	if msg, ok := status["message"].(map[string]interface{}); ok {
		if parts, ok := msg["parts"].([]interface{}); ok {
			fmt.Printf("\n%sReport:%s\n", colorGreen, colorReset)
			fmt.Println(strings.Repeat("=", 80))
			for _, part := range parts {
				if p, ok := part.(map[string]interface{}); ok {
					if text, ok := p["text"].(string); ok {
						fmt.Println(text)
					}
				}
			}
			fmt.Println(strings.Repeat("=", 80))
		}
	}

	if artifacts, ok := result["artifacts"].([]interface{}); ok && len(artifacts) > 0 {
		fmt.Printf("\n%sArtifacts:%s %d\n", colorPurple, colorReset, len(artifacts))
	}

	return true
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, prettyJSON.String())
	}
}
