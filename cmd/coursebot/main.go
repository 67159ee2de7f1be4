// Command coursebot answers course questions with an LLM that can call
// course tools through MCP.
//
// Configuration is read from a YAML file (--config, COURSEBOT_CONFIG,
// ./config.yaml or /etc/coursebot/config.yaml) and environment variables:
//
//	COURSEBOT_PROVIDER          - claude, gemini or random (default: random)
//	ANTHROPIC_API_KEY           - enables the Anthropic provider
//	GOOGLE_API_KEY              - enables the Gemini provider
//	COURSEBOT_MAX_ITERATIONS    - tool round ceiling (default: 5)
//	COURSEBOT_ENABLE_ITERATION  - allow more than one tool round (default: true)
//	COURSEBOT_MCP_SERVERS       - JSON array of MCP server configs
//	COURSEBOT_ALLOWED_TOOLS     - comma separated tool names offered to the model
//	COURSEBOT_CATALOG           - course catalog YAML used when no MCP server is configured
//	COURSEBOT_PORT              - listen port for serve (default: 8080)
//	COURSEBOT_JWT_SECRET        - HMAC secret for bearer tokens on serve
//	COURSEBOT_LOG_LEVEL         - ERROR, WARN, INFO, DEBUG or TRACE
//	COURSEBOT_DEBUG             - comma separated debug categories
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}
