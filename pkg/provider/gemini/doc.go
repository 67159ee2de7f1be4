// Package gemini implements provider.Provider for the Google Gemini
// generate-content API through google.golang.org/genai. Every call sends a
// single flattened prompt. Tool results are described as plain text on
// continuation turns because the API has no tool-result turn for
// single-prompt requests, and the active tool declarations travel with
// every request so the model may ask for more tools.
package gemini
