package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for chatlens resources.
	uriScheme = "chatlens://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "transcripts",
		Name:        "transcripts",
		Description: "List of imported chat transcripts",
		MIMEType:    "application/json",
	}, s.handleTranscriptsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "transcripts/{transcriptId}",
		Name:        "transcript",
		Description: "Messages of an imported chat transcript",
		MIMEType:    "application/json",
	}, s.handleTranscriptResource)
}

// handleTranscriptsResource returns a list of all stored transcripts.
func (s *Server) handleTranscriptsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	summaries, err := s.ports.Transcript.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing transcripts: %w", err)
	}

	infos := make([]TranscriptOutput, len(summaries))
	for i := range summaries {
		infos[i] = toTranscriptOutput(summaries[i])
	}

	return jsonResource(req.Params.URI, infos)
}

// handleTranscriptResource returns the messages of one transcript.
func (s *Server) handleTranscriptResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract transcriptId from URI: chatlens://transcripts/{transcriptId}
	id := extractTranscriptID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	transcript, err := s.ports.Transcript.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting transcript: %w", err)
	}

	messages := make([]MessageOutput, len(transcript.Messages))
	for i := range transcript.Messages {
		messages[i] = toMessageOutput(transcript.Messages[i])
	}

	return jsonResource(req.Params.URI, struct {
		TranscriptOutput
		MessageList []MessageOutput `json:"message_list"`
	}{
		TranscriptOutput: toTranscriptOutput(transcript.Summary()),
		MessageList:      messages,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTranscriptID extracts the ID from a URI like chatlens://transcripts/{transcriptId}.
func extractTranscriptID(uri string) string {
	const prefix = uriScheme + "transcripts/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
