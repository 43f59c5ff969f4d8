package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/amal/pkg/agenda"
)

func registerResources(srv *server.MCPServer, h *handlers) {
	srv.AddResource(mcp.NewResource(
		"amal://agenda",
		"Agenda",
		mcp.WithResourceDescription("Today and upcoming items for the current user."),
		mcp.WithMIMEType("application/json"),
	), h.readAgenda)

	srv.AddResourceTemplate(mcp.NewResourceTemplate(
		"amal://tasks/{id}",
		"Task",
		mcp.WithTemplateDescription("One task with its history and references."),
		mcp.WithTemplateMIMEType("application/json"),
	), h.readTask)

	srv.AddResourceTemplate(mcp.NewResourceTemplate(
		"amal://notes/{id}",
		"Note",
		mcp.WithTemplateDescription("One note rendered as markdown."),
		mcp.WithTemplateMIMEType("text/markdown"),
	), h.readNote)
}

func (h *handlers) readAgenda(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	a, err := h.svc.Agenda(ctx, agenda.Options{})
	if err != nil {
		return nil, err
	}
	return encodeResourceJSON(request.Params.URI, map[string]any{
		"agenda": a,
		"count":  a.Len(),
	})
}

func (h *handlers) readTask(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id := argument(request, "id")
	if id == "" {
		return nil, fmt.Errorf("task id is required")
	}
	t, err := h.svc.FindTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return encodeResourceJSON(request.Params.URI, map[string]any{"task": t})
}

func (h *handlers) readNote(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id := argument(request, "id")
	if id == "" {
		return nil, fmt.Errorf("note id is required")
	}
	n, err := h.svc.FindNote(ctx, id)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/markdown",
			Text:     n.Markdown(),
		},
	}, nil
}

// argument reads a template variable, which the server may hand over as a
// single value or a list.
func argument(request mcp.ReadResourceRequest, name string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
