// Package foundry issues Responses API requests against an Azure AI Foundry
// resource through the openai-go SDK.
package foundry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"foundrydemo/internal/config"
)

// Responder sends one request and returns the raw response. Client is the
// production implementation; tests substitute fakes.
type Responder interface {
	Create(ctx context.Context, req Request) (*Result, error)
}

// Role is the author of an input message.
type Role string

const (
	RoleDeveloper Role = "developer"
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// InputMessage is one message of a fixed conversation.
type InputMessage struct {
	Role    Role
	Content string
}

// Tool describes a function the model may call.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolOutput answers a function call from a previous response.
type ToolOutput struct {
	CallID string
	Output string
}

// Request is a single Responses API call. Prompt is sent as a bare string input
// when no messages or tool outputs are present.
type Request struct {
	Model              string
	Prompt             string
	Messages           []InputMessage
	Reasoning          Reasoning
	Tools              []Tool
	ToolOutputs        []ToolOutput
	PreviousResponseID string
}

// Result carries the response ID and the payload exactly as returned.
type Result struct {
	ID  string
	Raw json.RawMessage
}

// Client is a Responder backed by the openai-go SDK.
type Client struct {
	sdk    openai.Client
	logger *slog.Logger
}

// New builds a client bound to the normalized base URL and key in settings.
// Extra options are applied after the defaults.
func New(settings config.Settings, logger *slog.Logger, opts ...option.RequestOption) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	base := []option.RequestOption{
		option.WithBaseURL(settings.BaseURL),
		option.WithAPIKey(settings.APIKey),
	}
	return &Client{
		sdk:    openai.NewClient(append(base, opts...)...),
		logger: logger,
	}
}

// Create validates the request, sends it and returns the raw payload. Errors
// from the SDK are returned unchanged.
func (c *Client) Create(ctx context.Context, req Request) (*Result, error) {
	params, err := buildParams(req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("sending responses request",
		"model", req.Model,
		"messages", len(req.Messages),
		"tools", len(req.Tools),
		"tool_outputs", len(req.ToolOutputs),
		"effort", req.Reasoning.Effort,
		"summary", req.Reasoning.Summary,
	)

	resp, err := c.sdk.Responses.New(ctx, params)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("received responses payload", "id", resp.ID, "status", string(resp.Status))
	return &Result{ID: resp.ID, Raw: json.RawMessage(resp.RawJSON())}, nil
}

func buildParams(req Request) (responses.ResponseNewParams, error) {
	if req.Model == "" {
		return responses.ResponseNewParams{}, fmt.Errorf("request model is empty")
	}
	if err := req.Reasoning.Validate(); err != nil {
		return responses.ResponseNewParams{}, err
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(req.Model),
	}

	if len(req.Messages) == 0 && len(req.ToolOutputs) == 0 {
		params.Input = responses.ResponseNewParamsInputUnion{OfString: openai.String(req.Prompt)}
	} else {
		list := make(responses.ResponseInputParam, 0, len(req.Messages)+len(req.ToolOutputs))
		for _, msg := range req.Messages {
			list = append(list, responses.ResponseInputItemParamOfMessage(msg.Content, responses.EasyInputMessageRole(msg.Role)))
		}
		for _, out := range req.ToolOutputs {
			list = append(list, responses.ResponseInputItemParamOfFunctionCallOutput(out.CallID, out.Output))
		}
		params.Input = responses.ResponseNewParamsInputUnion{OfInputItemList: list}
	}

	if !req.Reasoning.IsZero() {
		params.Reasoning = shared.ReasoningParam{
			Effort:  shared.ReasoningEffort(req.Reasoning.Effort),
			Summary: shared.ReasoningSummary(req.Reasoning.Summary),
		}
	}

	for _, tool := range req.Tools {
		params.Tools = append(params.Tools, responses.ToolUnionParam{
			OfFunction: &responses.FunctionToolParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  tool.Parameters,
				Strict:      openai.Bool(false),
			},
		})
	}

	if req.PreviousResponseID != "" {
		params.PreviousResponseID = openai.String(req.PreviousResponseID)
	}

	return params, nil
}
