package agent

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	awsdocument "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"k8s.io/klog/v2"
)

// BedrockOptions configures the Bedrock Converse model client.
type BedrockOptions struct {
	// Profile is the AWS shared config profile. Empty uses the default chain.
	Profile string
	Region  string
	ModelID string
}

// Bedrock implements ModelClient on top of the AWS Bedrock Converse API.
type Bedrock struct {
	client  *bedrockruntime.Client
	modelID string
}

var _ ModelClient = (*Bedrock)(nil)

func NewBedrock(ctx context.Context, options BedrockOptions) (*Bedrock, error) {
	loadOptions := make([]func(*awsconfig.LoadOptions) error, 0)
	if options.Profile != "" {
		loadOptions = append(loadOptions, awsconfig.WithSharedConfigProfile(options.Profile))
	}
	if options.Region != "" {
		loadOptions = append(loadOptions, awsconfig.WithRegion(options.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return &Bedrock{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: options.ModelID,
	}, nil
}

func (b *Bedrock) Complete(ctx context.Context, system string, messages []Message, tools []ToolSpec) (*Completion, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(b.modelID),
		Messages: toConverseMessages(messages),
	}
	if system != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: system},
		}
	}
	if len(tools) > 0 {
		input.ToolConfig = toToolConfiguration(tools)
	}

	out, err := b.client.Converse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("converse request failed: %w", err)
	}

	message, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, fmt.Errorf("unexpected converse output type %T", out.Output)
	}

	completion := &Completion{StopReason: StopEndTurn}
	if out.StopReason == types.StopReasonToolUse {
		completion.StopReason = StopToolUse
	}
	for _, block := range message.Value.Content {
		switch content := block.(type) {
		case *types.ContentBlockMemberText:
			completion.Text += content.Value
		case *types.ContentBlockMemberToolUse:
			call, err := toToolCall(content.Value)
			if err != nil {
				return nil, err
			}
			completion.ToolCalls = append(completion.ToolCalls, call)
		default:
			klog.V(5).Infof("ignoring converse content block of type %T", block)
		}
	}
	return completion, nil
}

func toToolCall(block types.ToolUseBlock) (ToolCall, error) {
	arguments := map[string]any{}
	if block.Input != nil {
		if err := block.Input.UnmarshalSmithyDocument(&arguments); err != nil {
			return ToolCall{}, fmt.Errorf("failed to decode tool input for %s: %w", aws.ToString(block.Name), err)
		}
	}
	return ToolCall{
		ID:        aws.ToString(block.ToolUseId),
		Name:      aws.ToString(block.Name),
		Arguments: arguments,
	}, nil
}

func toToolConfiguration(tools []ToolSpec) *types.ToolConfiguration {
	converseTools := make([]types.Tool, 0, len(tools))
	for _, tool := range tools {
		converseTools = append(converseTools, &types.ToolMemberToolSpec{
			Value: types.ToolSpecification{
				Name:        aws.String(tool.Name),
				Description: aws.String(tool.Description),
				InputSchema: &types.ToolInputSchemaMemberJson{
					Value: lazyDocument(tool.InputSchema),
				},
			},
		})
	}
	return &types.ToolConfiguration{Tools: converseTools}
}

func toConverseMessages(messages []Message) []types.Message {
	converseMessages := make([]types.Message, 0, len(messages))
	for _, message := range messages {
		switch message.Role {
		case RoleUser:
			converseMessages = append(converseMessages, types.Message{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: message.Text}},
			})
		case RoleAssistant:
			content := make([]types.ContentBlock, 0, 1+len(message.ToolCalls))
			if message.Text != "" {
				content = append(content, &types.ContentBlockMemberText{Value: message.Text})
			}
			for _, call := range message.ToolCalls {
				content = append(content, &types.ContentBlockMemberToolUse{
					Value: types.ToolUseBlock{
						ToolUseId: aws.String(call.ID),
						Name:      aws.String(call.Name),
						Input:     lazyDocument(call.Arguments),
					},
				})
			}
			converseMessages = append(converseMessages, types.Message{
				Role:    types.ConversationRoleAssistant,
				Content: content,
			})
		case RoleTool:
			content := make([]types.ContentBlock, 0, len(message.ToolResults))
			for _, result := range message.ToolResults {
				status := types.ToolResultStatusSuccess
				if result.IsError {
					status = types.ToolResultStatusError
				}
				content = append(content, &types.ContentBlockMemberToolResult{
					Value: types.ToolResultBlock{
						ToolUseId: aws.String(result.CallID),
						Status:    status,
						Content: []types.ToolResultContentBlock{
							&types.ToolResultContentBlockMemberText{Value: result.Content},
						},
					},
				})
			}
			converseMessages = append(converseMessages, types.Message{
				Role:    types.ConversationRoleUser,
				Content: content,
			})
		}
	}
	return converseMessages
}

func lazyDocument(v map[string]any) awsdocument.Interface {
	if v == nil {
		v = map[string]any{}
	}
	return awsdocument.NewLazyDocument(v)
}
