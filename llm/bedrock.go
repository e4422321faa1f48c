// Copyright 2025 DealDesk
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	// DefaultBedrockRegion is used when no region is configured
	DefaultBedrockRegion = "us-east-1"

	// DefaultBedrockModel is the model used when none is specified
	DefaultBedrockModel = "anthropic.claude-3-5-sonnet-20240620-v1:0"

	// bedrockMaxTokens caps completions when the request does not set one
	bedrockMaxTokens = 4096
)

// bedrockInvoker is the subset of the Bedrock runtime client used by the
// provider (enables testing).
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockProvider implements Provider for AWS Bedrock using AWS SDK v2.
// Authentication uses AWS Signature V4 via IAM roles, so no API key is
// handled by this process.
type BedrockProvider struct {
	client  bedrockInvoker
	region  string
	model   string
	healthy bool
}

// NewBedrockProvider creates a Bedrock provider. Returns an error if AWS
// config loading fails; callers should handle this rather than silently
// degrading.
func NewBedrockProvider(region, model string) (*BedrockProvider, error) {
	if region == "" {
		region = DefaultBedrockRegion
	}
	if model == "" {
		model = DefaultBedrockModel
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for Bedrock (region: %s): %w", region, err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg)

	log.Printf("[Bedrock] Initialized provider (region: %s, model: %s)", region, model)
	return &BedrockProvider{
		client:  client,
		region:  region,
		model:   model,
		healthy: true,
	}, nil
}

// Name returns the provider name
func (p *BedrockProvider) Name() string {
	return "bedrock"
}

// IsHealthy returns whether the last call succeeded
func (p *BedrockProvider) IsHealthy() bool {
	return p.healthy
}

// EstimateCost estimates the cost for a given number of tokens
// Pricing based on Claude 3.5 Sonnet on Bedrock: roughly $0.000009 per token
func (p *BedrockProvider) EstimateCost(tokens int) float64 {
	return float64(tokens) * 0.000009
}

// Complete generates a completion via InvokeModel
func (p *BedrockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = p.model
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = bedrockMaxTokens
	}

	// Anthropic-family request body (the only family DealDesk routes to)
	body := map[string]interface{}{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens":        maxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": req.Prompt},
		},
	}
	if req.SystemPrompt != "" {
		body["system"] = req.SystemPrompt
	}
	if req.Temperature >= 0 {
		body["temperature"] = req.Temperature
	}

	requestJSON, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(model),
		Body:        requestJSON,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		p.healthy = false
		log.Printf("[Bedrock] API call failed: %v", err)
		return nil, &CallError{
			Provider: p.Name(),
			Code:     ErrCodeUnavailable,
			Message:  err.Error(),
			Cause:    err,
		}
	}

	p.healthy = true

	resp, err := p.parseResponse(output.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	resp.Model = model
	resp.Latency = time.Since(start)
	return resp, nil
}

// parseResponse parses an Anthropic-family Bedrock response body
func (p *BedrockProvider) parseResponse(body []byte) (*CompletionResponse, error) {
	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("invalid bedrock response: %w", err)
	}

	content := ""
	for _, block := range parsed.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &CompletionResponse{
		Content:    content,
		TokensUsed: parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
	}, nil
}
