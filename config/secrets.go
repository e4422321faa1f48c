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

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// secretsClient is the Secrets Manager call surface used here (enables
// testing).
type secretsClient interface {
	GetSecretValue(ctx context.Context, input *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretResolver fetches credentials from AWS Secrets Manager.
type SecretResolver struct {
	client secretsClient
}

// NewSecretResolver creates a resolver using the default AWS credential
// chain.
func NewSecretResolver(ctx context.Context, region string) (*SecretResolver, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SecretResolver{client: secretsmanager.NewFromConfig(awsCfg)}, nil
}

// newSecretResolverWithClient wraps an existing client. Used by tests.
func newSecretResolverWithClient(client secretsClient) *SecretResolver {
	return &SecretResolver{client: client}
}

// Resolve fetches a secret by ARN. JSON secrets yield the "api_key" field
// (falling back to "value"); plain-string secrets yield the whole string.
func (r *SecretResolver) Resolve(ctx context.Context, secretARN string) (string, error) {
	out, err := r.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretARN),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", maskARN(secretARN), err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", maskARN(secretARN))
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &fields); err == nil {
		if key := fields["api_key"]; key != "" {
			return key, nil
		}
		if key := fields["value"]; key != "" {
			return key, nil
		}
		return "", fmt.Errorf("secret %s has no api_key field", maskARN(secretARN))
	}

	return *out.SecretString, nil
}

// ResolveOpenAIKey fills cfg.OpenAIAPIKey from Secrets Manager when the
// environment provided no key but named a secret ARN. Resolution failures
// are logged and leave the key empty; the service then runs in the
// not-configured state rather than refusing to start.
func ResolveOpenAIKey(ctx context.Context, cfg *Config) {
	if cfg.OpenAIAPIKey != "" || cfg.OpenAIKeySecretARN == "" {
		return
	}

	resolver, err := NewSecretResolver(ctx, cfg.BedrockRegion)
	if err != nil {
		log.Printf("[Config] Failed to create secret resolver: %v", err)
		return
	}

	key, err := resolver.Resolve(ctx, cfg.OpenAIKeySecretARN)
	if err != nil {
		log.Printf("[Config] Failed to resolve OpenAI key from Secrets Manager: %v", err)
		return
	}

	cfg.OpenAIAPIKey = key
	log.Printf("[Config] OpenAI key resolved from Secrets Manager")
}

// maskARN masks a secret ARN for logging (shows only the last 8 characters).
func maskARN(arn string) string {
	if len(arn) <= 12 {
		return "***"
	}
	return "..." + arn[len(arn)-8:]
}
