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

/*
Package llm provides the text-generation capability used by the DealDesk
analysis pipeline and query router.

# Overview

The package defines a small Provider interface with two implementations
(OpenAI and AWS Bedrock) and a Client that wraps one provider as an explicit
capability object. A Client constructed without a provider is in the
"not configured" state: every call returns ErrNotConfigured instead of
attempting a network request. Callers decide whether that state is a fault
(query routing) or a degraded-but-successful response (role analysis).

# Usage

	client := llm.NewClient(llm.NewOpenAIProvider(apiKey, "gpt-4o"))
	text, err := client.Generate(ctx, systemInstruction, userMessage)

The Client performs no retries and no post-processing of generated text;
formatting constraints belong in the system instruction.
*/
package llm
