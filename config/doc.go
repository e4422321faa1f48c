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

// Package config assembles runtime configuration for the DealDesk services.
//
// Precedence is file, then environment: values from an optional YAML config
// file are the base, and environment variables override them. Model
// credentials can additionally be resolved from AWS Secrets Manager when no
// environment key is present.
package config
