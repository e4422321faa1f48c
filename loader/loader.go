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

package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Typed failures for document extraction.
var (
	// ErrUnsupportedFormat indicates the file extension is not one of
	// txt, md, pdf, doc, docx.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileNotFound indicates the path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrExtraction indicates the file exists but text could not be decoded.
	ErrExtraction = errors.New("text extraction failed")
)

// Document is the extracted text of one deal file. Immutable once produced.
type Document struct {
	// Path is the source file path.
	Path string

	// Text is the extracted content.
	Text string

	// ProcessedAt records when extraction happened.
	ProcessedAt time.Time
}

// SupportedExtensions lists the extensions Process accepts (without dot).
func SupportedExtensions() []string {
	return []string{"txt", "md", "pdf", "doc", "docx"}
}

// Allowed reports whether the filename carries a supported extension.
func Allowed(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	for _, allowed := range SupportedExtensions() {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Processor extracts text from deal documents.
type Processor struct{}

// NewProcessor creates a document processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// Process extracts text from the file at path. It fails with
// ErrFileNotFound if the path does not exist and ErrUnsupportedFormat for
// extensions outside the supported set.
func (p *Processor) Process(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		text = string(data)
	case ".pdf":
		text, err = extractPDF(data)
	case ".doc", ".docx":
		text, err = extractDOCX(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	return &Document{
		Path:        path,
		Text:        text,
		ProcessedAt: time.Now().UTC(),
	}, nil
}
