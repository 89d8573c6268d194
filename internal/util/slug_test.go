// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple title",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "heading text",
			input:    "Introduction",
			expected: "introduction",
		},
		{
			name:     "with special characters",
			input:    "Wat kost een website?",
			expected: "wat-kost-een-website",
		},
		{
			name:     "with ampersand between words",
			input:    "SEO & Marketing",
			expected: "seo-marketing",
		},
		{
			name:     "with accents",
			input:    "Café résumé",
			expected: "cafe-resume",
		},
		{
			name:     "with multiple spaces",
			input:    "Hello   World",
			expected: "hello-world",
		},
		{
			name:     "with hyphens",
			input:    "Hello - World",
			expected: "hello-world",
		},
		{
			name:     "with leading/trailing spaces",
			input:    "  Hello World  ",
			expected: "hello-world",
		},
		{
			name:     "keeps underscores",
			input:    "snake_case heading",
			expected: "snake_case-heading",
		},
		{
			name:     "all special characters",
			input:    "!@#$%^&*()",
			expected: "",
		},
		{
			name:     "german umlauts",
			input:    "Über München",
			expected: "uber-munchen",
		},
		{
			name:     "numbers",
			input:    "10 tips voor 2024",
			expected: "10-tips-voor-2024",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "mixed case",
			input:    "HeLLo WoRLd",
			expected: "hello-world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{"Webdesign Tips", "Über München", "a -- b", "SEO & Marketing"}
	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "valid simple slug", input: "hello-world", expected: true},
		{name: "valid slug with numbers", input: "page-123", expected: true},
		{name: "valid single word", input: "hello", expected: true},
		{name: "invalid - empty", input: "", expected: false},
		{name: "invalid - uppercase", input: "Hello-World", expected: false},
		{name: "invalid - spaces", input: "hello world", expected: false},
		{name: "invalid - path traversal", input: "../etc", expected: false},
		{name: "invalid - starts with hyphen", input: "-hello", expected: false},
		{name: "invalid - ends with hyphen", input: "hello-", expected: false},
		{name: "invalid - consecutive hyphens", input: "hello--world", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidSlug(tt.input); got != tt.expected {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
