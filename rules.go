// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Aldmeris
// Source: github.com/aldmeris/bsarc

package bsarc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// Default size bounds for compression candidate selection.
const (
	// DefaultMinCompressSize disables compression for entries smaller than this size.
	DefaultMinCompressSize = 512
	// DefaultMaxCompressSize disables compression for entries larger than this size.
	DefaultMaxCompressSize = 16 * 1024 * 1024
)

// ErrInvalidCompressRules means one or more compression rules are invalid.
var ErrInvalidCompressRules = errors.New("invalid compress rules")

// CompressRulesOptions configures rule-driven compression candidate
// selection for archive building.
type CompressRulesOptions struct {
	// Rules defines ordered path rules; an empty set selects nothing.
	Rules []pathrules.Rule
	// MatcherOptions control rule matching; defaults to case-insensitive
	// matching with exclude as the default action.
	MatcherOptions pathrules.MatcherOptions
	// MinSize disables compression for entries smaller than this size.
	MinSize int
	// MaxSize disables compression for entries larger than this size.
	MaxSize int
}

// applyDefaults fills zero-valued rule options with defaults.
func (opts *CompressRulesOptions) applyDefaults() {
	if opts.MinSize == 0 {
		opts.MinSize = DefaultMinCompressSize
	}

	if opts.MaxSize == 0 || opts.MaxSize <= opts.MinSize {
		opts.MaxSize = DefaultMaxCompressSize
	}

	if opts.MatcherOptions == (pathrules.MatcherOptions{}) {
		opts.MatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
	}

	if opts.MatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.MatcherOptions.DefaultAction = pathrules.ActionExclude
	}
}

// CompressRules holds compiled candidate-selection rules.
type CompressRules struct {
	matcher *pathrules.Matcher
	minSize int
	maxSize int
}

// NewCompressRules compiles compression path rules. A nil result with
// nil error means no rule selects anything.
func NewCompressRules(opts CompressRulesOptions) (*CompressRules, error) {
	opts.applyDefaults()

	rules := make([]pathrules.Rule, 0, len(opts.Rules))
	for _, rule := range opts.Rules {
		pattern := strings.TrimSpace(strings.ReplaceAll(rule.Pattern, `\`, "/"))
		if pattern == "" {
			continue
		}

		rules = append(rules, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts.MatcherOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidCompressRules, err)
	}

	return &CompressRules{
		matcher: matcher,
		minSize: opts.MinSize,
		maxSize: opts.MaxSize,
	}, nil
}

// Match reports whether an entry with the given archive name and
// decompressed size is a compression candidate.
func (r *CompressRules) Match(name []byte, size int) bool {
	if r == nil || r.matcher == nil {
		return false
	}

	if size < r.minSize || size > r.maxSize {
		return false
	}

	candidate := strings.ReplaceAll(string(name), `\`, "/")
	if candidate == "" {
		return false
	}

	return r.matcher.Included(candidate, false)
}
