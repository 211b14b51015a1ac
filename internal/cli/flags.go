package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*policyValue)(nil)
	_ pflag.Value = (*resetModeValue)(nil)
	_ pflag.Value = (*formatValue)(nil)
)

type policyValue struct{ p *domain.EditPolicy }

func newPolicyValue(p *domain.EditPolicy) *policyValue { return &policyValue{p: p} }

func (v *policyValue) String() string { return string(*v.p) }
func (v *policyValue) Type() string   { return "policy" }

func (v *policyValue) Set(s string) error {
	switch p := domain.EditPolicy(strings.ToLower(s)); p {
	case domain.PolicyLearning, domain.PolicyStrict:
		*v.p = p
		return nil
	}
	return fmt.Errorf("must be %q or %q", domain.PolicyLearning, domain.PolicyStrict)
}

type resetModeValue struct{ m *domain.ResetMode }

func newResetModeValue(m *domain.ResetMode) *resetModeValue { return &resetModeValue{m: m} }

func (v *resetModeValue) String() string { return string(*v.m) }
func (v *resetModeValue) Type() string   { return "mode" }

func (v *resetModeValue) Set(s string) error {
	switch m := domain.ResetMode(strings.ToLower(s)); m {
	case domain.ResetClear, domain.ResetRevert:
		*v.m = m
		return nil
	}
	return fmt.Errorf("must be %q or %q", domain.ResetClear, domain.ResetRevert)
}

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

type formatValue struct{ f *outputFormat }

func newFormatValue(f *outputFormat) *formatValue { return &formatValue{f: f} }

func (v *formatValue) String() string { return string(*v.f) }
func (v *formatValue) Type() string   { return "format" }

func (v *formatValue) Set(s string) error {
	switch f := outputFormat(strings.ToLower(s)); f {
	case formatText, formatJSON, formatYAML:
		*v.f = f
		return nil
	}
	return fmt.Errorf("must be one of text, json, yaml")
}
