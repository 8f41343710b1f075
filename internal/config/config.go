package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/gyeh/billclaims/internal/billing"
)

// Config holds all runtime configuration for a billclaims run.
type Config struct {
	DSN        string
	FilePath   string
	OutDir     string // where report files are written
	ParquetOut string // optional Parquet export path
	AuditLog   string // optional append-only JSON audit log
	LogFormat  string // "text" or "json"
	PolicyPath string
	Seed       uint64 // seed for the Required-rule decider; 0 seeds from the clock
	Addr       string // listen address for serve
	Force      bool   // persist even if the file hash was already loaded

	Policy *billing.Policy // nil until LoadPolicyFile or ResolvePolicy succeeds
}

// yamlPolicy is the on-disk YAML structure of a policy file. Decimal values
// are read as strings so that 0.05 is never routed through a float.
type yamlPolicy struct {
	TaxRate             *string           `yaml:"tax_rate"`
	PartialPercent      *string           `yaml:"partial_percent"`
	ApprovalProbability *float64          `yaml:"required_approval_probability"`
	DefaultRule         string            `yaml:"default_rule"`
	Rules               map[string]string `yaml:"pre_auth_rules"`
}

// LoadPolicyFile reads a YAML policy file and stores the resulting policy
// in c.Policy. Omitted keys keep their built-in defaults; an omitted
// pre_auth_rules table keeps the built-in category table.
func (c *Config) LoadPolicyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read policy file: %w", err)
	}
	var yp yamlPolicy
	if err := yaml.Unmarshal(data, &yp); err != nil {
		return fmt.Errorf("parse policy file: %w", err)
	}

	var opts billing.PolicyOptions
	if yp.TaxRate != nil {
		d, err := decimal.NewFromString(strings.TrimSpace(*yp.TaxRate))
		if err != nil {
			return fmt.Errorf("tax_rate: %w", err)
		}
		opts.TaxRate = &d
	}
	if yp.PartialPercent != nil {
		d, err := decimal.NewFromString(strings.TrimSpace(*yp.PartialPercent))
		if err != nil {
			return fmt.Errorf("partial_percent: %w", err)
		}
		opts.PartialPercent = &d
	}
	opts.ApprovalProbability = yp.ApprovalProbability
	if yp.DefaultRule != "" {
		r, err := billing.ParseRule(yp.DefaultRule)
		if err != nil {
			return fmt.Errorf("default_rule: %w", err)
		}
		opts.DefaultRule = r
	}
	if yp.Rules != nil {
		opts.Rules = make(map[string]billing.Rule, len(yp.Rules))
		for category, name := range yp.Rules {
			r, err := billing.ParseRule(name)
			if err != nil {
				return fmt.Errorf("pre_auth_rules[%q]: %w", category, err)
			}
			opts.Rules[category] = r
		}
	}

	p, err := billing.NewPolicy(opts)
	if err != nil {
		return fmt.Errorf("policy file %s: %w", path, err)
	}
	c.Policy = p
	return nil
}

// ResolvePolicy loads PolicyPath when set and otherwise selects the
// built-in policy.
func (c *Config) ResolvePolicy() (*billing.Policy, error) {
	if c.Policy != nil {
		return c.Policy, nil
	}
	if c.PolicyPath == "" {
		c.Policy = billing.DefaultPolicy()
		return c.Policy, nil
	}
	if err := c.LoadPolicyFile(c.PolicyPath); err != nil {
		return nil, err
	}
	return c.Policy, nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	return nil
}

// ValidateWithDSN checks both file and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or BILLCLAIMS_DB_URL is required")
	}
	return nil
}
