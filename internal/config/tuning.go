package config

import (
	"fmt"
	"strings"
)

// Precedence selects which relational source wins when both supply a
// profile field.
type Precedence string

const (
	PrecedenceChemlink   Precedence = "chemlink"
	PrecedenceEngagement Precedence = "engagement"
)

// Tuning collects the pipeline constants that may be overridden by an
// optional etl.yaml file.
type Tuning struct {
	// Lifecycle thresholds, in days since last activity.
	DormantDays int
	ChurnedDays int
	NewUserDays int

	// Loader behavior.
	BatchSizeLarge    int
	BatchSizeSmall    int
	LargeRowThreshold int
	HeartbeatSeconds  int

	// Accounts excluded from every metric.
	TestAccountEmails []string

	// Profile-field conflict rule.
	FieldPrecedence Precedence
}

func DefaultTuning() Tuning {
	return Tuning{
		DormantDays:       30,
		ChurnedDays:       90,
		NewUserDays:       7,
		BatchSizeLarge:    500,
		BatchSizeSmall:    200,
		LargeRowThreshold: 1000,
		HeartbeatSeconds:  5,
		TestAccountEmails: []string{
			"jsanchez@nmblr.ai",
			"jaypersanchez@gmail.com",
			"virlanchainworks@gmail.com",
		},
		FieldPrecedence: PrecedenceChemlink,
	}
}

func (t Tuning) Validate() error {
	if t.ChurnedDays <= t.DormantDays {
		return fmt.Errorf("churned_days (%d) must exceed dormant_days (%d)", t.ChurnedDays, t.DormantDays)
	}
	if t.DormantDays <= 0 || t.NewUserDays <= 0 {
		return fmt.Errorf("lifecycle thresholds must be positive")
	}
	if t.BatchSizeLarge <= 0 || t.BatchSizeSmall <= 0 || t.LargeRowThreshold <= 0 {
		return fmt.Errorf("loader batch settings must be positive")
	}
	if t.HeartbeatSeconds <= 0 {
		return fmt.Errorf("heartbeat_seconds must be positive")
	}
	switch t.FieldPrecedence {
	case PrecedenceChemlink, PrecedenceEngagement:
	default:
		return fmt.Errorf("field_precedence must be %q or %q", PrecedenceChemlink, PrecedenceEngagement)
	}
	return nil
}

// tuningFile mirrors Tuning with optional fields so an overlay only
// replaces the keys it names.
type tuningFile struct {
	DormantDays       *int     `yaml:"dormant_days"`
	ChurnedDays       *int     `yaml:"churned_days"`
	NewUserDays       *int     `yaml:"new_user_days"`
	BatchSizeLarge    *int     `yaml:"batch_size_large"`
	BatchSizeSmall    *int     `yaml:"batch_size_small"`
	LargeRowThreshold *int     `yaml:"large_row_threshold"`
	HeartbeatSeconds  *int     `yaml:"heartbeat_seconds"`
	TestAccountEmails []string `yaml:"test_account_emails"`
	FieldPrecedence   *string  `yaml:"field_precedence"`
}

func (f tuningFile) apply(t Tuning) Tuning {
	if f.DormantDays != nil {
		t.DormantDays = *f.DormantDays
	}
	if f.ChurnedDays != nil {
		t.ChurnedDays = *f.ChurnedDays
	}
	if f.NewUserDays != nil {
		t.NewUserDays = *f.NewUserDays
	}
	if f.BatchSizeLarge != nil {
		t.BatchSizeLarge = *f.BatchSizeLarge
	}
	if f.BatchSizeSmall != nil {
		t.BatchSizeSmall = *f.BatchSizeSmall
	}
	if f.LargeRowThreshold != nil {
		t.LargeRowThreshold = *f.LargeRowThreshold
	}
	if f.HeartbeatSeconds != nil {
		t.HeartbeatSeconds = *f.HeartbeatSeconds
	}
	if f.TestAccountEmails != nil {
		t.TestAccountEmails = f.TestAccountEmails
	}
	if f.FieldPrecedence != nil {
		t.FieldPrecedence = Precedence(strings.ToLower(strings.TrimSpace(*f.FieldPrecedence)))
	}
	return t
}
