package entity

import (
	"time"

	"github.com/google/uuid"
)

type ScanReport struct {
	SessionID      uuid.UUID            `yaml:"session_id"`
	URL            string               `yaml:"url"`
	Pass           int                  `yaml:"pass"`
	SingleInput    bool                 `yaml:"single_input"`
	DetectedFields int                  `yaml:"detected_fields"`
	NewFields      int                  `yaml:"new_fields"`
	Fields         []FieldSummary       `yaml:"fields"`
	Combinations   []CombinationSummary `yaml:"combinations"`
	Masked         []int64              `yaml:"masked,omitempty"`
	Error          string               `yaml:"error,omitempty"`
	Timestamp      time.Time            `yaml:"timestamp"`
}

type FieldSummary struct {
	ID     int64  `yaml:"id"`
	Name   string `yaml:"name,omitempty"`
	Type   string `yaml:"type,omitempty"`
	Form   int64  `yaml:"form,omitempty"`
	Masked bool   `yaml:"masked,omitempty"`
}

type CombinationSummary struct {
	Username *FieldSummary `yaml:"username,omitempty"`
	Password *FieldSummary `yaml:"password,omitempty"`
	Form     int64         `yaml:"form,omitempty"`
}
