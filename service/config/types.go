// Package config loads the optional iam-audit config file and merges it into flags.
package config

import "github.com/thirukguru/iam-audit/model"

type service struct{}

// Service is the interface for the config file service.
type Service interface {
	Load(path string) (*model.AuditConfig, error)
	Apply(cfg *model.AuditConfig, flags model.Flags) model.Flags
}
