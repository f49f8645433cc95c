// Package organizations lists the member accounts audited by an org scan.
package organizations

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/organizations"
)

// OrganizationsClientAPI is the subset of the Organizations client used by the service.
type OrganizationsClientAPI interface {
	ListAccounts(ctx context.Context, params *organizations.ListAccountsInput, optFns ...func(*organizations.Options)) (*organizations.ListAccountsOutput, error)
}

// Account is an organization member account.
type Account struct {
	ID     string
	Name   string
	Email  string
	Status string
}

type service struct {
	client OrganizationsClientAPI
}

// Service is the interface for AWS Organizations lookups.
type Service interface {
	ListActiveAccounts(ctx context.Context) ([]Account, error)
}
