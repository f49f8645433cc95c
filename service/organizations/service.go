package organizations

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
)

// NewService creates a new Organizations service.
func NewService(cfg aws.Config) Service {
	return NewServiceWithClient(organizations.NewFromConfig(cfg))
}

// NewServiceWithClient wraps an existing Organizations client.
func NewServiceWithClient(client OrganizationsClientAPI) Service {
	return &service{client: client}
}

// ListActiveAccounts returns ACTIVE member accounts in organization order.
func (s *service) ListActiveAccounts(ctx context.Context) ([]Account, error) {
	var accounts []Account

	paginator := organizations.NewListAccountsPaginator(s.client, &organizations.ListAccountsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing organization accounts: %w", err)
		}
		for _, acct := range page.Accounts {
			if acct.Status != orgtypes.AccountStatusActive {
				continue
			}
			accounts = append(accounts, Account{
				ID:     aws.ToString(acct.Id),
				Name:   aws.ToString(acct.Name),
				Email:  aws.ToString(acct.Email),
				Status: string(acct.Status),
			})
		}
	}

	return accounts, nil
}
