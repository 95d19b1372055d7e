package dto

import (
	"time"

	accountsDomain "github.com/durfee/passwords/internal/accounts/domain"
)

// AccountResponse represents an account in API responses. The password stays
// in its encrypted form; key and iv let the holder of the matching private
// key open the envelope client-side.
type AccountResponse struct {
	ID         string    `json:"id"`
	Key        string    `json:"key"`
	IV         string    `json:"iv"`
	DomainName string    `json:"domainName"`
	Username   string    `json:"username"`
	Password   string    `json:"password"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
	AccessedAt time.Time `json:"accessedAt"`
}

// AccountListResponse wraps the matched accounts of a list operation.
type AccountListResponse struct {
	Items []AccountResponse `json:"items"`
}

// MapAccountToResponse converts a domain account to an API response.
func MapAccountToResponse(account *accountsDomain.Account) AccountResponse {
	return AccountResponse{
		ID:         account.ID.String(),
		Key:        account.Key,
		IV:         account.IV,
		DomainName: account.DomainName,
		Username:   account.Username,
		Password:   account.Password,
		CreatedAt:  account.CreatedAt,
		ModifiedAt: account.ModifiedAt,
		AccessedAt: account.AccessedAt,
	}
}

// MapAccountsToListResponse converts domain accounts to a list response.
// The items field is always present, even when nothing matched.
func MapAccountsToListResponse(accounts []*accountsDomain.Account) AccountListResponse {
	items := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, MapAccountToResponse(account))
	}
	return AccountListResponse{Items: items}
}
