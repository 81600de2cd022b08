// Package directory resolves dashboard user ids to on-chain addresses.
package directory

import (
	"context"

	"github.com/yusuketakei/tickets/internal/models"
)

// DefaultUsers is used when the configuration lists no users
var DefaultUsers = []models.UserProfile{
	{UserID: "1", DisplayName: "みずほ太郎", Address: "0x2ece2166f3232a49345bb99e8481121a448661f9"},
	{UserID: "2", DisplayName: "みずほ花子", Address: "0xd39884029517d044d03c5e0889832b41c60e19d4"},
}

// StaticResolver looks users up in a fixed in-memory table
type StaticResolver struct {
	users []models.UserProfile
	byID  map[string]models.UserProfile
}

func NewStaticResolver(users []models.UserProfile) *StaticResolver {
	if len(users) == 0 {
		users = DefaultUsers
	}
	byID := make(map[string]models.UserProfile, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}
	return &StaticResolver{users: users, byID: byID}
}

func (s *StaticResolver) Resolve(ctx context.Context, userID string) (models.UserProfile, bool, error) {
	if userID == "" {
		return models.UserProfile{}, false, nil
	}
	u, ok := s.byID[userID]
	return u, ok, nil
}

// Addresses returns every address in table order, used to seed standalone mode
func (s *StaticResolver) Addresses() []string {
	out := make([]string, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Address)
	}
	return out
}
