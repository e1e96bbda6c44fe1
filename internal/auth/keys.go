package auth

import (
	"strings"
	"time"

	"github.com/terra-clan/learnpath/internal/models"
)

// StaticClients turns ADMIN_API_KEYS entries into API clients. An entry is
// "name:key" or "name:key:perm1|perm2"; without permissions the client gets
// "roadmaps:*".
func StaticClients(entries []string) []*models.ApiClient {
	clients := make([]*models.ApiClient, 0, len(entries))

	for i, entry := range entries {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if len(parts) < 2 || parts[1] == "" {
			continue
		}

		perms := []string{"roadmaps:*"}
		if len(parts) == 3 && parts[2] != "" {
			perms = strings.Split(parts[2], "|")
		}

		clients = append(clients, &models.ApiClient{
			ID:          i + 1,
			Name:        parts[0],
			ApiKey:      parts[1],
			IsActive:    true,
			CreatedAt:   time.Now().UTC(),
			Permissions: perms,
		})
	}

	return clients
}
