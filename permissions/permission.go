// Package permissions holds the route to role table enforced by the RBAC middleware.
package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the endpoint. An endpoint without roles is open.
func (p Permission) Allows(role string) bool {
	return p.Skip || len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// FindPermissions returns the entry for a chi route pattern, or the zero value.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r.index != nil {
		return r.index[routeKey(method, path)]
	}

	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return rp.Path == path && strings.EqualFold(rp.Method, method)
	})

	if idx == -1 {
		return Permission{}
	}

	return r.Endpoints[idx]
}

// Parse decodes a permission table and indexes it. Duplicate routes are rejected.
func Parse(raw []byte) (*PermissionData, error) {
	var data PermissionData

	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	data.index = make(map[string]Permission, len(data.Endpoints))

	for _, endpoint := range data.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if _, exists := data.index[key]; exists {
			return nil, fmt.Errorf("duplicate permission for %s", key)
		}

		data.index[key] = endpoint
	}

	return &data, nil
}

// Get loads the embedded table. A nil result makes RBAC deny every request.
func Get() *PermissionData {
	data, err := Parse(permissionsData)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(data.Endpoints)).Msg("Successfully loaded embedded permissions")

	return data
}
