package codegen

import (
	"github.com/rpattn/verge/internal/domain"
)

// GenerateRoutes derives the exposed endpoint set of every version in the
// chain with the same reverse fold as GenerateSchemas. The result is keyed by
// version; endpoints within a version are keyed by (path, method), so the
// same path and method may legitimately carry different attributes at
// different versions.
func GenerateRoutes(headRoutes []domain.Endpoint, chain *domain.VersionChain) (map[domain.VersionKey][]domain.Endpoint, error) {
	versions := chain.Versions()
	if len(versions) == 0 {
		return nil, &domain.CodegenError{Version: domain.HeadVersionKey, Reason: "chain declares no versions"}
	}

	current := make(map[domain.RouteKey]domain.Endpoint, len(headRoutes))
	for _, endpoint := range headRoutes {
		current[endpoint.Key()] = endpoint
	}

	result := make(map[domain.VersionKey][]domain.Endpoint, len(versions))
	result[versions[len(versions)-1].Key] = sortedEndpoints(current)

	for i := len(versions) - 1; i >= 1; i-- {
		version := versions[i]
		for j := len(version.Changes) - 1; j >= 0; j-- {
			older, err := domain.UnapplyRouteChange(version.Key, version.Changes[j], current)
			if err != nil {
				return nil, wrapChainError(version.Key, err)
			}
			current = older
		}
		result[versions[i-1].Key] = sortedEndpoints(current)
	}

	return result, nil
}

func sortedEndpoints(routes map[domain.RouteKey]domain.Endpoint) []domain.Endpoint {
	endpoints := make([]domain.Endpoint, 0, len(routes))
	for _, endpoint := range routes {
		endpoints = append(endpoints, endpoint)
	}
	domain.SortEndpoints(endpoints)
	return endpoints
}
