package domain

import (
	"fmt"
	"sort"
)

// RouteKey identifies an endpoint by method and path template.
type RouteKey struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

func (k RouteKey) String() string {
	return k.Method + " " + k.Path
}

// Endpoint describes one exposed route at one version.
type Endpoint struct {
	Method         string `json:"method"`
	Path           string `json:"path"`
	Description    string `json:"description,omitempty"`
	SuccessStatus  int    `json:"success_status,omitempty"`
	RequestSchema  string `json:"request_schema,omitempty"`
	ResponseSchema string `json:"response_schema,omitempty"`
	Deprecated     bool   `json:"deprecated,omitempty"`
}

// Key returns the endpoint's route identity.
func (e Endpoint) Key() RouteKey {
	return RouteKey{Method: e.Method, Path: e.Path}
}

// EndpointAttribute names a mutable endpoint attribute.
type EndpointAttribute string

const (
	EndpointAttributePath           EndpointAttribute = "path"
	EndpointAttributeStatus         EndpointAttribute = "status"
	EndpointAttributeRequestSchema  EndpointAttribute = "request_schema"
	EndpointAttributeResponseSchema EndpointAttribute = "response_schema"
	EndpointAttributeDescription    EndpointAttribute = "description"
	EndpointAttributeDeprecated     EndpointAttribute = "deprecated"
)

// RouteInstructionKind discriminates the route instruction variants.
type RouteInstructionKind string

const (
	RouteInstructionAddEndpoint     RouteInstructionKind = "ADD_ENDPOINT"
	RouteInstructionRemoveEndpoint  RouteInstructionKind = "REMOVE_ENDPOINT"
	RouteInstructionChangeAttribute RouteInstructionKind = "CHANGE_ENDPOINT_ATTRIBUTE"
)

// RemoveEndpointArgs carries the full endpoint dropped by a version so older
// route sets can be reconstructed.
type RemoveEndpointArgs struct {
	Endpoint Endpoint
}

// ChangeAttributeArgs records both sides of an endpoint attribute change.
type ChangeAttributeArgs struct {
	Attribute EndpointAttribute
	Old       any
	New       any
}

// RouteInstruction is one atomic difference applied to an endpoint between
// two adjacent versions.
type RouteInstruction struct {
	Kind   RouteInstructionKind
	Route  RouteKey
	Remove *RemoveEndpointArgs
	Change *ChangeAttributeArgs
}

// AddEndpoint declares that the newer version introduced the endpoint. The
// endpoint itself lives in the head route table; only its key is recorded.
func AddEndpoint(method, path string) RouteInstruction {
	return RouteInstruction{
		Kind:  RouteInstructionAddEndpoint,
		Route: RouteKey{Method: method, Path: path},
	}
}

// RemoveEndpoint declares that the newer version dropped the endpoint.
func RemoveEndpoint(endpoint Endpoint) RouteInstruction {
	return RouteInstruction{
		Kind:   RouteInstructionRemoveEndpoint,
		Route:  endpoint.Key(),
		Remove: &RemoveEndpointArgs{Endpoint: endpoint},
	}
}

// ChangeEndpointAttribute declares that the newer version changed one
// attribute of the endpoint, recording both the old and new values.
func ChangeEndpointAttribute(method, path string, attribute EndpointAttribute, old, new any) RouteInstruction {
	return RouteInstruction{
		Kind:   RouteInstructionChangeAttribute,
		Route:  RouteKey{Method: method, Path: path},
		Change: &ChangeAttributeArgs{Attribute: attribute, Old: old, New: new},
	}
}

// applyAttribute sets one attribute on the endpoint, used when reconstructing
// an older route set from a newer one.
func applyAttribute(endpoint Endpoint, attribute EndpointAttribute, value any) (Endpoint, error) {
	switch attribute {
	case EndpointAttributePath:
		v, ok := value.(string)
		if !ok {
			return Endpoint{}, fmt.Errorf("path attribute requires a string, got %T", value)
		}
		endpoint.Path = v
	case EndpointAttributeStatus:
		v, ok := value.(int)
		if !ok {
			return Endpoint{}, fmt.Errorf("status attribute requires an int, got %T", value)
		}
		endpoint.SuccessStatus = v
	case EndpointAttributeRequestSchema:
		v, ok := value.(string)
		if !ok {
			return Endpoint{}, fmt.Errorf("request_schema attribute requires a string, got %T", value)
		}
		endpoint.RequestSchema = v
	case EndpointAttributeResponseSchema:
		v, ok := value.(string)
		if !ok {
			return Endpoint{}, fmt.Errorf("response_schema attribute requires a string, got %T", value)
		}
		endpoint.ResponseSchema = v
	case EndpointAttributeDescription:
		v, ok := value.(string)
		if !ok {
			return Endpoint{}, fmt.Errorf("description attribute requires a string, got %T", value)
		}
		endpoint.Description = v
	case EndpointAttributeDeprecated:
		v, ok := value.(bool)
		if !ok {
			return Endpoint{}, fmt.Errorf("deprecated attribute requires a bool, got %T", value)
		}
		endpoint.Deprecated = v
	default:
		return Endpoint{}, fmt.Errorf("unsupported endpoint attribute %s", attribute)
	}
	return endpoint, nil
}

// SortEndpoints orders endpoints by path then method so derived route tables
// are stable across runs.
func SortEndpoints(endpoints []Endpoint) {
	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].Path != endpoints[j].Path {
			return endpoints[i].Path < endpoints[j].Path
		}
		return endpoints[i].Method < endpoints[j].Method
	})
}
