package domain

import (
	"fmt"
	"strings"
)

// ChainErrorCode classifies configuration-time chain defects.
type ChainErrorCode string

const (
	ChainErrEmpty                  ChainErrorCode = "EMPTY_CHAIN"
	ChainErrOrdering               ChainErrorCode = "VERSION_ORDERING"
	ChainErrDuplicateVersion       ChainErrorCode = "DUPLICATE_VERSION"
	ChainErrHeadMisplaced          ChainErrorCode = "HEAD_MISPLACED"
	ChainErrConflictingInstruction ChainErrorCode = "CONFLICTING_INSTRUCTION"
	ChainErrUnknownField           ChainErrorCode = "UNKNOWN_FIELD"
	ChainErrUnknownEndpoint        ChainErrorCode = "UNKNOWN_ENDPOINT"
	ChainErrInvalidInstruction     ChainErrorCode = "INVALID_INSTRUCTION"
)

// ChainError reports one defect found while validating a version chain. It is
// fatal: a chain that fails validation must not serve traffic or produce
// artifacts.
type ChainError struct {
	Code    ChainErrorCode
	Version VersionKey
	Change  string
	Schema  string
	Field   string
	Route   RouteKey
	Reason  string
}

func (e *ChainError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "chain error %s", e.Code)
	if e.Version != "" {
		fmt.Fprintf(&b, " at version %s", e.Version)
	}
	if e.Change != "" {
		fmt.Fprintf(&b, " in change %q", e.Change)
	}
	if e.Schema != "" {
		fmt.Fprintf(&b, " schema %s", e.Schema)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %s", e.Field)
	}
	if e.Route.Method != "" || e.Route.Path != "" {
		fmt.Fprintf(&b, " endpoint %s", e.Route)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	return b.String()
}

// CodegenError reports a failure while deriving versioned artifacts. It is
// fatal and aborts artifact production before anything is written.
type CodegenError struct {
	Reason  string
	Version VersionKey
	Schema  string
	Field   string
	Err     error
}

func (e *CodegenError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "codegen failed at version %s", e.Version)
	if e.Schema != "" {
		fmt.Fprintf(&b, " schema %s", e.Schema)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %s", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *CodegenError) Unwrap() error {
	return e.Err
}
