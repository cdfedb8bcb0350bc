package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
)

// Session errors
var (
	ErrNoCredential       = errors.New("no credential set")
	ErrSessionNotFound    = errors.New("session not found")
	ErrIdentityUnresolved = errors.New("identity not yet resolved")
	ErrCredentialRejected = errors.New("credential rejected by upstream")
)

// View errors
var (
	ErrUnknownView       = errors.New("unknown view")
	ErrViewNotAuthorized = errors.New("view not authorized for role")
)

// Link generation errors
var (
	ErrCampaignRequired   = errors.New("campaign selection is required")
	ErrInfluencerRequired = errors.New("influencer selection is required")
	ErrLinkUnavailable    = errors.New("link generation did not return a url")
)
