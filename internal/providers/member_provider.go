package providers

import (
	"context"

	"pine-rivers/rangekiosk/internal/models/entities"
)

// MemberProvider defines the interface for the external membership source
type MemberProvider interface {
	// FetchMembers returns every current member, sorted by full name.
	// A failure leaves the caller's roster untouched.
	FetchMembers(ctx context.Context) ([]entities.Member, error)
}
