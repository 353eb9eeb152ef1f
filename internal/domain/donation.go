package domain

import "time"

// Donation represents a single supporter contribution. Records are
// immutable once written.
type Donation struct {
	ID        string
	ProjectID string
	DonorID   string
	Amount    int64
	Anonymous bool
	CreatedAt time.Time
}

// AnonymousDonorDisplay is the placeholder shown for masked donors in the
// public ledger view.
const AnonymousDonorDisplay = "[Anonymous]"

// LedgerEntry is one row of a project's public transparency feed.
type LedgerEntry struct {
	DonorDisplay string
	Amount       int64
	CreatedAt    time.Time
}
