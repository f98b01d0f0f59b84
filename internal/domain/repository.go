package domain

import "context"

// CatalogSource reads the campaign and beneficiary catalog from the backend.
type CatalogSource interface {
	ListCauses(ctx context.Context) ([]Cause, error)
	ListBeneficiaries(ctx context.Context, category Category) ([]Beneficiary, error)
	GetBeneficiary(ctx context.Context, category Category, id string) (*Beneficiary, error)
}

// SubmissionSink creates donation and sponsorship records on the backend.
type SubmissionSink interface {
	Submit(ctx context.Context, submission Submission) (*SubmissionResult, error)
}

// Backend is everything the checkout needs from the remote API.
type Backend interface {
	CatalogSource
	SubmissionSink
}
