package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"charityhub/internal/auth"
	"charityhub/internal/domain"
)

// DonationService owns the transparent donation ledger: it records
// contributions, keeps the project aggregate in step with the ledger
// and renders the public transparency feed.
type DonationService struct {
	donations     domain.DonationRepository
	projects      domain.ProjectRepository
	users         domain.UserRepository
	notifications domain.NotificationRepository
	logger        zerolog.Logger
}

// NewDonationService builds a DonationService.
func NewDonationService(donations domain.DonationRepository, projects domain.ProjectRepository, users domain.UserRepository, notifications domain.NotificationRepository, logger zerolog.Logger) *DonationService {
	return &DonationService{donations: donations, projects: projects, users: users, notifications: notifications, logger: logger}
}

// Record appends a contribution to the project's ledger. Any
// authenticated user may donate; membership is not required. The
// donation row and the project's running total move together
// atomically in the repository.
func (s *DonationService) Record(ctx context.Context, actor auth.Identity, projectID string, amount int64, anonymous bool) (*domain.Donation, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidArgument)
	}
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status == domain.ProjectStatusClosed {
		return nil, fmt.Errorf("%w: project is closed", domain.ErrInvalidArgument)
	}

	donation := &domain.Donation{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		DonorID:   actor.UserID,
		Amount:    amount,
		Anonymous: anonymous,
		CreatedAt: time.Now(),
	}
	if err := s.donations.RecordDonation(ctx, donation); err != nil {
		return nil, fmt.Errorf("record donation: %w", err)
	}

	display := domain.AnonymousDonorDisplay
	if !anonymous {
		if donor, err := s.users.GetUserByID(ctx, actor.UserID); err == nil {
			display = donor.Name
		}
	}
	notify(ctx, s.notifications, s.logger, project.OwnerID,
		"New donation",
		fmt.Sprintf("%s donated %d to %q", display, amount, project.Name),
		domain.NotificationTypeDonation)
	s.logger.Info().Str("project_id", projectID).Int64("amount", amount).Bool("anonymous", anonymous).Msg("donation recorded")
	return donation, nil
}

// PublicView renders the project's transparency feed, most recent
// first. Anonymity masks only the donor's identity; amounts are always
// shown in full, and anonymous donations still count toward the total.
func (s *DonationService) PublicView(ctx context.Context, projectID string) ([]domain.LedgerEntry, error) {
	if _, err := s.projects.GetProjectByID(ctx, projectID); err != nil {
		return nil, err
	}
	donations, err := s.donations.ListDonationsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}

	names := make(map[string]string)
	entries := make([]domain.LedgerEntry, 0, len(donations))
	for _, d := range donations {
		display := domain.AnonymousDonorDisplay
		if !d.Anonymous {
			name, ok := names[d.DonorID]
			if !ok {
				donor, err := s.users.GetUserByID(ctx, d.DonorID)
				if err != nil {
					if !errors.Is(err, domain.ErrNotFound) {
						return nil, fmt.Errorf("load donor: %w", err)
					}
					name = domain.AnonymousDonorDisplay
				} else {
					name = donor.Name
				}
				names[d.DonorID] = name
			}
			display = name
		}
		entries = append(entries, domain.LedgerEntry{
			DonorDisplay: display,
			Amount:       d.Amount,
			CreatedAt:    d.CreatedAt,
		})
	}
	return entries, nil
}

// Total returns the sum of all donations recorded against the project.
func (s *DonationService) Total(ctx context.Context, projectID string) (int64, error) {
	if _, err := s.projects.GetProjectByID(ctx, projectID); err != nil {
		return 0, err
	}
	return s.donations.SumDonationsByProject(ctx, projectID)
}
