package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"mfc-voice-agent/internal/domain"
	"mfc-voice-agent/internal/notify"
	"mfc-voice-agent/internal/repository"
)

// EmailSender sends one plain-text email. Failures are best-effort only.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LeadInput accepts both historical request schemas: a combined Name or
// separate first/last, and PrimaryInterest with Notes as the older fallback.
type LeadInput struct {
	Name            string
	FirstName       string
	LastName        string
	Phone           string
	Email           string
	RanchName       string
	County          string
	Zip             string
	State           string
	LivestockTypes  []string
	HerdSize        int
	PrimaryInterest string
	Notes           string
	Source          string
	ConversationID  string
	Score           int
}

// LeadResult reports what was persisted and whether routing succeeded.
type LeadResult struct {
	Lead               domain.Lead
	SpecialistAssigned bool
	AssignmentMessage  string
}

// LeadService normalizes, routes, persists, and (best-effort) announces leads.
type LeadService struct {
	leads         repository.LeadWriter
	resolver      *Resolver
	email         EmailSender
	fallbackEmail string
	logger        *slog.Logger

	now func() time.Time
}

// NewLeadService creates a LeadService. email may be nil when the deployment
// has no notification path configured.
func NewLeadService(leads repository.LeadWriter, resolver *Resolver, email EmailSender, fallbackEmail string, logger *slog.Logger) (*LeadService, error) {
	if leads == nil {
		return nil, errors.New("usecase: lead writer must not be nil")
	}
	if resolver == nil {
		return nil, errors.New("usecase: resolver must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadService{
		leads:         leads,
		resolver:      resolver,
		email:         email,
		fallbackEmail: strings.TrimSpace(fallbackEmail),
		logger:        logger,
		now:           time.Now,
	}, nil
}

// NormalizeLead resolves the two historical schemas into one canonical shape:
// a combined name splits on the first whitespace into first token + remainder,
// and primary_interest wins over notes.
func NormalizeLead(in LeadInput) LeadInput {
	out := in

	if strings.TrimSpace(out.FirstName) == "" && strings.TrimSpace(out.Name) != "" {
		parts := strings.Fields(out.Name)
		out.FirstName = parts[0]
		if len(parts) > 1 {
			out.LastName = strings.Join(parts[1:], " ")
		}
	}
	out.FirstName = strings.TrimSpace(out.FirstName)
	out.LastName = strings.TrimSpace(out.LastName)

	if strings.TrimSpace(out.PrimaryInterest) == "" {
		out.PrimaryInterest = strings.TrimSpace(out.Notes)
	} else {
		out.PrimaryInterest = strings.TrimSpace(out.PrimaryInterest)
	}

	if strings.TrimSpace(out.Source) == "" {
		out.Source = "voice-agent"
	}
	return out
}

// CreateLead persists one lead row per call. Not idempotent: repeated calls
// with identical input create duplicate leads. A failed territory lookup
// leaves the lead unassigned rather than failing the write; a failed
// notification never fails the response.
func (s *LeadService) CreateLead(ctx context.Context, in LeadInput) (LeadResult, error) {
	in = NormalizeLead(in)
	if in.FirstName == "" {
		return LeadResult{}, newError(ErrorInvalidInput, "name_required", nil)
	}
	// Direct submissions must carry a way to reach the caller back. Leads cut
	// from a conversation are referenced by the conversation id instead, so
	// they save even when the caller never gave a phone or email.
	if in.ConversationID == "" && strings.TrimSpace(in.Phone) == "" && strings.TrimSpace(in.Email) == "" {
		return LeadResult{}, newError(ErrorInvalidInput, "contact_required", nil)
	}

	res := s.resolver.Resolve(ctx, ResolveInput{
		County: in.County,
		Zip:    in.Zip,
		State:  in.State,
	})

	lead := domain.Lead{
		ID:              newUUID(),
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Phone:           strings.TrimSpace(in.Phone),
		Email:           strings.TrimSpace(in.Email),
		RanchName:       strings.TrimSpace(in.RanchName),
		County:          strings.TrimSpace(in.County),
		LivestockTypes:  in.LivestockTypes,
		HerdSize:        in.HerdSize,
		PrimaryInterest: in.PrimaryInterest,
		ConversationID:  in.ConversationID,
		Source:          in.Source,
		Status:          "new",
		Score:           in.Score,
		CreatedAt:       s.now().UTC().Format(time.RFC3339),
	}
	if res.Territory != nil {
		lead.TerritoryCode = res.Territory.Code
	}
	if res.Specialist != nil {
		lead.SpecialistID = res.Specialist.ID
	}

	if err := s.leads.PutLead(ctx, lead); err != nil {
		return LeadResult{}, newError(ErrorUpstream, "lead_write_error", err)
	}

	s.notifyAssignment(ctx, lead, res)

	return LeadResult{
		Lead:               lead,
		SpecialistAssigned: res.Specialist != nil,
		AssignmentMessage:  assignmentMessage(lead, res),
	}, nil
}

// notifyAssignment emails the assigned specialist and, when distinct, the
// warehouse-operations contact, in parallel. Failures are logged and
// swallowed: lead capture must never appear to fail to the caller.
func (s *LeadService) notifyAssignment(ctx context.Context, lead domain.Lead, res Resolution) {
	if s.email == nil {
		return
	}

	recipients := map[string]string{}
	if res.Specialist != nil && res.Specialist.Email != "" {
		recipients[res.Specialist.Email] = res.Specialist.Name
	}
	if res.WarehouseContact != nil && res.WarehouseContact.Email != "" {
		recipients[res.WarehouseContact.Email] = res.WarehouseContact.Name
	}
	if len(recipients) == 0 && s.fallbackEmail != "" {
		recipients[s.fallbackEmail] = "Manager"
	}
	if len(recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("New lead: %s %s (%s)", lead.FirstName, lead.LastName, lead.County)
	body := leadEmailBody(lead)

	group := notify.NewGroup(s.logger)
	for to := range recipients {
		to := to
		group.Go("lead-email:"+to, func(ctx context.Context) error {
			return s.email.Send(ctx, to, subject, body)
		})
	}
	group.Wait(ctx)
}

func leadEmailBody(lead domain.Lead) string {
	lines := []string{
		"A new lead came in through the voice agent.",
		"",
		fmt.Sprintf("Name: %s %s", lead.FirstName, lead.LastName),
		fmt.Sprintf("Phone: %s", lead.Phone),
		fmt.Sprintf("Email: %s", lead.Email),
		fmt.Sprintf("County: %s", lead.County),
	}
	if lead.RanchName != "" {
		lines = append(lines, fmt.Sprintf("Ranch: %s", lead.RanchName))
	}
	if len(lead.LivestockTypes) > 0 {
		lines = append(lines, fmt.Sprintf("Livestock: %s", strings.Join(lead.LivestockTypes, ", ")))
	}
	if lead.HerdSize > 0 {
		lines = append(lines, fmt.Sprintf("Herd size: %d", lead.HerdSize))
	}
	if lead.PrimaryInterest != "" {
		lines = append(lines, fmt.Sprintf("Primary interest: %s", lead.PrimaryInterest))
	}
	lines = append(lines, fmt.Sprintf("Created: %s", lead.CreatedAt))
	return strings.Join(lines, "\n")
}

func assignmentMessage(lead domain.Lead, res Resolution) string {
	if res.Specialist != nil {
		return fmt.Sprintf("Thanks %s! I've passed your information to %s, your specialist for %s. They'll reach out shortly at %s.",
			lead.FirstName, res.Specialist.Name, lead.County, lead.Phone)
	}
	return fmt.Sprintf("Thanks %s! I've saved your information and our team will follow up with you shortly.", lead.FirstName)
}

var newUUID = func() string {
	return uuid.NewString()
}
