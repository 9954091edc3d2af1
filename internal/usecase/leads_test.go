package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"mfc-voice-agent/internal/domain"
)

type fakeLeadWriter struct {
	puts   []domain.Lead
	putErr error
}

func (f *fakeLeadWriter) PutLead(_ context.Context, lead domain.Lead) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts = append(f.puts, lead)
	return nil
}

type fakeEmail struct {
	mu      sync.Mutex
	sent    []string
	sendErr error
}

func (f *fakeEmail) Send(_ context.Context, to, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, to)
	return nil
}

func newTestLeadService(t *testing.T, writer *fakeLeadWriter, routing *fakeRouting, email EmailSender, fallback string) *LeadService {
	t.Helper()
	resolver, err := NewResolver(routing, nil)
	require.NoError(t, err)
	svc, err := NewLeadService(writer, resolver, email, fallback, nil)
	require.NoError(t, err)
	return svc
}

func TestNormalizeLead(t *testing.T) {
	out := NormalizeLead(LeadInput{Name: "Guy Hanson"})
	require.Equal(t, "Guy", out.FirstName)
	require.Equal(t, "Hanson", out.LastName)

	out = NormalizeLead(LeadInput{Name: "Mary Jo Walker"})
	require.Equal(t, "Mary", out.FirstName)
	require.Equal(t, "Jo Walker", out.LastName)

	out = NormalizeLead(LeadInput{Name: "Cher"})
	require.Equal(t, "Cher", out.FirstName)
	require.Equal(t, "", out.LastName)

	// Explicit first name wins over a combined name.
	out = NormalizeLead(LeadInput{Name: "Guy Hanson", FirstName: "Dale", LastName: "Hamm"})
	require.Equal(t, "Dale", out.FirstName)
	require.Equal(t, "Hamm", out.LastName)

	out = NormalizeLead(LeadInput{Name: "Guy Hanson", Notes: "winter protein"})
	require.Equal(t, "winter protein", out.PrimaryInterest)

	out = NormalizeLead(LeadInput{Name: "Guy Hanson", PrimaryInterest: "mineral", Notes: "ignored"})
	require.Equal(t, "mineral", out.PrimaryInterest)

	require.Equal(t, "voice-agent", NormalizeLead(LeadInput{}).Source)
	require.Equal(t, "conversation", NormalizeLead(LeadInput{Source: "conversation"}).Source)
}

func TestCreateLead_Validation(t *testing.T) {
	svc := newTestLeadService(t, &fakeLeadWriter{}, &fakeRouting{}, nil, "")

	_, err := svc.CreateLead(context.Background(), LeadInput{Phone: "406-555-0199"})
	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, ErrorInvalidInput, ucErr.Code)
	require.Equal(t, "name_required", ucErr.Reason)

	_, err = svc.CreateLead(context.Background(), LeadInput{Name: "Guy Hanson"})
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, "contact_required", ucErr.Reason)
}

func TestCreateLead_ConversationLeadNeedsNoContact(t *testing.T) {
	writer := &fakeLeadWriter{}
	svc := newTestLeadService(t, writer, &fakeRouting{}, nil, "")

	res, err := svc.CreateLead(context.Background(), LeadInput{
		Name:           "Guy Hanson",
		Source:         "conversation",
		ConversationID: "conv-1",
		Score:          50,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Lead.ID)
	require.Len(t, writer.puts, 1)
	require.Equal(t, "conv-1", writer.puts[0].ConversationID)
	require.Empty(t, writer.puts[0].Phone)
}

func TestCreateLead_AssignsTerritoryAndSpecialist(t *testing.T) {
	writer := &fakeLeadWriter{}
	routing := &fakeRouting{
		territories: testTerritories(),
		byTerritory: map[string][]domain.Specialist{
			"MT-SW": {{ID: "spec-01", Name: "Dale Hamm", Email: "dale@mfc.test", Phone: "406-555-0101"}},
		},
	}
	svc := newTestLeadService(t, writer, routing, nil, "")

	res, err := svc.CreateLead(context.Background(), LeadInput{
		Name:   "Guy Hanson",
		Phone:  "406-555-0199",
		County: "Beaverhead County",
	})
	require.NoError(t, err)
	require.True(t, res.SpecialistAssigned)
	require.Equal(t, "MT-SW", res.Lead.TerritoryCode)
	require.Equal(t, "spec-01", res.Lead.SpecialistID)
	require.Equal(t, "new", res.Lead.Status)
	require.NotEmpty(t, res.Lead.ID)
	require.Contains(t, res.AssignmentMessage, "Dale Hamm")
	require.Len(t, writer.puts, 1)
}

func TestCreateLead_UnknownCountyStillPersists(t *testing.T) {
	writer := &fakeLeadWriter{}
	svc := newTestLeadService(t, writer, &fakeRouting{territories: testTerritories()}, nil, "")

	res, err := svc.CreateLead(context.Background(), LeadInput{
		Name:   "Guy Hanson",
		Phone:  "406-555-0199",
		County: "Teton",
	})
	require.NoError(t, err)
	require.False(t, res.SpecialistAssigned)
	require.Empty(t, res.Lead.TerritoryCode)
	require.Empty(t, res.Lead.SpecialistID)
	require.Len(t, writer.puts, 1)
}

func TestCreateLead_NotIdempotent(t *testing.T) {
	orig := newUUID
	seq := 0
	newUUID = func() string {
		seq++
		return fmt.Sprintf("lead-%d", seq)
	}
	defer func() { newUUID = orig }()

	writer := &fakeLeadWriter{}
	svc := newTestLeadService(t, writer, &fakeRouting{}, nil, "")

	in := LeadInput{Name: "Guy Hanson", Phone: "406-555-0199"}
	first, err := svc.CreateLead(context.Background(), in)
	require.NoError(t, err)
	second, err := svc.CreateLead(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, writer.puts, 2)
	require.NotEqual(t, first.Lead.ID, second.Lead.ID)
}

func TestCreateLead_WriteFailure(t *testing.T) {
	svc := newTestLeadService(t, &fakeLeadWriter{putErr: errors.New("throttled")}, &fakeRouting{}, nil, "")

	_, err := svc.CreateLead(context.Background(), LeadInput{Name: "Guy Hanson", Phone: "406-555-0199"})
	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, ErrorUpstream, ucErr.Code)
}

func TestCreateLead_NotifiesSpecialistAndWarehouseContact(t *testing.T) {
	email := &fakeEmail{}
	routing := &fakeRouting{
		territories: testTerritories(),
		byTerritory: map[string][]domain.Specialist{
			"MT-SW": {{ID: "spec-01", Name: "Dale Hamm", Email: "dale@mfc.test"}},
		},
		all: []domain.Specialist{
			{ID: "spec-09", Name: "Rhonda Pike", Email: "rhonda@mfc.test", Specialties: []string{"warehouse operations"}},
		},
	}
	svc := newTestLeadService(t, &fakeLeadWriter{}, routing, email, "manager@mfc.test")

	_, err := svc.CreateLead(context.Background(), LeadInput{
		Name:   "Guy Hanson",
		Phone:  "406-555-0199",
		County: "Beaverhead",
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"dale@mfc.test", "rhonda@mfc.test"}, email.sent)
}

func TestCreateLead_FallbackEmailWhenUnassigned(t *testing.T) {
	email := &fakeEmail{}
	svc := newTestLeadService(t, &fakeLeadWriter{}, &fakeRouting{}, email, "manager@mfc.test")

	_, err := svc.CreateLead(context.Background(), LeadInput{Name: "Guy Hanson", Phone: "406-555-0199"})
	require.NoError(t, err)
	require.Equal(t, []string{"manager@mfc.test"}, email.sent)
}

func TestCreateLead_NotificationFailureIsNotFatal(t *testing.T) {
	email := &fakeEmail{sendErr: errors.New("sendgrid 500")}
	writer := &fakeLeadWriter{}
	svc := newTestLeadService(t, writer, &fakeRouting{}, email, "manager@mfc.test")

	res, err := svc.CreateLead(context.Background(), LeadInput{Name: "Guy Hanson", Phone: "406-555-0199"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Lead.ID)
	require.Len(t, writer.puts, 1)
}
