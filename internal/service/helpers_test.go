package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"health-portal-be/internal/entity"
	"health-portal-be/internal/model"
	"health-portal-be/internal/repository/unitofwork"
	"health-portal-be/pkg/database"
	"health-portal-be/pkg/events"
	"health-portal-be/pkg/stm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()

	db, err := database.NewInMemoryDB()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Conversation{},
		&model.Message{},
		&model.MedicalReport{},
		&model.Appointment{},
		&model.Reminder{},
		&model.Notification{},
	))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return unitofwork.NewRepositoryFactory(db)
}

// countingStore wraps the real message store to count hydration reads.
type countingStore struct {
	stm.MessageStore
	reads   atomic.Int32
	readErr error
}

func (s *countingStore) FindRecent(ctx context.Context, conversationId uuid.UUID, limit int) ([]*entity.Message, error) {
	s.reads.Add(1)
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.MessageStore.FindRecent(ctx, conversationId, limit)
}

type generateCall struct {
	userText       string
	history        []stm.Turn
	medicalSummary string
}

type fakeGenerator struct {
	mu      sync.Mutex
	calls   []generateCall
	replies []string
	err     error
}

func (g *fakeGenerator) Generate(ctx context.Context, userText string, history []stm.Turn, medicalSummary string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, generateCall{
		userText:       userText,
		history:        append([]stm.Turn(nil), history...),
		medicalSummary: medicalSummary,
	})
	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "reply to " + userText, nil
	}
	reply := g.replies[0]
	g.replies = g.replies[1:]
	return reply, nil
}

func (g *fakeGenerator) Complete(ctx context.Context, purpose, prompt string) (string, error) {
	return g.Generate(ctx, prompt, nil, "")
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGenerator) call(i int) generateCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[i]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func turnTexts(turns []stm.Turn) []string {
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = t.Text
	}
	return out
}

type sentEmail struct {
	kind string
	to   string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *recordingMailer) record(kind, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{kind: kind, to: to})
	return m.err
}

func (m *recordingMailer) SendAppointmentConfirmation(a *entity.Appointment) error {
	return m.record("confirmation", a.Email)
}

func (m *recordingMailer) SendAppointmentCancellation(a *entity.Appointment) error {
	return m.record("cancellation", a.Email)
}

func (m *recordingMailer) SendReminder(toEmail string, r *entity.Reminder) error {
	return m.record("reminder", toEmail)
}

func (m *recordingMailer) emails() []sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentEmail(nil), m.sent...)
}
