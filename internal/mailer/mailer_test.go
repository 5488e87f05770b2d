package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	u "museshop/internal/utils"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	fail map[string]error
	gate chan struct{}
}

func (r *recordingSender) Send(ctx context.Context, msg Message) error {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[msg.To]; err != nil {
		return err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

func TestDeliver_AllSucceed(t *testing.T) {
	rs := &recordingSender{}
	d := NewDispatcher(rs, time.Second)

	err := d.Deliver(context.Background(),
		Message{To: "owner@example.com", Subject: "a"},
		Message{To: "guest@example.com", Subject: "b"},
	)
	require.NoError(t, err)
	assert.Len(t, rs.Sent(), 2)
	assert.Equal(t, Stats{Sent: 2}, d.Stats())
}

func TestDeliver_FailureIsIsolatedPerMessage(t *testing.T) {
	boom := errors.New("mailbox unavailable")
	rs := &recordingSender{fail: map[string]error{"guest@example.com": boom}}
	d := NewDispatcher(rs, time.Second)

	err := d.Deliver(context.Background(),
		Message{To: "guest@example.com"},
		Message{To: "owner@example.com"},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.ErrorIs(t, err, boom)

	sent := rs.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "owner@example.com", sent[0].To)
	assert.Equal(t, Stats{Sent: 1, Failed: 1}, d.Stats())
}

func TestDeliverAsync_ReturnsBeforeSending(t *testing.T) {
	rs := &recordingSender{gate: make(chan struct{})}
	d := NewDispatcher(rs, time.Second)

	d.DeliverAsync("test", Message{To: "guest@example.com"})

	assert.Empty(t, rs.Sent())
	assert.Equal(t, int64(1), d.Stats().InFlight)

	close(rs.gate)
	require.NoError(t, d.Wait(context.Background()))
	assert.Len(t, rs.Sent(), 1)
	assert.Equal(t, int64(0), d.Stats().InFlight)
}

func TestDeliverAsync_FailureOnlyLogged(t *testing.T) {
	rs := &recordingSender{fail: map[string]error{"owner@example.com": errors.New("down")}}
	d := NewDispatcher(rs, time.Second)

	d.DeliverAsync("test", Message{To: "owner@example.com"}, Message{To: "guest@example.com"})
	require.NoError(t, d.Wait(context.Background()))

	assert.Len(t, rs.Sent(), 1)
	assert.Equal(t, Stats{Sent: 1, Failed: 1}, d.Stats())
}

func TestWait_HonoursContext(t *testing.T) {
	rs := &recordingSender{gate: make(chan struct{})}
	d := NewDispatcher(rs, time.Second)
	d.DeliverAsync("stuck", Message{To: "guest@example.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)

	close(rs.gate)
	require.NoError(t, d.Wait(context.Background()))
}

func TestDeliver_AppliesPerSendTimeout(t *testing.T) {
	slow := SenderFunc(func(ctx context.Context, msg Message) error {
		<-ctx.Done()
		return ctx.Err()
	})
	d := NewDispatcher(slow, 10*time.Millisecond)

	err := d.Deliver(context.Background(), Message{To: "guest@example.com"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewSender(t *testing.T) {
	s, err := NewSender(u.MailConfig{})
	require.NoError(t, err)
	assert.IsType(t, LogSender{}, s)
	assert.NoError(t, s.Send(context.Background(), Message{To: "guest@example.com"}))

	s, err = NewSender(u.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587, FromAddress: "shop@example.com"})
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	_, err = NewSender(u.MailConfig{SMTPHost: "smtp.example.com"})
	assert.Error(t, err)
}

func TestSMTPSender_BuildMessage(t *testing.T) {
	s, err := NewSMTPSender(u.MailConfig{
		SMTPHost:    "smtp.example.com",
		SMTPPort:    587,
		FromName:    "MUSE.holiday Shop",
		FromAddress: "shop@example.com",
	})
	require.NoError(t, err)

	m, err := s.build(Message{
		To:      "owner@example.com",
		Cc:      []string{"suedtirol@example.com"},
		Subject: "Richiesta",
		HTML:    "<p>ciao</p>",
	})
	require.NoError(t, err)
	rcpts, err := m.GetRecipients()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"owner@example.com", "suedtirol@example.com"}, rcpts)

	_, err = s.build(Message{To: "not an address"})
	assert.Error(t, err)
}
