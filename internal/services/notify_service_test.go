package services

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"UpNepa/internal/contracts"
)

type fakeDirectory struct {
	user *contracts.User
	err  error
}

func (d *fakeDirectory) FindByUsername(username string) (*contracts.User, error) {
	return d.user, d.err
}

func (d *fakeDirectory) FindByID(id string) (*contracts.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.user != nil && d.user.ID == id {
		return d.user, nil
	}
	return nil, nil
}

func (d *fakeDirectory) UpdateChatID(id string, chatID int64) error {
	return nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (s *fakeSender) SendMessage(chatID int64, text string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func linkedUser(chatID int64) *contracts.User {
	return &contracts.User{ID: "id-1", Username: "bob", ChatID: &chatID}
}

// 3 июня 2024 — понедельник
var testTime = time.Date(2024, time.June, 3, 14, 15, 0, 0, time.UTC)

func TestNotifyPowerRestored(t *testing.T) {
	sender := &fakeSender{}
	s := NewNotifyService(&fakeDirectory{user: linkedUser(42)}, sender, clockwork.NewFakeClockAt(testTime))

	require.NoError(t, s.NotifyPowerStatus("id-1", true))

	require.Len(t, sender.sent, 1)
	require.Equal(t, int64(42), sender.sent[0].chatID)
	require.Equal(t, "Them don bring light! The time wey them bring am na Monday, 03 Jun 2024  2:15 PM", sender.sent[0].text)
}

func TestNotifyPowerOut(t *testing.T) {
	sender := &fakeSender{}
	s := NewNotifyService(&fakeDirectory{user: linkedUser(42)}, sender, clockwork.NewFakeClockAt(testTime))

	require.NoError(t, s.NotifyPowerStatus("id-1", false))

	require.Len(t, sender.sent, 1)
	require.Equal(t, "Them don take light! The time wey them take am na Monday, 03 Jun 2024  2:15 PM", sender.sent[0].text)
}

func TestNotifyUserWithoutChatIsInvalid(t *testing.T) {
	sender := &fakeSender{}
	directory := &fakeDirectory{user: &contracts.User{ID: "id-1", Username: "bob"}}
	s := NewNotifyService(directory, sender, clockwork.NewFakeClockAt(testTime))

	err := s.NotifyPowerStatus("id-1", true)
	require.ErrorIs(t, err, contracts.ErrInvalidUser)
	require.Empty(t, sender.sent)
}

func TestNotifyUnknownUserIsInvalid(t *testing.T) {
	sender := &fakeSender{}
	s := NewNotifyService(&fakeDirectory{}, sender, clockwork.NewFakeClockAt(testTime))

	err := s.NotifyPowerStatus("missing", true)
	require.ErrorIs(t, err, contracts.ErrInvalidUser)
	require.Empty(t, sender.sent)
}

func TestNotifyDirectoryErrorPropagates(t *testing.T) {
	sender := &fakeSender{}
	s := NewNotifyService(&fakeDirectory{err: errors.New("db down")}, sender, clockwork.NewFakeClockAt(testTime))

	err := s.NotifyPowerStatus("id-1", true)
	require.Error(t, err)
	require.NotErrorIs(t, err, contracts.ErrInvalidUser)
	require.Empty(t, sender.sent)
}

func TestNotifySendErrorPropagates(t *testing.T) {
	sender := &fakeSender{err: errors.New("channel unavailable")}
	s := NewNotifyService(&fakeDirectory{user: linkedUser(42)}, sender, clockwork.NewFakeClockAt(testTime))

	require.Error(t, s.NotifyPowerStatus("id-1", true))
}

func TestFormatPowerTime(t *testing.T) {
	cases := []struct {
		name string
		time time.Time
		want string
	}{
		{"после полудня", time.Date(2024, time.June, 3, 14, 15, 0, 0, time.UTC), "Monday, 03 Jun 2024  2:15 PM"},
		{"утро", time.Date(2024, time.June, 4, 9, 5, 0, 0, time.UTC), "Tuesday, 04 Jun 2024  9:05 AM"},
		{"полночь", time.Date(2024, time.June, 5, 0, 30, 0, 0, time.UTC), "Wednesday, 05 Jun 2024 12:30 AM"},
		{"полдень", time.Date(2024, time.June, 6, 12, 0, 0, 0, time.UTC), "Thursday, 06 Jun 2024 12:00 PM"},
		{"двузначный час", time.Date(2024, time.June, 7, 22, 45, 0, 0, time.UTC), "Friday, 07 Jun 2024 10:45 PM"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, formatPowerTime(tc.time))
		})
	}
}
