package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func TestHandleSendEmail(t *testing.T) {
	sender := &recordingSender{}
	task, err := NewSendEmailTask(PasswordResetMessage("a@x.com", "Ana", "ecodicas://reset-password?token=abc"))
	require.NoError(t, err)
	assert.Equal(t, TaskSendEmail, task.Type())

	require.NoError(t, HandleSendEmail(sender)(context.Background(), task))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "a@x.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Body, "Ana")
	assert.Contains(t, sender.sent[0].Body, "token=abc")
}

func TestHandleSendEmailInvalidPayloadSkipsRetry(t *testing.T) {
	task := asynq.NewTask(TaskSendEmail, []byte("{"))

	err := HandleSendEmail(&recordingSender{})(context.Background(), task)

	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleSendEmailMissingRecipient(t *testing.T) {
	task, err := NewSendEmailTask(Message{Subject: "x"})
	require.NoError(t, err)

	err = HandleSendEmail(&recordingSender{})(context.Background(), task)

	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleSendEmailSenderFailureIsRetried(t *testing.T) {
	boom := errors.New("smtp down")
	task, err := NewSendEmailTask(Message{To: "a@x.com"})
	require.NoError(t, err)

	err = HandleSendEmail(&recordingSender{err: boom})(context.Background(), task)

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
