package listener

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
)

type fakeRunner struct {
	runs int
	err  error
}

func (f *fakeRunner) Run(ctx context.Context) error {
	f.runs++
	return f.err
}

type fakeSession struct {
	ctx    context.Context
	marked []*sarama.ConsumerMessage
}

func (s *fakeSession) Claims() map[string][]int32              { return nil }
func (s *fakeSession) MemberID() string                        { return "test" }
func (s *fakeSession) GenerationID() int32                     { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string) {}
func (s *fakeSession) Commit()                                 {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) Context() context.Context                 { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg)
}

type fakeClaim struct {
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Topic() string                            { return "route-events" }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func deliver(msgs ...*sarama.ConsumerMessage) *fakeClaim {
	ch := make(chan *sarama.ConsumerMessage, len(msgs))
	for _, m := range msgs {
		ch <- m
	}
	close(ch)
	return &fakeClaim{messages: ch}
}

func TestConsumeClaimRunsOncePerMessage(t *testing.T) {
	runner := &fakeRunner{}
	h := &triggerHandler{runner: runner}
	session := &fakeSession{ctx: context.Background()}

	msgs := []*sarama.ConsumerMessage{
		{Topic: "route-events", Offset: 1},
		{Topic: "route-events", Offset: 2},
	}
	assert.NoError(t, h.ConsumeClaim(session, deliver(msgs...)))

	assert.Equal(t, 2, runner.runs)
	assert.Len(t, session.marked, 2)
}

func TestConsumeClaimMarksFailedRuns(t *testing.T) {
	// A failed run must still be acknowledged: its outcome is terminal for
	// this input and endless redelivery would never change it.
	runner := &fakeRunner{err: errors.New("no feasible assignment")}
	h := &triggerHandler{runner: runner}
	session := &fakeSession{ctx: context.Background()}

	msg := &sarama.ConsumerMessage{Topic: "route-events", Offset: 7}
	assert.NoError(t, h.ConsumeClaim(session, deliver(msg)))

	assert.Equal(t, 1, runner.runs)
	assert.Len(t, session.marked, 1)
	assert.Equal(t, int64(7), session.marked[0].Offset)
}
