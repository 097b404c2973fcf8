package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayPolicy_RandomSampleStaysInRange(t *testing.T) {
	p := RandomDelay(2*time.Second, 5*time.Second)

	for range 1000 {
		d := p.Sample()
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.LessOrEqual(t, d, 5*time.Second)
	}
	assert.Equal(t, 3500*time.Millisecond, p.Expected())
}

func TestDelayPolicy_Fixed(t *testing.T) {
	p := FixedDelay(2 * time.Second)

	assert.Equal(t, 2*time.Second, p.Sample())
	assert.Equal(t, 2*time.Second, p.Expected())
	assert.False(t, p.IsZero())
	assert.True(t, DelayPolicy{}.IsZero())
}

func TestDelayPolicy_DegenerateRange(t *testing.T) {
	p := RandomDelay(3*time.Second, 3*time.Second)

	assert.Equal(t, 3*time.Second, p.Sample())
}

func TestMessageTemplate_Render(t *testing.T) {
	tpl := MessageTemplate{Type: MessageTypeText, Text: "Hi {name}, your number is {phone}"}

	got := tpl.Render(&Recipient{Name: "Ana", Destination: "15550001"})
	assert.Equal(t, "Hi Ana, your number is 15550001", got.Text)
	assert.Equal(t, "Hi {name}, your number is {phone}", tpl.Text)
}

func TestJobCounts(t *testing.T) {
	var c JobCounts
	for _, s := range []RecipientStatus{RecipientPending, RecipientSent, RecipientFailed, RecipientSent} {
		c.Add(s)
	}

	assert.Equal(t, JobCounts{Total: 4, Pending: 1, Sent: 2, Failed: 1}, c)
	assert.False(t, c.Done())

	c.Pending = 0
	assert.True(t, c.Done())
}
