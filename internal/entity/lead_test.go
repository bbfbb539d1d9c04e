package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewLeadDefaults(t *testing.T) {
	lead := NewLead("Jordan Hale", "jordan@example.com", "Austin, TX", "buyer", "ready to buy", LeadSourceAlphaForm)

	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, LeadStatusNew, lead.Status)
	assert.Equal(t, "Austin, TX", lead.Market)
	assert.Nil(t, lead.Classification)
	assert.Equal(t, lead.CreatedAt, lead.UpdatedAt)
}

func TestNewLeadUnknownMarket(t *testing.T) {
	lead := NewLead("Jordan Hale", "jordan@example.com", "", "", "", LeadSourceLeadMagnet)

	assert.Equal(t, "Unknown", lead.Market)
	assert.Equal(t, LeadSourceLeadMagnet, lead.Source)
}

func TestNewSequenceTask(t *testing.T) {
	scheduledFor := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	task := NewSequenceTask("lead-1", SequenceFollowUpDay1, scheduledFor)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "lead-1", task.LeadID)
	assert.Equal(t, TaskStatusPending, task.Status)
	assert.Equal(t, scheduledFor, task.ScheduledFor)
	assert.Nil(t, task.SentAt)
}
