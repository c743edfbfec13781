package domain_test

import (
	"testing"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommissionLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	t.Run("pending to approved to paid", func(t *testing.T) {
		c := &domain.Commission{ID: "c1", Status: domain.CommissionPending}
		require.NoError(t, c.Approve(now))
		assert.Equal(t, domain.CommissionApproved, c.Status)
		require.NotNil(t, c.ApprovedAt)

		require.NoError(t, c.MarkPaid(now.Add(time.Hour)))
		assert.Equal(t, domain.CommissionPaid, c.Status)
		assert.Equal(t, now.Add(time.Hour), *c.PaidAt)
	})

	t.Run("approve twice fails", func(t *testing.T) {
		c := &domain.Commission{ID: "c2", Status: domain.CommissionApproved}
		assert.ErrorIs(t, c.Approve(now), domain.ErrInvalidTransition)
	})

	t.Run("pay before approval fails", func(t *testing.T) {
		c := &domain.Commission{ID: "c3", Status: domain.CommissionPending}
		assert.ErrorIs(t, c.MarkPaid(now), domain.ErrInvalidTransition)
		assert.Nil(t, c.PaidAt)
	})

	t.Run("paid is final", func(t *testing.T) {
		c := &domain.Commission{ID: "c4", Status: domain.CommissionPaid}
		assert.ErrorIs(t, c.Approve(now), domain.ErrInvalidTransition)
		assert.ErrorIs(t, c.MarkPaid(now), domain.ErrInvalidTransition)
	})
}

func TestLeadStatus(t *testing.T) {
	for _, s := range domain.LeadStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, domain.LeadStatus("won").Valid())
	assert.False(t, domain.LeadStatus("").Valid())

	assert.True(t, domain.LeadSold.Terminal())
	assert.True(t, domain.LeadUnqualified.Terminal())
	assert.False(t, domain.LeadQualified.Terminal())
}

func TestAffiliateFullName(t *testing.T) {
	a := &domain.Affiliate{Email: "ann@example.com", FirstName: "Ann"}
	assert.Equal(t, "ann@example.com", a.FullName())
	a.LastName = "Lee"
	assert.Equal(t, "Ann Lee", a.FullName())
}
