package accountsdomain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	giver = int64(1)
	userA = int64(100)
	userB = int64(200)
)

func TestNextDayBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), NextDayBoundary(now))

	midnight := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), NextDayBoundary(midnight))

	// Non-UTC input is normalised before picking the day.
	tokyo := time.FixedZone("JST", 9*3600)
	local := time.Date(2026, 3, 2, 8, 0, 0, 0, tokyo) // 23:00 UTC on the 1st
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), NextDayBoundary(local))
}

func TestNewReputationBudget(t *testing.T) {
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	b := NewReputationBudget(now)

	assert.Equal(t, ReputationAllowance, b.PointsLeft)
	assert.Equal(t, 6*time.Hour, b.TTL(now))
	assert.True(t, b.Live(now))
	assert.False(t, b.Live(b.ExpiresAt))
}

func TestBuildDistribution(t *testing.T) {
	tests := []struct {
		name      string
		grants    []ReputationGrant
		want      []RecipientAmount
		wantSelf  bool
		wantTotal int
	}{
		{
			name:      "distinct recipients",
			grants:    []ReputationGrant{{RecipientID: userA, Amount: 1}, {RecipientID: userB, Amount: 2}},
			want:      []RecipientAmount{{userA, 1}, {userB, 2}},
			wantTotal: 3,
		},
		{
			name:      "repeated recipient is summed once",
			grants:    []ReputationGrant{{RecipientID: userA, Amount: 1}, {RecipientID: userB, Amount: 1}, {RecipientID: userA, Amount: 1}},
			want:      []RecipientAmount{{userA, 2}, {userB, 1}},
			wantTotal: 3,
		},
		{
			name:     "self only is empty and flagged",
			grants:   []ReputationGrant{{RecipientID: giver, Amount: 1}},
			wantSelf: true,
		},
		{
			name:      "self is filtered but others kept",
			grants:    []ReputationGrant{{RecipientID: giver, Amount: 2}, {RecipientID: userA, Amount: 1}},
			want:      []RecipientAmount{{userA, 1}},
			wantSelf:  true,
			wantTotal: 1,
		},
		{
			name:      "all takes what is unassigned",
			grants:    []ReputationGrant{{RecipientID: userA, Amount: 1}, {RecipientID: userB, All: true}},
			want:      []RecipientAmount{{userA, 1}, {userB, 2}},
			wantTotal: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := BuildDistribution(giver, tt.grants, 3)
			assert.Equal(t, tt.want, d.Recipients)
			assert.Equal(t, tt.wantSelf, d.MentionedSelf)
			assert.Equal(t, tt.wantTotal, d.Total())
		})
	}
}

func TestDistributionValidate(t *testing.T) {
	over := BuildDistribution(giver, []ReputationGrant{{RecipientID: userA, Amount: 2}, {RecipientID: userB, Amount: 2}}, 3)
	assert.ErrorIs(t, over.Validate(3), ErrReputationLimit)

	exact := BuildDistribution(giver, []ReputationGrant{{RecipientID: userA, Amount: 1}, {RecipientID: userB, Amount: 2}}, 3)
	assert.NoError(t, exact.Validate(3))

	zero := BuildDistribution(giver, []ReputationGrant{{RecipientID: userA, Amount: 0}}, 3)
	assert.ErrorIs(t, zero.Validate(3), ErrReputationZero)

	negative := BuildDistribution(giver, []ReputationGrant{{RecipientID: userA, Amount: 3}, {RecipientID: userB, Amount: -1}}, 3)
	assert.ErrorIs(t, negative.Validate(3), ErrReputationZero, "a negative entry cannot offset another")

	empty := BuildDistribution(giver, []ReputationGrant{{RecipientID: giver, Amount: 1}}, 3)
	assert.NoError(t, empty.Validate(3))
	assert.True(t, empty.Empty())
}

func TestBudgetSpend(t *testing.T) {
	b := ReputationBudget{PointsLeft: 3}

	_, err := b.Spend(4)
	assert.ErrorIs(t, err, ErrReputationLimit)
	assert.Equal(t, 3, b.PointsLeft, "rejected spend leaves budget unchanged")

	after, err := b.Spend(3)
	require.NoError(t, err)
	assert.Equal(t, 0, after.PointsLeft)

	_, err = b.Spend(0)
	assert.ErrorIs(t, err, ErrReputationZero)

	assert.Equal(t, 2, after.Refund(2).PointsLeft)
	assert.Equal(t, ReputationAllowance, after.Refund(10).PointsLeft)
}

func TestReputationKey(t *testing.T) {
	assert.Equal(t, "user:42:rep", ReputationKey(42))
}
