package accountsdomain

import (
	"fmt"
	"strconv"
	"time"
)

// ReputationAllowance is how many points a user may give per UTC day.
const ReputationAllowance = 3

// ReputationBudget is the per-user daily giving allowance kept in the cache.
type ReputationBudget struct {
	PointsLeft  int       `json:"pointsLeft"`
	WindowStart time.Time `json:"windowStart"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// NewReputationBudget opens a fresh window at now that closes at the next UTC midnight.
func NewReputationBudget(now time.Time) ReputationBudget {
	return ReputationBudget{
		PointsLeft:  ReputationAllowance,
		WindowStart: now.UTC(),
		ExpiresAt:   NextDayBoundary(now),
	}
}

// Live reports whether the budget window is still open at now.
func (b ReputationBudget) Live(now time.Time) bool {
	return now.Before(b.ExpiresAt)
}

// TTL is the remaining lifetime of the budget.
func (b ReputationBudget) TTL(now time.Time) time.Duration {
	return b.ExpiresAt.Sub(now)
}

// Spend returns the budget after giving total points.
func (b ReputationBudget) Spend(total int) (ReputationBudget, error) {
	if total <= 0 {
		return b, ErrReputationZero
	}
	if total > b.PointsLeft {
		return b, ErrReputationLimit
	}
	b.PointsLeft -= total
	return b, nil
}

// Refund returns points taken by a distribution that failed to commit.
func (b ReputationBudget) Refund(total int) ReputationBudget {
	b.PointsLeft = min(b.PointsLeft+total, ReputationAllowance)
	return b
}

// NextDayBoundary returns the next UTC midnight strictly after now.
func NextDayBoundary(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// ReputationKey is the cache key of a user's budget.
func ReputationKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10) + ":rep"
}

// ReputationGrant is one parsed "mention [amount|all]" argument.
type ReputationGrant struct {
	RecipientID int64
	Amount      int
	// All asks for every point not yet assigned earlier in the same request.
	All bool
}

// RecipientAmount is a merged per-recipient increment.
type RecipientAmount struct {
	RecipientID int64
	Amount      int
}

// ReputationDistribution is a validated-shape batch ready to check against a budget.
type ReputationDistribution struct {
	Recipients    []RecipientAmount
	MentionedSelf bool
}

// Total sums every recipient amount.
func (d ReputationDistribution) Total() int {
	total := 0
	for _, r := range d.Recipients {
		total += r.Amount
	}
	return total
}

// Empty reports whether nothing is left to distribute.
func (d ReputationDistribution) Empty() bool {
	return len(d.Recipients) == 0
}

// BuildDistribution drops grants to the giver, resolves "all" against the points
// still unassigned at that position, and merges repeated recipients in first-seen order.
func BuildDistribution(giverID int64, grants []ReputationGrant, pointsLeft int) ReputationDistribution {
	var d ReputationDistribution
	index := make(map[int64]int, len(grants))
	assigned := 0

	for _, g := range grants {
		amount := g.Amount
		if g.All {
			amount = pointsLeft - assigned
		}
		if g.RecipientID == giverID {
			d.MentionedSelf = true
			continue
		}

		assigned += amount
		if i, ok := index[g.RecipientID]; ok {
			d.Recipients[i].Amount += amount
			continue
		}
		index[g.RecipientID] = len(d.Recipients)
		d.Recipients = append(d.Recipients, RecipientAmount{RecipientID: g.RecipientID, Amount: amount})
	}
	return d
}

// Validate checks the batch against pointsLeft without changing anything.
// An empty batch is valid and means "do nothing".
func (d ReputationDistribution) Validate(pointsLeft int) error {
	if d.Empty() {
		return nil
	}
	for _, r := range d.Recipients {
		if r.Amount <= 0 {
			return fmt.Errorf("%w: %d for %d", ErrReputationZero, r.Amount, r.RecipientID)
		}
	}
	if d.Total() > pointsLeft {
		return ErrReputationLimit
	}
	return nil
}
