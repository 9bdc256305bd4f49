package accountsservice

import (
	"context"
	"strconv"

	accountsdomain "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain"
	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	"github.com/Black-And-White-Club/accounts-bot/internal/mikiapi"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/Black-And-White-Club/accounts-bot/internal/results"
)

// GetLeaderboard fetches one page of a ranking from the ranking API.
func (s *AccountsService) GetLeaderboard(ctx context.Context, inv accountsevents.Invocation, args []string) (results.OperationResult[*LeaderboardView, error], error) {
	return withTelemetry(s, ctx, "GetLeaderboard", strconv.FormatInt(inv.GuildID, 10), func(ctx context.Context) (results.OperationResult[*LeaderboardView, error], error) {
		q := accountsdomain.ParseLeaderboardArgs(args, inv.GuildID)
		opts := mikiapi.LeaderboardOptions{
			Type:    string(q.Type),
			GuildID: q.GuildID,
			Offset:  q.Offset(),
			Amount:  accountsdomain.LeaderboardPageSize,
		}

		page, err := s.ranking.GetPagedLeaderboards(ctx, opts)
		if err != nil {
			s.logger.WarnContext(ctx, "Ranking service unavailable",
				observability.CorrelationAttr(ctx),
				observability.ErrorAttr(err),
			)
			return results.FailureResult[*LeaderboardView, error](ErrExternalServiceUnavailable), nil
		}

		view := &LeaderboardView{
			Query: q,
			Page:  *page,
			URL:   s.ranking.BuildLeaderboardsURL(opts),
		}

		chart, err := GenerateLeaderboardChart(q, *page, DefaultChartPalette)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to render leaderboard chart",
				observability.CorrelationAttr(ctx),
				observability.ErrorAttr(err),
			)
		} else {
			view.Chart = chart
		}

		return results.SuccessResult[*LeaderboardView, error](view), nil
	})
}
