package accountsservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	"github.com/Black-And-White-Club/accounts-bot/internal/discord"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds parallel platform lookups for one command.
const maxConcurrentLookups = 4

// invocationUser is the author as described by the gateway.
func invocationUser(inv accountsevents.Invocation) discord.User {
	return discord.User{
		ID:            inv.AuthorID,
		Username:      inv.AuthorName,
		Discriminator: inv.AuthorDiscriminator,
	}
}

// resolveTarget resolves an optional user argument. An empty target is the
// author; the platform lookup only adds the avatar in that case.
func (s *AccountsService) resolveTarget(ctx context.Context, inv accountsevents.Invocation, target string) (*discord.User, error) {
	if target == "" {
		u, err := s.platform.ResolveUser(ctx, inv.GuildID, strconv.FormatInt(inv.AuthorID, 10))
		if err != nil {
			self := invocationUser(inv)
			return &self, nil
		}
		return u, nil
	}

	u, err := s.platform.ResolveUser(ctx, inv.GuildID, target)
	if err != nil {
		if errors.Is(err, discord.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return u, nil
}

// resolveUsers resolves every query concurrently and returns the users in
// query order. The first unresolvable query fails the whole batch.
func (s *AccountsService) resolveUsers(ctx context.Context, guildID int64, queries []string) ([]discord.User, error) {
	users := make([]discord.User, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, q := range queries {
		g.Go(func() error {
			u, err := s.platform.ResolveUser(gctx, guildID, q)
			if err != nil {
				return err
			}
			users[i] = *u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, discord.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve users: %w", err)
	}
	return users, nil
}
