package accountshandlers

import (
	"context"
	"errors"
	"log/slog"

	accountsservice "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/application"
	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	"github.com/Black-And-White-Club/accounts-bot/internal/embed"
	"github.com/Black-And-White-Club/accounts-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/accounts-bot/internal/localization"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
	"github.com/Black-And-White-Club/accounts-bot/internal/results"
	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/trace"
)

// AccountsHandlers implements the Handlers interface.
type AccountsHandlers struct {
	service accountsservice.Service
	locales *localization.Catalog
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewAccountsHandlers creates a new AccountsHandlers instance.
func NewAccountsHandlers(
	service accountsservice.Service,
	locales *localization.Catalog,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &AccountsHandlers{
		service: service,
		locales: locales,
		logger:  logger,
		tracer:  tracer,
	}
}

// rendered is a reply embed with an optional file.
type rendered struct {
	embed      *discordgo.MessageEmbed
	attachment *accountsevents.Attachment
}

// respond turns a service result into a reply for inv. Failures become error
// embeds; infrastructure errors are returned so the message is retried.
func respond[V any](
	h *AccountsHandlers,
	ctx context.Context,
	inv accountsevents.Invocation,
	result results.OperationResult[*V, error],
	err error,
	render func(l *localization.Locale, v *V) rendered,
) ([]handlerwrapper.Result, error) {
	if err != nil {
		return nil, err
	}

	locale := h.locales.Get(inv.Locale)
	if result.IsFailure() {
		failure := *result.Failure
		h.logger.InfoContext(ctx, "Command rejected",
			observability.CorrelationAttr(ctx),
			slog.Int64("author_id", inv.AuthorID),
			slog.String("reason", failure.Error()),
		)
		return reply(inv, rendered{embed: errorEmbed(locale, failure).Build()}), nil
	}
	if result.Success == nil {
		return nil, errors.New("service returned an empty result")
	}

	return reply(inv, render(locale, *result.Success)), nil
}

func reply(inv accountsevents.Invocation, r rendered) []handlerwrapper.Result {
	return []handlerwrapper.Result{{
		Topic: accountsevents.CommandResponseV1,
		Payload: &accountsevents.CommandResponsePayloadV1{
			GuildID:    inv.GuildID,
			ChannelID:  inv.ChannelID,
			ReplyTo:    inv.MessageID,
			Embed:      r.embed,
			Attachment: r.attachment,
		},
	}}
}

// errorEmbed maps a domain failure to its localized message.
func errorEmbed(l *localization.Locale, err error) *embed.Builder {
	var (
		limit   *accountsservice.ReputationLimitError
		funds   *accountsservice.InsufficientFundsError
		claimed *accountsservice.DailyClaimedError
	)
	switch {
	case errors.As(err, &limit):
		return embed.Error(l.GetString("error_rep_limit", limit.Recipients, limit.Requested, limit.PointsLeft))
	case errors.As(err, &funds):
		return embed.Error(l.GetString("error_insufficient_mekos", funds.Balance))
	case errors.As(err, &claimed):
		return embed.Error(l.GetString("daily_error_claimed", l.FormatDuration(claimed.Remaining))).
			AddInlineField(l.GetString("daily_appreciate_header"), l.GetString("daily_appreciate_vote"))
	case errors.Is(err, accountsservice.ErrReputationZero):
		return embed.Error(l.GetString("miki_module_accounts_rep_error_zero"))
	case errors.Is(err, accountsservice.ErrUserNotFound):
		return embed.Error(l.GetString("user_error_not_found"))
	case errors.Is(err, accountsservice.ErrNoAccount):
		return embed.Error(l.GetString("user_error_no_account"))
	case errors.Is(err, accountsservice.ErrMissingTarget):
		return embed.Error(l.GetString("give_error_no_mention"))
	case errors.Is(err, accountsservice.ErrAmountUnparsable):
		return embed.Error(l.GetString("give_error_amount_unparsable"))
	case errors.Is(err, accountsservice.ErrInvalidAmount):
		return embed.Error(l.GetString("error_invalid_amount"))
	case errors.Is(err, accountsservice.ErrBackgroundNotOwned):
		return embed.Error(l.GetString("error_background_not_owned"))
	case errors.Is(err, accountsservice.ErrBackgroundAlreadyOwned):
		return embed.Error(l.GetString("error_background_owned"))
	case errors.Is(err, accountsservice.ErrBackgroundNotFound):
		return embed.Error(l.GetString("error_background_missing"))
	case errors.Is(err, accountsservice.ErrBackgroundNotForSale):
		return embed.Error(l.GetString("background_preview_not_for_sale"))
	case errors.Is(err, accountsservice.ErrExternalServiceUnavailable):
		return embed.Error(l.GetString("error_service_unavailable"))
	default:
		return embed.Error(l.GetString("error_generic"))
	}
}
