package businessflow

import (
	"context"
	"time"

	"github.com/amirphl/spam-guard/app/services"
	"github.com/amirphl/spam-guard/models"
	"github.com/amirphl/spam-guard/repository"
	"github.com/amirphl/spam-guard/utils"
	"go.uber.org/zap"
)

// Routing actions returned to the PBX
const (
	ActionRedirect = "redirect"
	ActionAllow    = "allow"

	NotSpamReason = "number not identified as spam"
)

// Verdict is the answer to "is this number spam?"
// Note, AddedBy and RegisteredAt are only meaningful when IsSpam is true.
type Verdict struct {
	Number       string
	IsSpam       bool
	Note         *string
	AddedBy      string
	RegisteredAt time.Time
}

// RouteDecision tells the PBX where to send an incoming call
type RouteDecision struct {
	Action          string
	TargetExtension string
	Reason          *string
}

// DecisionFlow derives verdicts from the record store without modifying it
type DecisionFlow interface {
	Verify(ctx context.Context, number string) (*Verdict, error)
	RouteDecision(ctx context.Context, number string) (*RouteDecision, error)
}

type DecisionFlowImpl struct {
	spamRepo repository.SpamNumberRepository
	cache    services.VerdictCache
}

func NewDecisionFlow(spamRepo repository.SpamNumberRepository, cache services.VerdictCache) DecisionFlow {
	if cache == nil {
		cache = services.NewNoopVerdictCache()
	}
	return &DecisionFlowImpl{
		spamRepo: spamRepo,
		cache:    cache,
	}
}

// Verify reports whether the number is flagged, echoing the stored record when it is
func (f *DecisionFlowImpl) Verify(ctx context.Context, number string) (*Verdict, error) {
	number = NormalizeNumber(number)
	if number == "" {
		return nil, NewBusinessError("SPAM_NUMBER_REQUIRED", "Spam number is required", ErrSpamNumberRequired)
	}

	spam, err := f.lookup(ctx, number)
	if err != nil {
		return nil, NewBusinessError("SPAM_VERIFICATION_FAILED", "Failed to verify number", err)
	}

	if spam == nil {
		spamVerificationsTotal.WithLabelValues("clean").Inc()
		return &Verdict{Number: number, IsSpam: false}, nil
	}

	spamVerificationsTotal.WithLabelValues("spam").Inc()
	return &Verdict{
		Number:       spam.Number,
		IsSpam:       true,
		Note:         spam.Note,
		AddedBy:      spam.AddedBy,
		RegisteredAt: spam.RegisteredAt,
	}, nil
}

// RouteDecision redirects flagged callers to the virtual extension and lets everyone else through
func (f *DecisionFlowImpl) RouteDecision(ctx context.Context, number string) (*RouteDecision, error) {
	number = NormalizeNumber(number)
	if number == "" {
		return nil, NewBusinessError("SPAM_NUMBER_REQUIRED", "Spam number is required", ErrSpamNumberRequired)
	}

	spam, err := f.lookup(ctx, number)
	if err != nil {
		return nil, NewBusinessError("ROUTE_DECISION_FAILED", "Failed to decide call route", err)
	}

	if spam == nil {
		routeDecisionsTotal.WithLabelValues(ActionAllow).Inc()
		return &RouteDecision{
			Action: ActionAllow,
			Reason: utils.ToPtr(NotSpamReason),
		}, nil
	}

	routeDecisionsTotal.WithLabelValues(ActionRedirect).Inc()
	return &RouteDecision{
		Action:          ActionRedirect,
		TargetExtension: utils.VirtualExtension,
		Reason:          spam.Note,
	}, nil
}

// lookup reads through the verdict cache. Cache failures fall back to storage.
func (f *DecisionFlowImpl) lookup(ctx context.Context, number string) (*models.SpamNumber, error) {
	if !fitsNumberColumn(number) {
		return nil, nil
	}

	spam, hit, err := f.cache.Get(ctx, number)
	if err != nil {
		zap.L().Warn("verdict cache read failed", zap.String("numero", number), zap.Error(err))
	} else if hit {
		return spam, nil
	}

	spam, err = f.spamRepo.ByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, number, spam); err != nil {
		zap.L().Warn("verdict cache write failed", zap.String("numero", number), zap.Error(err))
	}
	return spam, nil
}
