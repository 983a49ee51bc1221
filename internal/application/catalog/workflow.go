package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/catalog-backoffice/internal/application/dto"
	"github.com/jhoicas/catalog-backoffice/internal/domain"
	"github.com/jhoicas/catalog-backoffice/internal/domain/entity"
	"github.com/jhoicas/catalog-backoffice/internal/domain/pricing"
	"github.com/jhoicas/catalog-backoffice/internal/domain/repository"
	"github.com/jhoicas/catalog-backoffice/internal/domain/verification"
	"github.com/jhoicas/catalog-backoffice/pkg/clock"
	"github.com/jhoicas/catalog-backoffice/pkg/logger"
)

// Command identifica la publicación a transicionar, quién actúa y, opcionalmente,
// la versión que el llamador leyó (If-Match).
type Command struct {
	ListingID       string
	Actor           string
	ExpectedVersion *int64
}

// WorkflowUseCase flujo de verificación de publicaciones. Cada transición es una
// lectura-modificación-escritura atómica con control de versión y deja un evento en el outbox.
type WorkflowUseCase struct {
	tx      TxRunner
	clock   clock.Clock
	timeout time.Duration
	log     *logger.Logger
}

// NewWorkflowUseCase construye el caso de uso. timeout acota cada llamada al almacén.
func NewWorkflowUseCase(tx TxRunner, clk clock.Clock, timeout time.Duration, log *logger.Logger) *WorkflowUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &WorkflowUseCase{tx: tx, clock: clk, timeout: timeout, log: log.Component("catalog")}
}

// Submit registra una publicación enviada por un vendedor: pending, inactive, versión 1.
func (uc *WorkflowUseCase) Submit(ctx context.Context, actor string, req dto.SubmitListingRequest) (*dto.ListingResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
	}
	if req.BasePrice.IsNegative() {
		return nil, domain.NewPricingError(domain.NegativeValue, "el precio base no puede ser negativo")
	}
	currency := strings.TrimSpace(req.CurrencySymbol)
	if currency == "" {
		currency = "$"
	}

	now := uc.clock.Now()
	listing := &entity.Listing{
		ID:             uuid.New().String(),
		VendorID:       strings.TrimSpace(req.VendorID),
		Name:           name,
		Description:    strings.TrimSpace(req.Description),
		CategoryID:     strings.TrimSpace(req.CategoryID),
		BasePrice:      req.BasePrice.Round(2),
		CurrencySymbol: currency,
		Verification:   entity.Verification{Status: entity.VerificationPending},
		ActiveStatus:   entity.ActiveStatusInactive,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for i, a := range req.Assets {
		kind := entity.AssetKind(a.Kind)
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: tipo de activo %q", domain.ErrValidation, a.Kind)
		}
		listing.Assets = append(listing.Assets, entity.AssetRecord{
			ID:        uuid.New().String(),
			ListingID: listing.ID,
			Kind:      kind,
			Label:     strings.TrimSpace(a.Label),
			Position:  i,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	err := uc.tx.RunCatalog(ctx, func(listings repository.ListingRepository, events repository.ListingEventRepository) error {
		if err := listings.Create(ctx, listing); err != nil {
			return err
		}
		ev, err := newEvent(listing, entity.EventListingSubmitted, actor, now, submittedPayload{
			VendorID: listing.VendorID,
			Assets:   len(listing.Assets),
		})
		if err != nil {
			return err
		}
		return events.Create(ctx, ev)
	})
	if err != nil {
		uc.logFailure(err, listing.ID, entity.EventListingSubmitted)
		return nil, err
	}
	uc.log.Info().Str("listing_id", listing.ID).Int("assets", len(listing.Assets)).Msg("publicación recibida")
	return toListingResponse(listing, now), nil
}

// VerifyAll aplica la decisión del revisor: approved o rejected.
func (uc *WorkflowUseCase) VerifyAll(ctx context.Context, cmd Command, req dto.VerifyAllRequest) (*dto.ListingResponse, error) {
	switch entity.VerificationStatus(req.Status) {
	case entity.VerificationApproved:
		return uc.Approve(ctx, cmd)
	case entity.VerificationRejected:
		return uc.Reject(ctx, cmd, req.Reason, req.Suggestion)
	default:
		return nil, fmt.Errorf("%w: status debe ser approved o rejected", domain.ErrValidation)
	}
}

// Approve aprueba la publicación y verifica todos sus activos en la misma transacción.
func (uc *WorkflowUseCase) Approve(ctx context.Context, cmd Command) (*dto.ListingResponse, error) {
	return uc.transition(ctx, cmd, entity.EventListingApproved, func(l *entity.Listing, now time.Time) (any, error) {
		from := l.Verification.Status
		if err := verification.Approve(l, cmd.Actor, now); err != nil {
			return nil, err
		}
		return statusPayload{From: string(from), To: string(l.Verification.Status)}, nil
	})
}

// Reject rechaza con motivo obligatorio. El motivo vacío se rechaza sin consultar el almacén.
func (uc *WorkflowUseCase) Reject(ctx context.Context, cmd Command, reason, suggestion string) (*dto.ListingResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrEmptyReason
	}
	return uc.transition(ctx, cmd, entity.EventListingRejected, func(l *entity.Listing, now time.Time) (any, error) {
		from := l.Verification.Status
		if err := verification.Reject(l, reason, suggestion, cmd.Actor, now); err != nil {
			return nil, err
		}
		return statusPayload{
			From:       string(from),
			To:         string(l.Verification.Status),
			Reason:     l.Verification.RejectionReason,
			Suggestion: l.Verification.Suggestion,
		}, nil
	})
}

// Resubmit reabre una publicación aprobada o rechazada.
func (uc *WorkflowUseCase) Resubmit(ctx context.Context, cmd Command) (*dto.ListingResponse, error) {
	return uc.transition(ctx, cmd, entity.EventListingResubmitted, func(l *entity.Listing, _ time.Time) (any, error) {
		from := l.Verification.Status
		if err := verification.Resubmit(l); err != nil {
			return nil, err
		}
		return statusPayload{From: string(from), To: string(l.Verification.Status)}, nil
	})
}

// MarkAsset registra la revisión individual de un activo.
func (uc *WorkflowUseCase) MarkAsset(ctx context.Context, cmd Command, assetID string, req dto.MarkAssetRequest) (*dto.ListingResponse, error) {
	if !req.Verified && strings.TrimSpace(req.Reason) == "" {
		return nil, domain.ErrEmptyReason
	}
	return uc.transition(ctx, cmd, entity.EventAssetMarked, func(l *entity.Listing, _ time.Time) (any, error) {
		if err := verification.MarkAsset(l, assetID, req.Verified, req.Reason, req.Suggestion); err != nil {
			return nil, err
		}
		a := l.Asset(assetID)
		return assetPayload{AssetID: a.ID, Verified: a.Verified, Reason: a.Reason, Suggestion: a.Suggestion}, nil
	})
}

// SetActiveStatus cambia la visibilidad. Si no hay cambio no se incrementa la versión ni se emite evento.
func (uc *WorkflowUseCase) SetActiveStatus(ctx context.Context, cmd Command, req dto.ActiveStatusRequest) (*dto.ListingResponse, error) {
	status := entity.ActiveStatus(req.ActiveStatus)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: active_status debe ser active o inactive", domain.ErrValidation)
	}
	return uc.transition(ctx, cmd, entity.EventActiveStatusChanged, func(l *entity.Listing, _ time.Time) (any, error) {
		from := l.ActiveStatus
		changed, err := verification.SetActiveStatus(l, status)
		if err != nil || !changed {
			return nil, err
		}
		return statusPayload{From: string(from), To: string(status)}, nil
	})
}

// UpdatePricing valida el precio propuesto contra el precio base y lo persiste.
func (uc *WorkflowUseCase) UpdatePricing(ctx context.Context, cmd Command, req dto.PricingRequest) (*dto.ListingResponse, error) {
	proposed := toEntityPricing(req)
	return uc.transition(ctx, cmd, entity.EventListingPricingUpdate, func(l *entity.Listing, now time.Time) (any, error) {
		validated, err := pricing.ValidateAndApply(l.BasePrice, proposed, now)
		if err != nil {
			return nil, err
		}
		l.Pricing = validated
		return toPricingResponse(l.BasePrice, validated, now), nil
	})
}

// mutateFunc aplica la transición sobre la publicación cargada y devuelve el payload del evento.
// Un payload nil sin error indica que no hubo cambio.
type mutateFunc func(l *entity.Listing, now time.Time) (any, error)

func (uc *WorkflowUseCase) transition(ctx context.Context, cmd Command, eventType string, mutate mutateFunc) (*dto.ListingResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	var (
		result  *entity.Listing
		changed bool
		now     = uc.clock.Now()
	)
	err := uc.tx.RunCatalog(ctx, func(listings repository.ListingRepository, events repository.ListingEventRepository) error {
		l, err := listings.GetByID(ctx, cmd.ListingID)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.ErrNotFound
		}
		if cmd.ExpectedVersion != nil && *cmd.ExpectedVersion != l.Version {
			return domain.ErrConcurrentModification
		}

		payload, err := mutate(l, now)
		if err != nil {
			return err
		}
		result = l
		if payload == nil {
			return nil
		}

		prev := l.Version
		l.Version++
		l.UpdatedAt = now
		if err := listings.Update(ctx, l, prev); err != nil {
			return err
		}
		ev, err := newEvent(l, eventType, cmd.Actor, now, payload)
		if err != nil {
			return err
		}
		changed = true
		return events.Create(ctx, ev)
	})
	if err != nil {
		uc.logFailure(err, cmd.ListingID, eventType)
		return nil, err
	}
	if changed {
		uc.log.Info().
			Str("listing_id", result.ID).
			Str("event", eventType).
			Int64("version", result.Version).
			Str("actor", cmd.Actor).
			Msg("transición aplicada")
	}
	return toListingResponse(result, now), nil
}

func (uc *WorkflowUseCase) logFailure(err error, listingID, eventType string) {
	ev := uc.log.Warn()
	if errors.Is(err, domain.ErrCollaboratorUnavailable) {
		ev = uc.log.Error()
	}
	ev.Err(err).Str("listing_id", listingID).Str("event", eventType).Msg("transición no aplicada")
}

type statusPayload struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Reason     string `json:"reason,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

type assetPayload struct {
	AssetID    string `json:"asset_id"`
	Verified   bool   `json:"verified"`
	Reason     string `json:"reason,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

type submittedPayload struct {
	VendorID string `json:"vendor_id"`
	Assets   int    `json:"assets"`
}

// newEvent arma el evento de la transición; un payload que no serializa aborta la transacción.
func newEvent(l *entity.Listing, eventType, actor string, now time.Time, payload any) (*entity.ListingEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serializar evento %s: %w", eventType, err)
	}
	return &entity.ListingEvent{
		ID:        uuid.New().String(),
		ListingID: l.ID,
		Type:      eventType,
		Version:   l.Version,
		Payload:   raw,
		Actor:     actor,
		CreatedAt: now,
	}, nil
}
