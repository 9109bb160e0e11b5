package rates

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/remitlite/remitlite/internal/validation"
)

// Handler exposes currency and exchange rate endpoints.
type Handler struct {
	provider *Provider
	now      func() time.Time
}

// NewHandler constructs a rates HTTP handler.
func NewHandler(provider *Provider) *Handler {
	return &Handler{provider: provider, now: time.Now}
}

type convertRequest struct {
	Amount       float64 `json:"amount" validate:"gt=0"`
	FromCurrency string  `json:"fromCurrency" validate:"required,len=3"`
	ToCurrency   string  `json:"toCurrency" validate:"required,len=3"`
}

type convertResponse struct {
	Quote
	Timestamp string `json:"timestamp"`
}

// Currencies lists the supported currencies.
func (h *Handler) Currencies(c *fiber.Ctx) error {
	return c.JSON(SupportedCurrencies)
}

// Convert prices an amount in another currency.
func (h *Handler) Convert(c *fiber.Ctx) error {
	var req convertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid JSON body")
	}
	if err := validation.Struct(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	q := h.provider.Resolve(c.UserContext(), req.FromCurrency, req.ToCurrency, req.Amount)
	return c.JSON(convertResponse{Quote: q, Timestamp: h.now().UTC().Format(time.RFC3339)})
}

// Rates returns the rate set for ?base= (USD when omitted).
func (h *Handler) Rates(c *fiber.Ctx) error {
	base := NormalizeCode(c.Query("base", "USD"))
	if len(base) != 3 {
		return fiber.NewError(http.StatusBadRequest, validation.ErrInvalid.Error()+": base must be exactly 3 characters")
	}
	set, source := h.provider.Rates(c.UserContext(), base)
	return c.JSON(fiber.Map{
		"base":   base,
		"rates":  set,
		"source": source,
		"date":   h.now().UTC().Format(time.DateOnly),
	})
}

var overviewBases = []string{"USD", "EUR", "GBP"}

// ExchangeRates returns the major bases in one payload. The reported source
// is the weakest provenance among them.
func (h *Handler) ExchangeRates(c *fiber.Ctx) error {
	out := make(map[string]RateSet, len(overviewBases))
	overall := SourceLive
	for _, base := range overviewBases {
		set, source := h.provider.Rates(c.UserContext(), base)
		out[base] = set
		if weaker(source, overall) {
			overall = source
		}
	}
	return c.JSON(fiber.Map{
		"rates":     out,
		"source":    overall,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

func weaker(a, b Source) bool {
	rank := func(s Source) int {
		switch s {
		case SourceLive:
			return 0
		case SourceCache:
			return 1
		default:
			return 2
		}
	}
	return rank(a) > rank(b)
}
