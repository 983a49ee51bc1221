package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalog-backoffice/internal/application/dto"
)

const dateOnly = "2006-01-02"

// parseIfMatch lee la versión esperada del header If-Match ("5", "\"5\"" o W/"5").
// Sin header devuelve nil: la operación no exige versión.
func parseIfMatch(c *fiber.Ctx) (*int64, error) {
	raw := strings.TrimSpace(c.Get(fiber.HeaderIfMatch))
	if raw == "" || raw == "*" {
		return nil, nil
	}
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("If-Match inválido: %q", c.Get(fiber.HeaderIfMatch))
	}
	return &v, nil
}

func setETag(c *fiber.Ctx, version int64) {
	c.Set(fiber.HeaderETag, `"`+strconv.FormatInt(version, 10)+`"`)
}

// parseTimeQuery acepta RFC3339 o YYYY-MM-DD. En un límite superior con solo fecha
// se toma el último instante de ese día, porque los rangos son inclusivos.
func parseTimeQuery(c *fiber.Ctx, key string, upper bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%s debe ser RFC3339 o YYYY-MM-DD", key)
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func parsePage(c *fiber.Ctx) (dto.PageRequest, error) {
	var p dto.PageRequest
	if err := c.QueryParser(&p); err != nil {
		return p, fmt.Errorf("page/page_size inválidos")
	}
	if p.Page < 0 || p.PageSize < 0 {
		return p, fmt.Errorf("page/page_size no pueden ser negativos")
	}
	return p, nil
}
