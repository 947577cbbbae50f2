package tenant

import (
	"github.com/gofiber/fiber/v2"
)

type fiberRequest struct {
	ctx *fiber.Ctx
}

func (r fiberRequest) Header(key string) string {
	return r.ctx.Get(key)
}

func (r fiberRequest) Hostname() string {
	return r.ctx.Hostname()
}

// Middleware resolves the active tenant for each request and binds it
// to the request's user context. With multitenancy disabled it is a
// no-op; persistence filtering then stays off as well.
func Middleware(chain *Chain, enabled bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !enabled {
			return ctx.Next()
		}

		tenantId, ok, err := chain.Resolve(ctx.UserContext(), fiberRequest{ctx: ctx})
		if err != nil {
			return err
		}
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "tenant could not be resolved for request")
		}

		ctx.SetUserContext(WithTenant(ctx.UserContext(), tenantId))
		ctx.Locals("tenant_id", tenantId)
		return ctx.Next()
	}
}
