package adapters

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/toyz/routegen/pkg/axon"
)

// FiberAdapter wraps a Fiber router to implement axon.Router
type FiberAdapter struct {
	router fiber.Router
}

// NewFiberAdapter mounts onto a Fiber app or group
func NewFiberAdapter(router fiber.Router) *FiberAdapter {
	return &FiberAdapter{router: router}
}

// NewDefaultFiberAdapter creates a Fiber app that answers unhandled errors
// with the same JSON body as route handlers, plus panic recovery
func NewDefaultFiberAdapter() (*FiberAdapter, *fiber.App) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(axon.NewHTTPError(e.Code, e.Message))
			}
			code, body := axon.ErrorResponse(err)
			return c.Status(code).JSON(body)
		},
	})
	app.Use(recover.New())

	return NewFiberAdapter(app), app
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// Handle registers a handler with the Fiber router
func (fa *FiberAdapter) Handle(method string, path axon.AxonPath, handler axon.HandlerFunc) error {
	fiberPath, err := path.Format(func(name string) string { return ":" + name }, "*")
	if err != nil {
		return err
	}
	fa.router.Add(method, fiberPath, convertAxonHandlerToFiber(handler))
	return nil
}

// convertAxonHandlerToFiber converts an Axon handler to a Fiber handler
func convertAxonHandlerToFiber(handler axon.HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		axonCtx := &FiberRequestContext{
			ctx:       c,
			requestID: axon.RequestIDFrom(c.Get(axon.RequestIDHeader)),
		}
		c.Set(axon.RequestIDHeader, axonCtx.requestID)

		if err := handler(axonCtx); err != nil {
			code, body := axon.ErrorResponse(err)
			return c.Status(code).JSON(body)
		}
		return nil
	}
}

// FiberRequestContext wraps fiber.Ctx to implement axon.RequestContext
type FiberRequestContext struct {
	ctx       *fiber.Ctx
	requestID string
}

func (frc *FiberRequestContext) Context() context.Context {
	return frc.ctx.UserContext()
}

func (frc *FiberRequestContext) RequestID() string {
	return frc.requestID
}

func (frc *FiberRequestContext) Method() string {
	return frc.ctx.Method()
}

func (frc *FiberRequestContext) Path() string {
	return frc.ctx.Path()
}

func (frc *FiberRequestContext) Param(name string) string {
	return frc.ctx.Params(name)
}

func (frc *FiberRequestContext) QueryParam(name string) string {
	return frc.ctx.Query(name)
}

func (frc *FiberRequestContext) Header(key string) string {
	return frc.ctx.Get(key)
}

func (frc *FiberRequestContext) Bind(i interface{}) error {
	if err := frc.ctx.BodyParser(i); err != nil {
		return axon.ErrBadRequest(err.Error())
	}
	return nil
}

func (frc *FiberRequestContext) SetHeader(key, value string) {
	frc.ctx.Set(key, value)
}

func (frc *FiberRequestContext) JSON(code int, i interface{}) error {
	return frc.ctx.Status(code).JSON(i)
}

func (frc *FiberRequestContext) String(code int, s string) error {
	return frc.ctx.Status(code).SendString(s)
}

func (frc *FiberRequestContext) NoContent(code int) error {
	frc.ctx.Status(code)
	return nil
}
