package components

import (
	"deskhive/internal/handler"
	"deskhive/internal/handler/api"
	"deskhive/internal/handler/middleware"
	"deskhive/internal/pkg/jwt"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func(svc *jwt.Service) middleware.TokenValidator { return svc },
		api.NewBookingHandler,
		api.NewReviewHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
