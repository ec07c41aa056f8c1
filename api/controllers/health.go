package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/chackchack-dev/chackchack-backend/api/responses"
	pkgerrors "github.com/chackchack-dev/chackchack-backend/pkg/errors"
	"github.com/chackchack-dev/chackchack-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves liveness and readiness probes.
type HealthController struct {
	db    pinger
	redis pinger
	logg  *logger.Logger
}

func NewHealthController(db pinger, redis pinger, logg *logger.Logger) *HealthController {
	return &HealthController{db: db, redis: redis, logg: logg}
}

// Live reports process liveness only.
func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

// Ready checks the backing stores. Redis is optional; it is only probed when
// configured.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok"}

	if err := c.db.Ping(ctx); err != nil {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
		return
	}

	if c.redis != nil {
		if err := c.redis.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), c.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
			return
		}
		checks["redis"] = "ok"
	}

	responses.WriteSuccess(w, checks)
}
