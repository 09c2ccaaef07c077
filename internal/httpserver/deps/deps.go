package deps

import (
	"time"

	"github.com/ldrouet/marque/internal/logger"
	"github.com/ldrouet/marque/internal/session"
	"github.com/ldrouet/marque/internal/storage"
	"github.com/ldrouet/marque/internal/store"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Stores   *store.Manager    // per-user working sets
	Sessions *session.Store    // token -> user ID, redis-backed
	Users    storage.UserStore // account persistence

	AuthRateBurst  int    // burst size per IP on the auth endpoints
	AuthRatePerMin int    // sustained auth attempts per IP per minute
	SecureCookies  bool   // mark session cookies Secure (behind TLS)
	CORSOrigin     string // allowed origin for browser clients ("" = same-origin only)
	TrustProxy     bool   // true if running behind a trusted reverse proxy
}
