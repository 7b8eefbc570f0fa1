// Package bus provides cross-process distribution for SSE messages. The
// redis implementation is optional; without it the hub stays in-process.
package bus

import (
	"github.com/yungbote/mycoach-backend/internal/realtime"
)

type Bus = realtime.Bus
