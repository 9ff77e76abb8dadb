package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, ClientIP(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)

	fixed := time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)
	ctx = WithRequestID(ctx, "req-42")
	ctx = WithClientMetadata(ctx, "203.0.113.7", "agendactl/1.0")
	ctx = WithTime(ctx, fixed)

	assert.Equal(t, "req-42", RequestID(ctx))
	assert.Equal(t, "203.0.113.7", ClientIP(ctx))
	assert.Equal(t, "agendactl/1.0", UserAgent(ctx))
	assert.Equal(t, fixed, Now(ctx))
}
