package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextWithActivityInheritsBlankFields(t *testing.T) {
	ctx := ContextWithActivity(context.Background(), ActivityContext{ActorID: "gateway", TenantID: "shop-1"})
	ctx = ContextWithActivity(ctx, ActivityContext{UserID: "u-42"})

	meta := ActivityFromContext(ctx)
	assert.Equal(t, ActivityContext{ActorID: "gateway", UserID: "u-42", TenantID: "shop-1"}, meta)
	assert.Equal(t, "gateway", meta.Who())
}

func TestContextWithActivityEmptyKeepsContext(t *testing.T) {
	base := context.Background()
	assert.Equal(t, base, ContextWithActivity(base, ActivityContext{}))
	assert.True(t, ActivityFromContext(base).Empty())
	var missing context.Context
	assert.True(t, ActivityFromContext(missing).Empty())
}

func TestActivityWhoFallsBackToUser(t *testing.T) {
	assert.Equal(t, "u-1", ActivityContext{UserID: "u-1"}.Who())
	assert.Empty(t, ActivityContext{}.Who())
}
