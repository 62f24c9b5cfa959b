package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "rbc:", nil)
	ctx := context.Background()

	var out map[string]int
	err := repo.Get(ctx, "dash:overview", &out)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.NoError(t, repo.Set(ctx, "dash:overview", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "dash:*"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
	assert.Equal(t, "rbc:dash:overview", repo.key("dash:overview"))
}
