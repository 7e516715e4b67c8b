package entropy

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClient_EmptyKey(t *testing.T) {
	c := NewClient("")
	assert.Nil(t, c)
	assert.False(t, c.Enabled())
	assert.GreaterOrEqual(t, c.Seed(), int64(0))
}

func TestRoll_Deterministic(t *testing.T) {
	assert.Equal(t, Roll(42), Roll(42))
	assert.NotEqual(t, Roll(42), Roll(43))
	assert.NotEqual(t, int64(42), Roll(42))
	assert.GreaterOrEqual(t, Roll(-7), int64(0))
}

func TestFresh_NonNegative(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.GreaterOrEqual(t, Fresh(), int64(0))
	}
}

func TestClient_SeedFromPool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","result":{"random":{"data":[11,22]}},"id":1}`)
	}))
	defer srv.Close()

	c := NewClient("key")
	c.endpoint = srv.URL
	assert.True(t, c.Enabled())
	assert.Equal(t, int64(11), c.Seed())
	assert.Equal(t, int64(22), c.Seed())
}

func TestClient_FallbackOnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","error":{"message":"bad key"},"id":1}`)
	}))
	defer srv.Close()

	c := NewClient("key")
	c.endpoint = srv.URL
	assert.GreaterOrEqual(t, c.Seed(), int64(0))
}
