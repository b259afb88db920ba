package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chromalens/api/analysis"
)

func TestServerTimeouts(t *testing.T) {
	cfg := Config{Analysis: analysis.DefaultOptions()}
	read, write := cfg.serverTimeouts()
	assert.Equal(t, baseReadTimeout, read)
	assert.Equal(t, read+baseWriteTimeout+2*unboundedAnalysis, write)

	cfg.Analysis.TimeBudget = 5 * time.Second
	cfg.MaxImageBytes = 10 << 20
	read, write = cfg.serverTimeouts()
	assert.Greater(t, read, baseReadTimeout)
	assert.Equal(t, read+baseWriteTimeout+10*time.Second, write)

	cfg.Analysis.TimeBudget = time.Minute
	_, slower := cfg.serverTimeouts()
	assert.Greater(t, slower, write)
}

func TestNewServer(t *testing.T) {
	app := newTestApp()
	app.Config.HTTPPort = ":0"
	srv := app.newServer(http.NewServeMux())
	read, write := app.Config.serverTimeouts()
	assert.Equal(t, ":0", srv.Addr)
	assert.Equal(t, read, srv.ReadTimeout)
	assert.Equal(t, write, srv.WriteTimeout)
	assert.NotNil(t, srv.Handler)
}
