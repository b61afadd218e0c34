package jobs_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsclient/fsclient-go/internal/config"
	"github.com/fsclient/fsclient-go/internal/jobs"
	"github.com/fsclient/fsclient-go/internal/mirror"
	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/network"
)

type fakeJobContext struct {
	cfg       *config.Config
	resolvers map[string]*mirror.Resolver
	jobMgr    *jobs.JobManager
}

func (f *fakeJobContext) Config() *config.Config                 { return f.cfg }
func (f *fakeJobContext) Resolvers() map[string]*mirror.Resolver { return f.resolvers }
func (f *fakeJobContext) JobManager() *jobs.JobManager           { return f.jobMgr }

func TestMirrorProbeJob(t *testing.T) {
	var probes atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	base, err := url.Parse(server.URL)
	require.NoError(t, err)

	client := network.New(10 * time.Second)
	resolver := mirror.New(models.NewSite("test"), client, []*url.URL{base}, "/")

	// Warm the cache, then confirm the job invalidates and re-probes.
	_, err = resolver.Get(t.Context())
	require.NoError(t, err)
	warm := probes.Load()

	ctx := &fakeJobContext{
		cfg:       &config.Config{ProbeInterval: 30},
		resolvers: map[string]*mirror.Resolver{"test": resolver},
	}
	mgr := jobs.NewManager(ctx)
	ctx.jobMgr = mgr
	jobs.RegisterJobs(mgr)

	require.NoError(t, mgr.RunJob(jobs.MirrorProbeJobID, ctx))

	assert.Eventually(t, func() bool {
		return probes.Load() > warm
	}, 2*time.Second, 10*time.Millisecond, "expected the job to probe the mirror again")
}
