package singleton

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naiba/hostdeck/model"
	"github.com/naiba/hostdeck/service/hostsync"
)

func setupSingleton(t *testing.T, panelHandler http.Handler) {
	t.Helper()
	Init()
	srv := httptest.NewServer(panelHandler)
	t.Cleanup(srv.Close)
	Conf.Panel = model.PanelConfig{BaseURL: srv.URL, Username: "admin", Password: "pw", Timeout: time.Second}
	Conf.Sync = model.SyncConfig{Debounce: time.Hour, Timeout: time.Second}
	Conf.HistoryRetention = 7
	InitDBFromPath(filepath.Join(t.TempDir(), "hostdeck.sqlite"))
	InitHosts()
	t.Cleanup(CloseHosts)
}

func fakePanel(hosts *string, deleted *[]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/admin/token":
			io.WriteString(w, `{"access_token":"tk"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/hosts":
			io.WriteString(w, *hosts)
		case r.Method == http.MethodDelete:
			*deleted = append(*deleted, r.URL.Path)
			*hosts = `[{"id":1,"priority":0,"remark":"a","address":"a","inbound_tag":"t"}]`
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestReloadAndDeleteHost(t *testing.T) {
	hosts := `[{"id":1,"priority":0,"remark":"a","address":"a","inbound_tag":"t"},{"id":2,"priority":1,"remark":"b","address":"b","inbound_tag":"t"}]`
	var deleted []string
	setupSingleton(t, fakePanel(&hosts, &deleted))

	ch, cancel := SubscribeHosts()
	defer cancel()

	require.NoError(t, ReloadHosts(context.Background()))
	assert.Equal(t, 2, Hosts.Len())
	assert.Equal(t, model.SyncStateIdle, Syncer.State(), "loading must not schedule a write")
	select {
	case <-ch:
	default:
		t.Fatal("subscribers must be told about a reload")
	}

	require.NoError(t, DeleteHost(context.Background(), 2))
	assert.Equal(t, []string{"/api/host/2"}, deleted)
	assert.Equal(t, 1, Hosts.Len())
}

func TestMutationSchedulesAndNotifies(t *testing.T) {
	hosts := `[{"id":1,"priority":0,"remark":"a","address":"a","inbound_tag":"t"}]`
	setupSingleton(t, fakePanel(&hosts, new([]string)))
	require.NoError(t, ReloadHosts(context.Background()))

	ch, cancel := SubscribeHosts()
	defer cancel()

	assert.True(t, Hosts.ToggleDisabled(1))
	assert.Equal(t, model.SyncStatePending, Syncer.State())
	select {
	case <-ch:
	default:
		t.Fatal("subscribers must be told about a mutation")
	}

	ReloadHostsIfIdle()
	assert.True(t, Hosts.Snapshot()[0].IsDisabled, "pending edits must not be overwritten")
}

func TestSyncHistory(t *testing.T) {
	setupSingleton(t, http.NotFoundHandler())

	now := time.Now()
	RecordSyncHistory(hostsync.Result{Hosts: 3, StartedAt: now.AddDate(0, 0, -30), Elapsed: 20 * time.Millisecond})
	RecordSyncHistory(hostsync.Result{Hosts: 4, StartedAt: now.Add(-time.Minute), Err: errors.New("boom")})
	RecordSyncHistory(hostsync.Result{Hosts: 5, StartedAt: now})

	list, err := ListSyncHistory(10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 5, list[0].HostCount)
	assert.False(t, list[1].Success)
	assert.Equal(t, "boom", list[1].Error)
	assert.EqualValues(t, 20, list[2].Elapsed)

	CleanSyncHistory()
	list, err = ListSyncHistory(10)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestIdleReloadKeepsEditsMadeDuringFetch(t *testing.T) {
	const list = `[{"id":1,"priority":0,"remark":"a","address":"a","inbound_tag":"t","is_disabled":false}]`
	var gets atomic.Int32
	setupSingleton(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/admin/token":
			io.WriteString(w, `{"access_token":"tk"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/hosts":
			if gets.Add(1) == 2 {
				// 用户在拉取返回之前切换了状态
				Hosts.ToggleDisabled(1)
			}
			io.WriteString(w, list)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	require.NoError(t, ReloadHosts(context.Background()))

	ReloadHostsIfIdle()
	assert.EqualValues(t, 2, gets.Load())
	assert.True(t, Hosts.Snapshot()[0].IsDisabled)
	assert.Equal(t, model.SyncStatePending, Syncer.State())

	// 没有修改时正常刷新
	Hosts.Load(nil)
	Syncer.Close()
	ReloadHostsIfIdle()
	assert.EqualValues(t, 3, gets.Load())
	assert.Equal(t, 1, Hosts.Len())
}
