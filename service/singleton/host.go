package singleton

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/naiba/hostdeck/model"
	"github.com/naiba/hostdeck/pkg/hostlist"
	"github.com/naiba/hostdeck/pkg/panel"
	"github.com/naiba/hostdeck/service/hostsync"
)

var (
	Hosts  *hostlist.Store
	Syncer *hostsync.Syncer
	Panel  *panel.Client

	hostSubscribers   = make(map[chan struct{}]struct{})
	hostSubscriberMux sync.Mutex

	reloadGroup singleflight.Group
)

// InitHosts 初始化 host 列表、面板客户端与延迟同步
func InitHosts() {
	Panel = panel.New(panel.Options{
		BaseURL:            Conf.Panel.BaseURL,
		Username:           Conf.Panel.Username,
		Password:           Conf.Panel.Password,
		Timeout:            Conf.Panel.Timeout,
		InsecureSkipVerify: Conf.Panel.InsecureSkipVerify,
	}, Cache)
	Hosts = hostlist.New()
	Syncer = hostsync.New(Panel, Hosts, hostsync.Options{
		Window:    Conf.Sync.Debounce,
		Timeout:   Conf.Sync.Timeout,
		OnFlushed: RecordSyncHistory,
	})
	Hosts.OnChange(func() {
		Syncer.Schedule()
		notifyHostSubscribers()
	})
	Conf.OnChange(func(c *model.Config) {
		Syncer.SetWindow(c.Sync.Debounce)
	})
}

func loadHosts() {
	if err := ReloadHosts(context.Background()); err != nil {
		log.Printf("HOSTDECK>> 从面板加载 host 列表失败: %v", err)
	}
}

// ReloadHosts 从面板重新拉取完整列表并替换本地列表，并发调用只请求一次
func ReloadHosts(ctx context.Context) error {
	_, err, _ := reloadGroup.Do("hosts", func() (any, error) {
		hosts, err := Panel.GetHosts(ctx)
		if err != nil {
			return nil, err
		}
		Hosts.Load(hosts)
		notifyHostSubscribers()
		return nil, nil
	})
	return err
}

// DeleteHost 直接删除面板上的 host，成功后重新拉取列表
func DeleteHost(ctx context.Context, id uint64) error {
	if err := Panel.DeleteHost(ctx, id); err != nil {
		return err
	}
	return ReloadHosts(ctx)
}

// CloseHosts 取消尚未发出的同步
func CloseHosts() {
	if Syncer != nil {
		Syncer.Close()
	}
}

// SubscribeHosts returns a channel that receives a value whenever the host
// list changed. Bursts collapse into a single pending value.
func SubscribeHosts() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	hostSubscriberMux.Lock()
	hostSubscribers[ch] = struct{}{}
	hostSubscriberMux.Unlock()
	return ch, func() {
		hostSubscriberMux.Lock()
		delete(hostSubscribers, ch)
		hostSubscriberMux.Unlock()
	}
}

func notifyHostSubscribers() {
	hostSubscriberMux.Lock()
	defer hostSubscriberMux.Unlock()
	for ch := range hostSubscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
