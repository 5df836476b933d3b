package singleton

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/naiba/hostdeck/model"
)

var Cron *cron.Cron

// loadCronTasks 注册内置定时任务
func loadCronTasks() {
	Cron = cron.New(cron.WithSeconds())
	if _, err := Cron.AddFunc("0 30 3 * * *", CleanSyncHistory); err != nil {
		panic(err)
	}
	if Conf.ReloadScheduler != "" {
		if _, err := Cron.AddFunc(Conf.ReloadScheduler, ReloadHostsIfIdle); err != nil {
			panic(err)
		}
	}
	Cron.Start()
}

// ReloadHostsIfIdle 仅在没有待同步修改时从面板刷新。拉取期间本地有任何修改，
// 拉回的列表会被丢弃，避免覆盖用户尚未写回的编辑
func ReloadHostsIfIdle() {
	// 先取版本再看状态：修改在同一把锁内递增版本并安排同步
	version := Hosts.Version()
	if Syncer.State() != model.SyncStateIdle {
		return
	}
	hosts, err := Panel.GetHosts(context.Background())
	if err != nil {
		log.Printf("HOSTDECK>> 从面板加载 host 列表失败: %v", err)
		return
	}
	if !Hosts.LoadIfUnchanged(hosts, version) {
		return
	}
	notifyHostSubscribers()
}
