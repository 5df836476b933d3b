package singleton

import (
	"log"
	"time"

	"github.com/naiba/hostdeck/model"
	"github.com/naiba/hostdeck/service/hostsync"
)

// RecordSyncHistory 记录一次同步结果
func RecordSyncHistory(res hostsync.Result) {
	h := model.SyncHistory{
		CreatedAt: res.StartedAt,
		HostCount: res.Hosts,
		Success:   res.Err == nil,
		Elapsed:   res.Elapsed.Milliseconds(),
	}
	if res.Err != nil {
		h.Error = res.Err.Error()
	}
	if err := DB.Create(&h).Error; err != nil {
		log.Printf("HOSTDECK>> 同步记录入库失败: %v", err)
	}
}

func ListSyncHistory(limit int) ([]model.SyncHistory, error) {
	var list []model.SyncHistory
	err := DB.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// CleanSyncHistory 清理过期的同步记录
func CleanSyncHistory() {
	before := time.Now().AddDate(0, 0, -Conf.HistoryRetention)
	if err := DB.Where("created_at < ?", before).Delete(&model.SyncHistory{}).Error; err != nil {
		log.Printf("HOSTDECK>> 清理同步记录失败: %v", err)
	}
}
