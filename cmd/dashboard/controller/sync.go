package controller

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/naiba/hostdeck/model"
	"github.com/naiba/hostdeck/service/singleton"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// @Router /sync [get]
func getSyncStatus(c *gin.Context) (model.SyncStatus, error) {
	return singleton.Syncer.Status(), nil
}

// List sync history
// @Summary Recent writes of the host list to the panel, newest first
// @Param limit query uint false "max rows"
// @Router /sync/history [get]
func listSyncHistory(c *gin.Context) ([]model.SyncHistory, error) {
	limit := defaultHistoryLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid limit %q", s)
		}
		limit = min(n, maxHistoryLimit)
	}
	list, err := singleton.ListSyncHistory(limit)
	if err != nil {
		return nil, newGormError("%v", err)
	}
	return list, nil
}
