package controller

import (
	"net/netip"

	"github.com/gin-gonic/gin"

	"github.com/naiba/hostdeck/model"
	"github.com/naiba/hostdeck/service/singleton"
)

// List blocked IP
// @Summary Source IPs that sent a wrong token, with their back-off state
// @Router /waf [get]
func listBlockedIP(c *gin.Context) ([]model.WAF, error) {
	var list []model.WAF
	if err := singleton.DB.Order("last_block_timestamp DESC").Find(&list).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return list, nil
}

// Unblock IP
// @Router /waf/{ip} [delete]
func unblockIP(c *gin.Context) (any, error) {
	addr, err := netip.ParseAddr(c.Param("ip"))
	if err != nil {
		return nil, err
	}
	if err := model.UnblockIP(singleton.DB, addr.String()); err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}
