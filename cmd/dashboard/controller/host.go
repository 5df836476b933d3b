package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/naiba/hostdeck/model"
	"github.com/naiba/hostdeck/pkg/dragdrop"
	"github.com/naiba/hostdeck/service/singleton"
)

func hostList() model.HostListResponse {
	return model.HostListResponse{
		Hosts:       singleton.Hosts.Sorted(),
		SortableIDs: singleton.Hosts.SortableIDs(),
		Sync:        singleton.Syncer.Status(),
	}
}

func paramID(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// List hosts
// @Summary List hosts in display order
// @Router /hosts [get]
func listHosts(c *gin.Context) (model.HostListResponse, error) {
	return hostList(), nil
}

// Create host
// @Summary Create host, it is written to the panel after the debounce window
// @Param body body model.HostForm true "HostForm"
// @Router /hosts [post]
func createHost(c *gin.Context) (model.HostListResponse, error) {
	var hf model.HostForm
	if err := c.ShouldBindJSON(&hf); err != nil {
		return model.HostListResponse{}, err
	}
	singleton.Hosts.Upsert(hf, nil)
	return hostList(), nil
}

// Edit host
// @Summary Edit host, an unknown id creates a new host
// @Param id path uint true "Host ID"
// @Param body body model.HostForm true "HostForm"
// @Router /hosts/{id} [patch]
func updateHost(c *gin.Context) (model.HostListResponse, error) {
	id, err := paramID(c)
	if err != nil {
		return model.HostListResponse{}, err
	}
	var hf model.HostForm
	if err := c.ShouldBindJSON(&hf); err != nil {
		return model.HostListResponse{}, err
	}
	singleton.Hosts.Upsert(hf, &id)
	return hostList(), nil
}

// Delete host on the panel
// @Summary Delete host on the panel right away and reload the list
// @Param id path uint true "Host ID"
// @Router /hosts/{id} [delete]
func deleteHost(c *gin.Context) (model.HostListResponse, error) {
	id, err := paramID(c)
	if err != nil {
		return model.HostListResponse{}, err
	}
	if err := singleton.DeleteHost(c.Request.Context(), id); err != nil {
		return model.HostListResponse{}, err
	}
	return hostList(), nil
}

// @Router /hosts/{id}/toggle [post]
func toggleHost(c *gin.Context) (model.HostListResponse, error) {
	id, err := paramID(c)
	if err != nil {
		return model.HostListResponse{}, err
	}
	singleton.Hosts.ToggleDisabled(id)
	return hostList(), nil
}

// @Router /hosts/{id}/duplicate [post]
func duplicateHost(c *gin.Context) (model.HostListResponse, error) {
	id, err := paramID(c)
	if err != nil {
		return model.HostListResponse{}, err
	}
	singleton.Hosts.Duplicate(id)
	return hostList(), nil
}

// Remove host locally
// @Summary Remove host from the list, the panel learns about it with the next write
// @Router /hosts/{id}/remove [post]
func removeHost(c *gin.Context) (model.HostListResponse, error) {
	id, err := paramID(c)
	if err != nil {
		return model.HostListResponse{}, err
	}
	singleton.Hosts.DeleteByID(id)
	return hostList(), nil
}

// @Param body body model.ReorderForm true "ReorderForm"
// @Router /hosts/reorder [post]
func reorderHosts(c *gin.Context) (model.HostListResponse, error) {
	var rf model.ReorderForm
	if err := c.ShouldBindJSON(&rf); err != nil {
		return model.HostListResponse{}, err
	}
	singleton.Hosts.Reorder(*rf.SourceID, *rf.TargetID)
	return hostList(), nil
}

// Drop dragged host
// @Summary Finish a drag gesture, the drop target is resolved on the server
// @Param body body model.DropForm true "DropForm"
// @Router /hosts/drop [post]
func dropHost(c *gin.Context) (model.HostListResponse, error) {
	var df model.DropForm
	if err := c.ShouldBindJSON(&df); err != nil {
		return model.HostListResponse{}, err
	}
	var resolver dragdrop.Resolver = dragdrop.ClosestCenter{}
	if df.Key != dragdrop.KeyNone {
		resolver = dragdrop.Keyboard{Key: df.Key}
	}
	dragdrop.Apply(resolver, singleton.Hosts, df.Pointer, df.Layouts)
	return hostList(), nil
}

// @Router /hosts/reload [post]
func reloadHosts(c *gin.Context) (model.HostListResponse, error) {
	if err := singleton.ReloadHosts(c.Request.Context()); err != nil {
		return model.HostListResponse{}, err
	}
	return hostList(), nil
}
