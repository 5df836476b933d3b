package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ory/graceful"
	flag "github.com/spf13/pflag"

	"github.com/naiba/hostdeck/cmd/dashboard/controller"
	"github.com/naiba/hostdeck/service/singleton"
)

type DashboardCliParam struct {
	Version          bool   // 当前版本号
	ConfigFile       string // 配置文件路径
	DatebaseLocation string // Sqlite3 数据库文件路径
}

var dashboardCliParam DashboardCliParam

func init() {
	flag.CommandLine.ParseErrorsWhitelist.UnknownFlags = true
	flag.BoolVarP(&dashboardCliParam.Version, "version", "v", false, "查看当前版本号")
	flag.StringVarP(&dashboardCliParam.ConfigFile, "config", "c", "data/config.yaml", "配置文件路径")
	flag.StringVarP(&dashboardCliParam.DatebaseLocation, "db", "d", "data/sqlite.db", "Sqlite3数据库文件路径")
	flag.Parse()
}

func main() {
	if dashboardCliParam.Version {
		fmt.Println(singleton.Version)
		os.Exit(0)
	}

	// 初始化 dao 包
	singleton.Init()
	singleton.InitConfigFromPath(dashboardCliParam.ConfigFile)
	singleton.InitDBFromPath(dashboardCliParam.DatebaseLocation)
	singleton.InitHosts()
	singleton.LoadSingleton()

	srv := graceful.WithDefaults(controller.ServeWeb())
	log.Printf("HOSTDECK>> 控制台运行于 %s", srv.Addr)

	if err := graceful.Graceful(srv.ListenAndServe, func(c context.Context) error {
		log.Println("HOSTDECK>> Graceful::START")
		singleton.Cron.Stop()
		// 未到期的同步不再发出，已发出的请求等待其自然结束
		singleton.CloseHosts()
		log.Println("HOSTDECK>> Graceful::END")
		return srv.Shutdown(c)
	}); err != nil {
		log.Printf("HOSTDECK>> ERROR: %v", err)
	}
}
