package singleton

import (
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/naiba/hostdeck/model"
)

var Version = "v0.1.0"

var (
	Conf  *model.Config
	Cache *cache.Cache
	DB    *gorm.DB
)

// Init 初始化singleton
func Init() {
	Conf = &model.Config{}
	Cache = cache.New(5*time.Minute, 10*time.Minute)
}

// LoadSingleton 加载子服务并执行
func LoadSingleton() {
	loadHosts()     // 从面板加载 host 列表
	loadCronTasks() // 加载定时任务
}

// InitConfigFromPath 从给出的文件路径中加载配置
func InitConfigFromPath(path string) {
	err := Conf.Read(path)
	if err != nil {
		panic(err)
	}
}

// InitDBFromPath 从给出的文件路径中加载数据库
func InitDBFromPath(path string) {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	if Conf.Debug {
		DB = DB.Debug()
	}
	err = DB.AutoMigrate(model.SyncHistory{}, model.WAF{})
	if err != nil {
		panic(err)
	}
}
