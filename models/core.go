package models

import (
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/GrainArc/PanelForge/config"
)

var DB *gorm.DB

// InitDB 初始化SQLite主数据库
func InitDB() {
	if err := os.MkdirAll(config.Storage, os.ModePerm); err != nil {
		log.Fatalf("创建存储目录失败: %v", err)
	}
	dbPath := filepath.Join(config.Storage, config.Dbname)
	log.Printf("数据库路径: %s", dbPath)

	var err error
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	DB.NamingStrategy = schema.NamingStrategy{
		SingularTable: true,
	}

	if err := migrateAllTables(DB); err != nil {
		log.Printf("Failed to migrate tables: %v", err)
	}
}

// migrateAllTables 批量迁移所有表
func migrateAllTables(db *gorm.DB) error {
	tables := []interface{}{
		&Shell{},
		&Panel{},
		&PaveRecord{},
		&CheckRecord{},
	}
	return db.AutoMigrate(tables...)
}

func GetDB() *gorm.DB {
	return DB
}
