package methods

import (
	"fmt"
	"os"
	"path/filepath"
)

// DeleteFiles 删除文件夹内的所有文件
func DeleteFiles(dirPath string) error {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("读取目录失败: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(dirPath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("删除 %s 失败: %w", path, err)
		}
	}

	return nil
}

// CleanupDir 删除整个临时目录，失败只记日志不上抛
func CleanupDir(dirPath string) {
	if err := os.RemoveAll(dirPath); err != nil {
		fmt.Println("清理临时目录失败:", err)
	}
}
