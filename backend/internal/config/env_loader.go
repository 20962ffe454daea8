package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var (
	envOnce     sync.Once
	envOnceLock sync.Mutex
	skipEnvLoad bool
	loadedFiles []string
)

// defaultEnvFiles 按优先级从高到低排列，高优先级文件最后加载以覆盖前者。
var defaultEnvFiles = []string{".env.local", ".env"}

// LoadEnvFiles 只加载一次 .env 系列文件。
// ENV_FILES 可以用逗号分隔的列表替换默认文件名。
func LoadEnvFiles() []string {
	envOnceLock.Lock()
	skip := skipEnvLoad
	envOnceLock.Unlock()
	if skip || os.Getenv("CONFIG_SKIP_ENV_LOAD") == "1" {
		return nil
	}

	envOnce.Do(func() {
		names := envFileNames()
		// 先加载低优先级文件，再用高优先级文件覆盖。
		for i := len(names) - 1; i >= 0; i-- {
			path, ok := findEnvFile(names[i])
			if !ok {
				continue
			}
			if err := godotenv.Overload(path); err != nil {
				log.Printf("[config] skip environment file %s: %v", path, err)
				continue
			}
			loadedFiles = append(loadedFiles, path)
			log.Printf("[config] loaded environment file: %s", path)
		}
	})
	return loadedFiles
}

// SetEnvFileLoadingForTest 控制是否自动加载 env 文件，仅供测试使用。
func SetEnvFileLoadingForTest(enabled bool) {
	envOnceLock.Lock()
	defer envOnceLock.Unlock()

	skipEnvLoad = !enabled
	envOnce = sync.Once{}
	loadedFiles = nil
}

func envFileNames() []string {
	raw := strings.TrimSpace(os.Getenv("ENV_FILES"))
	if raw == "" {
		return defaultEnvFiles
	}
	names := make([]string, 0, 2)
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return defaultEnvFiles
	}
	return names
}

// findEnvFile 自当前目录向上查找，兼容从 backend/ 或仓库根目录启动。
func findEnvFile(name string) (string, bool) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return name, true
		}
		return "", false
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
