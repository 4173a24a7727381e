package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"controlroom/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// ErrUnknownAlgorithm 表示 manifest 中不存在该算法 ID。
var ErrUnknownAlgorithm = errors.New("unknown algorithm id")

// Manifest 描述单个可回测算法：入口脚本与默认参数。
type Manifest struct {
	ID                string            `json:"id"`
	Name              string            `json:"name,omitempty"`
	Description       string            `json:"description,omitempty"`
	EntryPoint        string            `json:"entryPoint"`
	DefaultParameters map[string]string `json:"defaultParameters,omitempty"`
}

// Catalog 持有算法清单，支持 fsnotify 热加载。
// 读路径只做快照拷贝，重载失败保留旧清单。
type Catalog struct {
	path string

	mu        sync.RWMutex
	manifests []Manifest
	byID      map[string]Manifest
}

// Load 读取并校验算法清单文件；文件缺失视为启动级错误。
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("catalog requires path")
	}
	c := &Catalog{path: path}
	if err := c.reload(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) reload() error {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("missing resource: %s: %w", c.path, err)
	}
	manifests, err := parseManifests(raw)
	if err != nil {
		return fmt.Errorf("catalog %s invalid: %w", c.path, err)
	}
	byID := make(map[string]Manifest, len(manifests))
	for _, m := range manifests {
		if _, dup := byID[m.ID]; dup {
			return fmt.Errorf("catalog %s invalid: duplicate id %q", c.path, m.ID)
		}
		byID[m.ID] = m
	}
	c.mu.Lock()
	c.manifests = manifests
	c.byID = byID
	c.mu.Unlock()
	return nil
}

func parseManifests(raw []byte) ([]Manifest, error) {
	if err := validateSchema(raw); err != nil {
		return nil, err
	}
	var manifests []Manifest
	if err := json.Unmarshal(raw, &manifests); err != nil {
		return nil, err
	}
	return manifests, nil
}

// Watch 监听清单文件变更并热加载，阻塞到 ctx 取消。
// 编辑器常以 rename+create 方式落盘，因此监听所在目录而非单个文件。
func (c *Catalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	dir := filepath.Dir(c.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch catalog dir failed (%s): %w", dir, err)
	}
	target := filepath.Clean(c.path)

	var timer *time.Timer
	reloads := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != target {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
				continue
			}
			// 去抖：写入事件常成串出现。
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(200*time.Millisecond, func() {
				select {
				case reloads <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("[catalog] watcher error: %v", err)
		case <-reloads:
			if err := c.reload(); err != nil {
				logger.Errorf("[catalog] reload failed: %v", err)
				continue
			}
			logger.Infof("[catalog] 清单已热加载（%d 个算法）", len(c.List()))
		}
	}
}

// List 返回清单快照。
func (c *Catalog) List() []Manifest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Manifest, len(c.manifests))
	copy(out, c.manifests)
	return out
}

// Lookup 按 ID 查找 manifest。
func (c *Catalog) Lookup(id string) (Manifest, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Manifest{}, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, id)
	}
	return m, nil
}
