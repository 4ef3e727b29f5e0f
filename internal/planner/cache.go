package planner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const (
	cacheDirName  = "cafeplanner"
	cacheDirPerm  = 0755
	cacheFilePerm = 0600
)

// Cache persists the plan snapshot and activity log as JSON files under the
// user config directory, keyed by account so switching accounts does not
// mix plans. It plays the role the browser client's localStorage did.
type Cache struct {
	dir     string
	account string
}

// NewCache places the cache under os.UserConfigDir. An empty account keys
// the anonymous (not signed-in) snapshot.
func NewCache(account string) (*Cache, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewCacheAt(filepath.Join(base, cacheDirName), account), nil
}

// NewCacheAt uses an explicit directory. Tests use this with t.TempDir.
func NewCacheAt(dir, account string) *Cache {
	return &Cache{dir: dir, account: account}
}

func (c *Cache) LoadPlans() ([]Plan, error) {
	var plans []Plan
	if err := c.load(c.plansPath(), &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *Cache) SavePlans(plans []Plan) error {
	if plans == nil {
		plans = []Plan{}
	}
	return c.save(c.plansPath(), plans)
}

func (c *Cache) LoadActivities() ([]Activity, error) {
	var acts []Activity
	if err := c.load(c.activityPath(), &acts); err != nil {
		return nil, err
	}
	return acts, nil
}

func (c *Cache) SaveActivities(acts []Activity) error {
	if acts == nil {
		acts = []Activity{}
	}
	return c.save(c.activityPath(), acts)
}

func (c *Cache) plansPath() string {
	return filepath.Join(c.dir, "plans_"+sanitizeAccount(c.account)+".json")
}

func (c *Cache) activityPath() string {
	return filepath.Join(c.dir, "activity_"+sanitizeAccount(c.account)+".json")
}

func (c *Cache) load(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, out)
}

func (c *Cache) save(path string, v interface{}) error {
	if err := os.MkdirAll(c.dir, cacheDirPerm); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, cacheFilePerm)
}

func sanitizeAccount(account string) string {
	if account == "" {
		return "local"
	}
	var b strings.Builder
	for _, r := range account {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
